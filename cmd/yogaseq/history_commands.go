package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"yogaseq/internal/api"
	"yogaseq/internal/overrides"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List completed practices, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				entries, err := client.History(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No completions recorded")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.CompletedAt.Local().Format("2006-01-02 15:04"),
						e.Title,
						e.SequenceID,
						e.Source,
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Completed", "Title", "Sequence", "Source"}, rows, nil))
				return nil
			})
		},
	}
	historyCmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	historyCmd.AddCommand(newHistoryAddCommand(ctx))
	return historyCmd
}

func newHistoryAddCommand(ctx *commandContext) *cobra.Command {
	var sequenceID, completedAt string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Record a completed practice by hand",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if completedAt != "" {
				if overrides.ParseTime(completedAt).IsZero() {
					return fmt.Errorf("invalid --at %q: use RFC 3339, e.g. %s", completedAt, time.Now().Format(time.RFC3339))
				}
			}
			return ctx.withClient(func(client *api.Client) error {
				resp, err := client.RecordHistory(cmd.Context(), api.HistoryRequest{
					Title:       title,
					SequenceID:  sequenceID,
					CompletedAt: completedAt,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if resp.Status == "stored_locally" {
					fmt.Fprintf(out, "Recorded %q locally; the remote history service was unavailable\n", title)
					return nil
				}
				fmt.Fprintf(out, "Recorded %q\n", title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sequenceID, "sequence", "", "Sequence id the practice followed")
	cmd.Flags().StringVar(&completedAt, "at", "", "Completion time (RFC 3339); defaults to now")
	return cmd
}

func newOverrideCommand(ctx *commandContext) *cobra.Command {
	overrideCmd := &cobra.Command{
		Use:   "override",
		Short: "Edit description and category overrides",
	}

	overrideCmd.AddCommand(&cobra.Command{
		Use:   "set <description|category> <asana-no> <value>",
		Short: "Save an override",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := overrides.ParseKind(args[0])
			if err != nil {
				return err
			}
			value := strings.Join(args[2:], " ")
			return ctx.withClient(func(client *api.Client) error {
				resp, err := client.SetOverride(cmd.Context(), string(kind), args[1], value)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s override for %s at %s\n",
					kind, args[1], resp.UpdatedAt.Local().Format(time.RFC3339))
				return nil
			})
		},
	})

	overrideCmd.AddCommand(&cobra.Command{
		Use:   "clear <description|category> <asana-no>",
		Short: "Remove an override",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := overrides.ParseKind(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *api.Client) error {
				if err := client.ClearOverride(cmd.Context(), string(kind), args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s override for %s\n", kind, args[1])
				return nil
			})
		},
	})

	return overrideCmd
}
