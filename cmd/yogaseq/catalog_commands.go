package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"yogaseq/internal/api"
)

func newAsanaCommand(ctx *commandContext) *cobra.Command {
	asanaCmd := &cobra.Command{
		Use:   "asana",
		Short: "Browse the asana catalogue",
	}
	asanaCmd.AddCommand(newAsanaListCommand(ctx))
	asanaCmd.AddCommand(newAsanaShowCommand(ctx))
	return asanaCmd
}

func newAsanaListCommand(ctx *commandContext) *cobra.Command {
	var query, category string
	var imagesOnly, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List or search asanas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				items, err := client.Asanas(cmd.Context(), query, category, imagesOnly)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, items)
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No asanas matched")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, a := range items {
					rows = append(rows, []string{
						a.AsanaNo,
						a.Name,
						a.CategoryLabel,
						strings.Join(a.FinalPlates, ", "),
						strconv.Itoa(len(a.Images)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"No", "Name", "Category", "Final plates", "Images"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Match number, English name or IAST name")
	cmd.Flags().StringVar(&category, "category", "", "Only asanas in this category")
	cmd.Flags().BoolVar(&imagesOnly, "images", false, "Only asanas with at least one image")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newAsanaShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <asana-no>",
		Short: "Show one asana with its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				a, err := client.Asana(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, a)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Asana %s: %s\n", a.AsanaNo, a.Name)
				printField(out, "English", a.English)
				printField(out, "IAST", a.IAST)
				printField(out, "Category", sourced(a.CategoryLabel, a.CategorySource))
				printField(out, "Intermediate", strings.Join(a.IntermediatePlates, ", "))
				printField(out, "Final", strings.Join(a.FinalPlates, ", "))
				printField(out, "Pages", a.Pages)
				printField(out, "Intensity", a.Intensity)
				printField(out, "Description", sourced(a.Description, a.DescriptionSource))
				for _, image := range a.Images {
					printField(out, "Image", image)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <plate>...",
		Short: "Resolve plate identifiers to image URLs",
		Long:  "Resolve one plate to its images, or several plates to a collage of their primary images.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				images, err := client.Resolve(cmd.Context(), args...)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, api.ImagesResponse{Plates: args, Images: images})
				}
				out := cmd.OutOrStdout()
				if len(images) == 0 {
					fmt.Fprintln(out, "No images")
					return nil
				}
				for _, image := range images {
					fmt.Fprintln(out, image)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newSequencesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sequences",
		Short: "List practice sequences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				items, err := client.Sequences(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, items)
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No sequences loaded")
					return nil
				}
				rows := make([][]string, 0, len(items))
				for _, s := range items {
					rows = append(rows, []string{
						s.ID,
						s.Title,
						strconv.Itoa(s.Poses),
						(time.Duration(s.TotalSeconds) * time.Second).String(),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Poses", "Length"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newReloadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to reload assets, overrides and sequences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *api.Client) error {
				report, err := client.Reload(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Reloaded %d asanas, %d plates, %d sequences\n",
					report.Catalog.Records, report.Catalog.Plates, report.Sequences)
				for _, warning := range report.Warnings {
					fmt.Fprintf(out, "warning: %s\n", warning)
				}
				return nil
			})
		},
	}
}

func printField(out io.Writer, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(out, "  %-13s %s\n", label+":", value)
}

func sourced(value, source string) string {
	if value == "" || source == "" {
		return value
	}
	return fmt.Sprintf("%s (%s)", value, source)
}
