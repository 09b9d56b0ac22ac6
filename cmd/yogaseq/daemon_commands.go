package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"yogaseq/internal/api"
	"yogaseq/internal/daemonctl"
	"yogaseq/internal/preflight"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	var startLogLevel string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the player daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}

			result, err := daemonctl.EnsureStarted(cmd.Context(), ctx.client(), exe,
				daemonctl.LaunchOptions{ConfigPath: ctx.configPath, LogLevel: startLogLevel},
				10*time.Second,
			)
			if err != nil {
				return err
			}

			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintf(stdout, "Daemon started (pid %d) at %s\n", result.Status.PID, ctx.baseURL())
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintf(stdout, "Daemon already running (pid %d)\n", result.Status.PID)
			}
			return nil
		},
	}
	startCmd.Flags().StringVar(&startLogLevel, "log-level", "", "Log level for the launched daemon")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the background daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(cmd.Context(), ctx.configValue(), ctx.client(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(stdout, "Daemon did not exit in time; killed pid %d\n", result.PID)
				return nil
			}
			fmt.Fprintf(stdout, "Daemon stopped (pid %d)\n", result.PID)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and asset status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			cfg := ctx.configValue()

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(out, line)
			}
			status, err := ctx.client().Health(cmd.Context())
			for _, line := range daemonStatusLines(status, err, ctx.baseURL(), colorize) {
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			checkCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			for _, r := range preflight.RunAll(checkCtx, cfg) {
				fmt.Fprintln(out, preflightLine(r, colorize))
			}
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func daemonStatusLines(status api.DaemonStatus, err error, base string, colorize bool) []string {
	if err != nil {
		message := "Not running"
		if !errors.Is(err, api.ErrDaemonUnavailable) {
			message = wrapClientError(err, base).Error()
		}
		return []string{renderStatusLine("Daemon", statusError, message, colorize)}
	}

	lines := []string{
		renderStatusLine("Daemon", statusOK, fmt.Sprintf("Running (pid %d) at %s", status.PID, base), colorize),
		renderStatusLine("Catalogue", statusInfo, fmt.Sprintf("%d asanas, %d plates, %d asanas with images",
			status.Catalog.Records, status.Catalog.Plates, status.Catalog.Asanas), colorize),
		renderStatusLine("Sequences", statusInfo, fmt.Sprintf("%d", status.Sequences), colorize),
		renderStatusLine("Session", statusInfo, fmt.Sprintf("%s, %d browser(s) connected", status.Session, status.Clients), colorize),
	}
	if status.SchemaVersion != "" {
		lines = append(lines, renderStatusLine("Database", statusInfo,
			fmt.Sprintf("%s (schema %s)", status.DatabasePath, status.SchemaVersion), colorize))
	}
	if !status.StartedAt.IsZero() {
		lines = append(lines, renderStatusLine("Uptime", statusInfo,
			time.Since(status.StartedAt).Round(time.Second).String(), colorize))
	}
	for _, warning := range status.Warnings {
		lines = append(lines, renderStatusLine("Load warning", statusWarn, strings.TrimSpace(warning), colorize))
	}
	return lines
}
