package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"matchdeck/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check local directories and daemon health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			results = append(results, preflight.CheckAPI(cmd.Context(), cfg.API.BaseURL, cfg.Paths.APIToken))

			if asJSON {
				return writeJSON(cmd, results)
			}

			colorize := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
			out := cmd.OutOrStdout()
			for _, result := range results {
				fmt.Fprintln(out, renderCheckLine(result, colorize))
			}

			// Health detail is best-effort; a down daemon already shows up
			// in the check above.
			if apiClient, err := ctx.apiClient(); err == nil {
				if health, err := apiClient.Health(cmd.Context()); err == nil {
					fmt.Fprintf(out, "\nDaemon: %s, %d matches, up %.0fs\n",
						health.Status, health.TotalMatches, health.UptimeSeconds)
					if len(health.Operations) > 0 {
						rows := make([][]string, 0, len(health.Operations))
						for name, op := range health.Operations {
							rows = append(rows, []string{
								name,
								strconv.FormatInt(op.Count, 10),
								fmt.Sprintf("%.1f", op.AvgTimeMs),
								strconv.FormatInt(op.MaxTimeMs, 10),
							})
						}
						fmt.Fprintln(out, renderTable(
							[]string{"Operation", "Count", "Avg ms", "Max ms"},
							rows,
							[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
						))
					}
				}
			}

			if !preflight.AllPassed(results) {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of status lines")
	return cmd
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func renderCheckLine(result preflight.Result, colorize bool) string {
	label := "OK"
	color := ansiGreen
	if !result.Passed {
		label = "ERROR"
		color = ansiRed
	}
	line := fmt.Sprintf("  %-20s [%s] %s", result.Name+":", label, result.Detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}
