package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"matchdeck/internal/client"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		format string
		dest   string
	)

	cmd := &cobra.Command{
		Use:   "export <report>",
		Short: "Download a report from the daemon",
		Long: `Export downloads a generated report into the export directory.
Reports: "report" (the full match report, optionally status-filtered on the
server) and "not-uploaded" (the category breakdown).`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{client.ExportReport, client.ExportNotUploaded},
		RunE: func(cmd *cobra.Command, args []string) error {
			report := strings.TrimSpace(args[0])
			switch report {
			case client.ExportReport, client.ExportNotUploaded:
			default:
				return fmt.Errorf("unknown report %q", report)
			}

			switch format {
			case "json", "csv":
			default:
				return fmt.Errorf("unknown format %q (json or csv)", format)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			target := strings.TrimSpace(dest)
			if target == "" {
				target = cfg.Paths.ExportDir
			}
			if target == "" {
				return fmt.Errorf("no export directory configured; pass --dest")
			}

			path, err := apiClient.DownloadExport(cmd.Context(), report, format, target)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Report format (json or csv)")
	cmd.Flags().StringVar(&dest, "dest", "", "Destination directory (default from config)")
	return cmd
}
