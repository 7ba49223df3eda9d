package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"matchdeck/internal/match"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Dashboard statistics",
	}

	statsCmd.AddCommand(newStatsSummaryCommand(ctx))
	statsCmd.AddCommand(newStatsDistributionCommand(ctx))
	statsCmd.AddCommand(newStatsCategoriesCommand(ctx))

	return statsCmd
}

func newStatsSummaryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Match totals, status breakdown, and match rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			summary, err := apiClient.StatsSummary(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, summary)
			}

			rows := make([][]string, 0, len(summary.ByStatus))
			for _, status := range match.AllStatuses() {
				rows = append(rows, []string{
					status.DisplayLabel(),
					strconv.Itoa(summary.ByStatus[string(status)]),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Status", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			fmt.Fprintf(out, "Total: %d   Match rate: %.1f%%   Average score: %.1f\n",
				summary.Total, summary.MatchRate, summary.AvgScore)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStatsDistributionCommand(ctx *commandContext) *cobra.Command {
	var (
		bins   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Match score histogram",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			dist, err := apiClient.ScoreDistribution(cmd.Context(), bins)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, dist)
			}

			maxCount := 0
			for _, count := range dist.Counts {
				if count > maxCount {
					maxCount = count
				}
			}

			rows := make([][]string, 0, len(dist.Bins))
			for i, edge := range dist.Bins {
				upper := match.ScoreMax
				if i+1 < len(dist.Bins) {
					upper = dist.Bins[i+1] - 1
				}
				count := 0
				if i < len(dist.Counts) {
					count = dist.Counts[i]
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d-%d", edge, upper),
					strconv.Itoa(count),
					histogramBar(count, maxCount),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Score", "Count", ""},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&bins, "bins", 0, "Number of histogram buckets (default from server)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStatsCategoriesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Not-uploaded files grouped by directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			breakdown, err := apiClient.NotUploadedCategories(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, breakdown)
			}

			rows := make([][]string, 0, len(breakdown.Categories))
			for _, category := range breakdown.Categories {
				samples := make([]string, 0, len(category.Files))
				for _, file := range category.Files {
					samples = append(samples, fmt.Sprintf("%s (%d)", file.Filename, file.Score))
				}
				rows = append(rows, []string{
					category.Directory,
					strconv.Itoa(category.Count),
					strings.Join(samples, ", "),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Directory", "Count", "Sample Files"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Total not uploaded: %d\n", breakdown.Total)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

const histogramBarWidth = 40

func histogramBar(count, maxCount int) string {
	if count <= 0 || maxCount <= 0 {
		return ""
	}
	width := count * histogramBarWidth / maxCount
	if width < 1 {
		width = 1
	}
	return strings.Repeat("#", width)
}
