package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"matchdeck/internal/api"
	"matchdeck/internal/match"
	"matchdeck/internal/review"
)

func newMatchesCommand(ctx *commandContext) *cobra.Command {
	matchesCmd := &cobra.Command{
		Use:   "matches",
		Short: "Inspect and transition match candidates",
	}

	matchesCmd.AddCommand(newMatchesListCommand(ctx))
	matchesCmd.AddCommand(newMatchesShowCommand(ctx))
	matchesCmd.AddCommand(newMatchesUpdateCommand(ctx))
	matchesCmd.AddCommand(newMatchesBulkUpdateCommand(ctx))

	return matchesCmd
}

func newMatchesListCommand(ctx *commandContext) *cobra.Command {
	var (
		status   string
		scoreMin int
		scoreMax int
		search   string
		page     int
		limit    int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List match candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			if status != "" {
				if _, ok := match.ParseStatus(status); !ok {
					return fmt.Errorf("unknown status %q", status)
				}
			}

			filters := review.DefaultFilters(cfg.Review.PageSize)
			filters.Page = page
			if limit > 0 {
				filters.PageSize = limit
			}
			filters.Status = strings.ToUpper(strings.TrimSpace(status))
			filters.Search = search
			if scoreMin >= 0 {
				filters.ScoreMin = review.IntPtr(scoreMin)
			}
			if scoreMax >= 0 {
				filters.ScoreMax = review.IntPtr(scoreMax)
			}

			resp, err := apiClient.ListMatches(cmd.Context(), filters)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, resp)
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, m := range resp.Items {
				rows = append(rows, []string{
					strconv.FormatInt(m.ID, 10),
					m.NASFilename,
					m.YouTubeTitle,
					strconv.Itoa(m.MatchScore),
					m.MatchStatus,
					m.VerifiedBy,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "File", "YouTube Title", "Score", "Status", "Verified By"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Page %d of %d (%d total)\n", resp.Page, resp.Pages, resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by match status")
	cmd.Flags().IntVar(&scoreMin, "score-min", -1, "Minimum match score")
	cmd.Flags().IntVar(&scoreMax, "score-max", -1, "Maximum match score")
	cmd.Flags().StringVar(&search, "search", "", "Substring filter on filename and title")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Items per page (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newMatchesShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one match candidate in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			m, err := apiClient.GetMatch(cmd.Context(), id)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, m)
			}

			pairs := [][2]string{
				{"ID", strconv.FormatInt(m.ID, 10)},
				{"File", m.NASFilename},
				{"Directory", m.NASDirectory},
				{"YouTube Title", m.YouTubeTitle},
				{"YouTube Video", m.YouTubeVideoID},
				{"Score", strconv.Itoa(m.MatchScore)},
				{"Status", m.MatchStatus},
				{"Review Notes", m.ReviewNotes},
				{"Verified At", m.VerifiedAt},
				{"Verified By", m.VerifiedBy},
			}
			if details, err := match.ParseDetails(m.MatchDetails); err == nil {
				for _, d := range details {
					pairs = append(pairs, [2]string{"  " + d.Name, strconv.Itoa(d.Score)})
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(pairs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newMatchesUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		status  string
		notes   string
		videoID string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Apply a partial update to a match candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			var update api.MatchUpdate
			if cmd.Flags().Changed("status") {
				parsed, ok := match.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				value := string(parsed)
				update.MatchStatus = &value
				if match.IsReviewerStatus(parsed) && cfg.Review.Reviewer != "" {
					update.VerifiedBy = &cfg.Review.Reviewer
				}
			}
			if cmd.Flags().Changed("notes") {
				update.ReviewNotes = &notes
			}
			if cmd.Flags().Changed("video-id") {
				update.YouTubeVideoID = &videoID
			}
			if cmd.Flags().Changed("title") {
				update.YouTubeTitle = &title
			}
			if update == (api.MatchUpdate{}) {
				return fmt.Errorf("nothing to update; pass at least one of --status, --notes, --video-id, --title")
			}

			updated, err := apiClient.UpdateMatch(cmd.Context(), id, update)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Match %d is now %s\n", updated.ID, updated.MatchStatus)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New match status")
	cmd.Flags().StringVar(&notes, "notes", "", "Review notes")
	cmd.Flags().StringVar(&videoID, "video-id", "", "YouTube video ID")
	cmd.Flags().StringVar(&title, "title", "", "YouTube title")
	return cmd
}

func newMatchesBulkUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		status string
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "bulk-update <id> [id...]",
		Short: "Transition several match candidates at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			parsed, ok := match.ParseStatus(status)
			if !ok {
				return fmt.Errorf("unknown status %q", status)
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			resp, err := apiClient.BulkUpdateMatches(cmd.Context(), ids, string(parsed), notes)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d of %d matches to %s\n", resp.Updated, len(ids), resp.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Target match status")
	cmd.Flags().StringVar(&notes, "notes", "", "Review notes appended to each match")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
