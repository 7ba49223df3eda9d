package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"matchdeck/internal/client"
	"matchdeck/internal/entry"
)

func newEntriesCommand(ctx *commandContext) *cobra.Command {
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "Inspect and verify catalog entries",
	}

	entriesCmd.AddCommand(newEntriesListCommand(ctx))
	entriesCmd.AddCommand(newEntriesShowCommand(ctx))
	entriesCmd.AddCommand(newEntriesVerifyCommand(ctx))
	entriesCmd.AddCommand(newEntriesVerifyBatchCommand(ctx))

	return entriesCmd
}

func newEntriesListCommand(ctx *commandContext) *cobra.Command {
	var (
		matchType string
		verified  bool
		search    string
		page      int
		limit     int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			filters := client.EntryFilters{
				Page:   page,
				Limit:  cfg.Review.PageSize,
				Search: search,
			}
			if limit > 0 {
				filters.Limit = limit
			}
			if matchType != "" {
				parsed, ok := entry.ParseType(matchType)
				if !ok {
					return fmt.Errorf("unknown match type %q", matchType)
				}
				filters.MatchType = string(parsed)
			}
			if cmd.Flags().Changed("verified") {
				filters.Verified = &verified
			}

			resp, err := apiClient.ListEntries(cmd.Context(), filters)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, resp)
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, e := range resp.Items {
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.Title,
					e.ReferenceID,
					e.MatchType,
					strconv.Itoa(e.MatchScore),
					yesNo(e.Verified),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Reference", "Type", "Score", "Verified"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Page %d of %d (%d total)\n", resp.Page, resp.Pages, resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&matchType, "match-type", "", "Filter by match type")
	cmd.Flags().BoolVar(&verified, "verified", false, "Filter by verification state")
	cmd.Flags().StringVar(&search, "search", "", "Substring filter on title")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Items per page (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newEntriesShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog entry in detail",
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

			e, err := apiClient.GetEntry(cmd.Context(), id)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, e)
			}

			pairs := [][2]string{
				{"ID", strconv.FormatInt(e.ID, 10)},
				{"Title", e.Title},
				{"Reference", e.ReferenceID},
				{"Type", e.MatchType},
				{"Score", strconv.Itoa(e.MatchScore)},
				{"Verified", yesNo(e.Verified)},
				{"Verified At", e.VerifiedAt},
				{"Verified By", e.VerifiedBy},
				{"Notes", e.Notes},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(pairs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newEntriesVerifyCommand(ctx *commandContext) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "verify <id>",
		Short: "Mark one catalog entry as verified",
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

			e, err := apiClient.VerifyEntry(cmd.Context(), id, cfg.Review.Reviewer, notes)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Entry %d verified at %s\n", e.ID, e.VerifiedAt)
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Verification notes")
	return cmd
}

func newEntriesVerifyBatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify-batch <id> [id...]",
		Short: "Verify several catalog entries at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
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

			resp, err := apiClient.VerifyEntryBatch(cmd.Context(), ids, cfg.Review.Reviewer)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Verified %d of %d entries (already verified entries are skipped)\n",
				resp.VerifiedCount, resp.TotalRequested)
			return nil
		},
	}

	return cmd
}
