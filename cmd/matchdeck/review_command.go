package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"matchdeck/internal/client"
	"matchdeck/internal/listcache"
	"matchdeck/internal/match"
	"matchdeck/internal/review"
)

var reviewStatusKeys = map[string]match.Status{
	"v": match.StatusVerified,
	"w": match.StatusWrongMatch,
	"m": match.StatusManualMatch,
	"u": match.StatusUploadPlanned,
	"x": match.StatusExcluded,
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var (
		status     string
		scoreMin   int
		scoreMax   int
		search     string
		limit      int
		useEntries bool
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review candidates interactively",
		Long: `Review walks match candidates one at a time. Single-key commands
transition the current candidate, move the cursor, or manage the batch
selection. Catalog entries can be reviewed instead with --entries; entry
transitions are verifications and ignore the status keys' distinctions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				return errors.New("interactive review requires a terminal")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := ctx.apiClient()
			if err != nil {
				return err
			}

			pageSize := cfg.Review.PageSize
			if limit > 0 {
				pageSize = limit
			}
			staleness := time.Duration(cfg.Review.StalenessSeconds) * time.Second
			cache := listcache.New[*review.Page](staleness)

			var session *review.Session
			if useEntries {
				source := client.NewEntrySource(apiClient, cfg.Review.Reviewer)
				session = review.NewSession(source, source, cache, "entries", pageSize, nil, nil)
			} else {
				source := client.NewMatchSource(apiClient)
				session = review.NewSession(source, source, cache, "matches", pageSize, nil, nil)
			}

			update := review.Update{}
			if status != "" {
				parsed, ok := match.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				update.Status = review.StringPtr(string(parsed))
			}
			if scoreMin >= 0 {
				update.ScoreMin = review.IntPtr(scoreMin)
			}
			if scoreMax >= 0 {
				update.ScoreMax = review.IntPtr(scoreMax)
			}
			if search != "" {
				update.Search = review.StringPtr(search)
			}
			session.SetFilters(update)

			if _, err := session.Refresh(cmd.Context()); err != nil {
				return err
			}
			return runReviewLoop(cmd, session)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by match status")
	cmd.Flags().IntVar(&scoreMin, "score-min", -1, "Minimum match score")
	cmd.Flags().IntVar(&scoreMax, "score-max", -1, "Maximum match score")
	cmd.Flags().StringVar(&search, "search", "", "Substring filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "Candidates per page (default from config)")
	cmd.Flags().BoolVar(&useEntries, "entries", false, "Review catalog entries instead of matches")
	return cmd
}

func runReviewLoop(cmd *cobra.Command, session *review.Session) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	printReviewHelp(out)
	for {
		renderReviewCandidate(out, session)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}

		line := strings.TrimSpace(strings.ToLower(scanner.Text()))
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch key := fields[0]; key {
		case "q", "quit":
			return nil
		case "?", "h", "help":
			printReviewHelp(out)
		case "n", "next":
			err = reviewMove(cmd, out, session.Next)
		case "p", "prev":
			err = reviewMove(cmd, out, session.Prev)
		case "s", "select":
			if candidate, ok := session.CandidateAt(); ok {
				session.Selection().Toggle(candidate.ID)
				fmt.Fprintf(out, "Selection: %d candidates\n", session.Selection().Len())
			}
		case "a", "all":
			if page := session.Current(); page != nil {
				visible := make([]int64, 0, len(page.Items))
				for _, candidate := range page.Items {
					visible = append(visible, candidate.ID)
				}
				session.Selection().SelectAllVisible(visible)
				fmt.Fprintf(out, "Selection: %d candidates\n", session.Selection().Len())
			}
		case "c", "clear":
			session.Selection().Clear()
			fmt.Fprintln(out, "Selection cleared")
		case "b", "batch":
			if len(fields) < 2 {
				fmt.Fprintln(out, "Usage: b <v|w|m|u|x>")
				continue
			}
			target, ok := reviewStatusKeys[fields[1]]
			if !ok {
				fmt.Fprintf(out, "Unknown status key %q\n", fields[1])
				continue
			}
			var updated int64
			updated, err = session.ApplyBatchSelected(cmd.Context(), string(target), "")
			if err == nil {
				fmt.Fprintf(out, "Updated %d candidates\n", updated)
			}
		default:
			target, ok := reviewStatusKeys[key]
			if !ok {
				fmt.Fprintf(out, "Unknown command %q (? for help)\n", key)
				continue
			}
			err = session.ApplyStatus(cmd.Context(), string(target), "")
		}

		if errors.Is(err, review.ErrSuperseded) {
			_, err = session.Refresh(cmd.Context())
		}
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func reviewMove(cmd *cobra.Command, out io.Writer, move func(context.Context) (bool, error)) error {
	moved, err := move(cmd.Context())
	if err != nil {
		return err
	}
	if !moved {
		fmt.Fprintln(out, "Already at the end of the list.")
	}
	return nil
}

func renderReviewCandidate(out io.Writer, session *review.Session) {
	page := session.Current()
	if page == nil || page.Total == 0 {
		fmt.Fprintln(out, "No candidates match the current filters.")
		return
	}

	candidate, ok := session.CandidateAt()
	if !ok {
		fmt.Fprintln(out, "Cursor is past the end of the list.")
		return
	}

	cursor := session.Cursor()
	fmt.Fprintf(out, "\nCandidate %d of %d (page %d/%d)\n",
		cursor.Ordinal()+1, page.Total, page.Page, page.Pages)

	pairs := [][2]string{
		{"ID", strconv.FormatInt(candidate.ID, 10)},
		{"Subject", candidate.PrimaryLabel},
	}
	if candidate.HasReference {
		pairs = append(pairs,
			[2]string{"Reference", candidate.ReferenceLabel},
			[2]string{"Score", strconv.Itoa(candidate.Score)},
		)
	} else {
		pairs = append(pairs, [2]string{"Reference", "(none)"})
	}
	pairs = append(pairs, [2]string{"Status", candidate.Status})
	for _, detail := range candidate.Details {
		pairs = append(pairs, [2]string{"  " + detail.Name, strconv.Itoa(detail.Score)})
	}
	if candidate.VerifiedBy != "" {
		pairs = append(pairs, [2]string{"Verified By", candidate.VerifiedBy})
	}
	if session.Selection().Contains(candidate.ID) {
		pairs = append(pairs, [2]string{"Selected", "yes"})
	}
	fmt.Fprintln(out, renderKeyValues(pairs))
}

func printReviewHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  v/w/m/u/x  verify / wrong match / manual match / upload planned / exclude
  n / p      next / previous candidate
  s          toggle selection of the current candidate
  a          select or deselect all candidates on this page
  c          clear the selection
  b <key>    apply a status to every selected candidate
  q          quit`)
}
