package store_test

import (
	"context"
	"testing"

	"matchdeck/internal/entry"
	"matchdeck/internal/match"
	"matchdeck/internal/store"
	"matchdeck/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if err := st.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if st.Path() != cfg.DatabasePath() {
		t.Fatalf("Path = %q, want %q", st.Path(), cfg.DatabasePath())
	}

	// Reopening an existing database must accept the recorded schema version.
	st2, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	st2.Close()
}

func TestListMatchesOrdersByScoreThenID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedMatch(t, st, "low.mkv", 30, match.StatusPossible)
	first := testsupport.SeedMatch(t, st, "tied-a.mkv", 80, match.StatusLikely)
	second := testsupport.SeedMatch(t, st, "tied-b.mkv", 80, match.StatusLikely)
	testsupport.SeedMatch(t, st, "top.mkv", 95, match.StatusMatched)

	page, err := st.ListMatches(context.Background(), store.MatchFilters{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if page.Total != 4 || page.Pages != 1 {
		t.Fatalf("total/pages = %d/%d, want 4/1", page.Total, page.Pages)
	}
	if got := page.Items[0].NASFilename; got != "top.mkv" {
		t.Fatalf("first item = %q, want top.mkv", got)
	}
	// Equal scores fall back to insertion order.
	if page.Items[1].ID != first.ID || page.Items[2].ID != second.ID {
		t.Fatalf("tied items out of order: %d, %d", page.Items[1].ID, page.Items[2].ID)
	}
}

func TestListMatchesFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedMatch(t, st, "wsop-final.mkv", 95, match.StatusMatched)
	testsupport.SeedMatch(t, st, "wsop-day2.mkv", 62, match.StatusPossible)
	testsupport.SeedMatch(t, st, "cashgame.mkv", 15, match.StatusNotUploaded)

	ctx := context.Background()

	byStatus, err := st.ListMatches(ctx, store.MatchFilters{Status: match.StatusPossible})
	if err != nil {
		t.Fatalf("ListMatches status: %v", err)
	}
	if byStatus.Total != 1 || byStatus.Items[0].NASFilename != "wsop-day2.mkv" {
		t.Fatalf("status filter returned %d items", byStatus.Total)
	}

	minScore, maxScore := 50, 90
	byScore, err := st.ListMatches(ctx, store.MatchFilters{ScoreMin: &minScore, ScoreMax: &maxScore})
	if err != nil {
		t.Fatalf("ListMatches score range: %v", err)
	}
	if byScore.Total != 1 || byScore.Items[0].MatchScore != 62 {
		t.Fatalf("score filter returned %d items", byScore.Total)
	}

	bySearch, err := st.ListMatches(ctx, store.MatchFilters{Search: "wsop"})
	if err != nil {
		t.Fatalf("ListMatches search: %v", err)
	}
	if bySearch.Total != 2 {
		t.Fatalf("search filter returned %d items, want 2", bySearch.Total)
	}
}

func TestListMatchesPagination(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	for i := 0; i < 45; i++ {
		testsupport.SeedMatch(t, st, "file.mkv", 50, match.StatusPossible)
	}

	page, err := st.ListMatches(context.Background(), store.MatchFilters{Page: 3, Limit: 20})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if page.Pages != 3 {
		t.Fatalf("pages = %d, want 3", page.Pages)
	}
	if len(page.Items) != 5 {
		t.Fatalf("last page has %d items, want 5", len(page.Items))
	}
}

func TestGetMatchUnknownID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	m, err := st.GetMatch(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil for unknown id, got %+v", m)
	}
}

func TestUpdateMatchPartial(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seeded := testsupport.SeedMatch(t, st, "file.mkv", 70, match.StatusLikely)

	notes := "double checked against upload log"
	updated, err := st.UpdateMatch(ctx, seeded.ID, store.MatchUpdate{ReviewNotes: &notes})
	if err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}
	if updated.ReviewNotes != notes {
		t.Fatalf("ReviewNotes = %q", updated.ReviewNotes)
	}
	if updated.MatchStatus != match.StatusLikely {
		t.Fatalf("status changed unexpectedly to %s", updated.MatchStatus)
	}
	if updated.VerifiedAt != nil {
		t.Fatal("notes-only update must not stamp verified_at")
	}
}

func TestUpdateMatchReviewerStatusStampsAudit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seeded := testsupport.SeedMatch(t, st, "file.mkv", 70, match.StatusLikely)

	status := match.StatusVerified
	reviewer := "alex"
	updated, err := st.UpdateMatch(ctx, seeded.ID, store.MatchUpdate{Status: &status, VerifiedBy: &reviewer})
	if err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}
	if updated.MatchStatus != match.StatusVerified {
		t.Fatalf("status = %s, want VERIFIED", updated.MatchStatus)
	}
	if updated.VerifiedAt == nil || updated.VerifiedBy != "alex" {
		t.Fatalf("audit stamp missing: at=%v by=%q", updated.VerifiedAt, updated.VerifiedBy)
	}
}

func TestUpdateMatchRejectsUnknownStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	seeded := testsupport.SeedMatch(t, st, "file.mkv", 70, match.StatusLikely)

	bogus := match.Status("SHRUGGED")
	if _, err := st.UpdateMatch(context.Background(), seeded.ID, store.MatchUpdate{Status: &bogus}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestUpdateMatchUnknownID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	notes := "x"
	updated, err := st.UpdateMatch(context.Background(), 999, store.MatchUpdate{ReviewNotes: &notes})
	if err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}
	if updated != nil {
		t.Fatal("expected nil for unknown id")
	}
}

func TestBulkUpdateStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a := testsupport.SeedMatch(t, st, "a.mkv", 70, match.StatusLikely)
	b := testsupport.SeedMatch(t, st, "b.mkv", 72, match.StatusLikely)
	untouched := testsupport.SeedMatch(t, st, "c.mkv", 74, match.StatusLikely)

	updated, err := st.BulkUpdateStatus(ctx, []int64{a.ID, b.ID}, match.StatusVerified, "batch pass")
	if err != nil {
		t.Fatalf("BulkUpdateStatus: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated = %d, want 2", updated)
	}

	got, err := st.GetMatch(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if got.MatchStatus != match.StatusVerified || got.ReviewNotes != "batch pass" {
		t.Fatalf("row not transitioned: %s %q", got.MatchStatus, got.ReviewNotes)
	}

	other, err := st.GetMatch(ctx, untouched.ID)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if other.MatchStatus != match.StatusLikely {
		t.Fatalf("untouched row transitioned to %s", other.MatchStatus)
	}
}

func TestBulkUpdateStatusRejectsEmptyIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, err := st.BulkUpdateStatus(context.Background(), nil, match.StatusVerified, ""); err == nil {
		t.Fatal("expected error for empty id list")
	}
}

func TestVerifyEntryIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seeded := testsupport.SeedEntry(t, st, "WSOP 2023 Main Event", 88, entry.TypeExact)

	verified, newly, err := st.VerifyEntry(ctx, seeded.ID, "alex", "looks right")
	if err != nil {
		t.Fatalf("VerifyEntry: %v", err)
	}
	if !newly || !verified.Verified || verified.VerifiedAt == nil {
		t.Fatalf("first verify: newly=%v verified=%v", newly, verified.Verified)
	}
	firstStamp := *verified.VerifiedAt

	again, newly, err := st.VerifyEntry(ctx, seeded.ID, "blake", "second pass")
	if err != nil {
		t.Fatalf("VerifyEntry again: %v", err)
	}
	if newly {
		t.Fatal("second verify reported newly=true")
	}
	if again.VerifiedBy != "alex" || !again.VerifiedAt.Equal(firstStamp) {
		t.Fatalf("second verify mutated audit stamp: by=%q", again.VerifiedBy)
	}
}

func TestVerifyEntryBatchCountsOnlyFlips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a := testsupport.SeedEntry(t, st, "Event A", 80, entry.TypeExact)
	b := testsupport.SeedEntry(t, st, "Event B", 75, entry.TypePartial)
	c := testsupport.SeedEntry(t, st, "Event C", 60, entry.TypeManual)

	if _, _, err := st.VerifyEntry(ctx, a.ID, "alex", ""); err != nil {
		t.Fatalf("VerifyEntry: %v", err)
	}

	count, requested, err := st.VerifyEntryBatch(ctx, []int64{a.ID, b.ID, c.ID}, "alex")
	if err != nil {
		t.Fatalf("VerifyEntryBatch: %v", err)
	}
	if requested != 3 || count != 2 {
		t.Fatalf("count/requested = %d/%d, want 2/3", count, requested)
	}

	// Re-submitting the same batch flips nothing further.
	count, requested, err = st.VerifyEntryBatch(ctx, []int64{a.ID, b.ID, c.ID}, "alex")
	if err != nil {
		t.Fatalf("VerifyEntryBatch resubmit: %v", err)
	}
	if requested != 3 || count != 0 {
		t.Fatalf("resubmit count/requested = %d/%d, want 0/3", count, requested)
	}
}

func TestVerifyEntryBatchRejectsEmptyIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if _, _, err := st.VerifyEntryBatch(context.Background(), nil, "alex"); err == nil {
		t.Fatal("expected error for empty id list")
	}
}

func TestStatsSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedMatch(t, st, "a.mkv", 95, match.StatusMatched)
	testsupport.SeedMatch(t, st, "b.mkv", 80, match.StatusLikely)
	testsupport.SeedMatch(t, st, "c.mkv", 55, match.StatusPossible)

	summary, err := st.StatsSummary(context.Background())
	if err != nil {
		t.Fatalf("StatsSummary: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("total = %d, want 3", summary.Total)
	}
	if got := summary.ByStatus[string(match.StatusMatched)]; got != 1 {
		t.Fatalf("MATCHED count = %d, want 1", got)
	}
	// Statuses with no rows still appear with zero counts.
	if got, ok := summary.ByStatus[string(match.StatusExcluded)]; !ok || got != 0 {
		t.Fatalf("EXCLUDED count = %d present=%v, want 0 present", got, ok)
	}
	if summary.MatchRate != 66.7 {
		t.Fatalf("match rate = %v, want 66.7", summary.MatchRate)
	}
	if summary.AvgScore != 76.7 {
		t.Fatalf("avg score = %v, want 76.7", summary.AvgScore)
	}
}

func TestStatsSummaryEmptyDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	summary, err := st.StatsSummary(context.Background())
	if err != nil {
		t.Fatalf("StatsSummary: %v", err)
	}
	if summary.Total != 0 || summary.MatchRate != 0 || summary.AvgScore != 0 {
		t.Fatalf("empty summary: %+v", summary)
	}
}

func TestScoreDistribution(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedMatch(t, st, "a.mkv", 0, match.StatusNotUploaded)
	testsupport.SeedMatch(t, st, "b.mkv", 5, match.StatusNotUploaded)
	testsupport.SeedMatch(t, st, "c.mkv", 95, match.StatusMatched)
	testsupport.SeedMatch(t, st, "d.mkv", 100, match.StatusMatched)

	dist, err := st.ScoreDistribution(context.Background(), 10)
	if err != nil {
		t.Fatalf("ScoreDistribution: %v", err)
	}
	if len(dist.Bins) != 10 || len(dist.Counts) != 10 {
		t.Fatalf("bins/counts lengths = %d/%d", len(dist.Bins), len(dist.Counts))
	}
	if dist.Bins[0] != 0 || dist.Bins[9] != 90 {
		t.Fatalf("bin edges = %v", dist.Bins)
	}
	if dist.Counts[0] != 2 {
		t.Fatalf("first bin = %d, want 2", dist.Counts[0])
	}
	// A perfect score lands in the last bin rather than overflowing.
	if dist.Counts[9] != 2 {
		t.Fatalf("last bin = %d, want 2", dist.Counts[9])
	}
}

func TestScoreDistributionRejectsBadBins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	for _, bins := range []int{0, -1, 101} {
		if _, err := st.ScoreDistribution(context.Background(), bins); err == nil {
			t.Fatalf("expected error for bins=%d", bins)
		}
	}
}

func TestNotUploadedCategories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	seed := func(filename, directory string, score int, status match.Status) {
		t.Helper()
		if _, err := st.InsertMatch(ctx, &match.Match{
			NASFilename:  filename,
			NASDirectory: directory,
			MatchScore:   score,
			MatchStatus:  status,
		}); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	seed("wsop-1.mkv", "wsop", 50, match.StatusNotUploaded)
	seed("wsop-2.mkv", "wsop", 10, match.StatusNotUploaded)
	seed("wsop-3.mkv", "wsop", 20, match.StatusPossible) // low score counts too
	seed("hsp-1.mkv", "high-stakes", 0, match.StatusNotUploaded)
	seed("orphan.mkv", "", 5, match.StatusNotUploaded)
	seed("uploaded.mkv", "wsop", 95, match.StatusMatched) // excluded

	breakdown, err := st.NotUploadedCategories(ctx)
	if err != nil {
		t.Fatalf("NotUploadedCategories: %v", err)
	}
	if breakdown.Total != 5 {
		t.Fatalf("total = %d, want 5", breakdown.Total)
	}
	if len(breakdown.Categories) != 3 {
		t.Fatalf("categories = %d, want 3", len(breakdown.Categories))
	}
	top := breakdown.Categories[0]
	if top.Directory != "wsop" || top.Count != 3 {
		t.Fatalf("top category = %q/%d", top.Directory, top.Count)
	}
	if top.Files[0].Filename != "wsop-1.mkv" {
		t.Fatalf("files not ordered by score: %v", top.Files)
	}

	foundUnknown := false
	for _, cat := range breakdown.Categories {
		if cat.Directory == "Unknown" {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Fatal("missing Unknown category for blank directory")
	}
}

func TestNotUploadedForExportReturnsEveryRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	// More rows in one directory than the category file sample holds. The
	// export must still carry all of them.
	for i := 0; i < 7; i++ {
		if _, err := st.InsertMatch(ctx, &match.Match{
			NASFilename:  "archive.mkv",
			NASDirectory: "archive",
			MatchScore:   10 + i,
			MatchStatus:  match.StatusNotUploaded,
		}); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}
	// Satisfies both conditions; must appear exactly once.
	both := testsupport.SeedMatch(t, st, "both.mkv", 5, match.StatusNotUploaded)
	testsupport.SeedMatch(t, st, "low-possible.mkv", 20, match.StatusPossible)
	testsupport.SeedMatch(t, st, "uploaded.mkv", 95, match.StatusMatched)

	items, err := st.NotUploadedForExport(ctx)
	if err != nil {
		t.Fatalf("NotUploadedForExport: %v", err)
	}
	if len(items) != 9 {
		t.Fatalf("rows = %d, want 9", len(items))
	}

	seen := make(map[int64]int)
	for _, m := range items {
		seen[m.ID]++
		if m.NASFilename == "uploaded.mkv" {
			t.Fatal("matched row leaked into not-uploaded export")
		}
	}
	if seen[both.ID] != 1 {
		t.Fatalf("row matching both conditions appeared %d times", seen[both.ID])
	}
	// Ordered by score descending.
	for i := 1; i < len(items); i++ {
		if items[i].MatchScore > items[i-1].MatchScore {
			t.Fatalf("rows out of score order at %d: %v", i, items[i].MatchScore)
		}
	}
}

func TestNotUploadedCategoriesCapsFileSample(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		if _, err := st.InsertMatch(ctx, &match.Match{
			NASFilename:  "file.mkv",
			NASDirectory: "archive",
			MatchScore:   10,
			MatchStatus:  match.StatusNotUploaded,
		}); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	breakdown, err := st.NotUploadedCategories(ctx)
	if err != nil {
		t.Fatalf("NotUploadedCategories: %v", err)
	}
	if breakdown.Categories[0].Count != 8 {
		t.Fatalf("count = %d, want 8", breakdown.Categories[0].Count)
	}
	if len(breakdown.Categories[0].Files) != 5 {
		t.Fatalf("file sample = %d, want 5", len(breakdown.Categories[0].Files))
	}
}
