package testsupport

import (
	"context"
	"testing"

	"matchdeck/internal/config"
	"matchdeck/internal/entry"
	"matchdeck/internal/match"
	"matchdeck/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedMatch inserts one match row for tests using the provided store.
func SeedMatch(t testing.TB, st *store.Store, filename string, score int, status match.Status) *match.Match {
	t.Helper()

	m, err := st.InsertMatch(context.Background(), &match.Match{
		NASFilename: filename,
		MatchScore:  score,
		MatchStatus: status,
	})
	if err != nil {
		t.Fatalf("store.InsertMatch: %v", err)
	}
	return m
}

// SeedEntry inserts one catalog entry for tests using the provided store.
func SeedEntry(t testing.TB, st *store.Store, title string, score int, matchType entry.MatchType) *entry.Entry {
	t.Helper()

	e, err := st.InsertEntry(context.Background(), &entry.Entry{
		Title:      title,
		MatchScore: score,
		MatchType:  matchType,
	})
	if err != nil {
		t.Fatalf("store.InsertEntry: %v", err)
	}
	return e
}
