package review_test

import (
	"testing"

	"matchdeck/internal/review"
)

func TestApplyResetsPageOnFilterChange(t *testing.T) {
	m := review.NewFilterManager(20)

	m.Apply(review.Update{Page: review.IntPtr(3)})
	if got := m.Current().Page; got != 3 {
		t.Fatalf("page = %d, want 3", got)
	}

	// Changing any other key without an explicit page lands back on page 1.
	next := m.Apply(review.Update{Status: review.StringPtr("POSSIBLE")})
	if next.Page != 1 {
		t.Fatalf("page = %d, want 1 after status change", next.Page)
	}
	if next.Status != "POSSIBLE" {
		t.Fatalf("status = %q", next.Status)
	}

	m.Apply(review.Update{Page: review.IntPtr(4)})
	next = m.Apply(review.Update{Search: review.StringPtr("wsop")})
	if next.Page != 1 {
		t.Fatalf("page = %d, want 1 after search change", next.Page)
	}
}

func TestApplyKeepsExplicitPageAlongsideFilterChange(t *testing.T) {
	m := review.NewFilterManager(20)

	next := m.Apply(review.Update{Page: review.IntPtr(2), Status: review.StringPtr("MATCHED")})
	if next.Page != 2 || next.Status != "MATCHED" {
		t.Fatalf("page/status = %d/%q", next.Page, next.Status)
	}
}

func TestApplyClearsConstraints(t *testing.T) {
	m := review.NewFilterManager(20)

	m.Apply(review.Update{
		Status:   review.StringPtr("LIKELY"),
		ScoreMin: review.IntPtr(40),
		ScoreMax: review.IntPtr(90),
		Search:   review.StringPtr("event"),
	})

	next := m.Apply(review.Update{
		Status:   review.StringPtr(""),
		ScoreMin: review.IntPtr(-1),
		Search:   review.StringPtr(""),
	})
	if next.Status != "" || next.ScoreMin != nil || next.Search != "" {
		t.Fatalf("constraints not cleared: %+v", next)
	}
	if next.ScoreMax == nil || *next.ScoreMax != 90 {
		t.Fatal("untouched score max was dropped")
	}
}

func TestApplyAcceptsInvertedScoreRange(t *testing.T) {
	m := review.NewFilterManager(20)

	// Validation is the server's job; the manager must not reject or crash.
	next := m.Apply(review.Update{ScoreMin: review.IntPtr(80), ScoreMax: review.IntPtr(20)})
	if *next.ScoreMin != 80 || *next.ScoreMax != 20 {
		t.Fatalf("range = %d..%d", *next.ScoreMin, *next.ScoreMax)
	}
}

func TestReset(t *testing.T) {
	m := review.NewFilterManager(25)

	m.Apply(review.Update{Page: review.IntPtr(5), Status: review.StringPtr("MATCHED")})
	next := m.Reset()
	if next.Page != 1 || next.PageSize != 25 || next.Status != "" {
		t.Fatalf("reset state = %+v", next)
	}
}

func TestKeyIsCanonical(t *testing.T) {
	a := review.Filters{Page: 1, PageSize: 20, Status: "POSSIBLE", Search: "wsop"}
	b := review.Filters{Search: "wsop", Status: "POSSIBLE", PageSize: 20, Page: 1}
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %q vs %q", a.Key(), b.Key())
	}

	c := review.Filters{Page: 2, PageSize: 20, Status: "POSSIBLE", Search: "wsop"}
	if a.Key() == c.Key() {
		t.Fatal("different pages share a key")
	}

	minScore := 40
	d := review.Filters{Page: 1, PageSize: 20, ScoreMin: &minScore}
	e := review.Filters{Page: 1, PageSize: 20}
	if d.Key() == e.Key() {
		t.Fatal("score bound not part of key")
	}
}

func TestKeyEscapesValues(t *testing.T) {
	// A search term carrying query syntax must not collide with the filter
	// state it spells out.
	a := review.Filters{Page: 1, PageSize: 20, Search: "a&status=MATCHED"}
	b := review.Filters{Page: 1, PageSize: 20, Search: "a", Status: "MATCHED"}
	if a.Key() == b.Key() {
		t.Fatalf("keys collide: %q", a.Key())
	}

	c := review.Filters{Page: 1, PageSize: 20, Search: "a=b"}
	d := review.Filters{Page: 1, PageSize: 20, Search: "a"}
	if c.Key() == d.Key() {
		t.Fatalf("keys collide: %q", c.Key())
	}
}
