package review

import (
	"context"
	"time"
)

// Detail is one named sub-score contributing to a candidate's aggregate
// confidence.
type Detail struct {
	Name  string
	Score int
}

// Candidate is a single reviewable record pairing a primary item with a
// possible reference match. A candidate without a reference label has no
// meaningful score.
type Candidate struct {
	ID             int64
	PrimaryLabel   string
	ReferenceLabel string
	HasReference   bool
	Score          int
	Status         string
	Details        []Detail
	VerifiedAt     *time.Time
	VerifiedBy     string
}

// Page is one page of candidates as returned by a Source.
type Page struct {
	Items    []Candidate
	Total    int
	Page     int
	Pages    int
	PageSize int
}

// Source lists candidates for a filter state. Implementations talk to the
// backing API; the engine never originates candidates.
type Source interface {
	List(ctx context.Context, filters Filters) (*Page, error)
}

// Transitioner applies status transitions. Implementations are permissive
// and defer legality checks to the server.
type Transitioner interface {
	ApplySingle(ctx context.Context, id int64, status, notes string) error
	ApplyBatch(ctx context.Context, ids []int64, status, notes string) (int64, error)
}
