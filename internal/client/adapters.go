package client

import (
	"context"
	"time"

	"matchdeck/internal/api"
	"matchdeck/internal/entry"
	"matchdeck/internal/match"
	"matchdeck/internal/review"
)

// MatchSource adapts the match endpoints to the review engine.
type MatchSource struct {
	client *Client
}

// NewMatchSource returns a review source and transitioner over the match
// domain.
func NewMatchSource(c *Client) *MatchSource {
	return &MatchSource{client: c}
}

// List implements review.Source.
func (s *MatchSource) List(ctx context.Context, filters review.Filters) (*review.Page, error) {
	resp, err := s.client.ListMatches(ctx, filters)
	if err != nil {
		return nil, err
	}

	items := make([]review.Candidate, 0, len(resp.Items))
	for _, m := range resp.Items {
		items = append(items, candidateFromMatch(m))
	}
	return &review.Page{
		Items:    items,
		Total:    resp.Total,
		Page:     resp.Page,
		Pages:    resp.Pages,
		PageSize: resp.Limit,
	}, nil
}

// ApplySingle implements review.Transitioner for one match.
func (s *MatchSource) ApplySingle(ctx context.Context, id int64, status, notes string) error {
	update := api.MatchUpdate{MatchStatus: &status}
	if notes != "" {
		update.ReviewNotes = &notes
	}
	_, err := s.client.UpdateMatch(ctx, id, update)
	return err
}

// ApplyBatch implements review.Transitioner for a batch of matches.
func (s *MatchSource) ApplyBatch(ctx context.Context, ids []int64, status, notes string) (int64, error) {
	resp, err := s.client.BulkUpdateMatches(ctx, ids, status, notes)
	if err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

// EntrySource adapts the catalog entry endpoints to the review engine.
// Entry transitions are verifications; the status argument is ignored and
// the notes argument carries the reviewer identity.
type EntrySource struct {
	client     *Client
	verifiedBy string
}

// NewEntrySource returns a review source and transitioner over the entry
// domain, stamping verifications with verifiedBy.
func NewEntrySource(c *Client, verifiedBy string) *EntrySource {
	return &EntrySource{client: c, verifiedBy: verifiedBy}
}

// List implements review.Source.
func (s *EntrySource) List(ctx context.Context, filters review.Filters) (*review.Page, error) {
	resp, err := s.client.ListEntriesForReview(ctx, filters)
	if err != nil {
		return nil, err
	}

	items := make([]review.Candidate, 0, len(resp.Items))
	for _, e := range resp.Items {
		items = append(items, candidateFromEntry(e))
	}
	return &review.Page{
		Items:    items,
		Total:    resp.Total,
		Page:     resp.Page,
		Pages:    resp.Pages,
		PageSize: resp.Limit,
	}, nil
}

// ApplySingle implements review.Transitioner by verifying one entry.
func (s *EntrySource) ApplySingle(ctx context.Context, id int64, status, notes string) error {
	_, err := s.client.VerifyEntry(ctx, id, s.verifiedBy, notes)
	return err
}

// ApplyBatch implements review.Transitioner by batch-verifying entries.
func (s *EntrySource) ApplyBatch(ctx context.Context, ids []int64, status, notes string) (int64, error) {
	resp, err := s.client.VerifyEntryBatch(ctx, ids, s.verifiedBy)
	if err != nil {
		return 0, err
	}
	return int64(resp.VerifiedCount), nil
}

func candidateFromMatch(m api.Match) review.Candidate {
	candidate := review.Candidate{
		ID:             m.ID,
		PrimaryLabel:   m.NASFilename,
		ReferenceLabel: m.YouTubeTitle,
		HasReference:   m.YouTubeTitle != "" || m.YouTubeVideoID != "",
		Score:          m.MatchScore,
		Status:         m.MatchStatus,
		VerifiedBy:     m.VerifiedBy,
	}
	if details, err := match.ParseDetails(m.MatchDetails); err == nil {
		for _, d := range details {
			candidate.Details = append(candidate.Details, review.Detail{Name: d.Name, Score: d.Score})
		}
	}
	if m.VerifiedAt != "" {
		if t, err := time.Parse(time.RFC3339, m.VerifiedAt); err == nil {
			candidate.VerifiedAt = &t
		}
	}
	return candidate
}

func candidateFromEntry(e api.Entry) review.Candidate {
	candidate := review.Candidate{
		ID:             e.ID,
		PrimaryLabel:   e.Title,
		ReferenceLabel: e.ReferenceID,
		HasReference:   e.ReferenceID != "" && e.MatchType != string(entry.TypeNone),
		Score:          e.MatchScore,
		Status:         e.MatchType,
		VerifiedBy:     e.VerifiedBy,
	}
	if e.VerifiedAt != "" {
		if t, err := time.Parse(time.RFC3339, e.VerifiedAt); err == nil {
			candidate.VerifiedAt = &t
		}
	}
	return candidate
}
