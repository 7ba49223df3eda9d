package client

import (
	"context"
	"net/url"
	"strconv"

	"matchdeck/internal/api"
	"matchdeck/internal/review"
)

// EntryFilters narrows an entry listing.
type EntryFilters struct {
	Page      int
	Limit     int
	MatchType string
	Verified  *bool
	Search    string
}

// ListEntries fetches one page of catalog entries.
func (c *Client) ListEntries(ctx context.Context, filters EntryFilters) (*api.EntryListResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(filters.Page))
	params.Set("limit", strconv.Itoa(filters.Limit))
	if filters.MatchType != "" {
		params.Set("match_type", filters.MatchType)
	}
	if filters.Verified != nil {
		params.Set("verified", strconv.FormatBool(*filters.Verified))
	}
	if filters.Search != "" {
		params.Set("search", filters.Search)
	}

	endpoint := c.endpoint("api", "entries")
	endpoint.RawQuery = params.Encode()

	var payload api.EntryListResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListEntriesForReview adapts a review filter state to the entry listing.
// The review status filter maps onto match_type.
func (c *Client) ListEntriesForReview(ctx context.Context, filters review.Filters) (*api.EntryListResponse, error) {
	return c.ListEntries(ctx, EntryFilters{
		Page:      filters.Page,
		Limit:     filters.PageSize,
		MatchType: filters.Status,
		Search:    filters.Search,
	})
}

// GetEntry fetches a single entry by ID.
func (c *Client) GetEntry(ctx context.Context, id int64) (*api.Entry, error) {
	var payload api.Entry
	if err := c.get(ctx, c.endpoint("api", "entries", strconv.FormatInt(id, 10)), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// VerifyEntry marks one entry verified. Verifying an already-verified entry
// succeeds without changing its audit stamp.
func (c *Client) VerifyEntry(ctx context.Context, id int64, verifiedBy, notes string) (*api.Entry, error) {
	request := api.VerifyRequest{VerifiedBy: verifiedBy, Notes: notes}
	var payload api.Entry
	endpoint := c.endpoint("api", "entries", strconv.FormatInt(id, 10), "verify")
	if err := c.write(ctx, "POST", endpoint, request, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// VerifyEntryBatch verifies every listed entry. The response's count covers
// only newly flipped entries; callers display it without re-deriving.
func (c *Client) VerifyEntryBatch(ctx context.Context, ids []int64, verifiedBy string) (*api.VerifyBatchResponse, error) {
	request := api.VerifyBatchRequest{EntryIDs: ids, VerifiedBy: verifiedBy}
	var payload api.VerifyBatchResponse
	if err := c.write(ctx, "POST", c.endpoint("api", "entries", "verify-batch"), request, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
