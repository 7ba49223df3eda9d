package client

import (
	"context"
	"net/url"
	"strconv"

	"matchdeck/internal/api"
	"matchdeck/internal/review"
)

// ListMatches fetches one page of matches for the given filter state.
func (c *Client) ListMatches(ctx context.Context, filters review.Filters) (*api.MatchListResponse, error) {
	endpoint := c.endpoint("api", "matches")
	endpoint.RawQuery = encodeFilters(filters)

	var payload api.MatchListResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMatch fetches a single match by ID.
func (c *Client) GetMatch(ctx context.Context, id int64) (*api.Match, error) {
	var payload api.Match
	if err := c.get(ctx, c.endpoint("api", "matches", strconv.FormatInt(id, 10)), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateMatch applies a partial update and returns the updated match.
func (c *Client) UpdateMatch(ctx context.Context, id int64, update api.MatchUpdate) (*api.Match, error) {
	var payload api.Match
	endpoint := c.endpoint("api", "matches", strconv.FormatInt(id, 10))
	if err := c.write(ctx, "PATCH", endpoint, update, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// BulkUpdateMatches transitions every listed match to status.
func (c *Client) BulkUpdateMatches(ctx context.Context, ids []int64, status, notes string) (*api.BulkUpdateResponse, error) {
	request := api.BulkUpdateRequest{IDs: ids, Status: status, Notes: notes}
	var payload api.BulkUpdateResponse
	if err := c.write(ctx, "POST", c.endpoint("api", "matches", "bulk-update"), request, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func encodeFilters(filters review.Filters) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(filters.Page))
	params.Set("limit", strconv.Itoa(filters.PageSize))
	if filters.Status != "" {
		params.Set("status", filters.Status)
	}
	if filters.ScoreMin != nil {
		params.Set("score_min", strconv.Itoa(*filters.ScoreMin))
	}
	if filters.ScoreMax != nil {
		params.Set("score_max", strconv.Itoa(*filters.ScoreMax))
	}
	if filters.Search != "" {
		params.Set("search", filters.Search)
	}
	return params.Encode()
}
