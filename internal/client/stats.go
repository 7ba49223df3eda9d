package client

import (
	"context"
	"net/url"
	"strconv"

	"matchdeck/internal/api"
)

// StatsSummary fetches the dashboard aggregates.
func (c *Client) StatsSummary(ctx context.Context) (*api.StatsSummary, error) {
	var payload api.StatsSummary
	if err := c.get(ctx, c.endpoint("api", "stats", "summary"), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ScoreDistribution fetches the score histogram with the given bin count.
// A bins value below 1 uses the server default.
func (c *Client) ScoreDistribution(ctx context.Context, bins int) (*api.ScoreDistribution, error) {
	endpoint := c.endpoint("api", "stats", "score-distribution")
	if bins > 0 {
		params := url.Values{}
		params.Set("bins", strconv.Itoa(bins))
		endpoint.RawQuery = params.Encode()
	}

	var payload api.ScoreDistribution
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NotUploadedCategories fetches the not-uploaded breakdown by directory.
func (c *Client) NotUploadedCategories(ctx context.Context) (*api.NotUploadedCategories, error) {
	var payload api.NotUploadedCategories
	if err := c.get(ctx, c.endpoint("api", "stats", "not-uploaded-categories"), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Health fetches daemon liveness and operation metrics.
func (c *Client) Health(ctx context.Context) (*api.Health, error) {
	var payload api.Health
	if err := c.get(ctx, c.endpoint("api", "health"), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
