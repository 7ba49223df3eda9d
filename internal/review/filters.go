package review

import (
	"net/url"
	"strconv"
)

// Filters is the current query state for a candidate listing.
type Filters struct {
	Page     int
	PageSize int
	Status   string
	ScoreMin *int
	ScoreMax *int
	Search   string
}

// Update is a partial filter change. Nil fields keep their current value.
// An empty Status or Search clears that constraint; a negative score bound
// clears the corresponding range end.
type Update struct {
	Page     *int
	PageSize *int
	Status   *string
	ScoreMin *int
	ScoreMax *int
	Search   *string
}

// DefaultFilters returns the documented initial state: first page, no
// status, score, or search constraints.
func DefaultFilters(pageSize int) Filters {
	if pageSize < 1 {
		pageSize = 20
	}
	return Filters{Page: 1, PageSize: pageSize}
}

// Key produces the canonical cache key for this filter state. Two filter
// states that would issue the same request share a key. Values are escaped
// so a search term containing '&' or '=' cannot collide with a structurally
// different state.
func (f Filters) Key() string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("limit", strconv.Itoa(f.PageSize))
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if f.ScoreMin != nil {
		params.Set("score_min", strconv.Itoa(*f.ScoreMin))
	}
	if f.ScoreMax != nil {
		params.Set("score_max", strconv.Itoa(*f.ScoreMax))
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	return params.Encode()
}

// FilterManager holds the session's filter state and applies partial
// updates with the page-reset rule.
type FilterManager struct {
	current  Filters
	defaults Filters
}

// NewFilterManager seeds a manager with the default state for pageSize.
func NewFilterManager(pageSize int) *FilterManager {
	defaults := DefaultFilters(pageSize)
	return &FilterManager{current: defaults, defaults: defaults}
}

// Current returns the active filter state.
func (m *FilterManager) Current() Filters {
	return m.current
}

// Apply merges update into the current state. The page becomes the update's
// explicit page when present and resets to 1 otherwise, so any filter change
// lands the view back on the first page. Inconsistent score bounds are
// accepted as-is; the server decides what they match.
func (m *FilterManager) Apply(update Update) Filters {
	next := m.current

	if update.PageSize != nil && *update.PageSize > 0 {
		next.PageSize = *update.PageSize
	}
	if update.Status != nil {
		next.Status = *update.Status
	}
	if update.ScoreMin != nil {
		if *update.ScoreMin < 0 {
			next.ScoreMin = nil
		} else {
			bound := *update.ScoreMin
			next.ScoreMin = &bound
		}
	}
	if update.ScoreMax != nil {
		if *update.ScoreMax < 0 {
			next.ScoreMax = nil
		} else {
			bound := *update.ScoreMax
			next.ScoreMax = &bound
		}
	}
	if update.Search != nil {
		next.Search = *update.Search
	}

	if update.Page != nil && *update.Page >= 1 {
		next.Page = *update.Page
	} else {
		next.Page = 1
	}

	m.current = next
	return next
}

// Reset restores the default state.
func (m *FilterManager) Reset() Filters {
	m.current = m.defaults
	return m.current
}

// IntPtr is a convenience for building Update literals.
func IntPtr(v int) *int { return &v }

// StringPtr is a convenience for building Update literals.
func StringPtr(v string) *string { return &v }
