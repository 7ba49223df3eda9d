package api

import (
	"time"

	"matchdeck/internal/entry"
	"matchdeck/internal/match"
)

// Match is the wire representation of a match candidate.
type Match struct {
	ID             int64  `json:"id"`
	NASFilename    string `json:"nas_filename"`
	NASDirectory   string `json:"nas_directory,omitempty"`
	NASSizeBytes   int64  `json:"nas_size_bytes,omitempty"`
	YouTubeVideoID string `json:"youtube_video_id,omitempty"`
	YouTubeTitle   string `json:"youtube_title,omitempty"`
	MatchScore     int    `json:"match_score"`
	MatchStatus    string `json:"match_status"`
	MatchDetails   string `json:"match_details,omitempty"`
	ReviewNotes    string `json:"review_notes,omitempty"`
	VerifiedAt     string `json:"verified_at,omitempty"`
	VerifiedBy     string `json:"verified_by,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// MatchListResponse is the paginated match collection shape.
type MatchListResponse struct {
	Items []Match `json:"items"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Pages int     `json:"pages"`
	Limit int     `json:"limit"`
}

// MatchUpdate carries a PATCH /api/matches/{id} body. Nil fields are left
// untouched.
type MatchUpdate struct {
	MatchStatus    *string `json:"match_status,omitempty"`
	YouTubeVideoID *string `json:"youtube_video_id,omitempty"`
	YouTubeTitle   *string `json:"youtube_title,omitempty"`
	ReviewNotes    *string `json:"review_notes,omitempty"`
	VerifiedBy     *string `json:"verified_by,omitempty"`
}

// BulkUpdateRequest carries a POST /api/matches/bulk-update body.
type BulkUpdateRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status"`
	Notes  string  `json:"notes,omitempty"`
}

// BulkUpdateResponse reports how many rows a bulk update touched.
type BulkUpdateResponse struct {
	Updated int64  `json:"updated"`
	Status  string `json:"status"`
}

// Entry is the wire representation of a catalog entry.
type Entry struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReferenceID string `json:"reference_id,omitempty"`
	MatchType   string `json:"match_type"`
	MatchScore  int    `json:"match_score"`
	Verified    bool   `json:"verified"`
	VerifiedAt  string `json:"verified_at,omitempty"`
	VerifiedBy  string `json:"verified_by,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// EntryListResponse is the paginated entry collection shape.
type EntryListResponse struct {
	Items []Entry `json:"items"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Pages int     `json:"pages"`
	Limit int     `json:"limit"`
}

// VerifyRequest carries a POST /api/entries/{id}/verify body.
type VerifyRequest struct {
	VerifiedBy string `json:"verified_by,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// VerifyBatchRequest carries a POST /api/entries/verify-batch body.
type VerifyBatchRequest struct {
	EntryIDs   []int64 `json:"entry_ids"`
	VerifiedBy string  `json:"verified_by,omitempty"`
}

// VerifyBatchResponse reports the server-side idempotent verification count.
// VerifiedCount covers only entries actually flipped by this request; callers
// display it as-is and never re-derive it.
type VerifyBatchResponse struct {
	VerifiedCount  int `json:"verified_count"`
	TotalRequested int `json:"total_requested"`
}

// StatsSummary is the dashboard aggregate shape.
type StatsSummary struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	MatchRate float64        `json:"match_rate"`
	AvgScore  float64        `json:"avg_score"`
}

// ScoreDistribution is the histogram shape: Bins holds the lower edge of
// each bucket, Counts the per-bucket totals.
type ScoreDistribution struct {
	Bins   []int `json:"bins"`
	Counts []int `json:"counts"`
}

// CategoryFile is one file listed under a not-uploaded category.
type CategoryFile struct {
	Filename string `json:"filename"`
	Score    int    `json:"score"`
}

// CategoryCount groups not-uploaded files by directory.
type CategoryCount struct {
	Directory string         `json:"directory"`
	Count     int            `json:"count"`
	Files     []CategoryFile `json:"files"`
}

// NotUploadedCategories is the category breakdown shape.
type NotUploadedCategories struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// Health reports daemon liveness and operation metrics.
type Health struct {
	Status        string               `json:"status"`
	DBPath        string               `json:"db_path"`
	TotalMatches  int                  `json:"total_matches"`
	UptimeSeconds float64              `json:"uptime_seconds"`
	Operations    map[string]OpMetrics `json:"operations,omitempty"`
}

// OpMetrics summarizes one operation type for the health endpoint.
type OpMetrics struct {
	Count     int64   `json:"count"`
	AvgTimeMs float64 `json:"avg_time_ms"`
	MinTimeMs int64   `json:"min_time_ms"`
	MaxTimeMs int64   `json:"max_time_ms"`
}

// ErrorResponse is the error payload for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromMatch converts a domain match into its wire representation.
func FromMatch(m *match.Match) Match {
	dto := Match{
		ID:             m.ID,
		NASFilename:    m.NASFilename,
		NASDirectory:   m.NASDirectory,
		NASSizeBytes:   m.NASSizeBytes,
		YouTubeVideoID: m.YouTubeVideoID,
		YouTubeTitle:   m.YouTubeTitle,
		MatchScore:     m.MatchScore,
		MatchStatus:    string(m.MatchStatus),
		MatchDetails:   m.MatchDetails,
		ReviewNotes:    m.ReviewNotes,
		VerifiedBy:     m.VerifiedBy,
		CreatedAt:      formatTime(m.CreatedAt),
		UpdatedAt:      formatTime(m.UpdatedAt),
	}
	if m.VerifiedAt != nil {
		dto.VerifiedAt = formatTime(*m.VerifiedAt)
	}
	return dto
}

// FromMatches converts a slice of domain matches.
func FromMatches(matches []*match.Match) []Match {
	items := make([]Match, 0, len(matches))
	for _, m := range matches {
		items = append(items, FromMatch(m))
	}
	return items
}

// FromEntry converts a domain entry into its wire representation.
func FromEntry(e *entry.Entry) Entry {
	dto := Entry{
		ID:          e.ID,
		Title:       e.Title,
		ReferenceID: e.ReferenceID,
		MatchType:   string(e.MatchType),
		MatchScore:  e.MatchScore,
		Verified:    e.Verified,
		VerifiedBy:  e.VerifiedBy,
		Notes:       e.Notes,
		CreatedAt:   formatTime(e.CreatedAt),
		UpdatedAt:   formatTime(e.UpdatedAt),
	}
	if e.VerifiedAt != nil {
		dto.VerifiedAt = formatTime(*e.VerifiedAt)
	}
	return dto
}

// FromEntries converts a slice of domain entries.
func FromEntries(entries []*entry.Entry) []Entry {
	items := make([]Entry, 0, len(entries))
	for _, e := range entries {
		items = append(items, FromEntry(e))
	}
	return items
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
