package match

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status represents the review lifecycle of a match candidate.
type Status string

const (
	StatusMatched       Status = "MATCHED"
	StatusLikely        Status = "LIKELY"
	StatusPossible      Status = "POSSIBLE"
	StatusNotUploaded   Status = "NOT_UPLOADED"
	StatusVerified      Status = "VERIFIED"
	StatusWrongMatch    Status = "WRONG_MATCH"
	StatusManualMatch   Status = "MANUAL_MATCH"
	StatusUploadPlanned Status = "UPLOAD_PLANNED"
	StatusExcluded      Status = "EXCLUDED"
)

// Score bounds for the matching engine's confidence values.
const (
	ScoreMin = 0
	ScoreMax = 100
)

var allStatuses = []Status{
	StatusMatched,
	StatusLikely,
	StatusPossible,
	StatusNotUploaded,
	StatusVerified,
	StatusWrongMatch,
	StatusManualMatch,
	StatusUploadPlanned,
	StatusExcluded,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Statuses reachable only through an explicit reviewer action.
var reviewerStatuses = map[Status]struct{}{
	StatusVerified:      {},
	StatusWrongMatch:    {},
	StatusManualMatch:   {},
	StatusUploadPlanned: {},
	StatusExcluded:      {},
}

// Match represents a match candidate persisted in SQLite.
type Match struct {
	ID             int64
	NASFilename    string
	NASDirectory   string
	NASSizeBytes   int64
	YouTubeVideoID string
	YouTubeTitle   string
	MatchScore     int
	MatchStatus    Status
	MatchDetails   string // JSON-encoded []Detail, may be empty
	ReviewNotes    string
	VerifiedAt     *time.Time
	VerifiedBy     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsReviewerStatus reports whether a status is reachable only via explicit
// reviewer action.
func IsReviewerStatus(status Status) bool {
	_, ok := reviewerStatuses[status]
	return ok
}

// PrimaryLabel returns the display string for the subject side of the pair.
func (m Match) PrimaryLabel() string {
	return m.NASFilename
}

// ReferenceLabel returns the display string for the matched reference side.
// The boolean is false when no reference match exists, in which case the
// score is not meaningfully comparable and must not be presented as a match.
func (m Match) ReferenceLabel() (string, bool) {
	if strings.TrimSpace(m.YouTubeVideoID) == "" {
		return "", false
	}
	if m.YouTubeTitle != "" {
		return m.YouTubeTitle, true
	}
	return m.YouTubeVideoID, true
}

var titleCaser = cases.Title(language.English)

// DisplayLabel renders a status for human-facing output, e.g. "Wrong Match".
func (s Status) DisplayLabel() string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(string(s), "_", " ")))
}
