package entry

import (
	"strings"
	"time"
)

// MatchType describes how the matching engine paired an entry with a
// reference.
type MatchType string

const (
	TypeExact       MatchType = "EXACT"
	TypePartial     MatchType = "PARTIAL"
	TypeManual      MatchType = "MANUAL"
	TypeNone        MatchType = "NONE"
	TypePokerGOOnly MatchType = "POKERGO_ONLY"
)

var allTypes = []MatchType{
	TypeExact,
	TypePartial,
	TypeManual,
	TypeNone,
	TypePokerGOOnly,
}

var typeSet = func() map[MatchType]struct{} {
	set := make(map[MatchType]struct{}, len(allTypes))
	for _, t := range allTypes {
		set[t] = struct{}{}
	}
	return set
}()

// Entry represents a catalog entry persisted in SQLite.
type Entry struct {
	ID          int64
	Title       string
	ReferenceID string
	MatchType   MatchType
	MatchScore  int
	Verified    bool
	VerifiedAt  *time.Time
	VerifiedBy  string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AllTypes returns the ordered list of known match types.
func AllTypes() []MatchType {
	cp := make([]MatchType, len(allTypes))
	copy(cp, allTypes)
	return cp
}

// ParseType converts a string into a known MatchType.
func ParseType(value string) (MatchType, bool) {
	normalized := MatchType(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := typeSet[normalized]
	return normalized, ok
}

// PrimaryLabel returns the display string for the subject side of the pair.
func (e Entry) PrimaryLabel() string {
	return e.Title
}

// ReferenceLabel returns the matched reference identifier. The boolean is
// false when the entry has no reference match.
func (e Entry) ReferenceLabel() (string, bool) {
	if e.MatchType == TypeNone || strings.TrimSpace(e.ReferenceID) == "" {
		return "", false
	}
	return e.ReferenceID, true
}
