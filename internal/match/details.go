package match

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Detail is one named sub-score contributing to the aggregate match score.
type Detail struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ParseDetails decodes the match_details column into its ordered sub-scores.
// An empty value yields a nil slice without error.
func ParseDetails(raw string) ([]Detail, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	var details []Detail
	if err := json.Unmarshal([]byte(trimmed), &details); err != nil {
		return nil, fmt.Errorf("parse match details: %w", err)
	}
	return details, nil
}

// EncodeDetails serializes sub-scores for storage, preserving order.
func EncodeDetails(details []Detail) (string, error) {
	if len(details) == 0 {
		return "", nil
	}
	data, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("encode match details: %w", err)
	}
	return string(data), nil
}
