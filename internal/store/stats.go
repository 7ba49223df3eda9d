package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"matchdeck/internal/api"
	"matchdeck/internal/match"
)

// notUploadedScoreCeiling groups low-confidence rows with explicitly
// not-uploaded ones in the category breakdown.
const notUploadedScoreCeiling = 40

// maxCategoryFiles caps the per-directory file sample in the breakdown.
const maxCategoryFiles = 5

// StatsSummary aggregates totals, per-status counts, match rate, and the
// average score for the dashboard.
func (s *Store) StatsSummary(ctx context.Context) (*api.StatsSummary, error) {
	byStatus := make(map[string]int, len(match.AllStatuses()))
	for _, status := range match.AllStatuses() {
		byStatus[string(status)] = 0
	}

	rows, err := s.db.QueryContext(ctx, `SELECT match_status, COUNT(1) FROM content_mapping GROUP BY match_status`)
	if err != nil {
		return nil, fmt.Errorf("stats summary: %w", err)
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		byStatus[status] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var avgScore float64
	if total > 0 {
		row := s.db.QueryRowContext(ctx, `SELECT AVG(match_score) FROM content_mapping`)
		if err := row.Scan(&avgScore); err != nil {
			return nil, fmt.Errorf("average score: %w", err)
		}
	}

	matchRate := 0.0
	if total > 0 {
		matched := byStatus[string(match.StatusMatched)] + byStatus[string(match.StatusLikely)]
		matchRate = float64(matched) / float64(total) * 100
	}

	return &api.StatsSummary{
		Total:     total,
		ByStatus:  byStatus,
		MatchRate: round1(matchRate),
		AvgScore:  round1(avgScore),
	}, nil
}

// ScoreDistribution builds a histogram of match scores over [0, 100] with the
// requested number of bins. Scores at or above the last bin's lower edge land
// in the last bin.
func (s *Store) ScoreDistribution(ctx context.Context, bins int) (*api.ScoreDistribution, error) {
	if bins < 1 || bins > match.ScoreMax {
		return nil, fmt.Errorf("bins must be between 1 and %d, got %d", match.ScoreMax, bins)
	}

	binSize := match.ScoreMax / bins
	if binSize < 1 {
		binSize = 1
	}

	edges := make([]int, 0, bins)
	for edge := 0; len(edges) < bins; edge += binSize {
		edges = append(edges, edge)
	}
	counts := make([]int, bins)

	rows, err := s.db.QueryContext(ctx, `SELECT match_score FROM content_mapping`)
	if err != nil {
		return nil, fmt.Errorf("score distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		if score < 0 {
			score = 0
		}
		idx := score / binSize
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &api.ScoreDistribution{Bins: edges, Counts: counts}, nil
}

// NotUploadedCategories groups not-uploaded and low-scoring matches by NAS
// directory, largest categories first, sampling up to five files each.
func (s *Store) NotUploadedCategories(ctx context.Context) (*api.NotUploadedCategories, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT nas_directory, nas_filename, match_score FROM content_mapping
         WHERE match_status = ? OR match_score < ?
         ORDER BY nas_directory, match_score DESC, id ASC`,
		match.StatusNotUploaded,
		notUploadedScoreCeiling,
	)
	if err != nil {
		return nil, fmt.Errorf("not-uploaded categories: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string]*api.CategoryCount)
	var order []string
	total := 0

	for rows.Next() {
		var filename string
		var score int
		var dirNull sql.NullString
		if err := rows.Scan(&dirNull, &filename, &score); err != nil {
			return nil, err
		}
		directory := dirNull.String
		if directory == "" {
			directory = "Unknown"
		}

		cat, ok := grouped[directory]
		if !ok {
			cat = &api.CategoryCount{Directory: directory}
			grouped[directory] = cat
			order = append(order, directory)
		}
		cat.Count++
		total++
		if len(cat.Files) < maxCategoryFiles {
			cat.Files = append(cat.Files, api.CategoryFile{Filename: filename, Score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	categories := make([]api.CategoryCount, 0, len(order))
	for _, dir := range order {
		categories = append(categories, *grouped[dir])
	}
	// Largest categories first; ties keep directory scan order.
	for i := 1; i < len(categories); i++ {
		for j := i; j > 0 && categories[j].Count > categories[j-1].Count; j-- {
			categories[j], categories[j-1] = categories[j-1], categories[j]
		}
	}

	return &api.NotUploadedCategories{Total: total, Categories: categories}, nil
}

// CountMatches returns the total number of match rows.
func (s *Store) CountMatches(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_mapping`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return total, nil
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
