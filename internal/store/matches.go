package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchdeck/internal/match"
)

// MatchFilters narrows a match listing. Zero values mean "no constraint".
// Validation of the score range is deliberately left to callers' servers;
// an inverted range simply matches nothing.
type MatchFilters struct {
	Page     int
	Limit    int
	Status   match.Status
	ScoreMin *int
	ScoreMax *int
	Search   string
}

// MatchPage is one page of a filtered match listing.
type MatchPage struct {
	Items []*match.Match
	Total int
	Page  int
	Pages int
	Limit int
}

// MatchUpdate describes a partial update. Nil fields are left untouched.
type MatchUpdate struct {
	Status         *match.Status
	YouTubeVideoID *string
	YouTubeTitle   *string
	ReviewNotes    *string
	VerifiedBy     *string
}

// InsertMatch adds a candidate produced by the matching engine's import.
func (s *Store) InsertMatch(ctx context.Context, m *match.Match) (*match.Match, error) {
	if m == nil {
		return nil, errors.New("match is nil")
	}
	if _, ok := match.ParseStatus(string(m.MatchStatus)); !ok {
		return nil, fmt.Errorf("unknown match status %q", m.MatchStatus)
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO content_mapping (
            nas_filename, nas_directory, nas_size_bytes, youtube_video_id,
            youtube_title, match_score, match_status, match_details,
            review_notes, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.NASFilename,
		nullableString(m.NASDirectory),
		m.NASSizeBytes,
		nullableString(m.YouTubeVideoID),
		nullableString(m.YouTubeTitle),
		m.MatchScore,
		m.MatchStatus,
		nullableString(m.MatchDetails),
		nullableString(m.ReviewNotes),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetMatch(ctx, id)
}

// GetMatch fetches a match by identifier. Returns nil without error when the
// id is unknown.
func (s *Store) GetMatch(ctx context.Context, id int64) (*match.Match, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM content_mapping WHERE id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

// ListMatches returns one page of matches ordered by score descending then id
// ascending, applying the provided filters.
func (s *Store) ListMatches(ctx context.Context, filters MatchFilters) (*MatchPage, error) {
	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 20
	}

	where, args := buildMatchWhere(filters)

	var total int
	countQuery := `SELECT COUNT(*) FROM content_mapping` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count matches: %w", err)
	}

	pages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	query := `SELECT ` + matchColumns + ` FROM content_mapping` + where +
		` ORDER BY match_score DESC, id ASC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var items []*match.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &MatchPage{Items: items, Total: total, Page: page, Pages: pages, Limit: limit}, nil
}

// UpdateMatch applies a partial update and returns the updated row. Returns
// nil without error when the id is unknown. Transitions into a reviewer
// status stamp verified_at/verified_by; the update is otherwise permissive,
// matching the engine's contract that transition legality lives server-side.
func (s *Store) UpdateMatch(ctx context.Context, id int64, update MatchUpdate) (*match.Match, error) {
	existing, err := s.GetMatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	setParts := make([]string, 0, 6)
	args := make([]any, 0, 8)

	if update.Status != nil {
		status, ok := match.ParseStatus(string(*update.Status))
		if !ok {
			return nil, fmt.Errorf("unknown match status %q", *update.Status)
		}
		setParts = append(setParts, "match_status = ?")
		args = append(args, status)

		if match.IsReviewerStatus(status) && existing.MatchStatus != status {
			setParts = append(setParts, "verified_at = ?")
			args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
			if update.VerifiedBy != nil {
				setParts = append(setParts, "verified_by = ?")
				args = append(args, nullableString(*update.VerifiedBy))
			}
		}
	}
	if update.YouTubeVideoID != nil {
		setParts = append(setParts, "youtube_video_id = ?")
		args = append(args, nullableString(*update.YouTubeVideoID))
	}
	if update.YouTubeTitle != nil {
		setParts = append(setParts, "youtube_title = ?")
		args = append(args, nullableString(*update.YouTubeTitle))
	}
	if update.ReviewNotes != nil {
		setParts = append(setParts, "review_notes = ?")
		args = append(args, nullableString(*update.ReviewNotes))
	}

	if len(setParts) == 0 {
		return existing, nil
	}

	setParts = append(setParts, "updated_at = ?")
	query := "UPDATE content_mapping SET " + strings.Join(setParts, ", ") + " WHERE id = ?"
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), id)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update match: %w", err)
	}
	return s.GetMatch(ctx, id)
}

// BulkUpdateStatus transitions every listed match to the given status and
// returns the number of rows touched. Already-transitioned rows are updated
// again without harm; the operation is idempotent in observable effect.
func (s *Store) BulkUpdateStatus(ctx context.Context, ids []int64, status match.Status, notes string) (int64, error) {
	if len(ids) == 0 {
		return 0, errors.New("no ids provided")
	}
	if _, ok := match.ParseStatus(string(status)); !ok {
		return 0, fmt.Errorf("unknown match status %q", status)
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+3)
	args = append(args, status, nullableString(notes), time.Now().UTC().Format(time.RFC3339Nano))
	for _, id := range ids {
		args = append(args, id)
	}

	query := `UPDATE content_mapping
        SET match_status = ?, review_notes = COALESCE(?, review_notes), updated_at = ?
        WHERE id IN (` + placeholders + `)`
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update matches: %w", err)
	}
	return res.RowsAffected()
}

// AllMatchesForExport returns every match, optionally restricted to one
// status, in export order.
func (s *Store) AllMatchesForExport(ctx context.Context, status match.Status) ([]*match.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM content_mapping`
	var args []any
	if status != "" {
		query += ` WHERE match_status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY match_score DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("export matches: %w", err)
	}
	defer rows.Close()

	var items []*match.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// NotUploadedForExport returns every match that is explicitly NOT_UPLOADED
// or scored below the not-uploaded ceiling, in export order. A single query
// keeps rows matching both conditions unique.
func (s *Store) NotUploadedForExport(ctx context.Context) ([]*match.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM content_mapping
        WHERE match_status = ? OR match_score < ?
        ORDER BY match_score DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, match.StatusNotUploaded, notUploadedScoreCeiling)
	if err != nil {
		return nil, fmt.Errorf("export not-uploaded: %w", err)
	}
	defer rows.Close()

	var items []*match.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func buildMatchWhere(filters MatchFilters) (string, []any) {
	var conditions []string
	var args []any

	if filters.Status != "" {
		conditions = append(conditions, "match_status = ?")
		args = append(args, filters.Status)
	}
	if filters.ScoreMin != nil {
		conditions = append(conditions, "match_score >= ?")
		args = append(args, *filters.ScoreMin)
	}
	if filters.ScoreMax != nil {
		conditions = append(conditions, "match_score <= ?")
		args = append(args, *filters.ScoreMax)
	}
	if filters.Search != "" {
		conditions = append(conditions, "(nas_filename LIKE ? OR youtube_title LIKE ?)")
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern, pattern)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

const matchColumns = "id, nas_filename, nas_directory, nas_size_bytes, youtube_video_id, youtube_title, match_score, match_status, match_details, review_notes, verified_at, verified_by, created_at, updated_at"

func scanMatch(scanner interface{ Scan(dest ...any) error }) (*match.Match, error) {
	var (
		id           int64
		nasFilename  string
		nasDirectory sql.NullString
		nasSizeBytes sql.NullInt64
		videoID      sql.NullString
		videoTitle   sql.NullString
		score        sql.NullInt64
		statusStr    string
		details      sql.NullString
		reviewNotes  sql.NullString
		verifiedRaw  sql.NullString
		verifiedBy   sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&nasFilename,
		&nasDirectory,
		&nasSizeBytes,
		&videoID,
		&videoTitle,
		&score,
		&statusStr,
		&details,
		&reviewNotes,
		&verifiedRaw,
		&verifiedBy,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	m := &match.Match{
		ID:             id,
		NASFilename:    nasFilename,
		NASDirectory:   nasDirectory.String,
		NASSizeBytes:   nasSizeBytes.Int64,
		YouTubeVideoID: videoID.String,
		YouTubeTitle:   videoTitle.String,
		MatchScore:     int(score.Int64),
		MatchStatus:    match.Status(statusStr),
		MatchDetails:   details.String,
		ReviewNotes:    reviewNotes.String,
		VerifiedBy:     verifiedBy.String,
	}
	if verifiedRaw.Valid {
		if verified, err := parseTimeString(verifiedRaw.String); err == nil {
			m.VerifiedAt = &verified
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		m.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		m.UpdatedAt = updated
	}
	return m, nil
}
