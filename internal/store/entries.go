package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchdeck/internal/entry"
)

// EntryFilters narrows an entry listing. Zero values mean "no constraint".
type EntryFilters struct {
	Page      int
	Limit     int
	MatchType entry.MatchType
	Verified  *bool
	Search    string
}

// EntryPage is one page of a filtered entry listing.
type EntryPage struct {
	Items []*entry.Entry
	Total int
	Page  int
	Pages int
	Limit int
}

// InsertEntry adds a catalog entry produced by the matching engine's import.
func (s *Store) InsertEntry(ctx context.Context, e *entry.Entry) (*entry.Entry, error) {
	if e == nil {
		return nil, errors.New("entry is nil")
	}
	if _, ok := entry.ParseType(string(e.MatchType)); !ok {
		return nil, fmt.Errorf("unknown match type %q", e.MatchType)
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO catalog_entries (
            title, reference_id, match_type, match_score, verified,
            verified_at, verified_by, notes, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title,
		nullableString(e.ReferenceID),
		e.MatchType,
		e.MatchScore,
		boolToInt(e.Verified),
		nullableTime(e.VerifiedAt),
		nullableString(e.VerifiedBy),
		nullableString(e.Notes),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEntry(ctx, id)
}

// GetEntry fetches an entry by identifier. Returns nil without error when the
// id is unknown.
func (s *Store) GetEntry(ctx context.Context, id int64) (*entry.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM catalog_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// ListEntries returns one page of entries ordered by score descending then id
// ascending, applying the provided filters.
func (s *Store) ListEntries(ctx context.Context, filters EntryFilters) (*EntryPage, error) {
	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 20
	}

	var conditions []string
	var args []any
	if filters.MatchType != "" {
		conditions = append(conditions, "match_type = ?")
		args = append(args, filters.MatchType)
	}
	if filters.Verified != nil {
		conditions = append(conditions, "verified = ?")
		args = append(args, boolToInt(*filters.Verified))
	}
	if filters.Search != "" {
		conditions = append(conditions, "(title LIKE ? OR reference_id LIKE ?)")
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern, pattern)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_entries`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	pages := (total + limit - 1) / limit
	offset := (page - 1) * limit

	query := `SELECT ` + entryColumns + ` FROM catalog_entries` + where +
		` ORDER BY match_score DESC, id ASC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var items []*entry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &EntryPage{Items: items, Total: total, Page: page, Pages: pages, Limit: limit}, nil
}

// VerifyEntry marks an entry verified. The operation is idempotent: an
// already-verified entry is returned unchanged with newly=false and keeps its
// original audit stamp. Returns nil without error when the id is unknown.
func (s *Store) VerifyEntry(ctx context.Context, id int64, verifiedBy, notes string) (*entry.Entry, bool, error) {
	existing, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, nil
	}
	if existing.Verified {
		return existing, false, nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE catalog_entries
         SET verified = 1, verified_at = ?, verified_by = ?,
             notes = COALESCE(?, notes), updated_at = ?
         WHERE id = ? AND verified = 0`,
		now,
		nullableString(verifiedBy),
		nullableString(notes),
		now,
		id,
	)
	if err != nil {
		return nil, false, fmt.Errorf("verify entry: %w", err)
	}

	updated, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// VerifyEntryBatch verifies every listed entry and returns the number of
// entries actually flipped. Already-verified entries count toward
// totalRequested but not verifiedCount, which is what makes re-submitting a
// batch safe.
func (s *Store) VerifyEntryBatch(ctx context.Context, ids []int64, verifiedBy string) (int, int, error) {
	if len(ids) == 0 {
		return 0, 0, errors.New("no entry ids provided")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+3)
	args = append(args, now, nullableString(verifiedBy), now)
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE catalog_entries
         SET verified = 1, verified_at = ?, verified_by = ?, updated_at = ?
         WHERE id IN (`+placeholders+`) AND verified = 0`,
		args...,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("verify entry batch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), len(ids), nil
}

const entryColumns = "id, title, reference_id, match_type, match_score, verified, verified_at, verified_by, notes, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*entry.Entry, error) {
	var (
		id          int64
		title       string
		referenceID sql.NullString
		matchType   string
		score       sql.NullInt64
		verified    sql.NullInt64
		verifiedRaw sql.NullString
		verifiedBy  sql.NullString
		notes       sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&referenceID,
		&matchType,
		&score,
		&verified,
		&verifiedRaw,
		&verifiedBy,
		&notes,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	e := &entry.Entry{
		ID:          id,
		Title:       title,
		ReferenceID: referenceID.String,
		MatchType:   entry.MatchType(matchType),
		MatchScore:  int(score.Int64),
		Verified:    verified.Int64 != 0,
		VerifiedBy:  verifiedBy.String,
		Notes:       notes.String,
	}
	if verifiedRaw.Valid {
		if t, err := parseTimeString(verifiedRaw.String); err == nil {
			e.VerifiedAt = &t
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		e.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		e.UpdatedAt = updated
	}
	return e, nil
}
