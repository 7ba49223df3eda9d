package review

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"matchdeck/internal/listcache"
	"matchdeck/internal/logging"
	"matchdeck/internal/metrics"
)

// ErrSuperseded reports that a fetched page was discarded because the
// filter state changed while the request was in flight. The caller should
// refresh with the current state instead of rendering the response.
var ErrSuperseded = errors.New("response superseded by newer filter state")

// Session ties the workflow pieces together for one review view: filter
// state, selection, cursor, fetcher, and executor share a lifetime and are
// reset together. Sessions are ephemeral; nothing is persisted across
// restarts.
type Session struct {
	id        string
	filters   *FilterManager
	selection *Selection
	cursor    *Cursor
	fetcher   *Fetcher
	executor  *Executor
	logger    *slog.Logger
	current   *Page
}

// NewSession builds a session over the given source and transitioner. The
// cache is injected so independent sessions, and tests, never share state
// unless they choose to share a cache.
func NewSession(source Source, transitioner Transitioner, cache *listcache.Cache[*Page], namespace string, pageSize int, collector *metrics.Collector, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	id := uuid.NewString()
	logger = logger.With(logging.String("session", id))
	selection := NewSelection()
	cursor := NewCursor(pageSize)
	fetcher := NewFetcher(source, cache, namespace, collector, logger)
	return &Session{
		id:        id,
		filters:   NewFilterManager(pageSize),
		selection: selection,
		cursor:    cursor,
		fetcher:   fetcher,
		executor:  NewExecutor(transitioner, fetcher, selection, cursor, collector, logger),
		logger:    logger,
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Filters returns the active filter state.
func (s *Session) Filters() Filters {
	return s.filters.Current()
}

// Selection exposes the session's batch selection.
func (s *Session) Selection() *Selection {
	return s.selection
}

// Cursor exposes the session's review position.
func (s *Session) Cursor() *Cursor {
	return s.cursor
}

// Current returns the last page accepted by Refresh, or nil before the
// first successful fetch.
func (s *Session) Current() *Page {
	return s.current
}

// SetFilters applies a partial filter update and moves the cursor to the
// resulting page. The cached pages are untouched; a later Refresh decides
// whether they are still fresh.
func (s *Session) SetFilters(update Update) Filters {
	next := s.filters.Apply(update)
	if update.PageSize != nil && *update.PageSize > 0 {
		s.cursor.SetPageSize(*update.PageSize)
	}
	s.cursor.MoveToPage(next.Page)
	return next
}

// ResetFilters restores the default filter state and rewinds the cursor.
func (s *Session) ResetFilters() Filters {
	next := s.filters.Reset()
	s.cursor.MoveToPage(next.Page)
	return next
}

// Refresh fetches the page for the current filter state. If the filter
// state changes while the request is in flight the response is discarded
// and ErrSuperseded returned, so a slow fetch can never overwrite a view
// that has moved on.
func (s *Session) Refresh(ctx context.Context) (*Page, error) {
	filters := s.filters.Current()
	key := filters.Key()

	page, err := s.fetcher.Fetch(ctx, filters)
	if err != nil {
		return nil, err
	}
	if s.filters.Current().Key() != key {
		s.logger.Debug("discarding superseded page", logging.String("key", key))
		return nil, ErrSuperseded
	}

	s.current = page
	s.cursor.SetTotal(page.Total)
	if s.cursor.PageIndex() == page.Page {
		s.cursor.SetPageLength(len(page.Items))
	}
	return page, nil
}

// CandidateAt returns the candidate under the cursor, when the current
// page holds it.
func (s *Session) CandidateAt() (Candidate, bool) {
	if s.current == nil || s.current.Page != s.cursor.PageIndex() {
		return Candidate{}, false
	}
	within := s.cursor.WithinPage()
	if within < 0 || within >= len(s.current.Items) {
		return Candidate{}, false
	}
	return s.current.Items[within], true
}

// Next advances the cursor one ordinal, fetching the next page when the
// cursor crosses a boundary. Reports whether the cursor moved.
func (s *Session) Next(ctx context.Context) (bool, error) {
	if !s.cursor.Next() {
		return false, nil
	}
	return true, s.syncPage(ctx)
}

// Prev moves the cursor back one ordinal, fetching the prior page when the
// cursor crosses a boundary. Reports whether the cursor moved.
func (s *Session) Prev(ctx context.Context) (bool, error) {
	if !s.cursor.Prev() {
		return false, nil
	}
	return true, s.syncPage(ctx)
}

func (s *Session) syncPage(ctx context.Context) error {
	target := s.cursor.PageIndex()
	if s.filters.Current().Page == target {
		return nil
	}
	s.filters.Apply(Update{Page: IntPtr(target)})
	_, err := s.Refresh(ctx)
	return err
}

// ApplyStatus transitions the candidate under the cursor and refreshes the
// view. The executor advances the cursor before the refresh, so the next
// candidate in review order is current afterwards.
func (s *Session) ApplyStatus(ctx context.Context, status, notes string) error {
	candidate, ok := s.CandidateAt()
	if !ok {
		return errors.New("no candidate under cursor")
	}
	if err := s.executor.ApplySingle(ctx, candidate.ID, status, notes); err != nil {
		return err
	}
	if err := s.syncPage(ctx); err != nil {
		return err
	}
	_, err := s.Refresh(ctx)
	return err
}

// ApplyBatchSelected transitions every selected candidate and refreshes.
func (s *Session) ApplyBatchSelected(ctx context.Context, status, notes string) (int64, error) {
	ids := s.selection.IDs()
	if len(ids) == 0 {
		return 0, errors.New("selection is empty")
	}
	updated, err := s.executor.ApplyBatch(ctx, ids, status, notes)
	if err != nil {
		return 0, err
	}
	if _, err := s.Refresh(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}
