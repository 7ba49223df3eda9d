package review

import (
	"context"
	"log/slog"
	"time"

	"matchdeck/internal/logging"
	"matchdeck/internal/metrics"
)

// Executor applies status transitions and keeps the session's derived
// state consistent afterwards. Updates are pessimistic: nothing changes
// client-side until the server confirms, so a failed transition leaves the
// selection, cursor, and cache exactly as they were.
type Executor struct {
	transitioner Transitioner
	fetcher      *Fetcher
	selection    *Selection
	cursor       *Cursor
	collector    *metrics.Collector
	logger       *slog.Logger
}

// NewExecutor wires a transitioner to the session state it must maintain.
// The cursor and collector may be nil for non-linear flows.
func NewExecutor(transitioner Transitioner, fetcher *Fetcher, selection *Selection, cursor *Cursor, collector *metrics.Collector, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Executor{
		transitioner: transitioner,
		fetcher:      fetcher,
		selection:    selection,
		cursor:       cursor,
		collector:    collector,
		logger:       logger,
	}
}

// ApplySingle transitions one candidate. On success the whole list-cache
// namespace is invalidated, the ID leaves the selection, and the cursor
// advances one ordinal. Membership of a transitioned candidate in any
// filtered view cannot be determined client-side, so nothing narrower than
// the namespace can be invalidated safely.
func (e *Executor) ApplySingle(ctx context.Context, id int64, status, notes string) error {
	started := time.Now()
	if err := e.transitioner.ApplySingle(ctx, id, status, notes); err != nil {
		e.logger.Warn("transition failed",
			logging.Int64("id", id),
			logging.String("status", status),
			logging.Error(err))
		return err
	}
	e.collector.Record("apply_single", time.Since(started))

	e.fetcher.Invalidate()
	e.selection.Remove(id)
	if e.cursor != nil {
		e.cursor.Next()
	}

	e.logger.Info("candidate transitioned",
		logging.Int64("id", id),
		logging.String("status", status))
	return nil
}

// ApplyBatch transitions every listed candidate and returns the server's
// count of rows touched. On success the namespace is invalidated and the
// IDs leave the selection; the cursor stays put.
func (e *Executor) ApplyBatch(ctx context.Context, ids []int64, status, notes string) (int64, error) {
	started := time.Now()
	updated, err := e.transitioner.ApplyBatch(ctx, ids, status, notes)
	if err != nil {
		e.logger.Warn("batch transition failed",
			logging.Int("ids", len(ids)),
			logging.String("status", status),
			logging.Error(err))
		return 0, err
	}
	e.collector.Record("apply_batch", time.Since(started))

	e.fetcher.Invalidate()
	e.selection.Remove(ids...)

	e.logger.Info("batch transitioned",
		logging.Int("ids", len(ids)),
		logging.Int64("updated", updated),
		logging.String("status", status))
	return updated, nil
}
