package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"matchdeck/internal/config"
	"matchdeck/internal/logging"
	"matchdeck/internal/metrics"
	"matchdeck/internal/preflight"
	"matchdeck/internal/server"
	"matchdeck/internal/store"
)

// run owns the daemon lifecycle: single-instance lock, preflight checks,
// store, and API server. It returns once the context is canceled and the
// server has drained.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	lock := flock.New(cfg.LockFilePath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", cfg.LockFilePath(), err)
	}
	if !locked {
		return fmt.Errorf("another matchdeckd instance holds %s", cfg.LockFilePath())
	}
	defer lock.Unlock() //nolint:errcheck

	results := preflight.RunAll(ctx, cfg)
	for _, result := range results {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}
	if !preflight.AllPassed(results) {
		return fmt.Errorf("preflight checks failed; refusing to start")
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close() //nolint:errcheck

	collector := metrics.NewCollector()
	srv := server.New(cfg, st, collector, logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start api server: %w", err)
	}

	logger.Info("matchdeckd started",
		logging.String("bind", srv.Addr()),
		logging.String("db", cfg.DatabasePath()))

	<-ctx.Done()
	srv.Stop()
	logger.Info("matchdeckd shutting down")
	return nil
}
