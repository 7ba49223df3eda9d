package review

import (
	"context"
	"log/slog"
	"time"

	"matchdeck/internal/listcache"
	"matchdeck/internal/logging"
	"matchdeck/internal/metrics"
)

// Fetcher serves candidate pages cache-first from a namespaced list cache.
// Results younger than the cache's staleness window are returned without a
// network call; concurrent fetches for the same key collapse into one.
// The fetcher never retries; callers decide what to do with a failure.
type Fetcher struct {
	source    Source
	cache     *listcache.Cache[*Page]
	namespace string
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewFetcher wires a source to a shared cache under the given namespace.
// The collector may be nil.
func NewFetcher(source Source, cache *listcache.Cache[*Page], namespace string, collector *metrics.Collector, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Fetcher{
		source:    source,
		cache:     cache,
		namespace: namespace,
		collector: collector,
		logger:    logger,
	}
}

// Fetch returns the page for the filter state, consulting the cache first.
func (f *Fetcher) Fetch(ctx context.Context, filters Filters) (*Page, error) {
	key := filters.Key()

	if page, ok := f.cache.Get(f.namespace, key); ok {
		f.collector.CacheHit()
		return page, nil
	}
	f.collector.CacheMiss()

	started := time.Now()
	page, err := f.cache.Load(ctx, f.namespace, key, func(ctx context.Context) (*Page, error) {
		return f.source.List(ctx, filters)
	})
	if err != nil {
		f.logger.Warn("candidate fetch failed",
			logging.String("namespace", f.namespace),
			logging.String("key", key),
			logging.Error(err))
		return nil, err
	}
	f.collector.Record("fetch_"+f.namespace, time.Since(started))

	f.logger.Debug("candidate page fetched",
		logging.String("namespace", f.namespace),
		logging.String("key", key),
		logging.Int("items", len(page.Items)),
		logging.Int("total", page.Total))
	return page, nil
}

// Invalidate drops every cached page in this fetcher's namespace. Other
// namespaces keep their entries.
func (f *Fetcher) Invalidate() {
	f.cache.Invalidate(f.namespace)
}

// Namespace returns the cache namespace this fetcher owns.
func (f *Fetcher) Namespace() string {
	return f.namespace
}
