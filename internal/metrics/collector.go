// Package metrics aggregates in-process operation timings and cache
// counters for the health endpoint.
package metrics

import (
	"sync"
	"time"
)

// OpSnapshot summarizes one operation type.
type OpSnapshot struct {
	Count int64
	AvgMs float64
	MinMs int64
	MaxMs int64
}

// CacheStats reports list-cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
}

type opStats struct {
	count   int64
	totalMs int64
	minMs   int64
	maxMs   int64
}

// Collector accumulates timings keyed by operation name. All methods are
// safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	ops    map[string]*opStats
	hits   int64
	misses int64
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{ops: make(map[string]*opStats)}
}

// Record adds one sample for the named operation.
func (c *Collector) Record(op string, elapsed time.Duration) {
	if c == nil {
		return
	}
	ms := elapsed.Milliseconds()

	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.ops[op]
	if !ok {
		stats = &opStats{minMs: ms, maxMs: ms}
		c.ops[op] = stats
	}
	stats.count++
	stats.totalMs += ms
	if ms < stats.minMs {
		stats.minMs = ms
	}
	if ms > stats.maxMs {
		stats.maxMs = ms
	}
}

// CacheHit counts one cache hit.
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

// CacheMiss counts one cache miss.
func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

// Snapshot returns a copy of the accumulated per-operation stats and cache
// counters.
func (c *Collector) Snapshot() (map[string]OpSnapshot, CacheStats) {
	if c == nil {
		return nil, CacheStats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ops := make(map[string]OpSnapshot, len(c.ops))
	for name, stats := range c.ops {
		snapshot := OpSnapshot{
			Count: stats.count,
			MinMs: stats.minMs,
			MaxMs: stats.maxMs,
		}
		if stats.count > 0 {
			snapshot.AvgMs = float64(stats.totalMs) / float64(stats.count)
		}
		ops[name] = snapshot
	}
	return ops, CacheStats{Hits: c.hits, Misses: c.misses}
}
