// Package listcache provides a namespaced TTL cache with request
// deduplication for list-shaped query results.
package listcache

import (
	"context"
	"sync"
	"time"
)

// Loader produces a fresh value for a key on cache miss.
type Loader[V any] func(ctx context.Context) (V, error)

type cacheEntry[V any] struct {
	value     V
	fetchedAt time.Time
}

type inflight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Cache stores loaded values per key inside named namespaces. Values are
// served without reloading while younger than the namespace TTL, and
// concurrent loads of the same key collapse into one call.
type Cache[V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]map[string]cacheEntry[V]
	pending  map[string]*inflight[V]
	now      func() time.Time
}

// New creates a cache whose values stay fresh for ttl.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]map[string]cacheEntry[V]),
		pending: make(map[string]*inflight[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key in namespace and whether it is still
// fresh. A stale or missing entry reports false.
func (c *Cache[V]) Get(namespace, key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ns, ok := c.entries[namespace]
	if !ok {
		return zero, false
	}
	entry, ok := ns[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		return zero, false
	}
	return entry.value, true
}

// Load returns the fresh cached value for key, or invokes loader to produce
// one. Concurrent calls for the same namespace and key share a single loader
// invocation; every waiter receives the same result. Failed loads are not
// cached.
func (c *Cache[V]) Load(ctx context.Context, namespace, key string, loader Loader[V]) (V, error) {
	if value, ok := c.Get(namespace, key); ok {
		return value, nil
	}

	flightKey := namespace + "\x00" + key

	c.mu.Lock()
	if flight, ok := c.pending[flightKey]; ok {
		c.mu.Unlock()
		var zero V
		select {
		case <-flight.done:
			return flight.value, flight.err
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	// Re-check under the lock: another goroutine may have stored a value
	// between the Get above and acquiring the lock.
	if ns, ok := c.entries[namespace]; ok {
		if entry, ok := ns[key]; ok && c.now().Sub(entry.fetchedAt) < c.ttl {
			c.mu.Unlock()
			return entry.value, nil
		}
	}

	flight := &inflight[V]{done: make(chan struct{})}
	c.pending[flightKey] = flight
	c.mu.Unlock()

	value, err := loader(ctx)

	c.mu.Lock()
	flight.value = value
	flight.err = err
	delete(c.pending, flightKey)
	if err == nil {
		c.storeLocked(namespace, key, value)
	}
	c.mu.Unlock()
	close(flight.done)

	return value, err
}

// Put stores a value directly, refreshing its timestamp.
func (c *Cache[V]) Put(namespace, key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeLocked(namespace, key, value)
}

func (c *Cache[V]) storeLocked(namespace, key string, value V) {
	ns, ok := c.entries[namespace]
	if !ok {
		ns = make(map[string]cacheEntry[V])
		c.entries[namespace] = ns
	}
	ns[key] = cacheEntry[V]{value: value, fetchedAt: c.now()}
}

// Invalidate drops every entry in the namespace. Other namespaces are
// untouched.
func (c *Cache[V]) Invalidate(namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, namespace)
}

// InvalidateAll drops every cached entry.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[string]cacheEntry[V])
}

// Len reports the number of live entries in the namespace, counting stale
// ones that have not been dropped yet.
func (c *Cache[V]) Len(namespace string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries[namespace])
}
