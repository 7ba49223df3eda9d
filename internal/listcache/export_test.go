package listcache

import "time"

// SetNowFunc overrides the cache clock for tests.
func (c *Cache[V]) SetNowFunc(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
