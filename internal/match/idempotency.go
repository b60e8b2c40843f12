package match

// idempotencyCache remembers the result of recent actions by client-supplied
// key, so a retried request replays the stored result instead of resolving
// again. Bounded: when full, the oldest entry is evicted. Callers hold the
// match entry lock, so the cache itself needs no locking.
type idempotencyCache struct {
	capacity int
	results  map[string]ActionResult
	order    []string
}

func newIdempotencyCache(capacity int) *idempotencyCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &idempotencyCache{
		capacity: capacity,
		results:  make(map[string]ActionResult, capacity),
	}
}

func (c *idempotencyCache) get(key string) (ActionResult, bool) {
	r, ok := c.results[key]
	return r, ok
}

func (c *idempotencyCache) put(key string, r ActionResult) {
	if key == "" {
		return
	}
	if _, exists := c.results[key]; exists {
		c.results[key] = r
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.results, oldest)
	}
	c.results[key] = r
	c.order = append(c.order, key)
}

func (c *idempotencyCache) len() int { return len(c.order) }
