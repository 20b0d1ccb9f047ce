package sheet

import (
	"sync"
	"time"
)

// tableCache holds recently fetched tables for a fixed TTL.
type tableCache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry struct {
	rows      []Row
	expiresAt time.Time
}

func newTableCache(ttl time.Duration) *tableCache {
	return &tableCache{items: make(map[string]*cacheEntry), ttl: ttl, now: time.Now}
}

func (c *tableCache) get(table string) ([]Row, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.RLock()
	e, ok := c.items[table]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return copyRows(e.rows), true
}

func (c *tableCache) put(table string, rows []Row) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[table] = &cacheEntry{rows: copyRows(rows), expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// invalidate drops one table. Call after every write to it.
func (c *tableCache) invalidate(table string) {
	c.mu.Lock()
	delete(c.items, table)
	c.mu.Unlock()
}

func (c *tableCache) invalidateAll() {
	c.mu.Lock()
	c.items = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

func copyRows(in []Row) []Row {
	out := make([]Row, len(in))
	for i, r := range in {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}
