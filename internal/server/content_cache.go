package server

import (
	"sync"
	"time"
)

// contentCache keeps fetched article bodies around so repeated opens of the
// same post don't re-hit the upstream. Entries expire after the TTL; the map
// is pruned lazily on writes. Safe for concurrent handlers.
type contentCache struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	entries map[int64]contentEntry
}

type contentEntry struct {
	body     string
	storedAt time.Time
}

func newContentCache(ttl time.Duration) *contentCache {
	return &contentCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int64]contentEntry),
	}
}

func (c *contentCache) get(id int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || c.now().Sub(e.storedAt) > c.ttl {
		return "", false
	}
	return e.body, true
}

func (c *contentCache) set(id int64, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
	c.entries[id] = contentEntry{body: body, storedAt: now}
}
