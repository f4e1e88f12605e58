package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryCache is an in-process cache scoped to a single run.
// It is safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Entry), now: time.Now}
}

// Get returns a copy of the entry stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) (Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	e.Data = slices.Clone(e.Data)
	return e, true, nil
}

// Set stores a private copy of data.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, etag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Data: slices.Clone(data), ETag: etag, StoredAt: c.now()}
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len returns the number of entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

var _ Cache = (*MemoryCache)(nil)
