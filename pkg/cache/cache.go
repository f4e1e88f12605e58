// Package cache provides the byte caches used during a scoring run.
//
// The default backend is [MemoryCache]: it lives for one process run and lets
// handlers reuse a README or config fetched earlier in the run without
// issuing another HTTP request. Each entry carries the ETag returned by the
// source so that stale entries can be revalidated with a conditional GET.
//
// Other backends:
//   - [NewNullCache] disables caching.
//   - [FileCache] stores entries on disk; the pipeline uses it for metadata
//     snapshots and offline replay, never for HTTP responses.
//   - [RedisCache] shares one run's entries between cooperating processes;
//     keys are namespaced by run ID and expire with a TTL.
package cache

import (
	"context"
	"time"
)

// Entry is one cached value.
type Entry struct {
	Data     []byte    `json:"data"`
	ETag     string    `json:"etag,omitempty"`
	StoredAt time.Time `json:"stored_at"`
}

// Age returns how long ago the entry was stored.
func (e Entry) Age(now time.Time) time.Duration {
	if e.StoredAt.IsZero() {
		return 0
	}
	return now.Sub(e.StoredAt)
}

// Cache is a key to (bytes, ETag) store.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) (Entry, bool, error)
	// Set stores data under key, replacing any previous entry.
	Set(ctx context.Context, key string, data []byte, etag string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
