// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the hooks registered here; main decides what
// receives them. The defaults are no-ops, so instrumentation costs nothing
// unless a backend is installed.
//
// # Usage
//
// Register hooks at application startup:
//
//	rec := observability.NewRecorder()
//	observability.SetScoringHooks(rec)
//	observability.SetHTTPHooks(rec)
//	// ... run application
//	rec.WriteText(f)
//
// Libraries call hooks to emit events:
//
//	observability.Scoring().OnMetricComplete(ctx, "bus_factor", elapsed, observability.OutcomeOK)
package observability

import (
	"context"
	"sync"
	"time"
)

// Outcome classifies how one metric invocation ended.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeError   Outcome = "error"
	OutcomeTimeout Outcome = "timeout"
	OutcomeSkipped Outcome = "skipped"
)

// =============================================================================
// Scoring Hooks
// =============================================================================

// ScoringHooks receives events from the fetch-and-score pipeline.
type ScoringHooks interface {
	// OnFetchComplete records the end of one artifact's fetch phase.
	OnFetchComplete(ctx context.Context, source string, duration time.Duration, degraded int)

	// OnMetricComplete records one metric invocation.
	OnMetricComplete(ctx context.Context, metric string, duration time.Duration, outcome Outcome)

	// OnArtifactComplete records an emitted row.
	OnArtifactComplete(ctx context.Context, category string, netScore float64, failed bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheStale records reuse of an entry that could not be refreshed.
	OnCacheStale(ctx context.Context, keyType string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, host string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, host string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScoringHooks is a no-op implementation of ScoringHooks.
type NoopScoringHooks struct{}

func (NoopScoringHooks) OnFetchComplete(context.Context, string, time.Duration, int)      {}
func (NoopScoringHooks) OnMetricComplete(context.Context, string, time.Duration, Outcome) {}
func (NoopScoringHooks) OnArtifactComplete(context.Context, string, float64, bool)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)   {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)  {}
func (NoopCacheHooks) OnCacheStale(context.Context, string) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scoringHooks ScoringHooks = NoopScoringHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetScoringHooks registers custom scoring hooks.
// This should be called once at application startup before any scoring.
func SetScoringHooks(h ScoringHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scoringHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Scoring returns the registered scoring hooks.
func Scoring() ScoringHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scoringHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scoringHooks = NoopScoringHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
