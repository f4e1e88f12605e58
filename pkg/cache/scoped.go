package cache

// Keyer builds cache keys for the two kinds of data trustscore caches.
type Keyer interface {
	// HTTPKey is the key for a raw HTTP response body.
	HTTPKey(url string) string
	// SnapshotKey is the key for an artifact's serialized metadata.
	SnapshotKey(artifactURL string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<url>".
func (DefaultKeyer) HTTPKey(url string) string { return "http:" + url }

// SnapshotKey returns "meta:<url>".
func (DefaultKeyer) SnapshotKey(artifactURL string) string { return "meta:" + artifactURL }

// ScopedKeyer wraps a Keyer with a prefix. Shared backends use it to keep
// one run's entries apart from another's:
//
//	keyer := NewScopedKeyer(nil, "run:"+runID+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(url string) string {
	return k.prefix + k.inner.HTTPKey(url)
}

// SnapshotKey generates a prefixed key for metadata snapshots.
func (k *ScopedKeyer) SnapshotKey(artifactURL string) string {
	return k.prefix + k.inner.SnapshotKey(artifactURL)
}
