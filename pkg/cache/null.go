package cache

import "context"

// nullCache stores nothing. It backs --no-cache runs and offline runs,
// where no HTTP request is made at all.
type nullCache struct{}

// NewNullCache returns a cache on which every Get misses.
func NewNullCache() Cache { return nullCache{} }

func (nullCache) Get(context.Context, string) (Entry, bool, error)  { return Entry{}, false, nil }
func (nullCache) Set(context.Context, string, []byte, string) error { return nil }
func (nullCache) Delete(context.Context, string) error              { return nil }
func (nullCache) Close() error                                      { return nil }
