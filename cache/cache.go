package cache

import (
	"github.com/mwantia/onedatafs/data"
)

// AttributeCache stores resolved file metadata keyed by "space:path" so
// repeated Stat and ReadDir calls avoid a REST round trip. Implementations
// must be safe for concurrent use.
type AttributeCache interface {
	// Get returns the cached info for the key, if present and fresh.
	Get(key string) (*data.FileInfo, bool)

	// Put stores info under the key.
	Put(key string, info *data.FileInfo)

	// Invalidate drops a single key.
	Invalidate(key string)

	// InvalidatePrefix drops every key at or below the given prefix.
	InvalidatePrefix(prefix string)

	// Close releases any resources held by the cache.
	Close() error
}

// Key builds the cache key for a space-relative path.
func Key(space, path string) string {
	return space + ":" + path
}

type noopCache struct{}

// Noop returns a cache that stores nothing.
func Noop() AttributeCache {
	return noopCache{}
}

func (noopCache) Get(string) (*data.FileInfo, bool) { return nil, false }
func (noopCache) Put(string, *data.FileInfo)        {}
func (noopCache) Invalidate(string)                 {}
func (noopCache) InvalidatePrefix(string)           {}
func (noopCache) Close() error                      { return nil }
