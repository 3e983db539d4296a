package thumbs

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the memory tier when no size is configured.
const DefaultMaxEntries = 256

// MemoryCache keeps at most maxEntries images and evicts the least recently
// used one when full.
type MemoryCache struct {
	entries *lru.Cache[string, []byte]
}

// NewMemoryCache creates an LRU cache. A non-positive size uses
// DefaultMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		// Only reachable with a non-positive size, which is ruled out above.
		panic(err)
	}
	return &MemoryCache{entries: entries}
}

// Get returns a copy of the cached bytes.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	data, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return cloneBytes(data), true
}

// Put stores a copy of data.
func (c *MemoryCache) Put(_ context.Context, key string, data []byte) {
	c.entries.Add(key, cloneBytes(data))
}

// Len reports the number of cached images.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}
