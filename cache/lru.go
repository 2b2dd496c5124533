package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mwantia/onedatafs/data"
)

// LRUCache is an in-memory attribute cache with a bounded size and TTL.
type LRUCache struct {
	lru *expirable.LRU[string, *data.FileInfo]
}

// NewLRU creates an in-memory attribute cache. A ttl of zero disables expiry.
func NewLRU(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		lru: expirable.NewLRU[string, *data.FileInfo](size, nil, ttl),
	}
}

func (c *LRUCache) Get(key string) (*data.FileInfo, bool) {
	info, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}

	return info.Clone(), true
}

func (c *LRUCache) Put(key string, info *data.FileInfo) {
	c.lru.Add(key, info.Clone())
}

func (c *LRUCache) Invalidate(key string) {
	c.lru.Remove(key)
}

func (c *LRUCache) InvalidatePrefix(prefix string) {
	for _, key := range c.lru.Keys() {
		if key == prefix || strings.HasPrefix(key, prefix+"/") {
			c.lru.Remove(key)
		}
	}
}

func (c *LRUCache) Close() error {
	c.lru.Purge()
	return nil
}
