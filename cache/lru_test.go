package cache

import (
	"testing"
	"time"

	"github.com/mwantia/onedatafs/data"
)

func TestLRUCache_PutGet(t *testing.T) {
	c := NewLRU(16, time.Minute)
	defer c.Close()

	key := Key("alpha", "docs/readme.txt")
	c.Put(key, &data.FileInfo{Path: "/docs/readme.txt", FileSize: 11})

	info, ok := c.Get(key)
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if info.FileSize != 11 {
		t.Errorf("Expected size 11, got %d", info.FileSize)
	}

	if _, ok := c.Get(Key("alpha", "missing")); ok {
		t.Error("Expected cache miss")
	}
}

func TestLRUCache_CloneOnGet(t *testing.T) {
	c := NewLRU(16, time.Minute)
	defer c.Close()

	key := Key("alpha", "file.txt")
	c.Put(key, &data.FileInfo{Path: "/file.txt", FileSize: 1})

	info, _ := c.Get(key)
	info.FileSize = 99

	fresh, _ := c.Get(key)
	if fresh.FileSize != 1 {
		t.Error("Mutating a returned info should not affect the cache")
	}
}

func TestLRUCache_Invalidate(t *testing.T) {
	c := NewLRU(16, time.Minute)
	defer c.Close()

	c.Put(Key("alpha", "dir"), &data.FileInfo{Path: "/dir"})
	c.Put(Key("alpha", "dir/a.txt"), &data.FileInfo{Path: "/dir/a.txt"})
	c.Put(Key("alpha", "dir/sub/b.txt"), &data.FileInfo{Path: "/dir/sub/b.txt"})
	c.Put(Key("alpha", "dirother"), &data.FileInfo{Path: "/dirother"})

	c.InvalidatePrefix(Key("alpha", "dir"))

	if _, ok := c.Get(Key("alpha", "dir")); ok {
		t.Error("Expected 'dir' to be invalidated")
	}
	if _, ok := c.Get(Key("alpha", "dir/a.txt")); ok {
		t.Error("Expected 'dir/a.txt' to be invalidated")
	}
	if _, ok := c.Get(Key("alpha", "dir/sub/b.txt")); ok {
		t.Error("Expected 'dir/sub/b.txt' to be invalidated")
	}

	// Sibling entries sharing the name prefix survive.
	if _, ok := c.Get(Key("alpha", "dirother")); !ok {
		t.Error("Expected 'dirother' to survive")
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c := NewLRU(16, 20*time.Millisecond)
	defer c.Close()

	key := Key("alpha", "file.txt")
	c.Put(key, &data.FileInfo{Path: "/file.txt"})

	if _, ok := c.Get(key); !ok {
		t.Fatal("Expected fresh entry to be cached")
	}

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get(key); ok {
		t.Error("Expected entry to expire")
	}
}

func TestNoopCache(t *testing.T) {
	c := Noop()

	c.Put(Key("alpha", "file.txt"), &data.FileInfo{Path: "/file.txt"})
	if _, ok := c.Get(Key("alpha", "file.txt")); ok {
		t.Error("Noop cache should never hit")
	}

	// The remaining operations are harmless no-ops.
	c.Invalidate(Key("alpha", "file.txt"))
	c.InvalidatePrefix(Key("alpha", ""))
	if err := c.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestKey(t *testing.T) {
	if Key("alpha", "docs/a.txt") == Key("alpha", "docs/b.txt") {
		t.Error("Different paths should produce different keys")
	}
	if Key("alpha", "x") == Key("beta", "x") {
		t.Error("Different spaces should produce different keys")
	}
}
