package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (CGO_ENABLED=0 compatible)

	"github.com/mwantia/onedatafs/data"
)

// Cache is a persistent attribute cache backed by a SQLite database, so CLI
// invocations can reuse metadata resolved by earlier runs.
// This implementation uses modernc.org/sqlite which works without CGO.
type Cache struct {
	mu  sync.RWMutex
	db  *sql.DB
	ttl time.Duration
}

// New creates a SQLite-backed attribute cache. The dbPath can be ":memory:"
// for an in-memory database or a file path. A ttl of zero disables expiry.
func New(dbPath string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cache := &Cache{
		db:  db,
		ttl: ttl,
	}

	if err := cache.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return cache, nil
}

func (c *Cache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS odfs_attributes (
		key TEXT PRIMARY KEY,
		info BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_expires ON odfs_attributes(expires_at);
	`

	_, err := c.db.Exec(schema)
	return err
}

func (c *Cache) Get(key string) (*data.FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var blob []byte
	var expiresAt int64
	row := c.db.QueryRow(`SELECT info, expires_at FROM odfs_attributes WHERE key = ?`, key)
	if err := row.Scan(&blob, &expiresAt); err != nil {
		return nil, false
	}

	if expiresAt > 0 && time.Now().Unix() > expiresAt {
		return nil, false
	}

	info := &data.FileInfo{}
	if err := info.Unmarshal(blob); err != nil {
		return nil, false
	}

	return info, true
}

func (c *Cache) Put(key string, info *data.FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	blob, err := info.Marshal()
	if err != nil {
		return
	}

	// A zero ttl disables expiry; anything else stamps the entry, so a
	// negative ttl writes entries that are already expired.
	var expiresAt int64
	if c.ttl != 0 {
		expiresAt = time.Now().Add(c.ttl).Unix()
	}

	c.db.Exec(`
		INSERT INTO odfs_attributes (key, info, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET info = excluded.info, expires_at = excluded.expires_at
	`, key, blob, expiresAt)
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.db.Exec(`DELETE FROM odfs_attributes WHERE key = ?`, key)
}

// likeEscaper quotes the LIKE wildcards so keys containing '%' or '_'
// match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pattern := likeEscaper.Replace(prefix) + "/%"
	c.db.Exec(`DELETE FROM odfs_attributes WHERE key = ? OR key LIKE ? ESCAPE '\'`, prefix, pattern)
}

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db.Close()
}
