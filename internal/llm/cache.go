package llm

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	model      TEXT NOT NULL,
	response   TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`

// Cache persists model responses in a local sqlite database keyed by the
// full request content, so repeated runs of the same module stay cheap and
// deterministic.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("llm: open cache %s: %w", path, err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("llm: init cache %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Get returns the cached response for a request, if any.
func (c *Cache) Get(ctx context.Context, req Request) (string, bool, error) {
	var response string
	err := c.db.QueryRowContext(ctx,
		`SELECT response FROM responses WHERE key = ?`, cacheKey(req)).Scan(&response)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return response, true, nil
}

// Put stores a response, replacing any previous entry for the same request.
func (c *Cache) Put(ctx context.Context, req Request, response string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (key, model, response, created_at) VALUES (?, ?, ?, ?)`,
		cacheKey(req), req.Model, response, time.Now().Unix())
	return err
}

// cacheKey hashes everything that affects the model's answer. The request ID
// is deliberately excluded so retries of identical prompts hit the cache.
func cacheKey(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%g\x00%s", req.Model, req.Temperature, req.Prompt)
	return hex.EncodeToString(h.Sum(nil))
}

// CachingCaller consults the cache before delegating to the wrapped caller
// and records successful answers. Cache read errors fall through to the
// backend; cache write errors are dropped, since a stale cache is worse than
// a cold one.
type CachingCaller struct {
	cache *Cache
	next  Caller
}

func NewCachingCaller(cache *Cache, next Caller) *CachingCaller {
	return &CachingCaller{cache: cache, next: next}
}

func (c *CachingCaller) Call(ctx context.Context, req Request) (string, error) {
	if response, ok, err := c.cache.Get(ctx, req); err == nil && ok {
		return response, nil
	}
	response, err := c.next.Call(ctx, req)
	if err != nil {
		return "", err
	}
	_ = c.cache.Put(ctx, req, response)
	return response, nil
}
