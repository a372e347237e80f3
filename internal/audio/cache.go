package audio

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// Cache stores synthesized audio in a SQLite database so repeated runs over
// the same deck do not hit the TTS service again.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at path
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS audio (
		key text PRIMARY KEY,
		provider text NOT NULL,
		format text NOT NULL,
		data blob NOT NULL,
		created integer NOT NULL DEFAULT (strftime('%s','now'))
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &Cache{db: db}, nil
}

// CacheKey identifies one synthesis request
func CacheKey(provider, languageCode, voice, text string) string {
	h := sha256.New()
	for _, s := range []string{provider, languageCode, voice, text} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns cached audio, or false on a miss
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT data FROM audio WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put stores audio under key, replacing any previous entry
func (c *Cache) Put(ctx context.Context, key, provider, format string, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO audio (key, provider, format, data) VALUES (?, ?, ?, ?)`,
		key, provider, format, data)
	return err
}

// Stats returns the number of entries and their total size in bytes
func (c *Cache) Stats(ctx context.Context) (entries int, size int64, err error) {
	err = c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0) FROM audio`).Scan(&entries, &size)
	return entries, size, err
}

// Clear removes every cached entry
func (c *Cache) Clear(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM audio`)
	return err
}

// Close closes the database
func (c *Cache) Close() error {
	return c.db.Close()
}

// CachedProvider serves repeated requests from a Cache
type CachedProvider struct {
	Provider
	cache *Cache
}

// NewCachedProvider wraps p with cache
func NewCachedProvider(p Provider, cache *Cache) *CachedProvider {
	return &CachedProvider{Provider: p, cache: cache}
}

// Synthesize returns cached audio when available and stores fresh results.
// Cache failures are logged and never fail the request.
func (c *CachedProvider) Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error) {
	key := CacheKey(c.Provider.Name(), languageCode, voice, text)

	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Audio cache lookup failed", "err", err)
	}
	if ok {
		slog.Debug("Audio cache hit", "provider", c.Provider.Name(), "language", languageCode)
		return data, nil
	}

	data, err = c.Provider.Synthesize(ctx, text, languageCode, voice)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, key, c.Provider.Name(), c.Provider.Format(), data); err != nil {
		slog.Warn("Audio cache store failed", "err", err)
	}
	return data, nil
}

// Unwrap returns the wrapped provider
func (c *CachedProvider) Unwrap() Provider {
	return c.Provider
}

// Close closes the provider and the cache
func (c *CachedProvider) Close() error {
	return errors.Join(c.Provider.Close(), c.cache.Close())
}
