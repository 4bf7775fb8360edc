// Package cache stores rendered HTML fragments in a local sqlite
// database, keyed by a content hash of the input and the converter
// options that produced the fragment.
package cache

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"

	"github.com/solen/mdkit/pkg/markdown"
)

// ErrMiss reports that no fragment is stored under a key. A miss is an
// expected outcome, not a failure.
var ErrMiss = errors.New("cache miss")

type Cache struct{ db *sql.DB }

// Stats summarizes the cache contents.
type Stats struct {
	Entries int64
	Bytes   int64
	Oldest  time.Time
}

// Open connects to the sqlite cache at path, creating the file and
// schema as needed.
func Open(ctx context.Context, path string) (*Cache, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS fragments (
  key TEXT PRIMARY KEY,
  fragment TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fragments_created ON fragments(created_at);
`)
	return err
}

func (c *Cache) Close() error { return c.db.Close() }

// Fingerprint renders the option set as a short stable string. Any
// option that changes the produced markup must appear here, since two
// different fingerprints must never share a cache entry.
func Fingerprint(opts markdown.Options) string {
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	return fmt.Sprintf("ah=%d an=%d ees=%q epu=%d le=%d se=%d",
		b2i(opts.AutoHyperlink), b2i(opts.AutoNewlines), opts.EmptyElementSuffix,
		b2i(opts.EncodeProblemURLCharacters), b2i(opts.LinkEmails), b2i(opts.StrictBoldItalic))
}

// Key derives the cache key for an input document under an option set.
func Key(input []byte, opts markdown.Options) string {
	h := blake3.New()
	_, _ = h.Write(input)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(Fingerprint(opts)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the fragment stored under key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	var fragment string
	err := c.db.QueryRowContext(ctx,
		`SELECT fragment FROM fragments WHERE key = ?`, key).Scan(&fragment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("cache get: %w", err)
	}
	return fragment, nil
}

// Put stores a fragment under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key, fragment string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO fragments(key, fragment, created_at) VALUES(?, ?, ?)`,
		key, fragment, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Stats reports entry count, stored fragment bytes, and the oldest
// entry time. An empty cache reports a zero Oldest.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var oldest sql.NullString
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(fragment)), 0), MIN(created_at) FROM fragments`).
		Scan(&st.Entries, &st.Bytes, &oldest)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	if oldest.Valid {
		if t, err := time.Parse(time.RFC3339Nano, strings.Replace(oldest.String, " ", "T", 1)); err == nil {
			st.Oldest = t
		}
	}
	return st, nil
}

// Prune deletes entries older than keep. A zero keep empties the cache.
func (c *Cache) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM fragments WHERE created_at <= ?`, time.Now().UTC().Add(-keep))
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
