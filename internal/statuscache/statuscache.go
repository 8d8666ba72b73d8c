// Package statuscache persists issue statuses between runs in SQLite.
package statuscache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/phyten/todovet/internal/model"
)

// MemoryPath opens a cache that lives only as long as the process.
const MemoryPath = ":memory:"

// DefaultTTL applies when the configuration leaves the TTL unset.
const DefaultTTL = 10 * time.Minute

const schema = `
CREATE TABLE IF NOT EXISTS task_status (
	tracker    TEXT    NOT NULL,
	origin     TEXT    NOT NULL,
	issue_id   TEXT    NOT NULL,
	status     TEXT    NOT NULL,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (tracker, origin, issue_id)
)`

// Key identifies one issue on one tracker.
type Key struct {
	Tracker string
	Origin  string
	ID      string
}

// Cache is safe for concurrent use.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Option customises a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Open opens or creates the cache database at path. A ttl <= 0 uses
// DefaultTTL.
func Open(ctx context.Context, path string, ttl time.Duration, opts ...Option) (*Cache, error) {
	if path == "" {
		return nil, errors.New("cache path is empty")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	// one connection: each :memory: connection would be a separate database
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache %s: %w", path, err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{db: db, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns how long an entry stays fresh.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Lookup returns the stored status when it is younger than the TTL.
func (c *Cache) Lookup(ctx context.Context, key Key) (model.TaskStatus, bool, error) {
	var (
		raw       string
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT status, fetched_at FROM task_status WHERE tracker = ? AND origin = ? AND issue_id = ?`,
		key.Tracker, key.Origin, key.ID,
	).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StatusNone, false, nil
	}
	if err != nil {
		return model.StatusNone, false, fmt.Errorf("cache lookup %s: %w", key.ID, err)
	}
	if c.now().Sub(time.Unix(fetchedAt, 0)) >= c.ttl {
		return model.StatusNone, false, nil
	}
	status, err := model.ParseTaskStatus(raw)
	if err != nil {
		return model.StatusNone, false, nil
	}
	return status, true, nil
}

// Store records status for key.
func (c *Cache) Store(ctx context.Context, key Key, status model.TaskStatus) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO task_status (tracker, origin, issue_id, status, fetched_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (tracker, origin, issue_id) DO UPDATE SET status = excluded.status, fetched_at = excluded.fetched_at`,
		key.Tracker, key.Origin, key.ID, string(status), c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("cache store %s: %w", key.ID, err)
	}
	return nil
}

// Prune deletes expired entries and reports how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM task_status WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}
