// Package sqlite implements the local cache on a single SQLite file, for
// single-node deployments without Redis.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS local_cache (
	scope      TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      BLOB    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (scope, key)
);`

// LocalCache implements ports.LocalCache on SQLite.
type LocalCache struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the database at path and applies the schema.
// The database runs in WAL mode with a single connection.
func Open(path string) (*LocalCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare database: %w", err)
		}
	}

	return &LocalCache{db: db, now: time.Now}, nil
}

func (c *LocalCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *LocalCache) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM local_cache WHERE scope = ? AND key = ?`, scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("local cache get: %w", err)
	}
	return value, true, nil
}

func (c *LocalCache) Set(ctx context.Context, scope, key string, value []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO local_cache (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, value, c.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("local cache set: %w", err)
	}
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, scope, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM local_cache WHERE scope = ? AND key = ?`, scope, key); err != nil {
		return fmt.Errorf("local cache delete: %w", err)
	}
	return nil
}

// Prune removes entries not written since before cutoff.
func (c *LocalCache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM local_cache WHERE updated_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("local cache prune: %w", err)
	}
	return res.RowsAffected()
}

func (c *LocalCache) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

var _ ports.LocalCache = (*LocalCache)(nil)
