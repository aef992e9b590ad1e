package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// cacheSchema contains the DDL executed on first open. Using IF NOT EXISTS
// makes it safe to run on every startup.
const cacheSchema = `
CREATE TABLE IF NOT EXISTS samples (
    body       TEXT    NOT NULL,
    quantity   TEXT    NOT NULL,
    instant_us INTEGER NOT NULL,
    value      REAL    NOT NULL,
    PRIMARY KEY (body, quantity, instant_us)
);
`

// CachedSource wraps a DataSource with a SQLite-backed sample cache, so
// regenerating a weft file does not re-query the upstream ephemeris for
// instants already seen. Keys are (body, quantity, microsecond timestamp).
//
// The cache only memoizes ValueAt; Start, End, and Timestamps pass through
// to the upstream source.
type CachedSource struct {
	upstream DataSource
	db       *sql.DB
	body     string
	quantity string
}

var _ DataSource = (*CachedSource)(nil)

// NewCachedSource opens (or creates) the cache database at dbPath and wraps
// upstream. Callers must Close the source to release the database handle.
func NewCachedSource(ctx context.Context, dbPath, body, quantity string, upstream DataSource) (*CachedSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sample cache: open database: %w", err)
	}

	// Single connection: SQLite supports one writer, and a lone connection
	// keeps the PRAGMA setup simple.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sample cache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sample cache: create schema: %w", err)
	}

	return &CachedSource{
		upstream: upstream,
		db:       db,
		body:     body,
		quantity: quantity,
	}, nil
}

// Close releases the cache database handle.
func (s *CachedSource) Close() error {
	return s.db.Close()
}

// Start returns the upstream range start.
func (s *CachedSource) Start() time.Time { return s.upstream.Start() }

// End returns the upstream range end.
func (s *CachedSource) End() time.Time { return s.upstream.End() }

// Timestamps yields the upstream sample instants.
func (s *CachedSource) Timestamps() iter.Seq[time.Time] { return s.upstream.Timestamps() }

// ValueAt returns the cached value for t, falling back to the upstream
// source and persisting the result on a miss.
func (s *CachedSource) ValueAt(t time.Time) (float64, error) {
	us := t.UTC().UnixMicro()

	var value float64
	err := s.db.QueryRow(
		"SELECT value FROM samples WHERE body = ? AND quantity = ? AND instant_us = ?",
		s.body, s.quantity, us,
	).Scan(&value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sample cache: lookup: %w", err)
	}

	value, err = s.upstream.ValueAt(t)
	if err != nil {
		return 0, err
	}

	if _, err := s.db.Exec(
		"INSERT OR REPLACE INTO samples (body, quantity, instant_us, value) VALUES (?, ?, ?, ?)",
		s.body, s.quantity, us, value,
	); err != nil {
		return 0, fmt.Errorf("sample cache: store: %w", err)
	}

	return value, nil
}
