package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"feriadobot/internal/holiday/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS holiday_cache (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	document TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
)`

// SQLiteCache stores the holiday document in a single-row SQLite table.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (creating if needed) the SQLite database at path and
// prepares the cache table.
func OpenSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("create holiday_cache table: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Close releases the database handle.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Backend names the storage kind for logs and metrics.
func (c *SQLiteCache) Backend() string { return "sqlite" }

// IsValid reports whether the stored document holds a non-empty list for year.
func (c *SQLiteCache) IsValid(ctx context.Context, year int) bool {
	ok, _ := checkValid(ctx, c.read, year)
	return ok
}

// Load decodes the stored document.
func (c *SQLiteCache) Load(ctx context.Context) ([]models.Record, error) {
	return load(ctx, c.read)
}

// Save upserts the single cache row.
func (c *SQLiteCache) Save(ctx context.Context, records []models.Record) error {
	payload, err := encodeDocument(records)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO holiday_cache (id, document, updated_at)
		VALUES (1, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("save holiday cache: %w", err)
	}
	return nil
}

func (c *SQLiteCache) read(ctx context.Context) ([]byte, error) {
	var document string
	err := c.db.QueryRowContext(ctx, `SELECT document FROM holiday_cache WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no cached document", ErrInvalidCache)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query holiday_cache: %v", ErrInvalidCache, err)
	}
	return []byte(document), nil
}
