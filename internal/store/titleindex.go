package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver
)

const createTitlesTable = `
CREATE TABLE IF NOT EXISTS titles (
	date       TEXT NOT NULL,
	normalized TEXT NOT NULL,
	original   TEXT NOT NULL,
	PRIMARY KEY (date, normalized)
);
CREATE INDEX IF NOT EXISTS idx_titles_date ON titles(date);
`

// TitleIndex archives (date, normalized, original) title rows in SQLite so
// a deduplication tracker can be reseeded after a restart.
type TitleIndex struct {
	db *sql.DB
}

// OpenTitleIndex opens or creates the index database at path.
func OpenTitleIndex(path string) (*TitleIndex, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open title index: %w", err)
	}

	// The index has a single writer per process.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTitlesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create titles table: %w", err)
	}

	return &TitleIndex{db: db}, nil
}

// Record stores one title row. Replaying an already recorded normalized
// title for the same date is a no-op, so the first-seen original wins.
func (ix *TitleIndex) Record(ctx context.Context, date, normalized, original string) error {
	_, err := ix.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO titles (date, normalized, original) VALUES (?, ?, ?)`,
		date, normalized, original,
	)
	if err != nil {
		return fmt.Errorf("record title: %w", err)
	}

	return nil
}

// OriginalsSince returns the first-seen original titles recorded on or
// after the given date, in insertion order, for seeding a tracker.
func (ix *TitleIndex) OriginalsSince(ctx context.Context, date string) ([]string, error) {
	rows, err := ix.db.QueryContext(ctx,
		`SELECT original FROM titles WHERE date >= ? ORDER BY rowid`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var originals []string

	for rows.Next() {
		var original string
		if err := rows.Scan(&original); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		originals = append(originals, original)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}

	return originals, nil
}

// Close releases the underlying database handle.
func (ix *TitleIndex) Close() error {
	return ix.db.Close()
}
