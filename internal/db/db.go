// Package db persists computed landmark statistics in SQLite. The
// consensus/alignment engine itself defines no storage format; this is
// the batch runner's record of what it computed, so repeated runs can be
// compared without recomputing every pair.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the statistics database connection.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the statistics database at path and applies
// all pending migrations.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenDB opens the database without touching the schema. Use this for
// migration tooling; regular callers want NewDB.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Serialize writers instead of surfacing SQLITE_BUSY to callers
	// fanning out over many image/user pairs.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal_mode: %w", err)
	}

	return &DB{db}, nil
}
