// Package sqlite provides the SQLite-backed account database used by the
// local identity provider.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// AccountStore persists provider accounts and password-reset tokens.
type AccountStore struct {
	db *sql.DB
}

// New creates a new AccountStore with the given database path.
// It creates the parent directories and runs migrations automatically.
// Pass ":memory:" for a throwaway database.
func New(dbPath string) (*AccountStore, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY between writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &AccountStore{db: db}, nil
}

// Close closes the database connection.
func (s *AccountStore) Close() error {
	return s.db.Close()
}
