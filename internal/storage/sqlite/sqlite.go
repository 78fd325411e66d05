// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories, runs migrations, and seeds the counter
// rows automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; funneling all access through a
	// single connection avoids SQLITE_BUSY errors under concurrent requests.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// IncrementCounter atomically increments the named counter and returns the new
// value. The increment and read happen in one UPDATE ... RETURNING statement,
// so concurrent callers can never observe the same value: SQLite serializes
// writers and the statement itself is indivisible.
func (s *SQLiteStore) IncrementCounter(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		"UPDATE counters SET value = value + 1 WHERE name = ? RETURNING value",
		name,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", storage.ErrUnknownCounter, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %q: %w", name, err)
	}
	return value, nil
}

// GetCounter returns the current value of the named counter.
func (s *SQLiteStore) GetCounter(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM counters WHERE name = ?",
		name,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", storage.ErrUnknownCounter, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %q: %w", name, err)
	}
	return value, nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint failure.
// modernc.org/sqlite surfaces these as plain errors carrying the constraint
// message, so we match on the text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
