// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/titilda/supersanta/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// SQLite has no advisory locks, so per-group exclusion comes from an
// in-process keyed mutex held for the whole transaction. That is enough
// for a single-process deployment, which is the only mode this store
// supports anyway (one writer per database file).
type SQLiteStore struct {
	db *sql.DB

	mu         sync.Mutex
	groupLocks map[string]*sync.Mutex
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
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

	return &SQLiteStore{
		db:         db,
		groupLocks: make(map[string]*sync.Mutex),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// lockFor returns the mutex serializing transactions for one group.
// Entries are never removed; the map is bounded by the number of groups
// the process has ever served.
func (s *SQLiteStore) lockFor(groupID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.groupLocks[groupID]
	if !ok {
		lock = &sync.Mutex{}
		s.groupLocks[groupID] = lock
	}
	return lock
}

// WithGroupTx runs fn inside a transaction while holding the exclusive
// lock for groupID. The lock spans the entire check-then-write sequence,
// so a second caller for the same group blocks until the first
// transaction commits or rolls back.
func (s *SQLiteStore) WithGroupTx(ctx context.Context, groupID string, fn func(tx storage.Tx) error) error {
	lock := s.lockFor(groupID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite uniqueness constraint
// failure. The driver does not export a typed error for this, so the
// message is matched.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
