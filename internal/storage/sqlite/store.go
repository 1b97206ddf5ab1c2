// Package sqlite implements the storage.Provider contract over a local
// SQLite database file. This is the default backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/studyflow/internal/migration"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/migrations"
)

// Store is a SQLite-backed Provider. A mutex serializes mutating calls so
// each write is one transaction and concurrent savers cannot interleave.
type Store struct {
	dbPath string
	db     *sql.DB
	mu     sync.Mutex
}

var _ storage.Provider = (*Store)(nil)

// NewStore creates a Store for the given database file path. The database
// is not touched until Init or Load is called.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s.db = db
	return nil
}

func (s *Store) migrationFS() (fs.FS, error) {
	return fs.Sub(migrations.FS, "sqlite")
}

// Init creates the database file's directory, opens the database, and
// applies all pending migrations.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}

	migrationFS, err := s.migrationFS()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	runner := migration.NewRunner(s.db, migrationFS)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Load opens an existing database and verifies its schema version is not
// newer than this build supports.
func (s *Store) Load() error {
	if _, err := os.Stat(s.dbPath); err != nil {
		return fmt.Errorf("database not found at %s, run init first: %w", s.dbPath, err)
	}
	if err := s.open(); err != nil {
		return err
	}

	migrationFS, err := s.migrationFS()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	return migration.NewRunner(s.db, migrationFS).ValidateVersion()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// GetConfigPath returns the database file path.
func (s *Store) GetConfigPath() string {
	return s.dbPath
}
