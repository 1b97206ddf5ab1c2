// Package postgres implements the storage.Provider contract over a
// PostgreSQL database, for users who want the planner's data on a server
// they already run. Credentials come from the environment or the OS
// keyring, never from the connection string.
package postgres

import (
	"database/sql"
	"fmt"
	"io/fs"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/studyflow/internal/migration"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/migrations"
)

// Store is a PostgreSQL-backed Provider. The mutex serializes this
// process's mutating calls; cross-process writers are covered by the
// per-call transactions.
type Store struct {
	connStr string
	db      *sql.DB
	mu      sync.Mutex
}

var _ storage.Provider = (*Store)(nil)

// NewStore creates a Store for the given connection string. The string
// must not embed a password; the connection is not opened until Init or
// Load is called.
func NewStore(connStr string) (*Store, error) {
	if !storage.IsPostgresConnString(connStr) {
		return nil, fmt.Errorf("not a postgres connection string: %s", connStr)
	}
	if storage.HasEmbeddedCredentials(connStr) {
		return nil, fmt.Errorf("connection string must not embed a password; use PGPASSWORD, .pgpass, or the keyring")
	}
	return &Store{connStr: connStr}, nil
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	return nil
}

func (s *Store) migrationFS() (fs.FS, error) {
	return fs.Sub(migrations.FS, "postgres")
}

// Init connects to the database and applies all pending migrations.
func (s *Store) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	migrationFS, err := s.migrationFS()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if _, err := migration.NewRunner(s.db, migrationFS).ApplyMigrations(nil); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Load connects to an existing database and verifies its schema version.
func (s *Store) Load() error {
	if err := s.open(); err != nil {
		return err
	}

	migrationFS, err := s.migrationFS()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	return migration.NewRunner(s.db, migrationFS).ValidateVersion()
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// GetConfigPath returns the connection string identifying this store.
func (s *Store) GetConfigPath() string {
	return s.connStr
}
