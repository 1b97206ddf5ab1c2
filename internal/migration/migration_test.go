package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrationsFreshDatabase(t *testing.T) {
	db := newTestDB(t)
	fs := fstest.MapFS{
		"001_init.sql":   {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY)`)},
		"002_extend.sql": {Data: []byte(`CREATE TABLE b (id INTEGER PRIMARY KEY)`)},
	}

	runner := NewRunner(db, fs)
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied %d migrations, want 2", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	// Both tables must exist.
	for _, table := range []string{"a", "b"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	db := newTestDB(t)
	fs := fstest.MapFS{
		"001_init.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY)`)},
	}

	runner := NewRunner(db, fs)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("first ApplyMigrations failed: %v", err)
	}
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("applied %d migrations on second run, want 0", applied)
	}
}

func TestApplyMigrationsRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	fs := fstest.MapFS{
		"001_init.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY)`)},
		"002_bad.sql":  {Data: []byte(`THIS IS NOT SQL`)},
	}

	runner := NewRunner(db, fs)
	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected failure from bad migration")
	}
	if applied != 1 {
		t.Errorf("applied %d migrations before failure, want 1", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1 after failed migration", version)
	}
}

func TestValidateVersionRejectsNewerDatabase(t *testing.T) {
	db := newTestDB(t)
	fs := fstest.MapFS{
		"001_init.sql": {Data: []byte(`CREATE TABLE a (id INTEGER PRIMARY KEY)`)},
	}

	runner := NewRunner(db, fs)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if _, err := db.Exec(`UPDATE schema_version SET version = 99`); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}

	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected error for database newer than build")
	}
}

func TestInvalidMigrationFilenames(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{"no version prefix", fstest.MapFS{"init.sql": {Data: []byte(`SELECT 1`)}}},
		{"non-numeric version", fstest.MapFS{"abc_init.sql": {Data: []byte(`SELECT 1`)}}},
		{"zero version", fstest.MapFS{"000_init.sql": {Data: []byte(`SELECT 1`)}}},
		{"duplicate versions", fstest.MapFS{
			"001_a.sql":  {Data: []byte(`SELECT 1`)},
			"01_b.sql":   {Data: []byte(`SELECT 1`)},
			"002_ok.sql": {Data: []byte(`SELECT 1`)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(db, tt.fs).ApplyMigrations(nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}
