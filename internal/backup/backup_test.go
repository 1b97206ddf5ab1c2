package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDatabase(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE marker (id INTEGER PRIMARY KEY, label TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO marker (label) VALUES ('original')`); err != nil {
		t.Fatalf("failed to insert row: %v", err)
	}
	return dbPath
}

func TestCreateAndListBackups(t *testing.T) {
	dbPath := newTestDatabase(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d backups, want 1", len(backups))
	}
	if backups[0].Path != backupPath {
		t.Errorf("got path %q, want %q", backups[0].Path, backupPath)
	}
	if backups[0].Size == 0 {
		t.Error("backup file is empty")
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestListBackupsNoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "test.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("got %d backups, want 0", len(backups))
	}
}

func TestCreateBackupUniqueNames(t *testing.T) {
	dbPath := newTestDatabase(t)
	mgr := NewManager(dbPath)

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("first CreateBackup failed: %v", err)
	}
	second, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("second CreateBackup failed: %v", err)
	}
	if first == second {
		t.Errorf("both backups wrote to %q", first)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := newTestDatabase(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	// Change the database after the backup.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec(`UPDATE marker SET label = 'changed'`); err != nil {
		t.Fatalf("failed to update row: %v", err)
	}
	db.Close()

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	db, err = sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer db.Close()
	var label string
	if err := db.QueryRow(`SELECT label FROM marker`).Scan(&label); err != nil {
		t.Fatalf("failed to read restored row: %v", err)
	}
	if label != "original" {
		t.Errorf("got label %q, want original", label)
	}
}

func TestRestoreBackupRejectsInvalidFile(t *testing.T) {
	dbPath := newTestDatabase(t)
	mgr := NewManager(dbPath)

	badPath := filepath.Join(t.TempDir(), "not-a-db.db")
	if err := os.WriteFile(badPath, []byte("garbage"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := mgr.RestoreBackup(badPath); err == nil {
		t.Error("expected error restoring an invalid file")
	}
}
