package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/studyflow/internal/cli"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/internal/storage/postgres"
	"github.com/julianstephens/studyflow/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing database before initialization."`
	Source string `help:"Existing database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" && !storage.IsPostgresConnString(c.Source) {
			absDB, errDB := filepath.Abs(dbPath)
			absSource, errSource := filepath.Abs(c.Source)
			if errDB == nil && errSource == nil && absDB == absSource {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("data copy failed: %w", err)
		}
		fmt.Println("Data copy completed.")
	}
	return nil
}

// copyData moves plans and feedback between backends via the snapshot
// export format, so SQLite-to-Postgres and back both work.
func (c *InitCmd) copyData(ctx *cli.Context) error {
	var (
		source storage.Provider
		err    error
	)
	if storage.IsPostgresConnString(c.Source) {
		source, err = postgres.NewStore(c.Source)
		if err != nil {
			return err
		}
	} else {
		source = sqlite.NewStore(c.Source)
	}

	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	doc, err := source.Export()
	if err != nil {
		return fmt.Errorf("failed to export source data: %w", err)
	}
	if err := ctx.Store.Import(doc); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}
	fmt.Printf("  Copied %d plan(s) and %d feedback record(s)\n", len(doc.Plans), len(doc.Feedback))
	return nil
}
