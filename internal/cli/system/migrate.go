package system

import (
	"fmt"

	"github.com/julianstephens/studyflow/internal/cli"
)

type MigrateCmd struct{}

// Run applies pending schema migrations. Init is a superset of this; the
// standalone command exists for upgrading an existing database in place.
func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Println("Database schema is up to date.")
	return nil
}
