package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/studyflow/internal/cli"
	"github.com/julianstephens/studyflow/internal/cli/backups"
	"github.com/julianstephens/studyflow/internal/cli/plans"
	"github.com/julianstephens/studyflow/internal/cli/reviews"
	"github.com/julianstephens/studyflow/internal/cli/system"
	"github.com/julianstephens/studyflow/internal/constants"
	apperrors "github.com/julianstephens/studyflow/internal/errors"
	"github.com/julianstephens/studyflow/internal/keyring"
	"github.com/julianstephens/studyflow/internal/logger"
	"github.com/julianstephens/studyflow/internal/planner"
	"github.com/julianstephens/studyflow/internal/predictor"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/internal/storage/postgres"
	"github.com/julianstephens/studyflow/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use PGPASSWORD, .pgpass, or the OS keyring." default:"${default_config}"`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd    `cmd:"" help:"Initialize storage."`
	Migrate  system.MigrateCmd `cmd:"" help:"Apply pending database migrations."`
	Plan     plans.PlanCmd     `cmd:"" help:"Generate and save a study plan for a day."`
	Feedback plans.FeedbackCmd `cmd:"" help:"Record end-of-day feedback for a plan."`
	Day      plans.DayCmd      `cmd:"" help:"Show the plan and feedback for a day."`
	List     plans.ListCmd     `cmd:"" help:"List plans in a date range."`
	Review   reviews.ReviewCmd `cmd:"" help:"Summarize feedback over a date range."`
	Export   system.ExportCmd  `cmd:"" help:"Export all plans and feedback to a JSON file."`
	Import   system.ImportCmd  `cmd:"" help:"Import plans and feedback from a JSON export."`
	Plans    struct {
		Delete plans.PlanDeleteCmd `cmd:"" help:"Delete a plan with its feedback and metrics."`
	} `cmd:"" help:"Manage stored plans."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the stored database connection string."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Adaptive study planner that learns from your daily feedback"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	config := expandPath(CLI.Config)

	// A connection string stored in the OS keyring overrides the default
	// SQLite path, but never an explicit --config value.
	if config == expandPath(constants.DefaultConfigPath) {
		if stored, err := keyring.GetConnectionString(); err == nil {
			config = stored
		} else if !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable) {
			apperrors.Fatal(err)
		}
	}

	var store storage.Provider
	if storage.IsPostgresConnString(config) {
		if storage.HasEmbeddedCredentials(config) {
			fmt.Fprintln(os.Stderr, "Error: PostgreSQL connection strings with embedded credentials are not allowed.")
			fmt.Fprintln(os.Stderr, "Use one of these alternatives:")
			fmt.Fprintf(os.Stderr, "  1. OS keyring:   %s keyring set \"postgresql://user@host:5432/studyflow\"\n", constants.AppName)
			fmt.Fprintln(os.Stderr, "  2. Environment:  export PGPASSWORD=...")
			fmt.Fprintln(os.Stderr, "  3. .pgpass file: connection string without a password")
			os.Exit(1)
		}
		pgStore, err := postgres.NewStore(config)
		if err != nil {
			apperrors.Fatal(err)
		}
		store = pgStore
	} else {
		store = sqlite.NewStore(config)
	}

	logDir := filepath.Dir(expandPath(constants.DefaultConfigPath))
	if !storage.IsPostgresConnString(config) {
		logDir = filepath.Dir(config)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	appCtx := &cli.Context{
		Store:   store,
		Planner: planner.New(predictor.NewBaselineEnsemble()),
	}

	// Init and migrate open the database themselves; everything else needs
	// an existing, version-checked store.
	selected := ""
	if ctx.Selected() != nil {
		selected = ctx.Selected().Name
	}
	if selected != "init" && selected != "migrate" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
		defer store.Close()
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
