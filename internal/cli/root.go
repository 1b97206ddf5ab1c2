// Package cli holds the shared command context and helpers used by every
// subcommand package.
package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/studyflow/internal/backup"
	"github.com/julianstephens/studyflow/internal/logger"
	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/planner"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/internal/utils"
)

// Context is passed to every command's Run method.
type Context struct {
	Store   storage.Provider
	Planner *planner.Assembler
}

// PerformAutomaticBackup snapshots the database before a mutating command.
// Failures are logged, not fatal; backups only apply to file-backed stores.
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.GetConfigPath()
	if storage.IsPostgresConnString(path) {
		return
	}
	if _, err := backup.NewManager(path).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDate turns "today" or an empty string into today's date and passes
// explicit YYYY-MM-DD values through.
func ResolveDate(date string) string {
	if date == "" || strings.EqualFold(date, "today") {
		return utils.Today()
	}
	return date
}

// PrintPlan renders a stored plan to stdout.
func PrintPlan(plan models.PlanRecord) {
	fmt.Printf("Plan for %s (%d tasks, %d/%d minutes):\n\n", plan.Date, plan.NumTasks, plan.TotalPlannedMinutes, plan.AvailableMinutes)
	for i, task := range plan.Tasks {
		fmt.Printf("  %d. %-30s %d min\n", i+1, task.Name, task.AllocatedMinutes)
	}
	if plan.Summary != "" {
		fmt.Printf("\n%s\n", plan.Summary)
	}
}

// PrintFeedback renders a stored feedback record to stdout.
func PrintFeedback(fb models.FeedbackRecord) {
	fmt.Printf("Feedback for %s:\n", fb.Date)
	fmt.Printf("  Completion: %.0f%%\n", fb.CompletionRatio*100)
	fmt.Printf("  Tiredness:  %d/5\n", fb.Tiredness)
	if fb.Notes != nil {
		fmt.Printf("  Notes:      %s\n", *fb.Notes)
	}
}
