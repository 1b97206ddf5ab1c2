package plans

import (
	"fmt"

	"github.com/julianstephens/studyflow/internal/cli"
	"github.com/julianstephens/studyflow/internal/models"
)

type PlanCmd struct {
	Date            string   `arg:"" help:"Date to plan (YYYY-MM-DD or 'today')." default:"today"`
	Task            []string `help:"Task name (repeat per task)." short:"t" required:""`
	TimeSpent       []int    `help:"Minutes spent recently on each task, in task order." name:"time-spent" required:""`
	Difficulty      []int    `help:"Difficulty rating 1-5 for each task, in task order." required:""`
	Energy          int      `help:"Current energy level (1-5)." required:""`
	Available       int      `help:"Minutes available for studying today." required:""`
	Goal            []string `help:"Optional goal (repeat per goal)." short:"g"`
	PriorCompletion *float64 `help:"Yesterday's completion ratio (0.0-1.0)." name:"prior-completion"`
	DryRun          bool     `help:"Print the plan without saving it." name:"dry-run"`
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	req := models.PlanRequest{
		Date:              cli.ResolveDate(c.Date),
		Tasks:             c.Task,
		TimeSpent:         c.TimeSpent,
		DifficultyRatings: c.Difficulty,
		EnergyLevel:       c.Energy,
		Goals:             c.Goal,
		AvailableMinutes:  c.Available,
		PriorCompletion:   c.PriorCompletion,
	}

	result, err := ctx.Planner.Generate(req)
	if err != nil {
		return err
	}

	record := result.Record(c.Available)
	cli.PrintPlan(record)

	if c.DryRun {
		fmt.Println("\nDry run: plan not saved.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.SavePlan(record, result.Metrics); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	fmt.Printf("\nPlan saved for %s.\n", record.Date)
	return nil
}

type PlanDeleteCmd struct {
	Date string `arg:"" help:"Date of the plan to delete (YYYY-MM-DD)."`
}

func (c *PlanDeleteCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeletePlan(c.Date); err != nil {
		return err
	}
	fmt.Printf("Deleted plan for %s along with its feedback and metrics.\n", c.Date)
	return nil
}
