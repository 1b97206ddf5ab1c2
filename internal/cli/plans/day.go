package plans

import (
	"fmt"
	"sort"

	"github.com/julianstephens/studyflow/internal/cli"
)

type DayCmd struct {
	Date    string `arg:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
	Metrics bool   `help:"Also show the metrics recorded with the plan."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	date := cli.ResolveDate(c.Date)

	day, err := ctx.Store.GetPlanWithFeedback(date)
	if err != nil {
		return err
	}

	cli.PrintPlan(day.Plan)
	if day.Feedback != nil {
		fmt.Println()
		cli.PrintFeedback(*day.Feedback)
	} else {
		fmt.Println("\nNo feedback recorded yet.")
	}

	if c.Metrics {
		metrics, err := ctx.Store.GetMetrics(date)
		if err != nil {
			return err
		}
		if len(metrics) > 0 {
			names := make([]string, 0, len(metrics))
			for name := range metrics {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Println("\nMetrics:")
			for _, name := range names {
				fmt.Printf("  %-20s %.2f\n", name, metrics[name])
			}
		}
	}
	return nil
}

type ListCmd struct {
	Start string `arg:"" help:"Start date (YYYY-MM-DD, inclusive)."`
	End   string `arg:"" help:"End date (YYYY-MM-DD, inclusive)."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	plans, err := ctx.Store.ListPlans(c.Start, c.End)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		fmt.Printf("No plans between %s and %s.\n", c.Start, c.End)
		return nil
	}

	fmt.Printf("Plans from %s to %s:\n\n", c.Start, c.End)
	for _, plan := range plans {
		fmt.Printf("  %s  %d tasks, %d/%d minutes\n", plan.Date, plan.NumTasks, plan.TotalPlannedMinutes, plan.AvailableMinutes)
	}
	return nil
}
