package reviews

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studyflow/internal/analytics"
	"github.com/julianstephens/studyflow/internal/cli"
)

type ReviewCmd struct {
	Start string `arg:"" help:"Start date (YYYY-MM-DD, inclusive)."`
	End   string `arg:"" help:"End date (YYYY-MM-DD, inclusive)."`
}

func (c *ReviewCmd) Run(ctx *cli.Context) error {
	stats, err := analytics.NewReviewer(ctx.Store).Summarize(c.Start, c.End)
	if err != nil {
		if errors.Is(err, analytics.ErrEmptyRange) {
			fmt.Printf("No feedback recorded between %s and %s.\n", c.Start, c.End)
			return nil
		}
		return err
	}

	fmt.Printf("Review for %s to %s:\n\n", c.Start, c.End)
	fmt.Printf("  Days with feedback:   %d\n", stats.TotalDays)
	fmt.Printf("  Average completion:   %.0f%%\n", stats.AvgCompletionRatio*100)
	fmt.Printf("  Average tiredness:    %.1f/5\n", stats.AvgTiredness)
	fmt.Printf("  High-completion days: %d\n", stats.HighCompletionDays)
	return nil
}
