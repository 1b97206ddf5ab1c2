package plans

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studyflow/internal/cli"
	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/storage"
)

type FeedbackCmd struct {
	Date       string  `arg:"" help:"Date the feedback applies to (YYYY-MM-DD or 'today')." default:"today"`
	Completion float64 `help:"Fraction of the plan completed (0.0-1.0)." required:""`
	Tiredness  int     `help:"End-of-day tiredness (1-5)." required:""`
	Notes      string  `help:"Optional free-form notes."`
}

func (c *FeedbackCmd) Run(ctx *cli.Context) error {
	fb := models.FeedbackRecord{
		Date:            cli.ResolveDate(c.Date),
		CompletionRatio: c.Completion,
		Tiredness:       c.Tiredness,
	}
	if c.Notes != "" {
		fb.Notes = &c.Notes
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.SaveFeedback(fb); err != nil {
		if errors.Is(err, storage.ErrNoPlanForDate) {
			return fmt.Errorf("no plan exists for %s; generate one before recording feedback", fb.Date)
		}
		return err
	}
	fmt.Printf("Feedback saved for %s.\n", fb.Date)
	return nil
}
