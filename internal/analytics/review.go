// Package analytics aggregates stored feedback into review statistics.
package analytics

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studyflow/internal/constants"
	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/storage"
)

// ErrEmptyRange is returned when a review range contains no feedback at
// all. Averages over zero days are undefined, so the caller must handle
// this explicitly instead of reading zeros.
var ErrEmptyRange = errors.New("no feedback recorded in range")

// Reviewer computes feedback aggregations over any storage backend.
type Reviewer struct {
	store storage.Provider
}

// NewReviewer creates a Reviewer over the given store.
func NewReviewer(store storage.Provider) *Reviewer {
	return &Reviewer{store: store}
}

// Summarize aggregates all feedback with start <= date <= end. Days with a
// plan but no feedback are absent from the feedback table and therefore do
// not dilute the averages.
func (r *Reviewer) Summarize(startDate, endDate string) (models.ReviewStats, error) {
	feedback, err := r.store.GetFeedbackRange(startDate, endDate)
	if err != nil {
		return models.ReviewStats{}, fmt.Errorf("failed to load feedback for review: %w", err)
	}
	if len(feedback) == 0 {
		return models.ReviewStats{}, ErrEmptyRange
	}

	var (
		completionSum  float64
		tirednessSum   float64
		highCompletion int
	)
	for _, fb := range feedback {
		completionSum += fb.CompletionRatio
		tirednessSum += float64(fb.Tiredness)
		if fb.CompletionRatio > constants.HighCompletionThreshold {
			highCompletion++
		}
	}

	n := float64(len(feedback))
	return models.ReviewStats{
		TotalDays:          len(feedback),
		AvgCompletionRatio: completionSum / n,
		AvgTiredness:       tirednessSum / n,
		HighCompletionDays: highCompletion,
	}, nil
}
