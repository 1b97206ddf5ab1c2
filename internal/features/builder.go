package features

import (
	"github.com/julianstephens/studyflow/internal/constants"
	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/validation"
)

// Builder derives the fixed-shape feature vector consumed by all predictors.
// It is a pure transformation: no I/O, no state beyond the request itself.
type Builder struct{}

// New creates a new feature Builder.
func New() *Builder {
	return &Builder{}
}

// Build validates the raw input and derives the feature vector.
// Validation happens here so no downstream stage sees malformed arrays.
func (b *Builder) Build(req models.PlanRequest) (models.FeatureVector, error) {
	if err := validation.ValidatePlanRequest(req); err != nil {
		return models.FeatureVector{}, err
	}

	numTasks := len(req.Tasks)

	var totalTime int
	for _, minutes := range req.TimeSpent {
		totalTime += minutes
	}
	avgTime := float64(totalTime) / float64(numTasks)

	// Trend is the recent-minus-old difficulty delta; a single task has no trend.
	var trend float64
	if numTasks >= 2 {
		trend = float64(req.DifficultyRatings[numTasks-1] - req.DifficultyRatings[0])
	}

	var difficultySum int
	for _, rating := range req.DifficultyRatings {
		difficultySum += rating
	}
	normDifficulty := float64(difficultySum) / float64(numTasks) / float64(constants.DifficultyMax)

	priorCompletion := constants.DefaultPriorCompletion
	if req.PriorCompletion != nil {
		priorCompletion = *req.PriorCompletion
	}

	energy := float64(req.EnergyLevel)

	return models.FeatureVector{
		AvgTimeSpent3d:       avgTime,
		DifficultyTrend:      trend,
		NormalizedDifficulty: normDifficulty,
		FatigueScore:         float64(constants.EnergyMax) - energy,
		ProductivityScore:    (energy / float64(constants.EnergyMax)) * priorCompletion,
		TaskFrequency:        float64(numTasks),
		TimePressure:         float64(totalTime) / float64(req.AvailableMinutes),
		EnergyLevel:          energy,
	}, nil
}
