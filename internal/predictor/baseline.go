package predictor

import (
	"math"

	"github.com/julianstephens/studyflow/internal/constants"
	"github.com/julianstephens/studyflow/internal/models"
)

// The baseline models are pre-fitted coefficient sets shipped with the
// application. They stand in until a caller injects models of its own;
// the planner never knows the difference.

type linearRanker struct {
	difficultyWeight float64
	stalenessWeight  float64
	fatigueWeight    float64
}

// NewBaselineRanker returns the shipped linear ranking model. It favors
// harder tasks and tasks with little recent time, and shifts weight toward
// easier tasks as fatigue rises.
func NewBaselineRanker() Ranker {
	return &linearRanker{
		difficultyWeight: 0.55,
		stalenessWeight:  0.30,
		fatigueWeight:    0.15,
	}
}

func (r *linearRanker) Rank(fv models.FeatureVector, tasks []TaskSignal) ([]float64, error) {
	var totalTime int
	for _, task := range tasks {
		totalTime += task.TimeSpent
	}

	maxFatigue := float64(constants.EnergyMax - constants.EnergyMin)
	fatigue := fv.FatigueScore / maxFatigue

	scores := make([]float64, len(tasks))
	for i, task := range tasks {
		difficulty := float64(task.Difficulty) / float64(constants.DifficultyMax)

		// Share of recent time already spent on this task; untouched tasks rank higher.
		var timeShare float64
		if totalTime > 0 {
			timeShare = float64(task.TimeSpent) / float64(totalTime)
		}

		score := r.difficultyWeight*difficulty +
			r.stalenessWeight*(1-timeShare) +
			r.fatigueWeight*fatigue*(1-difficulty)
		scores[i] = clamp01(score)
	}
	return scores, nil
}

type linearDurationEstimator struct {
	intercept        float64
	timeWeight       float64
	difficultyWeight float64
}

// NewBaselineDurationEstimator returns the shipped linear duration model.
// Output is clamped to [MinRecommendedMinutes, MaxRecommendedMinutes].
func NewBaselineDurationEstimator() DurationEstimator {
	return &linearDurationEstimator{
		intercept:        15.0,
		timeWeight:       0.5,
		difficultyWeight: 8.0,
	}
}

func (e *linearDurationEstimator) Estimate(fv models.FeatureVector, tasks []TaskSignal) ([]int, error) {
	minutes := make([]int, len(tasks))
	for i, task := range tasks {
		raw := e.intercept +
			e.timeWeight*float64(task.TimeSpent) +
			e.difficultyWeight*float64(task.Difficulty)
		clamped := math.Min(constants.MaxRecommendedMinutes, math.Max(constants.MinRecommendedMinutes, raw))
		minutes[i] = int(math.Round(clamped))
	}
	return minutes, nil
}

type thresholdDifficultyClassifier struct {
	harderAbove float64
	easierBelow float64
}

// NewBaselineDifficultyClassifier returns the shipped threshold classifier:
// strong prior completion suggests a harder day, weak completion an easier one.
func NewBaselineDifficultyClassifier() DifficultyClassifier {
	return &thresholdDifficultyClassifier{
		harderAbove: constants.HarderCompletionThreshold,
		easierBelow: constants.EasierCompletionThreshold,
	}
}

func (c *thresholdDifficultyClassifier) Classify(fv models.FeatureVector) (int, error) {
	// Recover the prior completion ratio folded into the productivity score.
	// Energy level is validated to be >= 1 upstream.
	completion := fv.ProductivityScore * float64(constants.EnergyMax) / fv.EnergyLevel

	switch {
	case completion > c.harderAbove:
		return int(constants.DifficultyHarder), nil
	case completion < c.easierBelow:
		return int(constants.DifficultyEasier), nil
	default:
		return int(constants.DifficultySame), nil
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
