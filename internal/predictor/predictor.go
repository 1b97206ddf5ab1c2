package predictor

import (
	"fmt"
	"math"

	"github.com/julianstephens/studyflow/internal/constants"
	"github.com/julianstephens/studyflow/internal/models"
)

// TaskSignal is the per-task slice of the raw input visible to the predictors.
type TaskSignal struct {
	Name       string
	TimeSpent  int // minutes spent recently
	Difficulty int // 1-5 rating
}

// Ranker scores tasks for ordering. Scores are in [0,1], one per task,
// higher meaning higher priority.
type Ranker interface {
	Rank(fv models.FeatureVector, tasks []TaskSignal) ([]float64, error)
}

// DurationEstimator recommends a non-negative minute count per task.
type DurationEstimator interface {
	Estimate(fv models.FeatureVector, tasks []TaskSignal) ([]int, error)
}

// DifficultyClassifier suggests a categorical difficulty shift for tomorrow:
// -1 (easier), 0 (same), or +1 (harder).
type DifficultyClassifier interface {
	Classify(fv models.FeatureVector) (int, error)
}

// PredictionError reports a predictor failure or an out-of-contract output.
// Predictions are never retried; the error surfaces as a plan-generation failure.
type PredictionError struct {
	Stage string
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("%s prediction failed: %v", e.Stage, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// Prediction bundles the outputs of one ensemble run.
type Prediction struct {
	Scores     []float64
	Minutes    []int
	Adjustment int
}

// Ensemble groups the three pre-fitted scoring capabilities. The planner
// depends only on this contract and is agnostic to how models are produced.
type Ensemble struct {
	Ranker     Ranker
	Duration   DurationEstimator
	Difficulty DifficultyClassifier
}

// NewBaselineEnsemble returns the ensemble of shipped baseline models.
func NewBaselineEnsemble() Ensemble {
	return Ensemble{
		Ranker:     NewBaselineRanker(),
		Duration:   NewBaselineDurationEstimator(),
		Difficulty: NewBaselineDifficultyClassifier(),
	}
}

// Predict runs all three predictors and enforces their output contracts.
// Any failure or out-of-contract value (NaN score, negative minutes,
// unknown adjustment class) is wrapped in a PredictionError.
func (e Ensemble) Predict(fv models.FeatureVector, tasks []TaskSignal) (Prediction, error) {
	scores, err := e.Ranker.Rank(fv, tasks)
	if err != nil {
		return Prediction{}, &PredictionError{Stage: "ranking", Err: err}
	}
	if len(scores) != len(tasks) {
		return Prediction{}, &PredictionError{Stage: "ranking", Err: fmt.Errorf("expected %d scores, got %d", len(tasks), len(scores))}
	}
	for i, score := range scores {
		if math.IsNaN(score) || score < 0 || score > 1 {
			return Prediction{}, &PredictionError{Stage: "ranking", Err: fmt.Errorf("score %d out of range [0,1]: %v", i, score)}
		}
	}

	minutes, err := e.Duration.Estimate(fv, tasks)
	if err != nil {
		return Prediction{}, &PredictionError{Stage: "duration", Err: err}
	}
	if len(minutes) != len(tasks) {
		return Prediction{}, &PredictionError{Stage: "duration", Err: fmt.Errorf("expected %d durations, got %d", len(tasks), len(minutes))}
	}
	for i, m := range minutes {
		if m < 0 {
			return Prediction{}, &PredictionError{Stage: "duration", Err: fmt.Errorf("duration %d is negative: %d", i, m)}
		}
	}

	adjustment, err := e.Difficulty.Classify(fv)
	if err != nil {
		return Prediction{}, &PredictionError{Stage: "difficulty", Err: err}
	}
	switch constants.DifficultyAdjustment(adjustment) {
	case constants.DifficultyEasier, constants.DifficultySame, constants.DifficultyHarder:
	default:
		return Prediction{}, &PredictionError{Stage: "difficulty", Err: fmt.Errorf("unknown adjustment class: %d", adjustment)}
	}

	return Prediction{Scores: scores, Minutes: minutes, Adjustment: adjustment}, nil
}
