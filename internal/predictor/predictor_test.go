package predictor

import (
	"errors"
	"testing"

	"github.com/julianstephens/studyflow/internal/constants"
	"github.com/julianstephens/studyflow/internal/models"
)

func baseVector() models.FeatureVector {
	return models.FeatureVector{
		AvgTimeSpent3d:       30,
		NormalizedDifficulty: 0.6,
		FatigueScore:         1,
		ProductivityScore:    0.64,
		TaskFrequency:        2,
		TimePressure:         0.8,
		EnergyLevel:          4,
	}
}

func TestBaselineRankerFavorsHarderUntouchedTasks(t *testing.T) {
	tasks := []TaskSignal{
		{Name: "easy recent", TimeSpent: 90, Difficulty: 1},
		{Name: "hard fresh", TimeSpent: 0, Difficulty: 5},
	}

	scores, err := NewBaselineRanker().Rank(baseVector(), tasks)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[1] <= scores[0] {
		t.Errorf("hard fresh task should outrank easy recent one: %v", scores)
	}
	for i, score := range scores {
		if score < 0 || score > 1 {
			t.Errorf("score %d out of [0,1]: %v", i, score)
		}
	}
}

func TestBaselineRankerZeroTimeSpent(t *testing.T) {
	tasks := []TaskSignal{
		{Name: "a", TimeSpent: 0, Difficulty: 3},
		{Name: "b", TimeSpent: 0, Difficulty: 3},
	}
	scores, err := NewBaselineRanker().Rank(baseVector(), tasks)
	if err != nil {
		t.Fatalf("Rank failed: %v", err)
	}
	if scores[0] != scores[1] {
		t.Errorf("identical tasks should score equally: %v", scores)
	}
}

func TestBaselineDurationClamps(t *testing.T) {
	tasks := []TaskSignal{
		{Name: "tiny", TimeSpent: 0, Difficulty: 1},
		{Name: "huge", TimeSpent: 600, Difficulty: 5},
	}

	minutes, err := NewBaselineDurationEstimator().Estimate(baseVector(), tasks)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if minutes[0] != constants.MinRecommendedMinutes {
		t.Errorf("got %d, want clamp to %d", minutes[0], constants.MinRecommendedMinutes)
	}
	if minutes[1] != constants.MaxRecommendedMinutes {
		t.Errorf("got %d, want clamp to %d", minutes[1], constants.MaxRecommendedMinutes)
	}
}

func TestBaselineDifficultyThresholds(t *testing.T) {
	classifier := NewBaselineDifficultyClassifier()

	tests := []struct {
		name       string
		completion float64
		want       int
	}{
		{"strong completion goes harder", 0.9, int(constants.DifficultyHarder)},
		{"weak completion goes easier", 0.4, int(constants.DifficultyEasier)},
		{"middling completion stays", 0.65, int(constants.DifficultySame)},
		{"boundary 0.8 stays", 0.8, int(constants.DifficultySame)},
		{"boundary 0.5 stays", 0.5, int(constants.DifficultySame)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := baseVector()
			// Encode the completion ratio the way the feature builder does.
			fv.ProductivityScore = (fv.EnergyLevel / float64(constants.EnergyMax)) * tt.completion

			got, err := classifier.Classify(fv)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

type badRanker struct{}

func (badRanker) Rank(models.FeatureVector, []TaskSignal) ([]float64, error) {
	return []float64{2.5}, nil
}

type shortEstimator struct{}

func (shortEstimator) Estimate(models.FeatureVector, []TaskSignal) ([]int, error) {
	return nil, nil
}

type wildClassifier struct{}

func (wildClassifier) Classify(models.FeatureVector) (int, error) {
	return 7, nil
}

func TestEnsembleEnforcesContracts(t *testing.T) {
	tasks := []TaskSignal{{Name: "Math", TimeSpent: 30, Difficulty: 3}}

	t.Run("score out of range", func(t *testing.T) {
		ensemble := NewBaselineEnsemble()
		ensemble.Ranker = badRanker{}
		_, err := ensemble.Predict(baseVector(), tasks)
		var perr *PredictionError
		if !errors.As(err, &perr) || perr.Stage != "ranking" {
			t.Errorf("got %v, want ranking PredictionError", err)
		}
	})

	t.Run("duration count mismatch", func(t *testing.T) {
		ensemble := NewBaselineEnsemble()
		ensemble.Duration = shortEstimator{}
		_, err := ensemble.Predict(baseVector(), tasks)
		var perr *PredictionError
		if !errors.As(err, &perr) || perr.Stage != "duration" {
			t.Errorf("got %v, want duration PredictionError", err)
		}
	})

	t.Run("unknown adjustment class", func(t *testing.T) {
		ensemble := NewBaselineEnsemble()
		ensemble.Difficulty = wildClassifier{}
		_, err := ensemble.Predict(baseVector(), tasks)
		var perr *PredictionError
		if !errors.As(err, &perr) || perr.Stage != "difficulty" {
			t.Errorf("got %v, want difficulty PredictionError", err)
		}
	})

	t.Run("baseline ensemble passes", func(t *testing.T) {
		pred, err := NewBaselineEnsemble().Predict(baseVector(), tasks)
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		if len(pred.Scores) != 1 || len(pred.Minutes) != 1 {
			t.Errorf("got %+v", pred)
		}
	})
}
