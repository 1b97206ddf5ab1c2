package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/studyflow/internal/constants"
	"github.com/julianstephens/studyflow/internal/features"
	"github.com/julianstephens/studyflow/internal/logger"
	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/predictor"
	"github.com/julianstephens/studyflow/internal/utils"
)

// Assembler turns a raw planning request into a ranked, time-allocated
// draft plan by running the feature builder and the predictor ensemble.
type Assembler struct {
	builder  *features.Builder
	ensemble predictor.Ensemble
}

// New creates an Assembler over the given ensemble.
func New(ensemble predictor.Ensemble) *Assembler {
	return &Assembler{
		builder:  features.New(),
		ensemble: ensemble,
	}
}

// Generate produces a draft plan for the request's date (today when unset).
// Validation failures and predictor failures surface unchanged; the
// assembler does not retry.
func (a *Assembler) Generate(req models.PlanRequest) (models.PlanResult, error) {
	fv, err := a.builder.Build(req)
	if err != nil {
		return models.PlanResult{}, err
	}

	date := req.Date
	if date == "" {
		date = utils.Today()
	}

	tasks := make([]predictor.TaskSignal, len(req.Tasks))
	for i, name := range req.Tasks {
		tasks[i] = predictor.TaskSignal{
			Name:       name,
			TimeSpent:  req.TimeSpent[i],
			Difficulty: req.DifficultyRatings[i],
		}
	}

	pred, err := a.ensemble.Predict(fv, tasks)
	if err != nil {
		return models.PlanResult{}, err
	}

	order := rankOrder(pred.Scores)

	rankedTasks := make([]string, len(order))
	rankedMinutes := make([]int, len(order))
	for i, idx := range order {
		rankedTasks[i] = req.Tasks[idx]
		rankedMinutes[i] = pred.Minutes[idx]
	}

	allocated := allocateMinutes(rankedMinutes, req.AvailableMinutes)

	result := models.PlanResult{
		Date:                 date,
		RankedTasks:          rankedTasks,
		RecommendedMinutes:   allocated,
		DifficultyAdjustment: pred.Adjustment,
		Summary:              buildSummary(rankedTasks, allocated, pred.Adjustment, fv),
		Metrics: map[string]float64{
			constants.MetricEnergyLevel:       fv.EnergyLevel,
			constants.MetricFatigueScore:      fv.FatigueScore,
			constants.MetricProductivityScore: round2(fv.ProductivityScore),
			constants.MetricTimePressure:      round2(fv.TimePressure),
		},
	}

	logger.Debug("Plan generated", "date", date, "tasks", len(rankedTasks), "available_minutes", req.AvailableMinutes)
	return result, nil
}

// rankOrder returns task indices sorted by score descending. The sort is
// stable so ties keep the caller's input order and output stays deterministic.
func rankOrder(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order
}

// allocateMinutes scales the recommended durations so they sum exactly to
// availableMinutes, preserving their relative proportions. Rounding uses
// largest remainders, so no task drops below zero and the total never
// drifts from the budget.
func allocateMinutes(recommended []int, availableMinutes int) []int {
	n := len(recommended)
	if n == 0 {
		return nil
	}

	var total int
	for _, m := range recommended {
		total += m
	}

	quotas := make([]float64, n)
	if total == 0 {
		// Degenerate recommendation: split the budget evenly.
		for i := range quotas {
			quotas[i] = float64(availableMinutes) / float64(n)
		}
	} else {
		for i, m := range recommended {
			quotas[i] = float64(availableMinutes) * float64(m) / float64(total)
		}
	}

	allocated := make([]int, n)
	assigned := 0
	for i, q := range quotas {
		allocated[i] = int(math.Floor(q))
		assigned += allocated[i]
	}

	// Hand out the leftover minutes to the largest fractional remainders,
	// walking in rank order so ties favor higher-priority tasks.
	remainder := availableMinutes - assigned
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return quotas[order[i]]-math.Floor(quotas[order[i]]) > quotas[order[j]]-math.Floor(quotas[order[j]])
	})
	for i := 0; i < remainder; i++ {
		allocated[order[i%n]]++
	}

	return allocated
}

// buildSummary renders the rule-based narrative for a plan. Wording is a
// presentation concern; the thresholds it keys on are the contract.
func buildSummary(tasks []string, minutes []int, adjustment int, fv models.FeatureVector) string {
	if len(tasks) == 0 {
		return "No tasks provided."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Start with %q for %d minutes. ", tasks[0], minutes[0])
	if len(tasks) > 1 {
		fmt.Fprintf(&sb, "Then %q for %d minutes. ", tasks[1], minutes[1])
	}
	if len(tasks) > 2 {
		fmt.Fprintf(&sb, "Finally %q for %d minutes. ", tasks[2], minutes[2])
	}

	switch constants.DifficultyAdjustment(adjustment) {
	case constants.DifficultyHarder:
		sb.WriteString("Your performance suggests increasing challenge slightly. ")
	case constants.DifficultyEasier:
		sb.WriteString("Consider starting with slightly easier tasks. ")
	default:
		sb.WriteString("Maintain current difficulty level. ")
	}

	if fv.TimePressure > constants.HighPressureThreshold {
		sb.WriteString("Your tasks ask for more time than you have, so expect to carry something over. ")
	}

	if fv.FatigueScore >= constants.HighFatigueThreshold {
		sb.WriteString("You seem fatigued - take short breaks between tasks.")
	} else if fv.FatigueScore < constants.LowFatigueThreshold {
		sb.WriteString("You have good energy - optimal time to tackle harder tasks!")
	}

	return strings.TrimSpace(sb.String())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
