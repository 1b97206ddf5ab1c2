package models

// PlanRequest is the raw planning input for one day.
// Tasks, TimeSpent, and DifficultyRatings are parallel arrays of equal length.
type PlanRequest struct {
	Date              string   `json:"date,omitempty"` // YYYY-MM-DD, defaults to today when empty
	Tasks             []string `json:"tasks"`
	TimeSpent         []int    `json:"time_spent"`         // minutes spent per task recently
	DifficultyRatings []int    `json:"difficulty_rating"`  // 1-5 per task
	EnergyLevel       int      `json:"energy_level"`       // 1-5
	Goals             []string `json:"goals_for_tomorrow"` // stated goals, carried through for context
	AvailableMinutes  int      `json:"available_minutes"`
	PriorCompletion   *float64 `json:"prior_completion,omitempty"` // yesterday's completion ratio, when known
}

// FeatureVector is the fixed-shape numeric summary of a planning request.
// Computed fresh per planning call and never persisted.
type FeatureVector struct {
	AvgTimeSpent3d       float64 `json:"avg_time_spent_3d"`
	DifficultyTrend      float64 `json:"difficulty_trend"`
	NormalizedDifficulty float64 `json:"normalized_difficulty"` // 0-1
	FatigueScore         float64 `json:"fatigue_score"`         // 5 - energy_level
	ProductivityScore    float64 `json:"productivity_score"`    // energy x prior completion
	TaskFrequency        float64 `json:"task_frequency"`
	TimePressure         float64 `json:"time_pressure"` // requested time / available time
	EnergyLevel          float64 `json:"energy_level"`
}

// PlanResult is the in-memory (draft) output of the plan assembler,
// before it is persisted as a PlanRecord.
type PlanResult struct {
	Date                 string             `json:"date"`
	RankedTasks          []string           `json:"ranked_tasks"`
	RecommendedMinutes   []int              `json:"recommended_minutes"`
	DifficultyAdjustment int                `json:"difficulty_adjustment"`
	Summary              string             `json:"summary"`
	Metrics              map[string]float64 `json:"metrics"`
}

// Record converts a draft result into the persistable record shape.
func (r PlanResult) Record(availableMinutes int) PlanRecord {
	rec := PlanRecord{
		Date:                 r.Date,
		Tasks:                make([]PlannedTask, len(r.RankedTasks)),
		AvailableMinutes:     availableMinutes,
		NumTasks:             len(r.RankedTasks),
		DifficultyAdjustment: r.DifficultyAdjustment,
		Summary:              r.Summary,
	}
	for i, name := range r.RankedTasks {
		rec.Tasks[i] = PlannedTask{Name: name, AllocatedMinutes: r.RecommendedMinutes[i]}
		rec.TotalPlannedMinutes += r.RecommendedMinutes[i]
	}
	return rec
}
