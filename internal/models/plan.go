package models

// PlanSchemaVersion is the current encoding version of the plan_json payload.
// Bump whenever the PlanPayload shape changes.
const PlanSchemaVersion = 1

// PlannedTask is one entry of a day plan: a task name with its time allocation.
type PlannedTask struct {
	Name             string `json:"name"`
	AllocatedMinutes int    `json:"allocated_minutes"`
}

// PlanPayload is the serialized form of a plan stored in the plan_json column.
// Consumers must decode it with the same schema version used to encode it.
type PlanPayload struct {
	SchemaVersion        int      `json:"schema_version"`
	RankedTasks          []string `json:"ranked_tasks"`
	RecommendedMinutes   []int    `json:"recommended_minutes"`
	DifficultyAdjustment int      `json:"difficulty_adjustment"`
	Summary              string   `json:"summary"`
}

// PlanRecord is the persisted, date-keyed output of one plan-generation call.
// Exactly one record exists per date; re-saving a date replaces it.
type PlanRecord struct {
	Date                 string        `json:"date"`
	Tasks                []PlannedTask `json:"tasks"`
	AvailableMinutes     int           `json:"available_minutes"`
	TotalPlannedMinutes  int           `json:"total_planned_minutes"`
	NumTasks             int           `json:"num_tasks"`
	DifficultyAdjustment int           `json:"difficulty_adjustment"`
	Summary              string        `json:"summary"`
	CreatedAt            string        `json:"created_at"` // RFC3339 timestamp
	UpdatedAt            string        `json:"updated_at"` // RFC3339 timestamp
}

// Payload converts the record to its serialized plan_json form.
func (p PlanRecord) Payload() PlanPayload {
	payload := PlanPayload{
		SchemaVersion:        PlanSchemaVersion,
		RankedTasks:          make([]string, len(p.Tasks)),
		RecommendedMinutes:   make([]int, len(p.Tasks)),
		DifficultyAdjustment: p.DifficultyAdjustment,
		Summary:              p.Summary,
	}
	for i, task := range p.Tasks {
		payload.RankedTasks[i] = task.Name
		payload.RecommendedMinutes[i] = task.AllocatedMinutes
	}
	return payload
}

// FeedbackRecord is the user-reported execution outcome for a given date's plan.
// Notes is nil when the user left no note; aggregation must not treat absence as empty.
type FeedbackRecord struct {
	Date            string  `json:"date"`
	CompletionRatio float64 `json:"completion_ratio"`
	Tiredness       int     `json:"tiredness_end_of_day"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// MetricRecord is a named per-day metric tied to a plan's date.
// The (date, name) pair is unique; a re-save replaces the value.
type MetricRecord struct {
	Date      string  `json:"date"`
	Name      string  `json:"metric_name"`
	Value     float64 `json:"metric_value"`
	CreatedAt string  `json:"created_at"`
}

// PlanWithFeedback pairs a plan with its feedback, if any (left join semantics).
type PlanWithFeedback struct {
	Plan     PlanRecord      `json:"plan"`
	Feedback *FeedbackRecord `json:"feedback,omitempty"`
}

// ReviewStats is the read-side aggregation over a feedback date range.
type ReviewStats struct {
	TotalDays          int     `json:"total_days"`
	AvgCompletionRatio float64 `json:"average_completion_ratio"`
	AvgTiredness       float64 `json:"average_tiredness"`
	HighCompletionDays int     `json:"high_completion_days"`
}
