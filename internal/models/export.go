package models

// ExportedPlan is one plan row in an export document.
type ExportedPlan struct {
	Date             string      `json:"date"`
	Plan             PlanPayload `json:"plan"`
	AvailableMinutes int         `json:"available_minutes"`
}

// ExportedFeedback is one feedback row in an export document.
type ExportedFeedback struct {
	Date            string  `json:"date"`
	CompletionRatio float64 `json:"completion_ratio"`
	Tiredness       int     `json:"tiredness_end_of_day"`
	Notes           *string `json:"notes"`
}

// ExportDocument is a single consistent snapshot of all plans and feedback,
// suitable for external analysis or reimport. Dates use YYYY-MM-DD, ascending.
type ExportDocument struct {
	SnapshotID string             `json:"snapshot_id"`
	ExportDate string             `json:"export_date"` // RFC3339
	Plans      []ExportedPlan     `json:"plans"`
	Feedback   []ExportedFeedback `json:"feedback"`
}
