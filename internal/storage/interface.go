package storage

import "github.com/julianstephens/studyflow/internal/models"

// Provider is the date-keyed persistence contract shared by both backends.
// All dates are ISO YYYY-MM-DD strings. Mutating calls are serialized per
// store instance and each one commits in a single transaction, so readers
// observe either the old or the fully-new state of a date, never a mix.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Plans. SavePlan upserts the plan row and its metric rows atomically,
	// preserving created_at across re-saves of the same date.
	SavePlan(plan models.PlanRecord, metrics map[string]float64) error
	GetPlan(date string) (models.PlanRecord, error)
	ListPlans(startDate, endDate string) ([]models.PlanRecord, error)
	DeletePlan(date string) error

	// Feedback. SaveFeedback validates ranges, rejects dates without a
	// plan, and upserts by date (update, never append).
	SaveFeedback(fb models.FeedbackRecord) error
	GetFeedback(date string) (models.FeedbackRecord, error)
	GetFeedbackRange(startDate, endDate string) ([]models.FeedbackRecord, error)
	GetPlanWithFeedback(date string) (models.PlanWithFeedback, error)

	// Metrics saved alongside a plan.
	GetMetrics(date string) (map[string]float64, error)

	// Export produces one consistent snapshot of all plans and feedback;
	// Import restores it. ClearAll is the explicit reset operation.
	Export() (models.ExportDocument, error)
	Import(doc models.ExportDocument) error
	ClearAll() error

	// Utils
	GetConfigPath() string
}
