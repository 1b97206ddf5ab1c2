package validation

import (
	"fmt"
	"time"

	"github.com/julianstephens/studyflow/internal/constants"
	"github.com/julianstephens/studyflow/internal/models"
)

// ValidationError describes a rejected input. Callers can branch on it with
// errors.As to distinguish bad input from storage failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func newError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidatePlanRequest checks a raw planning input before any feature work.
// Parallel arrays must agree in length and all scalar inputs must be in range.
func ValidatePlanRequest(req models.PlanRequest) error {
	if len(req.Tasks) == 0 {
		return newError("tasks", "at least one task is required")
	}
	if len(req.TimeSpent) != len(req.Tasks) {
		return newError("time_spent", "expected %d entries, got %d", len(req.Tasks), len(req.TimeSpent))
	}
	if len(req.DifficultyRatings) != len(req.Tasks) {
		return newError("difficulty_rating", "expected %d entries, got %d", len(req.Tasks), len(req.DifficultyRatings))
	}
	if req.EnergyLevel < constants.EnergyMin || req.EnergyLevel > constants.EnergyMax {
		return newError("energy_level", "must be between %d and %d, got %d", constants.EnergyMin, constants.EnergyMax, req.EnergyLevel)
	}
	if req.AvailableMinutes <= 0 {
		return newError("available_minutes", "must be positive, got %d", req.AvailableMinutes)
	}
	for i, name := range req.Tasks {
		if name == "" {
			return newError("tasks", "task %d has an empty name", i)
		}
	}
	for i, minutes := range req.TimeSpent {
		if minutes < 0 {
			return newError("time_spent", "entry %d is negative", i)
		}
	}
	for i, rating := range req.DifficultyRatings {
		if rating < constants.DifficultyMin || rating > constants.DifficultyMax {
			return newError("difficulty_rating", "entry %d must be between %d and %d, got %d", i, constants.DifficultyMin, constants.DifficultyMax, rating)
		}
	}
	if req.PriorCompletion != nil && (*req.PriorCompletion < constants.CompletionMin || *req.PriorCompletion > constants.CompletionMax) {
		return newError("prior_completion", "must be between %.1f and %.1f, got %g", constants.CompletionMin, constants.CompletionMax, *req.PriorCompletion)
	}
	if req.Date != "" {
		if err := ValidateDate(req.Date); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFeedback checks the user-reported outcome values before persistence.
func ValidateFeedback(completionRatio float64, tiredness int) error {
	if completionRatio < constants.CompletionMin || completionRatio > constants.CompletionMax {
		return newError("completion_ratio", "must be between %.1f and %.1f, got %g", constants.CompletionMin, constants.CompletionMax, completionRatio)
	}
	if tiredness < constants.TirednessMin || tiredness > constants.TirednessMax {
		return newError("tiredness_end_of_day", "must be between %d and %d, got %d", constants.TirednessMin, constants.TirednessMax, tiredness)
	}
	return nil
}

// ValidateDate checks that a date string is a calendar day in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return newError("date", "must be YYYY-MM-DD, got %q", date)
	}
	return nil
}

// ValidateDateRange checks both bounds and their ordering (inclusive range).
func ValidateDateRange(startDate, endDate string) error {
	if err := ValidateDate(startDate); err != nil {
		return newError("start_date", "must be YYYY-MM-DD, got %q", startDate)
	}
	if err := ValidateDate(endDate); err != nil {
		return newError("end_date", "must be YYYY-MM-DD, got %q", endDate)
	}
	if startDate > endDate {
		return newError("date_range", "start %s is after end %s", startDate, endDate)
	}
	return nil
}
