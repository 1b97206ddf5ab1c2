package storage

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studyflow/internal/models"
)

var (
	// ErrNotFound is returned by single-key reads when no record exists
	// for the requested date. It is a defined result, not a failure.
	ErrNotFound = errors.New("record not found")

	// ErrNoPlanForDate is returned when feedback is submitted for a date
	// that has no plan. Feedback always references a plan's date.
	ErrNoPlanForDate = errors.New("no plan exists for date")
)

// SchemaMismatchError reports a plan_json payload encoded with a different
// schema version than this build understands. Decoding never guesses.
type SchemaMismatchError struct {
	Date string
	Got  int
	Want int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("plan for %s has schema version %d, want %d", e.Date, e.Got, e.Want)
}

// CheckPayloadVersion validates a decoded payload's schema version.
func CheckPayloadVersion(date string, payload models.PlanPayload) error {
	if payload.SchemaVersion != models.PlanSchemaVersion {
		return &SchemaMismatchError{Date: date, Got: payload.SchemaVersion, Want: models.PlanSchemaVersion}
	}
	return nil
}
