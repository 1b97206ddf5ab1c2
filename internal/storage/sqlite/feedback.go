package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/internal/utils"
	"github.com/julianstephens/studyflow/internal/validation"
)

// SaveFeedback upserts the feedback row for its date. Feedback for a date
// without a plan is rejected with storage.ErrNoPlanForDate.
func (s *Store) SaveFeedback(fb models.FeedbackRecord) error {
	if err := validation.ValidateDate(fb.Date); err != nil {
		return err
	}
	if err := validation.ValidateFeedback(fb.CompletionRatio, fb.Tiredness); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT 1 FROM daily_plans WHERE date = ?`, fb.Date).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("feedback for %s: %w", fb.Date, storage.ErrNoPlanForDate)
	}
	if err != nil {
		return fmt.Errorf("failed to check plan for %s: %w", fb.Date, err)
	}

	notes := sql.NullString{}
	if fb.Notes != nil {
		notes = sql.NullString{String: *fb.Notes, Valid: true}
	}

	now := utils.NowTimestamp()
	_, err = tx.Exec(`
		INSERT INTO daily_feedback (date, completion_ratio, tiredness_end_of_day, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			completion_ratio = excluded.completion_ratio,
			tiredness_end_of_day = excluded.tiredness_end_of_day,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, fb.Date, fb.CompletionRatio, fb.Tiredness, notes, now, now)
	if err != nil {
		return fmt.Errorf("failed to save feedback for %s: %w", fb.Date, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit feedback for %s: %w", fb.Date, err)
	}
	return nil
}

// GetFeedback returns the feedback stored for the date, or storage.ErrNotFound.
func (s *Store) GetFeedback(date string) (models.FeedbackRecord, error) {
	if err := validation.ValidateDate(date); err != nil {
		return models.FeedbackRecord{}, err
	}

	row := s.db.QueryRow(`
		SELECT date, completion_ratio, tiredness_end_of_day, notes, created_at, updated_at
		FROM daily_feedback WHERE date = ?
	`, date)
	return scanFeedback(row)
}

// GetFeedbackRange returns all feedback with start <= date <= end, ordered by date.
func (s *Store) GetFeedbackRange(startDate, endDate string) ([]models.FeedbackRecord, error) {
	if err := validation.ValidateDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT date, completion_ratio, tiredness_end_of_day, notes, created_at, updated_at
		FROM daily_feedback WHERE date >= ? AND date <= ? ORDER BY date ASC
	`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var feedback []models.FeedbackRecord
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		feedback = append(feedback, fb)
	}
	return feedback, rows.Err()
}

// GetPlanWithFeedback returns the plan for the date paired with its
// feedback, which is nil when no feedback has been recorded yet.
func (s *Store) GetPlanWithFeedback(date string) (models.PlanWithFeedback, error) {
	plan, err := s.GetPlan(date)
	if err != nil {
		return models.PlanWithFeedback{}, err
	}

	result := models.PlanWithFeedback{Plan: plan}
	fb, err := s.GetFeedback(date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return result, nil
		}
		return models.PlanWithFeedback{}, err
	}
	result.Feedback = &fb
	return result, nil
}

func scanFeedback(row rowScanner) (models.FeedbackRecord, error) {
	var (
		fb    models.FeedbackRecord
		notes sql.NullString
	)
	err := row.Scan(&fb.Date, &fb.CompletionRatio, &fb.Tiredness, &notes, &fb.CreatedAt, &fb.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FeedbackRecord{}, fmt.Errorf("feedback: %w", storage.ErrNotFound)
	}
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("failed to read feedback: %w", err)
	}
	if notes.Valid {
		fb.Notes = &notes.String
	}
	return fb, nil
}
