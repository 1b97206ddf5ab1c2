package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/internal/utils"
	"github.com/julianstephens/studyflow/internal/validation"
)

// SavePlan upserts the plan row for its date together with the given metric
// entries. The whole write commits in one transaction; re-saving the same
// date replaces the plan, keeps created_at, and refreshes updated_at.
func (s *Store) SavePlan(plan models.PlanRecord, metrics map[string]float64) error {
	if err := validation.ValidateDate(plan.Date); err != nil {
		return err
	}

	payload, err := json.Marshal(plan.Payload())
	if err != nil {
		return fmt.Errorf("failed to encode plan payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := utils.NowTimestamp()
	_, err = tx.Exec(`
		INSERT INTO daily_plans (date, plan_json, available_minutes, total_planned_minutes, num_tasks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			plan_json = excluded.plan_json,
			available_minutes = excluded.available_minutes,
			total_planned_minutes = excluded.total_planned_minutes,
			num_tasks = excluded.num_tasks,
			updated_at = excluded.updated_at
	`, plan.Date, string(payload), plan.AvailableMinutes, plan.TotalPlannedMinutes, plan.NumTasks, now, now)
	if err != nil {
		return fmt.Errorf("failed to save plan for %s: %w", plan.Date, err)
	}

	for name, value := range metrics {
		_, err = tx.Exec(`
			INSERT INTO plan_metrics (date, metric_name, metric_value, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (date, metric_name) DO UPDATE SET
				metric_value = excluded.metric_value
		`, plan.Date, name, value, now)
		if err != nil {
			return fmt.Errorf("failed to save metric %s for %s: %w", name, plan.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit plan for %s: %w", plan.Date, err)
	}
	return nil
}

// GetPlan returns the plan stored for the date, or storage.ErrNotFound.
func (s *Store) GetPlan(date string) (models.PlanRecord, error) {
	if err := validation.ValidateDate(date); err != nil {
		return models.PlanRecord{}, err
	}

	row := s.db.QueryRow(`
		SELECT date, plan_json, available_minutes, total_planned_minutes, num_tasks, created_at, updated_at
		FROM daily_plans WHERE date = ?
	`, date)
	return scanPlan(row)
}

// ListPlans returns all plans with start <= date <= end, ordered by date.
func (s *Store) ListPlans(startDate, endDate string) ([]models.PlanRecord, error) {
	if err := validation.ValidateDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT date, plan_json, available_minutes, total_planned_minutes, num_tasks, created_at, updated_at
		FROM daily_plans WHERE date >= ? AND date <= ? ORDER BY date ASC
	`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []models.PlanRecord
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// DeletePlan removes the plan for the date along with its feedback and
// metric rows. Returns storage.ErrNotFound when no plan exists.
func (s *Store) DeletePlan(date string) error {
	if err := validation.ValidateDate(date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM plan_metrics WHERE date = ?`, date); err != nil {
		return fmt.Errorf("failed to delete metrics for %s: %w", date, err)
	}
	if _, err := tx.Exec(`DELETE FROM daily_feedback WHERE date = ?`, date); err != nil {
		return fmt.Errorf("failed to delete feedback for %s: %w", date, err)
	}

	res, err := tx.Exec(`DELETE FROM daily_plans WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("failed to delete plan for %s: %w", date, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete plan for %s: %w", date, err)
	}
	if affected == 0 {
		return fmt.Errorf("plan for %s: %w", date, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete for %s: %w", date, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (models.PlanRecord, error) {
	var (
		plan     models.PlanRecord
		planJSON string
	)
	err := row.Scan(&plan.Date, &planJSON, &plan.AvailableMinutes, &plan.TotalPlannedMinutes, &plan.NumTasks, &plan.CreatedAt, &plan.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PlanRecord{}, fmt.Errorf("plan: %w", storage.ErrNotFound)
	}
	if err != nil {
		return models.PlanRecord{}, fmt.Errorf("failed to read plan: %w", err)
	}

	var payload models.PlanPayload
	if err := json.Unmarshal([]byte(planJSON), &payload); err != nil {
		return models.PlanRecord{}, fmt.Errorf("failed to decode plan payload for %s: %w", plan.Date, err)
	}
	if err := storage.CheckPayloadVersion(plan.Date, payload); err != nil {
		return models.PlanRecord{}, err
	}

	plan.Tasks = make([]models.PlannedTask, len(payload.RankedTasks))
	for i, name := range payload.RankedTasks {
		task := models.PlannedTask{Name: name}
		if i < len(payload.RecommendedMinutes) {
			task.AllocatedMinutes = payload.RecommendedMinutes[i]
		}
		plan.Tasks[i] = task
	}
	plan.DifficultyAdjustment = payload.DifficultyAdjustment
	plan.Summary = payload.Summary
	return plan, nil
}
