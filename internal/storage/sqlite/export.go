package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/internal/utils"
)

// Export reads every plan and feedback row inside one transaction and
// returns them as a single consistent snapshot. Holding the store mutex
// keeps writers out for the duration.
func (s *Store) Export() (models.ExportDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := models.ExportDocument{
		SnapshotID: uuid.NewString(),
		ExportDate: utils.NowTimestamp(),
		Plans:      []models.ExportedPlan{},
		Feedback:   []models.ExportedFeedback{},
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.ExportDocument{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT date, plan_json, available_minutes FROM daily_plans ORDER BY date ASC`)
	if err != nil {
		return models.ExportDocument{}, fmt.Errorf("failed to export plans: %w", err)
	}
	for rows.Next() {
		var (
			exported models.ExportedPlan
			planJSON string
		)
		if err := rows.Scan(&exported.Date, &planJSON, &exported.AvailableMinutes); err != nil {
			rows.Close()
			return models.ExportDocument{}, fmt.Errorf("failed to export plans: %w", err)
		}
		if err := json.Unmarshal([]byte(planJSON), &exported.Plan); err != nil {
			rows.Close()
			return models.ExportDocument{}, fmt.Errorf("failed to decode plan payload for %s: %w", exported.Date, err)
		}
		if err := storage.CheckPayloadVersion(exported.Date, exported.Plan); err != nil {
			rows.Close()
			return models.ExportDocument{}, err
		}
		doc.Plans = append(doc.Plans, exported)
	}
	if err := rows.Close(); err != nil {
		return models.ExportDocument{}, fmt.Errorf("failed to export plans: %w", err)
	}

	rows, err = tx.Query(`SELECT date, completion_ratio, tiredness_end_of_day, notes FROM daily_feedback ORDER BY date ASC`)
	if err != nil {
		return models.ExportDocument{}, fmt.Errorf("failed to export feedback: %w", err)
	}
	for rows.Next() {
		var (
			exported models.ExportedFeedback
			notes    sql.NullString
		)
		if err := rows.Scan(&exported.Date, &exported.CompletionRatio, &exported.Tiredness, &notes); err != nil {
			rows.Close()
			return models.ExportDocument{}, fmt.Errorf("failed to export feedback: %w", err)
		}
		if notes.Valid {
			exported.Notes = &notes.String
		}
		doc.Feedback = append(doc.Feedback, exported)
	}
	if err := rows.Close(); err != nil {
		return models.ExportDocument{}, fmt.Errorf("failed to export feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.ExportDocument{}, fmt.Errorf("failed to commit export: %w", err)
	}
	return doc, nil
}

// Import restores a snapshot produced by Export. Rows upsert by date, so
// importing into a non-empty store merges; plans land before feedback to
// satisfy the plan-first rule.
func (s *Store) Import(doc models.ExportDocument) error {
	for _, plan := range doc.Plans {
		if err := storage.CheckPayloadVersion(plan.Date, plan.Plan); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := utils.NowTimestamp()
	for _, plan := range doc.Plans {
		payload, err := json.Marshal(plan.Plan)
		if err != nil {
			return fmt.Errorf("failed to encode plan payload for %s: %w", plan.Date, err)
		}

		var totalPlanned int
		for _, minutes := range plan.Plan.RecommendedMinutes {
			totalPlanned += minutes
		}

		_, err = tx.Exec(`
			INSERT INTO daily_plans (date, plan_json, available_minutes, total_planned_minutes, num_tasks, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (date) DO UPDATE SET
				plan_json = excluded.plan_json,
				available_minutes = excluded.available_minutes,
				total_planned_minutes = excluded.total_planned_minutes,
				num_tasks = excluded.num_tasks,
				updated_at = excluded.updated_at
		`, plan.Date, string(payload), plan.AvailableMinutes, totalPlanned, len(plan.Plan.RankedTasks), now, now)
		if err != nil {
			return fmt.Errorf("failed to import plan for %s: %w", plan.Date, err)
		}
	}

	for _, fb := range doc.Feedback {
		notes := sql.NullString{}
		if fb.Notes != nil {
			notes = sql.NullString{String: *fb.Notes, Valid: true}
		}
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
			return fmt.Errorf("failed to import feedback for %s: %w", fb.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// ClearAll deletes every plan, feedback, and metric row.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"plan_metrics", "daily_feedback", "daily_plans"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}
