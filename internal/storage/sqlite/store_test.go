package sqlite

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/julianstephens/studyflow/internal/models"
	"github.com/julianstephens/studyflow/internal/storage"
	"github.com/julianstephens/studyflow/internal/validation"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testPlan(date string, tasks ...models.PlannedTask) models.PlanRecord {
	if len(tasks) == 0 {
		tasks = []models.PlannedTask{
			{Name: "Math", AllocatedMinutes: 70},
			{Name: "Physics", AllocatedMinutes: 50},
		}
	}
	total := 0
	for _, task := range tasks {
		total += task.AllocatedMinutes
	}
	return models.PlanRecord{
		Date:                 date,
		Tasks:                tasks,
		AvailableMinutes:     total,
		TotalPlannedMinutes:  total,
		NumTasks:             len(tasks),
		DifficultyAdjustment: 0,
		Summary:              "test plan",
	}
}

func TestSavePlanAndGetPlan(t *testing.T) {
	store := newTestStore(t)

	plan := testPlan("2025-12-07")
	if err := store.SavePlan(plan, nil); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	got, err := store.GetPlan("2025-12-07")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if got.Date != "2025-12-07" {
		t.Errorf("got date %q, want %q", got.Date, "2025-12-07")
	}
	if len(got.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(got.Tasks))
	}
	if got.Tasks[0].Name != "Math" || got.Tasks[0].AllocatedMinutes != 70 {
		t.Errorf("got first task %+v, want Math/70", got.Tasks[0])
	}
	if got.TotalPlannedMinutes != 120 || got.NumTasks != 2 {
		t.Errorf("got totals %d/%d, want 120/2", got.TotalPlannedMinutes, got.NumTasks)
	}
	if got.CreatedAt == "" || got.UpdatedAt == "" {
		t.Error("expected timestamps to be set")
	}
}

func TestGetPlanNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPlan("2099-01-01")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSavePlanUpsertReplacesAndKeepsCreatedAt(t *testing.T) {
	store := newTestStore(t)

	first := testPlan("2025-12-07")
	if err := store.SavePlan(first, nil); err != nil {
		t.Fatalf("first SavePlan failed: %v", err)
	}
	original, err := store.GetPlan("2025-12-07")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}

	second := testPlan("2025-12-07", models.PlannedTask{Name: "Chemistry", AllocatedMinutes: 90})
	if err := store.SavePlan(second, nil); err != nil {
		t.Fatalf("second SavePlan failed: %v", err)
	}

	got, err := store.GetPlan("2025-12-07")
	if err != nil {
		t.Fatalf("GetPlan after upsert failed: %v", err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Name != "Chemistry" {
		t.Errorf("upsert did not replace plan, got %+v", got.Tasks)
	}
	if got.CreatedAt != original.CreatedAt {
		t.Errorf("created_at changed on upsert: %q -> %q", original.CreatedAt, got.CreatedAt)
	}

	// Still exactly one row for the date.
	plans, err := store.ListPlans("2025-12-07", "2025-12-07")
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("got %d plans for date, want 1", len(plans))
	}
}

func TestSavePlanWithMetrics(t *testing.T) {
	store := newTestStore(t)

	metrics := map[string]float64{"energy_level": 4, "fatigue_score": 1}
	if err := store.SavePlan(testPlan("2025-12-07"), metrics); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	got, err := store.GetMetrics("2025-12-07")
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if got["energy_level"] != 4 || got["fatigue_score"] != 1 {
		t.Errorf("got metrics %v", got)
	}

	// Re-saving replaces the metric values for colliding names.
	if err := store.SavePlan(testPlan("2025-12-07"), map[string]float64{"energy_level": 2}); err != nil {
		t.Fatalf("second SavePlan failed: %v", err)
	}
	got, err = store.GetMetrics("2025-12-07")
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if got["energy_level"] != 2 {
		t.Errorf("metric not replaced, got %v", got["energy_level"])
	}
	if got["fatigue_score"] != 1 {
		t.Errorf("unrelated metric lost, got %v", got)
	}
}

func TestGetMetricsEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetMetrics("2025-12-07")
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty map", got)
	}
}

func TestListPlansRange(t *testing.T) {
	store := newTestStore(t)

	for _, date := range []string{"2025-12-03", "2025-12-01", "2025-12-05"} {
		if err := store.SavePlan(testPlan(date), nil); err != nil {
			t.Fatalf("SavePlan %s failed: %v", date, err)
		}
	}

	plans, err := store.ListPlans("2025-12-01", "2025-12-03")
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	if plans[0].Date != "2025-12-01" || plans[1].Date != "2025-12-03" {
		t.Errorf("plans not ordered by date: %s, %s", plans[0].Date, plans[1].Date)
	}

	// Inverted range is rejected, not silently empty.
	if _, err := store.ListPlans("2025-12-05", "2025-12-01"); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestSaveFeedbackRequiresPlan(t *testing.T) {
	store := newTestStore(t)

	fb := models.FeedbackRecord{Date: "2025-12-07", CompletionRatio: 0.8, Tiredness: 3}
	err := store.SaveFeedback(fb)
	if !errors.Is(err, storage.ErrNoPlanForDate) {
		t.Errorf("got %v, want ErrNoPlanForDate", err)
	}
}

func TestSaveFeedbackAndGet(t *testing.T) {
	store := newTestStore(t)

	if err := store.SavePlan(testPlan("2025-12-07"), nil); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	notes := "productive morning"
	fb := models.FeedbackRecord{Date: "2025-12-07", CompletionRatio: 0.75, Tiredness: 2, Notes: &notes}
	if err := store.SaveFeedback(fb); err != nil {
		t.Fatalf("SaveFeedback failed: %v", err)
	}

	got, err := store.GetFeedback("2025-12-07")
	if err != nil {
		t.Fatalf("GetFeedback failed: %v", err)
	}
	if got.CompletionRatio != 0.75 || got.Tiredness != 2 {
		t.Errorf("got %+v", got)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Errorf("got notes %v, want %q", got.Notes, notes)
	}
}

func TestSaveFeedbackUpsert(t *testing.T) {
	store := newTestStore(t)

	if err := store.SavePlan(testPlan("2025-12-07"), nil); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := store.SaveFeedback(models.FeedbackRecord{Date: "2025-12-07", CompletionRatio: 0.5, Tiredness: 4}); err != nil {
		t.Fatalf("first SaveFeedback failed: %v", err)
	}
	if err := store.SaveFeedback(models.FeedbackRecord{Date: "2025-12-07", CompletionRatio: 0.9, Tiredness: 1}); err != nil {
		t.Fatalf("second SaveFeedback failed: %v", err)
	}

	got, err := store.GetFeedback("2025-12-07")
	if err != nil {
		t.Fatalf("GetFeedback failed: %v", err)
	}
	if got.CompletionRatio != 0.9 || got.Tiredness != 1 {
		t.Errorf("feedback not replaced, got %+v", got)
	}
	if got.Notes != nil {
		t.Errorf("notes should be cleared by upsert without notes, got %q", *got.Notes)
	}

	all, err := store.GetFeedbackRange("2025-12-07", "2025-12-07")
	if err != nil {
		t.Fatalf("GetFeedbackRange failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d feedback rows, want 1", len(all))
	}
}

func TestFeedbackValidationBounds(t *testing.T) {
	store := newTestStore(t)
	if err := store.SavePlan(testPlan("2025-12-07"), nil); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	tests := []struct {
		name       string
		completion float64
		tiredness  int
		wantErr    bool
	}{
		{"completion lower bound", 0.0, 3, false},
		{"completion upper bound", 1.0, 3, false},
		{"completion below range", -0.01, 3, true},
		{"completion above range", 1.01, 3, true},
		{"tiredness lower bound", 0.5, 1, false},
		{"tiredness upper bound", 0.5, 5, false},
		{"tiredness below range", 0.5, 0, true},
		{"tiredness above range", 0.5, 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveFeedback(models.FeedbackRecord{Date: "2025-12-07", CompletionRatio: tt.completion, Tiredness: tt.tiredness})
			if tt.wantErr {
				var verr *validation.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("got %v, want validation error", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetPlanWithFeedback(t *testing.T) {
	store := newTestStore(t)

	if err := store.SavePlan(testPlan("2025-12-07"), nil); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	day, err := store.GetPlanWithFeedback("2025-12-07")
	if err != nil {
		t.Fatalf("GetPlanWithFeedback failed: %v", err)
	}
	if day.Feedback != nil {
		t.Error("expected nil feedback before any is recorded")
	}

	if err := store.SaveFeedback(models.FeedbackRecord{Date: "2025-12-07", CompletionRatio: 1.0, Tiredness: 2}); err != nil {
		t.Fatalf("SaveFeedback failed: %v", err)
	}
	day, err = store.GetPlanWithFeedback("2025-12-07")
	if err != nil {
		t.Fatalf("GetPlanWithFeedback failed: %v", err)
	}
	if day.Feedback == nil || day.Feedback.CompletionRatio != 1.0 {
		t.Errorf("got feedback %+v", day.Feedback)
	}

	_, err = store.GetPlanWithFeedback("2099-01-01")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound for missing plan", err)
	}
}

func TestDeletePlanCascades(t *testing.T) {
	store := newTestStore(t)

	if err := store.SavePlan(testPlan("2025-12-07"), map[string]float64{"energy_level": 3}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := store.SaveFeedback(models.FeedbackRecord{Date: "2025-12-07", CompletionRatio: 0.6, Tiredness: 3}); err != nil {
		t.Fatalf("SaveFeedback failed: %v", err)
	}

	if err := store.DeletePlan("2025-12-07"); err != nil {
		t.Fatalf("DeletePlan failed: %v", err)
	}

	if _, err := store.GetPlan("2025-12-07"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("plan still present: %v", err)
	}
	if _, err := store.GetFeedback("2025-12-07"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("feedback still present: %v", err)
	}
	metrics, err := store.GetMetrics("2025-12-07")
	if err != nil {
		t.Fatalf("GetMetrics failed: %v", err)
	}
	if len(metrics) != 0 {
		t.Errorf("metrics still present: %v", metrics)
	}

	if err := store.DeletePlan("2025-12-07"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound for double delete", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if err := store.SavePlan(testPlan("2025-12-06"), map[string]float64{"time_pressure": 1.2}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := store.SavePlan(testPlan("2025-12-07"), nil); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	notes := "late start"
	if err := store.SaveFeedback(models.FeedbackRecord{Date: "2025-12-06", CompletionRatio: 0.4, Tiredness: 5, Notes: &notes}); err != nil {
		t.Fatalf("SaveFeedback failed: %v", err)
	}

	doc, err := store.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if doc.SnapshotID == "" || doc.ExportDate == "" {
		t.Error("expected snapshot id and export date to be set")
	}
	if len(doc.Plans) != 2 || len(doc.Feedback) != 1 {
		t.Fatalf("got %d plans and %d feedback, want 2 and 1", len(doc.Plans), len(doc.Feedback))
	}
	if doc.Plans[0].Date != "2025-12-06" || doc.Plans[1].Date != "2025-12-07" {
		t.Errorf("plans not ordered: %s, %s", doc.Plans[0].Date, doc.Plans[1].Date)
	}

	other := newTestStore(t)
	if err := other.Import(doc); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	plan, err := other.GetPlan("2025-12-06")
	if err != nil {
		t.Fatalf("GetPlan after import failed: %v", err)
	}
	if len(plan.Tasks) != 2 || plan.Tasks[0].Name != "Math" {
		t.Errorf("imported plan mismatch: %+v", plan.Tasks)
	}
	fb, err := other.GetFeedback("2025-12-06")
	if err != nil {
		t.Fatalf("GetFeedback after import failed: %v", err)
	}
	if fb.CompletionRatio != 0.4 || fb.Notes == nil || *fb.Notes != notes {
		t.Errorf("imported feedback mismatch: %+v", fb)
	}
}

func TestImportRejectsUnknownSchemaVersion(t *testing.T) {
	store := newTestStore(t)

	doc := models.ExportDocument{
		Plans: []models.ExportedPlan{{
			Date: "2025-12-07",
			Plan: models.PlanPayload{SchemaVersion: 99, RankedTasks: []string{"Math"}, RecommendedMinutes: []int{60}},
		}},
	}
	err := store.Import(doc)
	var mismatch *storage.SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, want SchemaMismatchError", err)
	}
	if mismatch.Got != 99 {
		t.Errorf("got version %d, want 99", mismatch.Got)
	}
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)

	if err := store.SavePlan(testPlan("2025-12-07"), map[string]float64{"energy_level": 3}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := store.SaveFeedback(models.FeedbackRecord{Date: "2025-12-07", CompletionRatio: 0.6, Tiredness: 3}); err != nil {
		t.Fatalf("SaveFeedback failed: %v", err)
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	doc, err := store.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(doc.Plans) != 0 || len(doc.Feedback) != 0 {
		t.Errorf("store not empty after ClearAll: %d plans, %d feedback", len(doc.Plans), len(doc.Feedback))
	}
}

func TestConcurrentSavesSameDate(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			plan := testPlan("2025-12-07", models.PlannedTask{Name: "Math", AllocatedMinutes: 30 + n})
			errs <- store.SavePlan(plan, map[string]float64{"energy_level": float64(n)})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent SavePlan failed: %v", err)
		}
	}

	plans, err := store.ListPlans("2025-12-07", "2025-12-07")
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("got %d rows for date, want 1", len(plans))
	}
	// The surviving row must be one writer's complete output.
	if len(plans[0].Tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(plans[0].Tasks))
	}
	minutes := plans[0].Tasks[0].AllocatedMinutes
	if minutes < 30 || minutes > 39 {
		t.Errorf("allocated minutes %d not from any writer", minutes)
	}
}

func TestConcurrentSavesDistinctDates(t *testing.T) {
	store := newTestStore(t)

	dates := []string{"2025-12-01", "2025-12-02", "2025-12-03", "2025-12-04", "2025-12-05"}
	var wg sync.WaitGroup
	errs := make(chan error, len(dates))
	for _, date := range dates {
		wg.Add(1)
		go func(d string) {
			defer wg.Done()
			errs <- store.SavePlan(testPlan(d), nil)
		}(date)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent SavePlan failed: %v", err)
		}
	}

	plans, err := store.ListPlans("2025-12-01", "2025-12-05")
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(plans) != len(dates) {
		t.Errorf("got %d plans, want %d", len(plans), len(dates))
	}
}

func TestLoadMissingDatabase(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading a database that was never initialized")
	}
}
