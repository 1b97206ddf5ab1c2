package postgres

import (
	"fmt"

	"github.com/julianstephens/studyflow/internal/validation"
)

// GetMetrics returns the metric entries saved with the plan for the date.
// An empty map means no metrics were recorded; it is not an error.
func (s *Store) GetMetrics(date string) (map[string]float64, error) {
	if err := validation.ValidateDate(date); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT metric_name, metric_value FROM plan_metrics WHERE date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read metrics for %s: %w", date, err)
	}
	defer rows.Close()

	metrics := make(map[string]float64)
	for rows.Next() {
		var (
			name  string
			value float64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to read metrics for %s: %w", date, err)
		}
		metrics[name] = value
	}
	return metrics, rows.Err()
}
