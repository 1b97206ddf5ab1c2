package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/studyflow/internal/constants"
)

// Today returns today's date string (YYYY-MM-DD) in the system local timezone.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}

// ParseDate parses a date string (YYYY-MM-DD) into a time.Time at local midnight.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
}

// NowTimestamp returns the current UTC time as an RFC3339 string,
// the format used for created_at/updated_at columns.
func NowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DaysBetween returns the number of calendar days from start to end, inclusive.
func DaysBetween(startDate, endDate string) (int, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}
