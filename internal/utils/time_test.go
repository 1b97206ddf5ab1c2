package utils

import (
	"testing"
	"time"
)

func TestTodayFormat(t *testing.T) {
	today := Today()
	if _, err := time.Parse("2006-01-02", today); err != nil {
		t.Errorf("Today() returned %q: %v", today, err)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-12-07")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.December || got.Day() != 7 {
		t.Errorf("got %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("expected local midnight, got %v", got)
	}

	if _, err := ParseDate("12/07/2025"); err == nil {
		t.Error("expected error for bad format")
	}
}

func TestNowTimestampIsRFC3339(t *testing.T) {
	stamp := NowTimestamp()
	if _, err := time.Parse(time.RFC3339, stamp); err != nil {
		t.Errorf("NowTimestamp() returned %q: %v", stamp, err)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2025-12-01", "2025-12-07", 7},
		{"2025-12-07", "2025-12-07", 1},
		{"2025-12-31", "2026-01-01", 2},
	}
	for _, tt := range tests {
		got, err := DaysBetween(tt.start, tt.end)
		if err != nil {
			t.Errorf("DaysBetween(%s, %s) failed: %v", tt.start, tt.end, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}
