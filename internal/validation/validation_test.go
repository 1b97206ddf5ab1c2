package validation

import (
	"errors"
	"testing"
)

func TestValidateFeedback(t *testing.T) {
	tests := []struct {
		name       string
		completion float64
		tiredness  int
		wantErr    bool
	}{
		{"both in range", 0.5, 3, false},
		{"completion at zero", 0.0, 1, false},
		{"completion at one", 1.0, 5, false},
		{"completion negative", -0.01, 3, true},
		{"completion above one", 1.01, 3, true},
		{"tiredness zero", 0.5, 0, true},
		{"tiredness six", 0.5, 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFeedback(tt.completion, tt.tiredness)
			if (err != nil) != tt.wantErr {
				t.Errorf("got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2025-12-07"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, date := range []string{"", "12/07/2025", "2025-13-01", "2025-12-32", "yesterday"} {
		if err := ValidateDate(date); err == nil {
			t.Errorf("bad date %q accepted", date)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	if err := ValidateDateRange("2025-12-01", "2025-12-07"); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	if err := ValidateDateRange("2025-12-07", "2025-12-07"); err != nil {
		t.Errorf("single-day range rejected: %v", err)
	}
	if err := ValidateDateRange("2025-12-07", "2025-12-01"); err == nil {
		t.Error("inverted range accepted")
	}
	if err := ValidateDateRange("not-a-date", "2025-12-01"); err == nil {
		t.Error("bad start date accepted")
	}
}

func TestValidationErrorBranching(t *testing.T) {
	err := ValidateFeedback(2.0, 3)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %T, want *ValidationError", err)
	}
	if verr.Field != "completion_ratio" {
		t.Errorf("got field %q, want completion_ratio", verr.Field)
	}
}
