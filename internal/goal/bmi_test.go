package goal

import (
	"testing"

	"ledger-go/internal/ledger"
)

func TestBMI(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		heightCm float64
		want     float64
		category BMICategory
	}{
		{"rounded to one decimal", 80, 180, 24.7, BMINormal},
		{"just under normal", 73.6, 200, 18.4, BMIUnderweight},
		{"normal lower bound", 74, 200, 18.5, BMINormal},
		{"overweight lower bound", 100, 200, 25, BMIOverweight},
		{"obese lower bound", 120, 200, 30, BMIObese},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BMI(tt.weightKg, tt.heightCm)
			if got != tt.want {
				t.Errorf("BMI(%v, %v) = %v, want %v", tt.weightKg, tt.heightCm, got, tt.want)
			}
			if c := ClassifyBMI(got); c != tt.category {
				t.Errorf("ClassifyBMI(%v) = %q, want %q", got, c, tt.category)
			}
		})
	}
}

func TestProfileBMI(t *testing.T) {
	bmi, category, ok := ProfileBMI(completeProfile())
	if !ok || bmi != 24.7 || category != BMINormal {
		t.Errorf("ProfileBMI() = %v, %q, %v; want 24.7, normal, true", bmi, category, ok)
	}

	for name, p := range map[string]*ledger.UserProfile{
		"nil profile":    nil,
		"missing height": {WeightKg: ptr(70.0)},
		"missing weight": {HeightCm: ptr(170.0)},
	} {
		t.Run(name, func(t *testing.T) {
			if _, _, ok := ProfileBMI(p); ok {
				t.Error("ProfileBMI() ok = true, want false")
			}
		})
	}
}
