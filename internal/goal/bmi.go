package goal

import (
	"math"

	"ledger-go/internal/ledger"
)

// BMICategory is the weight class of a body mass index.
type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObese       BMICategory = "obese"
)

// BMI is weight over height squared, rounded to one decimal.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

// ClassifyBMI maps a body mass index to its category.
func ClassifyBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	}
	return BMIObese
}

// ProfileBMI returns the BMI of p and its category. It reports false when
// weight or height is missing.
func ProfileBMI(p *ledger.UserProfile) (float64, BMICategory, bool) {
	if p == nil || p.WeightKg == nil || p.HeightCm == nil {
		return 0, "", false
	}
	bmi := BMI(*p.WeightKg, *p.HeightCm)
	return bmi, ClassifyBMI(bmi), true
}
