// Package goal computes a daily calorie target from a profile using the
// Mifflin-St Jeor equation and a fixed weekly weight-change adjustment.
package goal

import (
	"math"

	"ledger-go/internal/ledger"
)

// Adjustment is the daily surplus or deficit for a weight-change target,
// roughly 0.5 kg per week.
const Adjustment = 500

// BMR is the basal metabolic rate in kcal/day.
func BMR(weightKg, heightCm float64, age int, gender ledger.Gender) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == ledger.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// ActivityMultiplier scales BMR to total daily expenditure.
// It reports false for an unknown level.
func ActivityMultiplier(level ledger.ActivityLevel) (float64, bool) {
	switch level {
	case ledger.ActivityLow:
		return 1.2, true
	case ledger.ActivityMedium:
		return 1.55, true
	case ledger.ActivityHigh:
		return 1.725, true
	}
	return 0, false
}

// TDEE is total daily energy expenditure: BMR scaled by activity level.
func TDEE(bmr float64, level ledger.ActivityLevel) (float64, bool) {
	m, ok := ActivityMultiplier(level)
	if !ok {
		return 0, false
	}
	return bmr * m, true
}

func targetAdjustment(target ledger.FitnessTarget) (int, bool) {
	switch target {
	case ledger.TargetLoseWeight:
		return -Adjustment, true
	case ledger.TargetGainWeight:
		return Adjustment, true
	case ledger.TargetStayFit:
		return 0, true
	}
	return 0, false
}

// Breakdown shows how a calorie goal was derived.
type Breakdown struct {
	BMR        float64
	TDEE       float64
	Adjustment int
	Goal       int
}

// Explain derives the goal for p step by step. It reports false when a
// required input (age, gender, weight, height, activity level, target) is missing.
func Explain(p *ledger.UserProfile) (Breakdown, bool) {
	if p == nil || p.Age == nil || p.Gender == "" || p.WeightKg == nil || p.HeightCm == nil {
		return Breakdown{}, false
	}
	adj, ok := targetAdjustment(p.Target)
	if !ok {
		return Breakdown{}, false
	}
	bmr := BMR(*p.WeightKg, *p.HeightCm, *p.Age, p.Gender)
	tdee, ok := TDEE(bmr, p.ActivityLevel)
	if !ok {
		return Breakdown{}, false
	}
	return Breakdown{
		BMR:        bmr,
		TDEE:       tdee,
		Adjustment: adj,
		Goal:       int(math.Round(tdee + float64(adj))),
	}, true
}

// CalorieGoal returns the daily calorie target for p, or 0 when p lacks an
// input the formula needs. Extreme inputs may yield small or negative goals;
// they are returned unclamped.
func CalorieGoal(p *ledger.UserProfile) int {
	b, ok := Explain(p)
	if !ok {
		return 0
	}
	return b.Goal
}
