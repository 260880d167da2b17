package ledger

import (
	"math"
	"strings"
	"time"
)

const (
	maxAge      = 120
	maxWeightKg = 500
	maxHeightCm = 300
)

// Timestamps are persisted as Unix nanoseconds, which cover these instants.
var (
	minTimestamp = time.Unix(0, math.MinInt64).UTC()
	maxTimestamp = time.Unix(0, math.MaxInt64).UTC()
)

// validator collects field errors for one record kind.
type validator struct {
	kind Kind
	errs []FieldError
}

func (v *validator) check(ok bool, field string, value any, constraint string) {
	if !ok {
		v.errs = append(v.errs, FieldError{Field: field, Value: value, Constraint: constraint})
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Kind: v.kind, Fields: v.errs}
}

func (v *validator) age(age *int) {
	if age != nil {
		v.check(*age >= 1 && *age <= maxAge, "age", *age, "must be between 1 and 120")
	}
}

func (v *validator) weight(w *float64) {
	if w != nil {
		v.check(*w > 0 && *w <= maxWeightKg, "weight_kg", *w, "must be greater than 0 and at most 500")
	}
}

func (v *validator) height(h *float64) {
	if h != nil {
		v.check(*h > 0 && *h <= maxHeightCm, "height_cm", *h, "must be greater than 0 and at most 300")
	}
}

func (v *validator) grams(field string, g *float64) {
	if g != nil {
		v.check(*g >= 0 && !math.IsInf(*g, 0), field, *g, "must be a non-negative number")
	}
}

// timestamp rejects instants that cannot be stored without losing their value.
// A zero time is left to the caller, which stamps it with the clock.
func (v *validator) timestamp(field string, t time.Time) {
	if t.IsZero() {
		return
	}
	v.check(!t.Before(minTimestamp) && !t.After(maxTimestamp), field, t,
		"must be between "+minTimestamp.Format(time.DateOnly)+" and "+maxTimestamp.Format(time.DateOnly))
}

func validateProfile(in ProfileInput) error {
	v := &validator{kind: KindUser}
	v.age(in.Age)
	v.weight(in.WeightKg)
	v.height(in.HeightCm)
	v.check(in.Target == "" || in.Target.Valid(), "target", in.Target, "must be one of lose_weight, gain_weight, stay_fit")
	v.check(in.Gender == "" || in.Gender.Valid(), "gender", in.Gender, "must be one of male, female, other")
	v.check(in.ActivityLevel == "" || in.ActivityLevel.Valid(), "activity_level", in.ActivityLevel, "must be one of low, medium, high")
	v.check(in.DietaryPreference == "" || in.DietaryPreference.Valid(), "dietary_preference", in.DietaryPreference,
		"must be one of none, vegan, vegetarian, keto, paleo, gluten_free")
	return v.err()
}

func validateProfilePatch(p ProfilePatch) error {
	v := &validator{kind: KindUser}
	v.age(p.Age)
	v.weight(p.WeightKg)
	v.height(p.HeightCm)
	if p.Target != nil {
		v.check(p.Target.Valid(), "target", *p.Target, "must be one of lose_weight, gain_weight, stay_fit")
	}
	if p.Gender != nil {
		v.check(p.Gender.Valid(), "gender", *p.Gender, "must be one of male, female, other")
	}
	if p.ActivityLevel != nil {
		v.check(p.ActivityLevel.Valid(), "activity_level", *p.ActivityLevel, "must be one of low, medium, high")
	}
	if p.DietaryPreference != nil {
		v.check(p.DietaryPreference.Valid(), "dietary_preference", *p.DietaryPreference,
			"must be one of none, vegan, vegetarian, keto, paleo, gluten_free")
	}
	return v.err()
}

func validateMeal(in MealInput) error {
	v := &validator{kind: KindMeal}
	v.check(strings.TrimSpace(in.Key) != "", "key", in.Key, "must not be empty")
	v.check(in.Calories >= 0, "calories", in.Calories, "must not be negative")
	v.grams("protein_g", in.ProteinG)
	v.grams("carbs_g", in.CarbsG)
	v.grams("fat_g", in.FatG)
	v.timestamp("eaten_at", in.EatenAt)
	v.check(in.MealType.Valid(), "meal_type", in.MealType, "must be one of breakfast, lunch, dinner, snack")
	return v.err()
}

func validateMealPatch(p MealPatch) error {
	v := &validator{kind: KindMeal}
	if p.Key != nil {
		v.check(strings.TrimSpace(*p.Key) != "", "key", *p.Key, "must not be empty")
	}
	if p.Calories != nil {
		v.check(*p.Calories >= 0, "calories", *p.Calories, "must not be negative")
	}
	v.grams("protein_g", p.ProteinG)
	v.grams("carbs_g", p.CarbsG)
	v.grams("fat_g", p.FatG)
	if p.EatenAt != nil {
		v.check(!p.EatenAt.IsZero(), "eaten_at", *p.EatenAt, "must be set")
		v.timestamp("eaten_at", *p.EatenAt)
	}
	if p.MealType != nil {
		v.check(p.MealType.Valid(), "meal_type", *p.MealType, "must be one of breakfast, lunch, dinner, snack")
	}
	return v.err()
}

func validateWorkout(in WorkoutInput) error {
	v := &validator{kind: KindWorkout}
	v.check(CanonicalWorkoutType(in.Type) != "", "type", in.Type, "must not be empty")
	v.check(in.DurationMinutes > 0, "duration_minutes", in.DurationMinutes, "must be positive")
	v.check(in.CaloriesBurned >= 0, "calories_burned", in.CaloriesBurned, "must not be negative")
	v.timestamp("performed_at", in.PerformedAt)
	return v.err()
}

func validateWorkoutPatch(p WorkoutPatch) error {
	v := &validator{kind: KindWorkout}
	if p.Type != nil {
		v.check(CanonicalWorkoutType(*p.Type) != "", "type", *p.Type, "must not be empty")
	}
	if p.DurationMinutes != nil {
		v.check(*p.DurationMinutes > 0, "duration_minutes", *p.DurationMinutes, "must be positive")
	}
	if p.CaloriesBurned != nil {
		v.check(*p.CaloriesBurned >= 0, "calories_burned", *p.CaloriesBurned, "must not be negative")
	}
	if p.PerformedAt != nil {
		v.check(!p.PerformedAt.IsZero(), "performed_at", *p.PerformedAt, "must be set")
		v.timestamp("performed_at", *p.PerformedAt)
	}
	return v.err()
}

func validateWeight(weightKg float64, at time.Time) error {
	v := &validator{kind: KindWeight}
	v.weight(&weightKg)
	v.timestamp("recorded_at", at)
	return v.err()
}
