package ledger

import (
	"math"
	"strings"
	"time"
)

// FitnessTarget is the user's goal for body weight.
type FitnessTarget string

const (
	TargetLoseWeight FitnessTarget = "lose_weight"
	TargetGainWeight FitnessTarget = "gain_weight"
	TargetStayFit    FitnessTarget = "stay_fit"
)

// Gender selects the constant used by the metabolic-rate formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ActivityLevel describes how active the user is day to day.
type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
)

// DietaryPreference is informational only; it does not affect the calorie goal.
type DietaryPreference string

const (
	DietNone       DietaryPreference = "none"
	DietVegan      DietaryPreference = "vegan"
	DietVegetarian DietaryPreference = "vegetarian"
	DietKeto       DietaryPreference = "keto"
	DietPaleo      DietaryPreference = "paleo"
	DietGlutenFree DietaryPreference = "gluten_free"
)

// MealType is the slot of the day a meal was eaten in.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func (t FitnessTarget) Valid() bool {
	switch t {
	case TargetLoseWeight, TargetGainWeight, TargetStayFit:
		return true
	}
	return false
}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivityLow, ActivityMedium, ActivityHigh:
		return true
	}
	return false
}

func (d DietaryPreference) Valid() bool {
	switch d {
	case DietNone, DietVegan, DietVegetarian, DietKeto, DietPaleo, DietGlutenFree:
		return true
	}
	return false
}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// UserProfile is the single profile of this installation.
// Empty enum values and nil pointers mean the attribute has not been provided yet.
type UserProfile struct {
	ID                string
	Name              string
	Target            FitnessTarget
	Age               *int
	Gender            Gender
	WeightKg          *float64
	HeightCm          *float64
	ActivityLevel     ActivityLevel
	DietaryPreference DietaryPreference
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Complete reports whether every attribute needed by the app is present.
// Dietary preference is optional.
func (p *UserProfile) Complete() bool {
	return p.Name != "" &&
		p.Target != "" &&
		p.Age != nil &&
		p.Gender != "" &&
		p.WeightKg != nil &&
		p.HeightCm != nil &&
		p.ActivityLevel != ""
}

// MealRecord is one logged food intake event.
type MealRecord struct {
	ID       string
	Key      string
	Calories int
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
	EatenAt  time.Time
	MealType MealType
}

// WorkoutRecord is one logged exercise session.
type WorkoutRecord struct {
	ID              string
	Type            string
	DurationMinutes int
	CaloriesBurned  int
	PerformedAt     time.Time
	Notes           *string
}

// WeightEntry is one body-weight measurement in the weight log.
type WeightEntry struct {
	ID       string
	At       time.Time
	WeightKg float64
}

// ProfileInput holds the values submitted by the profile setup flow.
type ProfileInput struct {
	Name              string
	Target            FitnessTarget
	Age               *int
	Gender            Gender
	WeightKg          *float64
	HeightCm          *float64
	ActivityLevel     ActivityLevel
	DietaryPreference DietaryPreference
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Name              *string
	Target            *FitnessTarget
	Age               *int
	Gender            *Gender
	WeightKg          *float64
	HeightCm          *float64
	ActivityLevel     *ActivityLevel
	DietaryPreference *DietaryPreference
}

// Input converts the patch into the values a new profile would be created with.
func (p ProfilePatch) Input() ProfileInput {
	in := ProfileInput{Age: p.Age, WeightKg: p.WeightKg, HeightCm: p.HeightCm}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Target != nil {
		in.Target = *p.Target
	}
	if p.Gender != nil {
		in.Gender = *p.Gender
	}
	if p.ActivityLevel != nil {
		in.ActivityLevel = *p.ActivityLevel
	}
	if p.DietaryPreference != nil {
		in.DietaryPreference = *p.DietaryPreference
	}
	return in
}

// MealInput holds the values for a new meal. A zero EatenAt is stamped with the current time.
type MealInput struct {
	Key      string
	Calories int
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
	EatenAt  time.Time
	MealType MealType
}

// WithDerivedCalories returns a copy whose calories are computed from the macros.
// Absent macros count as zero.
func (in MealInput) WithDerivedCalories() MealInput {
	in.Calories = CaloriesFromMacros(deref(in.ProteinG), deref(in.CarbsG), deref(in.FatG))
	return in
}

// MealPatch is a partial meal update. Nil fields are left unchanged.
type MealPatch struct {
	Key      *string
	Calories *int
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
	EatenAt  *time.Time
	MealType *MealType
}

// WorkoutInput holds the values for a new workout. A zero PerformedAt is stamped with the current time.
type WorkoutInput struct {
	Type            string
	DurationMinutes int
	CaloriesBurned  int
	PerformedAt     time.Time
	Notes           *string
}

// WorkoutPatch is a partial workout update. Nil fields are left unchanged.
type WorkoutPatch struct {
	Type            *string
	DurationMinutes *int
	CaloriesBurned  *int
	PerformedAt     *time.Time
	Notes           *string
}

// CaloriesFromMacros converts macro grams to kilocalories using 4/4/9 kcal per gram.
func CaloriesFromMacros(proteinG, carbsG, fatG float64) int {
	return int(math.Round(proteinG*4 + carbsG*4 + fatG*9))
}

// CanonicalWorkoutType normalizes a workout type for storage and lookup.
func CanonicalWorkoutType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// burnRates are kcal per minute for the workout types offered by the entry form.
var burnRates = map[string]float64{
	"running":       10,
	"cycling":       8,
	"swimming":      11,
	"walking":       5,
	"yoga":          4,
	"weightlifting": 6,
}

const defaultBurnRate = 7

// EstimateWorkoutCalories suggests calories burned for a session of the given type and length.
func EstimateWorkoutCalories(workoutType string, minutes int) int {
	rate, ok := burnRates[CanonicalWorkoutType(workoutType)]
	if !ok {
		rate = defaultBurnRate
	}
	return int(math.Round(float64(minutes) * rate))
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
