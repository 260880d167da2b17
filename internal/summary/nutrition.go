package summary

import (
	"time"

	"ledger-go/internal/ledger"
)

// DayTotals are the summed intake values of one day.
// Absent macros count as zero grams.
type DayTotals struct {
	Calories int
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

// GroupByDay sums meals per calendar day in loc. Days without meals are absent.
func GroupByDay(meals []*ledger.MealRecord, loc *time.Location) map[Day]DayTotals {
	out := make(map[Day]DayTotals)
	for _, m := range meals {
		d := DayOf(m.EatenAt, loc)
		t := out[d]
		t.Calories += m.Calories
		t.ProteinG += deref(m.ProteinG)
		t.CarbsG += deref(m.CarbsG)
		t.FatG += deref(m.FatG)
		out[d] = t
	}
	return out
}

// MacroAverages are average daily macronutrient grams, rounded.
type MacroAverages struct {
	ProteinG int
	CarbsG   int
	FatG     int
}

// NutritionSummary is what the nutrition chart displays for a window of days.
type NutritionSummary struct {
	Days            []Bucket[DayTotals]
	Goal            int
	ScaleMax        float64
	AverageCalories int
	AverageMacros   MacroAverages
	Split           MacroSplit
}

// Nutrition summarizes the most recent window days that have meals.
// The scale includes goal so the goal line is always drawable.
// The macro split is taken from the rounded daily averages.
func Nutrition(meals []*ledger.MealRecord, goal int, loc *time.Location, window int) NutritionSummary {
	days := RecentWindow(GroupByDay(meals, loc), window)

	calories := make([]float64, len(days))
	protein := make([]float64, len(days))
	carbs := make([]float64, len(days))
	fat := make([]float64, len(days))
	for i, b := range days {
		calories[i] = float64(b.Value.Calories)
		protein[i] = b.Value.ProteinG
		carbs[i] = b.Value.CarbsG
		fat[i] = b.Value.FatG
	}

	avg := MacroAverages{
		ProteinG: Average(protein),
		CarbsG:   Average(carbs),
		FatG:     Average(fat),
	}
	return NutritionSummary{
		Days:            days,
		Goal:            goal,
		ScaleMax:        ScaleMaxWithFloor(calories, float64(goal)),
		AverageCalories: Average(calories),
		AverageMacros:   avg,
		Split:           MacroPercentages(float64(avg.ProteinG), float64(avg.CarbsG), float64(avg.FatG)),
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
