package summary

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ledger-go/internal/ledger"
)

func TestNutrition(t *testing.T) {
	loc := time.UTC
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, loc)

	t.Run("empty", func(t *testing.T) {
		got := Nutrition(nil, 2000, loc, 7)
		want := NutritionSummary{Days: []Bucket[DayTotals]{}, Goal: 2000, ScaleMax: 2000}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Nutrition(nil) mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("last seven days with data", func(t *testing.T) {
		var meals []*ledger.MealRecord
		for i := 0; i < 9; i++ {
			meals = append(meals, mealAt(start.AddDate(0, 0, i), 1500+100*i, ptr(100.0), ptr(200.0), ptr(50.0)))
		}
		// Second meal on the last day pushes it above the goal.
		meals = append(meals, mealAt(start.AddDate(0, 0, 8).Add(time.Hour), 900, ptr(20.0), nil, nil))

		got := Nutrition(meals, 2000, loc, 7)
		if len(got.Days) != 7 {
			t.Fatalf("Days = %d, want 7", len(got.Days))
		}
		if got.Days[0].Day != (Day{2024, 1, 3}) || got.Days[6].Day != (Day{2024, 1, 9}) {
			t.Errorf("window = %v..%v, want 2024-01-03..2024-01-09", got.Days[0].Day, got.Days[6].Day)
		}
		if got.ScaleMax != 3200 {
			t.Errorf("ScaleMax = %v, want 3200", got.ScaleMax)
		}
		// (1700+1800+...+2300 + 900) / 7 = 14900/7 = 2128.57
		if got.AverageCalories != 2129 {
			t.Errorf("AverageCalories = %d, want 2129", got.AverageCalories)
		}
		// protein (6*100 + 120)/7 = 102.86
		if want := (MacroAverages{ProteinG: 103, CarbsG: 200, FatG: 50}); got.AverageMacros != want {
			t.Errorf("AverageMacros = %+v, want %+v", got.AverageMacros, want)
		}
		// 103/353, 200/353, 50/353
		if want := (MacroSplit{29, 57, 14}); got.Split != want {
			t.Errorf("Split = %+v, want %+v", got.Split, want)
		}
	})
}

func TestWorkouts(t *testing.T) {
	loc := time.UTC
	start := time.Date(2024, 1, 1, 7, 0, 0, 0, loc)

	t.Run("empty", func(t *testing.T) {
		got := Workouts(nil, loc, 7, 3)
		if got.MaxCaloriesBurned != 1 || got.MaxDuration != 1 {
			t.Errorf("scale maxima = %v, %v; want 1, 1", got.MaxCaloriesBurned, got.MaxDuration)
		}
		if got.AvgCaloriesBurned != 0 || got.TotalSessions != 0 || len(got.TopTypes) != 0 {
			t.Errorf("Workouts(nil) = %+v, want zero values", got)
		}
	})

	t.Run("totals and averages", func(t *testing.T) {
		workouts := []*ledger.WorkoutRecord{
			{Type: "running", DurationMinutes: 30, CaloriesBurned: 300, PerformedAt: start},
			{Type: "yoga", DurationMinutes: 45, CaloriesBurned: 180, PerformedAt: start.Add(10 * time.Hour)},
			{Type: "running", DurationMinutes: 20, CaloriesBurned: 200, PerformedAt: start.AddDate(0, 0, 1)},
			{Type: "cycling", DurationMinutes: 60, CaloriesBurned: 480, PerformedAt: start.AddDate(0, 0, 3)},
			{Type: "swimming", DurationMinutes: 30, CaloriesBurned: 330, PerformedAt: start.AddDate(0, 0, -10)},
		}
		got := Workouts(workouts, loc, 3, 2)

		if len(got.Days) != 3 {
			t.Fatalf("Days = %d, want 3", len(got.Days))
		}
		if got.TotalCaloriesBurned != 1160 || got.TotalDuration != 155 || got.TotalSessions != 4 {
			t.Errorf("totals = %d kcal, %d min, %d sessions; want 1160, 155, 4",
				got.TotalCaloriesBurned, got.TotalDuration, got.TotalSessions)
		}
		if got.AvgCaloriesBurned != 387 || got.AvgDuration != 52 {
			t.Errorf("averages = %d kcal, %d min; want 387, 52", got.AvgCaloriesBurned, got.AvgDuration)
		}
		if got.MaxCaloriesBurned != 480 || got.MaxDuration != 75 {
			t.Errorf("maxima = %v, %v; want 480, 75", got.MaxCaloriesBurned, got.MaxDuration)
		}
		want := []TypeCount{{"running", 2}, {"yoga", 1}}
		if diff := cmp.Diff(want, got.TopTypes); diff != "" {
			t.Errorf("TopTypes mismatch (-want +got):\n%s", diff)
		}
	})
}
