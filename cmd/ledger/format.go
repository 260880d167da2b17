package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"ledger-go/internal/catalog"
	"ledger-go/internal/goal"
	"ledger-go/internal/ledger"
	"ledger-go/internal/summary"
)

const (
	timeFormat = "2006-01-02 15:04"
	barWidth   = 30
)

func printMeal(w io.Writer, m *ledger.MealRecord, cat *catalog.Catalog) {
	fmt.Fprintf(w, "%s  %s  %-9s  %-20s  %5d kcal%s\n",
		m.ID,
		m.EatenAt.Format(timeFormat),
		m.MealType,
		cat.Name(m.Key),
		m.Calories,
		macroSuffix(m.ProteinG, m.CarbsG, m.FatG),
	)
}

func macroSuffix(p, c, f *float64) string {
	if p == nil && c == nil && f == nil {
		return ""
	}
	return fmt.Sprintf("  P %s  C %s  F %s", grams(p), grams(c), grams(f))
}

func grams(g *float64) string {
	if g == nil {
		return "-"
	}
	return fmt.Sprintf("%.1fg", *g)
}

func printWorkout(w io.Writer, wo *ledger.WorkoutRecord) {
	notes := ""
	if wo.Notes != nil && *wo.Notes != "" {
		notes = "  " + *wo.Notes
	}
	fmt.Fprintf(w, "%s  %s  %-14s  %4d min  %5d kcal%s\n",
		wo.ID,
		wo.PerformedAt.Format(timeFormat),
		wo.Type,
		wo.DurationMinutes,
		wo.CaloriesBurned,
		notes,
	)
}

func printProfile(w io.Writer, p *ledger.UserProfile) {
	fmt.Fprintf(w, "Name:       %s\n", valueOr(p.Name, "-"))
	fmt.Fprintf(w, "Target:     %s\n", valueOr(string(p.Target), "-"))
	fmt.Fprintf(w, "Age:        %s\n", optInt(p.Age))
	fmt.Fprintf(w, "Gender:     %s\n", valueOr(string(p.Gender), "-"))
	fmt.Fprintf(w, "Weight:     %s\n", optFloat(p.WeightKg, "kg"))
	fmt.Fprintf(w, "Height:     %s\n", optFloat(p.HeightCm, "cm"))
	if bmi, category, ok := goal.ProfileBMI(p); ok {
		fmt.Fprintf(w, "BMI:        %.1f (%s)\n", bmi, category)
	}
	fmt.Fprintf(w, "Activity:   %s\n", valueOr(string(p.ActivityLevel), "-"))
	fmt.Fprintf(w, "Diet:       %s\n", valueOr(string(p.DietaryPreference), "-"))
	fmt.Fprintf(w, "Updated:    %s\n", p.UpdatedAt.Format(timeFormat))
	if !p.Complete() {
		fmt.Fprintln(w, "\nProfile is incomplete; the calorie goal is not available yet.")
	}
}

func optInt(n *int) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

func optFloat(f *float64, unit string) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f %s", *f, unit)
}

// bar renders value as a horizontal bar scaled against max.
func bar(value, max float64) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := int(value / max * barWidth)
	if n < 1 {
		n = 1
	}
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("#", n)
}

func printNutrition(w io.Writer, s summary.NutritionSummary) {
	if len(s.Days) == 0 {
		fmt.Fprintln(w, "No meals logged in this period.")
		return
	}
	for _, b := range s.Days {
		fmt.Fprintf(w, "%s %s  %-*s %5d kcal\n",
			b.Day, b.Day.Weekday().String()[:3], barWidth, bar(float64(b.Value.Calories), s.ScaleMax), b.Value.Calories)
	}
	fmt.Fprintln(w)
	if s.Goal > 0 {
		fmt.Fprintf(w, "Goal:      %d kcal/day\n", s.Goal)
	}
	fmt.Fprintf(w, "Average:   %d kcal/day\n", s.AverageCalories)
	fmt.Fprintf(w, "Macros:    P %dg (%d%%)  C %dg (%d%%)  F %dg (%d%%)\n",
		s.AverageMacros.ProteinG, s.Split.ProteinPct,
		s.AverageMacros.CarbsG, s.Split.CarbsPct,
		s.AverageMacros.FatG, s.Split.FatPct,
	)
}

func printWorkoutSummary(w io.Writer, s summary.WorkoutSummary) {
	if len(s.Days) == 0 {
		fmt.Fprintln(w, "No workouts logged in this period.")
	}
	for _, b := range s.Days {
		fmt.Fprintf(w, "%s %s  %-*s %5d kcal  %4d min  %d session(s)\n",
			b.Day, b.Day.Weekday().String()[:3], barWidth, bar(float64(b.Value.CaloriesBurned), s.MaxCaloriesBurned),
			b.Value.CaloriesBurned, b.Value.DurationMinutes, b.Value.Sessions)
	}
	if len(s.Days) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Total:     %d kcal  %d min  %d session(s)\n", s.TotalCaloriesBurned, s.TotalDuration, s.TotalSessions)
		fmt.Fprintf(w, "Average:   %d kcal/day  %d min/day\n", s.AvgCaloriesBurned, s.AvgDuration)
	}
	if len(s.TopTypes) > 0 {
		parts := make([]string, len(s.TopTypes))
		for i, tc := range s.TopTypes {
			parts[i] = fmt.Sprintf("%s (%d)", tc.Type, tc.Count)
		}
		fmt.Fprintf(w, "Top types: %s\n", strings.Join(parts, ", "))
	}
}

func printWeightSummary(w io.Writer, s summary.WeightSummary) {
	span := s.Range.Max - s.Range.Min
	for _, e := range s.Recent {
		fmt.Fprintf(w, "%s  %-*s %6.1f kg\n",
			e.At.Format("2006-01-02"), barWidth, bar(e.WeightKg-s.Range.Min, span), e.WeightKg)
	}
	if len(s.Recent) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Current:   %.1f kg", s.Current)
	if s.Delta != 0 {
		fmt.Fprintf(w, " (%+.1f kg since the first entry)", s.Delta)
	}
	fmt.Fprintln(w)
	if s.Target != nil {
		fmt.Fprintf(w, "Target:    %.1f kg (%.1f kg to go)\n", *s.Target, math.Abs(s.Current-*s.Target))
	}
}
