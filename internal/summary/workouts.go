package summary

import (
	"slices"
	"time"

	"ledger-go/internal/ledger"
)

// TypeCount is how often a workout type occurs.
type TypeCount struct {
	Type  string
	Count int
}

// WorkoutTypeFrequency counts workouts per canonical type, most frequent first.
// Ties keep the order in which the types were first seen.
func WorkoutTypeFrequency(workouts []*ledger.WorkoutRecord) []TypeCount {
	index := make(map[string]int)
	var out []TypeCount
	for _, w := range workouts {
		t := ledger.CanonicalWorkoutType(w.Type)
		if i, ok := index[t]; ok {
			out[i].Count++
			continue
		}
		index[t] = len(out)
		out = append(out, TypeCount{Type: t, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b TypeCount) int {
		return b.Count - a.Count
	})
	return out
}

// TopTypes returns at most k entries of freq.
func TopTypes(freq []TypeCount, k int) []TypeCount {
	if k < 0 {
		k = 0
	}
	if len(freq) > k {
		return freq[:k]
	}
	return freq
}

// WorkoutDayTotals are the summed activity values of one day.
type WorkoutDayTotals struct {
	CaloriesBurned  int
	DurationMinutes int
	Sessions        int
}

// GroupWorkoutsByDay sums workouts per calendar day in loc. Days without workouts are absent.
func GroupWorkoutsByDay(workouts []*ledger.WorkoutRecord, loc *time.Location) map[Day]WorkoutDayTotals {
	out := make(map[Day]WorkoutDayTotals)
	for _, w := range workouts {
		d := DayOf(w.PerformedAt, loc)
		t := out[d]
		t.CaloriesBurned += w.CaloriesBurned
		t.DurationMinutes += w.DurationMinutes
		t.Sessions++
		out[d] = t
	}
	return out
}

// WorkoutSummary is what the workout chart displays for a window of days.
type WorkoutSummary struct {
	Days                []Bucket[WorkoutDayTotals]
	MaxCaloriesBurned   float64
	MaxDuration         float64
	TotalCaloriesBurned int
	TotalDuration       int
	TotalSessions       int
	AvgCaloriesBurned   int
	AvgDuration         int
	TopTypes            []TypeCount
}

// Workouts summarizes the most recent window days that have workouts.
// Scale maxima are at least 1. Type frequency covers every workout given,
// not only the window.
func Workouts(workouts []*ledger.WorkoutRecord, loc *time.Location, window, topK int) WorkoutSummary {
	days := RecentWindow(GroupWorkoutsByDay(workouts, loc), window)

	burned := make([]float64, len(days))
	duration := make([]float64, len(days))
	s := WorkoutSummary{Days: days}
	for i, b := range days {
		burned[i] = float64(b.Value.CaloriesBurned)
		duration[i] = float64(b.Value.DurationMinutes)
		s.TotalCaloriesBurned += b.Value.CaloriesBurned
		s.TotalDuration += b.Value.DurationMinutes
		s.TotalSessions += b.Value.Sessions
	}
	s.MaxCaloriesBurned = ScaleMaxWithFloor(burned, 1)
	s.MaxDuration = ScaleMaxWithFloor(duration, 1)
	s.AvgCaloriesBurned = Average(burned)
	s.AvgDuration = Average(duration)
	s.TopTypes = TopTypes(WorkoutTypeFrequency(workouts), topK)
	return s
}
