// Package summary derives chart and card summaries from logged records.
// Every function is pure: inputs are never modified and empty inputs yield
// zero values rather than errors.
package summary

import (
	"fmt"
	"slices"
	"time"
)

// Day is a calendar date, independent of time of day.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in loc. A nil loc means time.Local.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Day{}, fmt.Errorf("parsing day %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Start returns midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) Before(o Day) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// AddDays returns the date n days after d (before, for negative n).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Start(time.UTC).AddDate(0, 0, n), time.UTC)
}

func (d Day) Weekday() time.Weekday {
	return d.Start(time.UTC).Weekday()
}

// Bucket pairs a day with the value aggregated for it.
type Bucket[T any] struct {
	Day   Day
	Value T
}

// RecentWindow returns the n most recent days of grouped in ascending order.
// Fewer than n buckets are returned when less data exists.
func RecentWindow[T any](grouped map[Day]T, n int) []Bucket[T] {
	buckets := sortedBuckets(grouped)
	if n < 0 {
		n = 0
	}
	if len(buckets) > n {
		buckets = buckets[len(buckets)-n:]
	}
	return buckets
}

// ZeroFill returns one bucket per day from from through to inclusive,
// using the zero value for days absent from grouped.
func ZeroFill[T any](grouped map[Day]T, from, to Day) []Bucket[T] {
	var out []Bucket[T]
	for d := from; !to.Before(d); d = d.AddDays(1) {
		out = append(out, Bucket[T]{Day: d, Value: grouped[d]})
	}
	return out
}

func sortedBuckets[T any](grouped map[Day]T) []Bucket[T] {
	out := make([]Bucket[T], 0, len(grouped))
	for d, v := range grouped {
		out = append(out, Bucket[T]{Day: d, Value: v})
	}
	slices.SortFunc(out, func(a, b Bucket[T]) int {
		switch {
		case a.Day.Before(b.Day):
			return -1
		case b.Day.Before(a.Day):
			return 1
		}
		return 0
	})
	return out
}
