package main

import (
	"fmt"
	"strings"
	"time"

	"ledger-go/internal/ledger"
	"ledger-go/internal/summary"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseTime reads a meal or workout timestamp relative to now.
// An empty value or "now" returns the zero time, which the store stamps
// with the current time. A bare "HH:MM" means that time today.
func parseTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return time.Time{}, nil
	}

	loc := now.Location()
	if t, err := time.ParseInLocation("15:04", s, loc); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want HH:MM, YYYY-MM-DD HH:MM or RFC 3339)", s)
}

// parseDay reads a calendar day: "today", "yesterday" or YYYY-MM-DD.
// The result is an instant within that day in now's location.
func parseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	d, err := summary.ParseDay(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (want YYYY-MM-DD, today or yesterday)", s)
	}
	return d.Start(now.Location()), nil
}

// parseMealType reads a meal type. Meals without one are snacks.
func parseMealType(s string) (ledger.MealType, error) {
	if s == "" {
		return ledger.MealSnack, nil
	}
	mt := ledger.MealType(strings.ToLower(s))
	if !mt.Valid() {
		return "", fmt.Errorf("invalid meal type %q (want breakfast, lunch, dinner or snack)", s)
	}
	return mt, nil
}
