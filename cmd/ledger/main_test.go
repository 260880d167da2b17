package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"ledger-go/internal/ledger"
	"ledger-go/internal/summary"
)

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, loc)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "empty means now", in: "", want: time.Time{}},
		{name: "now", in: "NOW", want: time.Time{}},
		{name: "time of day", in: "08:15", want: time.Date(2024, 1, 15, 8, 15, 0, 0, loc)},
		{name: "date and time", in: "2024-01-14 23:59", want: time.Date(2024, 1, 14, 23, 59, 0, 0, loc)},
		{name: "date T time", in: "2024-01-14T07:00", want: time.Date(2024, 1, 14, 7, 0, 0, 0, loc)},
		{name: "rfc3339", in: "2024-01-14T07:00:00Z", want: time.Date(2024, 1, 14, 7, 0, 0, 0, time.UTC)},
		{name: "garbage", in: "lunchtime", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2024, 3, 1, 0, 30, 0, 0, loc)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "2024-03-01"},
		{in: "today", want: "2024-03-01"},
		{in: "Yesterday", want: "2024-02-29"},
		{in: "2024-02-10", want: "2024-02-10"},
		{in: "10/02/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if day := summary.DayOf(got, loc).String(); day != tt.want {
				t.Errorf("parseDay(%q) day = %s, want %s", tt.in, day, tt.want)
			}
		})
	}
}

func TestParseMealType(t *testing.T) {
	tests := []struct {
		in      string
		want    ledger.MealType
		wantErr bool
	}{
		{in: "", want: ledger.MealSnack},
		{in: "Breakfast", want: ledger.MealBreakfast},
		{in: "dinner", want: ledger.MealDinner},
		{in: "brunch", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseMealType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMealType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMealType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation error lists fields",
			err: fmt.Errorf("saving: %w", &ledger.ValidationError{Kind: ledger.KindUser, Fields: []ledger.FieldError{
				{Field: "age", Value: 0, Constraint: "must be between 1 and 120"},
				{Field: "weight_kg", Value: -1.0, Constraint: "must be greater than 0 and at most 500"},
			}}),
			want: "Invalid user:\n  age: must be between 1 and 120 (got 0)\n  weight_kg: must be greater than 0 and at most 500 (got -1)\n",
		},
		{
			name: "store not ready",
			err:  fmt.Errorf("initializing app: %w", ledger.ErrStoreUnavailable),
			want: "Error: store not ready: initializing app: store unavailable\n",
		},
		{
			name: "profile exists",
			err:  ledger.ErrProfileExists,
			want: "Error: a profile already exists; use 'ledger profile set' to change it\n",
		},
		{
			name: "other",
			err:  fmt.Errorf("no meal with id x"),
			want: "Error: no meal with id x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("reportError() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, max float64
		want       int
	}{
		{value: 0, max: 100, want: 0},
		{value: 50, max: 100, want: barWidth / 2},
		{value: 100, max: 100, want: barWidth},
		{value: 1, max: 10000, want: 1},
		{value: 200, max: 100, want: barWidth},
		{value: 10, max: 0, want: 0},
	}
	for _, tt := range tests {
		if got := len(bar(tt.value, tt.max)); got != tt.want {
			t.Errorf("bar(%v, %v) length = %d, want %d", tt.value, tt.max, got, tt.want)
		}
	}
}

func TestPrintNutrition(t *testing.T) {
	var buf bytes.Buffer
	printNutrition(&buf, summary.NutritionSummary{})
	if !strings.Contains(buf.String(), "No meals logged") {
		t.Errorf("empty summary output = %q", buf.String())
	}

	buf.Reset()
	printNutrition(&buf, summary.NutritionSummary{
		Days: []summary.Bucket[summary.DayTotals]{
			{Day: summary.Day{Year: 2024, Month: 1, Day: 15}, Value: summary.DayTotals{Calories: 2000}},
		},
		Goal:            2759,
		ScaleMax:        2759,
		AverageCalories: 2000,
		AverageMacros:   summary.MacroAverages{ProteinG: 100, CarbsG: 250, FatG: 60},
		Split:           summary.MacroSplit{ProteinPct: 25, CarbsPct: 61, FatPct: 14},
	})
	out := buf.String()
	for _, want := range []string{"2024-01-15 Mon", "2000 kcal", "Goal:      2759 kcal/day", "P 100g (25%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfirm(t *testing.T) {
	newCmd := func(input string, yes bool) (*cobra.Command, *bytes.Buffer) {
		cmd := &cobra.Command{}
		cmd.Flags().Bool("yes", false, "")
		if yes {
			cmd.Flags().Set("yes", "true")
		}
		cmd.SetIn(strings.NewReader(input))
		var stderr bytes.Buffer
		cmd.SetErr(&stderr)
		return cmd, &stderr
	}
	setTerminal := func(t *testing.T, isTerm bool) {
		orig := stdinIsTerminal
		stdinIsTerminal = func() bool { return isTerm }
		t.Cleanup(func() { stdinIsTerminal = orig })
	}

	t.Run("yes flag skips the question", func(t *testing.T) {
		setTerminal(t, false)
		cmd, stderr := newCmd("", true)
		ok, err := confirm(cmd, "Delete?")
		if err != nil || !ok {
			t.Errorf("confirm() = %v, %v; want true, nil", ok, err)
		}
		if stderr.Len() != 0 {
			t.Errorf("prompt written with --yes: %q", stderr.String())
		}
	})

	t.Run("no terminal requires yes", func(t *testing.T) {
		setTerminal(t, false)
		cmd, _ := newCmd("y\n", false)
		ok, err := confirm(cmd, "Delete?")
		if err == nil || ok {
			t.Fatalf("confirm() = %v, %v; want false and an error", ok, err)
		}
		if !strings.Contains(err.Error(), "--yes") {
			t.Errorf("error = %q, want a hint about --yes", err)
		}
	})

	answers := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range answers {
		t.Run(fmt.Sprintf("answer %q", tt.input), func(t *testing.T) {
			setTerminal(t, true)
			cmd, stderr := newCmd(tt.input, false)
			ok, err := confirm(cmd, "Delete?")
			if err != nil || ok != tt.want {
				t.Errorf("confirm() = %v, %v; want %v, nil", ok, err, tt.want)
			}
			if !strings.Contains(stderr.String(), "Delete? [y/N]") {
				t.Errorf("prompt = %q", stderr.String())
			}
		})
	}
}

func TestPrintProfile_BMI(t *testing.T) {
	weight, height := 80.0, 180.0
	var buf bytes.Buffer
	printProfile(&buf, &ledger.UserProfile{Name: "Sam", WeightKg: &weight, HeightCm: &height})
	if !strings.Contains(buf.String(), "BMI:        24.7 (normal)") {
		t.Errorf("output missing BMI:\n%s", buf.String())
	}

	buf.Reset()
	printProfile(&buf, &ledger.UserProfile{Name: "Sam", WeightKg: &weight})
	if strings.Contains(buf.String(), "BMI") {
		t.Errorf("BMI shown without a height:\n%s", buf.String())
	}
}

func TestPrintWeightSummary(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	history := []ledger.WeightEntry{
		{At: base, WeightKg: 80},
		{At: base.AddDate(0, 0, 7), WeightKg: 79},
	}
	target := 75.0

	var buf bytes.Buffer
	printWeightSummary(&buf, summary.Weight(history, 79, &target, summary.RecentWeightCount))
	out := buf.String()
	for _, want := range []string{"2024-01-01", "80.0 kg", "Current:   79.0 kg (-1.0 kg since the first entry)", "Target:    75.0 kg (4.0 kg to go)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCommandTree(t *testing.T) {
	want := map[string][]string{
		"config":   {"init", "list"},
		"profile":  {"goal", "set", "show"},
		"meal":     {"add", "day", "edit", "quick", "range", "rm", "show"},
		"workout":  {"add", "edit", "list", "rm", "show"},
		"summary":  {"nutrition", "weight", "workouts"},
		"weight":   {"list", "log", "rm"},
		"catalog":  {"list"},
		"db":       {"schema", "status"},
		"snapshot": {"export", "import"},
	}

	got := make(map[string][]string)
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; !ok {
			continue
		}
		for _, sub := range c.Commands() {
			got[c.Name()] = append(got[c.Name()], sub.Name())
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("command tree mismatch (-want +got):\n%s", diff)
	}
}
