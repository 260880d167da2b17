package summary

import "math"

// ScaleMax returns the largest value in series, or 0 for an empty series.
func ScaleMax(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	m := series[0]
	for _, v := range series[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// ScaleMaxWithFloor returns the larger of floor and the largest value in series.
// Chart bars scaled against it never exceed full height and a goal line at
// floor always fits.
func ScaleMaxWithFloor(series []float64, floor float64) float64 {
	m := floor
	for _, v := range series {
		if v > m {
			m = v
		}
	}
	return m
}

// Average returns the mean of series rounded half away from zero, or 0 for an empty series.
func Average(series []float64) int {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return round(sum / float64(len(series)))
}

// MacroSplit is the share of each macronutrient in whole percent.
type MacroSplit struct {
	ProteinPct int
	CarbsPct   int
	FatPct     int
}

// MacroPercentages splits total grams into rounded percentages.
// The parts may sum to 98..102 because each is rounded on its own.
// All parts are 0 when there are no grams.
func MacroPercentages(proteinG, carbsG, fatG float64) MacroSplit {
	total := proteinG + carbsG + fatG
	if total <= 0 {
		return MacroSplit{}
	}
	return MacroSplit{
		ProteinPct: round(100 * proteinG / total),
		CarbsPct:   round(100 * carbsG / total),
		FatPct:     round(100 * fatG / total),
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
