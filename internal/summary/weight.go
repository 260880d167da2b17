package summary

import (
	"slices"

	"ledger-go/internal/ledger"
)

// WeightDelta is current minus the first entry of history: negative for a loss,
// positive for a gain, 0 when there is no history.
func WeightDelta(history []ledger.WeightEntry, current float64) float64 {
	if len(history) == 0 {
		return 0
	}
	return current - history[0].WeightKg
}

// RecentWeights returns the n latest entries of history in ascending time order.
func RecentWeights(history []ledger.WeightEntry, n int) []ledger.WeightEntry {
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b ledger.WeightEntry) int {
		return a.At.Compare(b.At)
	})
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

// Range is the vertical extent of a weight chart.
type Range struct {
	Min float64
	Max float64
}

// weightPadding widens the chart range on both sides.
const weightPadding = 0.05

// WeightRange bounds the given entries, the current weight and an optional
// target, padded by 5% below and above.
func WeightRange(entries []ledger.WeightEntry, current float64, target *float64) Range {
	lo, hi := current, current
	include := func(w float64) {
		lo = min(lo, w)
		hi = max(hi, w)
	}
	for _, e := range entries {
		include(e.WeightKg)
	}
	if target != nil {
		include(*target)
	}
	return Range{Min: lo * (1 - weightPadding), Max: hi * (1 + weightPadding)}
}

// RecentWeightCount is the number of entries the weight chart shows.
const RecentWeightCount = 6

// WeightSummary is the data behind the weight chart.
type WeightSummary struct {
	Current float64
	Target  *float64
	// Delta is Current minus the oldest logged weight.
	Delta  float64
	Recent []ledger.WeightEntry
	Range  Range
}

// Weight summarizes history for a chart of its n latest entries. history may be
// in any order; the delta is taken against the oldest entry.
func Weight(history []ledger.WeightEntry, current float64, target *float64, n int) WeightSummary {
	sorted := RecentWeights(history, len(history))
	recent := RecentWeights(sorted, n)
	return WeightSummary{
		Current: current,
		Target:  target,
		Delta:   WeightDelta(sorted, current),
		Recent:  recent,
		Range:   WeightRange(recent, current, target),
	}
}
