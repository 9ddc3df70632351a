package metrics

import (
	"math"
	"sort"

	"github.com/andresuchdata/stockpulse/internal/domain"
)

// Thresholds are the velocity cut points computed once per run from the full
// population of weekly sale rates.
type Thresholds struct {
	Slow float64 `json:"slow"`
	Fast float64 `json:"fast"`
}

// ComputeThresholds derives the slow and fast thresholds from the population
// of average weekly rates. Zero rates are dropped before the percentile
// lookup; each threshold is the value at index floor(pct × n) in the
// ascending-sorted non-zero rates, clamped to the last element. An empty
// non-zero population leaves both thresholds at zero.
func ComputeThresholds(rates []float64, slowPct, fastPct float64) Thresholds {
	nonZero := make([]float64, 0, len(rates))
	for _, r := range rates {
		if r > 0 {
			nonZero = append(nonZero, r)
		}
	}
	if len(nonZero) == 0 {
		return Thresholds{}
	}
	sort.Float64s(nonZero)

	at := func(pct float64) float64 {
		idx := int(math.Floor(pct * float64(len(nonZero))))
		if idx >= len(nonZero) {
			idx = len(nonZero) - 1
		}
		if idx < 0 {
			idx = 0
		}
		return nonZero[idx]
	}

	return Thresholds{Slow: at(slowPct), Fast: at(fastPct)}
}

// Classify labels an item's average weekly rate. A zero-sales item is
// definitionally Slow; at or above the fast threshold is Fast; everything
// else is Average. Note that a positive rate at or below the slow threshold
// classifies Average, not Slow; Slow is reserved strictly for zero-sales
// items in this policy.
func (t Thresholds) Classify(avg float64) domain.Velocity {
	switch {
	case avg == 0:
		return domain.VelocitySlow
	case avg >= t.Fast:
		return domain.VelocityFast
	default:
		return domain.VelocityAverage
	}
}
