// Package burst classifies which cycles of a feature table belong to a
// genuine oscillatory burst. Two interchangeable strategies are provided:
// consistency thresholds over four shape measures, and a single amplitude
// fraction threshold. Both enforce a minimum run of consecutive bursting
// cycles to suppress spurious single-cycle detections.
package burst

import (
	"github.com/mzabolocki/bycycle/features"
)

// CycleThresholds configures DetectCycles. All measure thresholds are
// strict lower bounds in [0, 1].
type CycleThresholds struct {
	// AmpFraction is the minimum fractional amplitude rank.
	AmpFraction float64
	// AmpConsistency is the minimum rise-decay magnitude agreement.
	AmpConsistency float64
	// PeriodConsistency is the minimum period agreement with neighbors.
	PeriodConsistency float64
	// Monotonicity is the minimum fraction of monotonic rise/decay steps.
	Monotonicity float64
	// MinCycles is the minimum run of consecutive bursting cycles.
	MinCycles int
}

// DefaultCycleThresholds returns the standard burst detection thresholds.
func DefaultCycleThresholds() CycleThresholds {
	return CycleThresholds{
		AmpFraction:       0,
		AmpConsistency:    0.5,
		PeriodConsistency: 0.5,
		Monotonicity:      0.8,
		MinCycles:         3,
	}
}

// AmpThresholds configures DetectAmp.
type AmpThresholds struct {
	// BurstFraction is the minimum fraction of a cycle above the
	// amplitude envelope; the default of 1 requires the entire cycle to
	// qualify.
	BurstFraction float64
	// MinCycles is the minimum run of consecutive bursting cycles.
	MinCycles int
}

// DefaultAmpThresholds returns the standard amplitude thresholds.
func DefaultAmpThresholds() AmpThresholds {
	return AmpThresholds{
		BurstFraction: 1,
		MinCycles:     3,
	}
}

// DetectCycles marks cycles as bursting when all four consistency
// measures strictly exceed their thresholds. The first and last cycle are
// always non-burst: their consistency measures have no neighbor on one
// side and are unreliable.
//
// The table's IsBurst column is set in place and the table returned.
func DetectCycles(table *features.FeatureTable, thresholds CycleThresholds) *features.FeatureTable {
	isBurst := make([]bool, table.Len())
	for i, c := range table.Cycles {
		// NaN consistency values fail every strict comparison
		isBurst[i] = c.AmpFraction > thresholds.AmpFraction &&
			c.AmpConsistency > thresholds.AmpConsistency &&
			c.PeriodConsistency > thresholds.PeriodConsistency &&
			c.Monotonicity > thresholds.Monotonicity
	}

	if len(isBurst) > 0 {
		isBurst[0] = false
		isBurst[len(isBurst)-1] = false
	}

	minConsecutiveCycles(isBurst, thresholds.MinCycles)

	for i := range table.Cycles {
		table.Cycles[i].IsBurst = isBurst[i]
	}
	return table
}

// DetectAmp marks cycles as bursting when their burst fraction meets the
// threshold.
//
// The table's IsBurst column is set in place and the table returned.
func DetectAmp(table *features.FeatureTable, thresholds AmpThresholds) *features.FeatureTable {
	isBurst := make([]bool, table.Len())
	for i, c := range table.Cycles {
		isBurst[i] = c.BurstFraction >= thresholds.BurstFraction
	}

	minConsecutiveCycles(isBurst, thresholds.MinCycles)

	for i := range table.Cycles {
		table.Cycles[i].IsBurst = isBurst[i]
	}
	return table
}

// minConsecutiveCycles clears, in place, every maximal run of true values
// shorter than minCycles, including a short trailing run.
func minConsecutiveCycles(isBurst []bool, minCycles int) {
	runLength := 0

	for idx, bursting := range isBurst {
		if bursting {
			runLength++
			continue
		}
		if runLength < minCycles {
			for k := idx - runLength; k < idx; k++ {
				isBurst[k] = false
			}
		}
		runLength = 0
	}

	if runLength > 0 && runLength < minCycles {
		for k := len(isBurst) - runLength; k < len(isBurst); k++ {
			isBurst[k] = false
		}
	}
}
