package burst_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzabolocki/bycycle/burst"
	"github.com/mzabolocki/bycycle/features"
)

// passingTable builds a table of n cycles whose measures clear the
// default thresholds, with NaN consistency on the boundary cycles.
func passingTable(n int) *features.FeatureTable {
	table := &features.FeatureTable{Cycles: make([]features.CycleFeatures, n)}
	for i := range table.Cycles {
		table.Cycles[i] = features.CycleFeatures{
			AmpFraction:       0.9,
			AmpConsistency:    0.9,
			PeriodConsistency: 0.9,
			Monotonicity:      0.9,
			BurstFraction:     1.0,
		}
	}
	if n > 0 {
		table.Cycles[0].AmpConsistency = math.NaN()
		table.Cycles[0].PeriodConsistency = math.NaN()
		table.Cycles[n-1].AmpConsistency = math.NaN()
		table.Cycles[n-1].PeriodConsistency = math.NaN()
	}
	return table
}

func burstFlags(table *features.FeatureTable) []bool {
	flags := make([]bool, table.Len())
	for i, c := range table.Cycles {
		flags[i] = c.IsBurst
	}
	return flags
}

func TestDetectCycles_AllPassing(t *testing.T) {
	// Five qualifying cycles: boundary clip leaves a run of three, which
	// meets the default minimum
	table := burst.DetectCycles(passingTable(5), burst.DefaultCycleThresholds())

	assert.Equal(t, []bool{false, true, true, true, false}, burstFlags(table))
}

func TestDetectCycles_BoundariesAlwaysFalse(t *testing.T) {
	// Even with every threshold at its minimum, the first and last cycle
	// stay non-burst
	thresholds := burst.CycleThresholds{MinCycles: 1}
	table := burst.DetectCycles(passingTable(6), thresholds)

	flags := burstFlags(table)
	assert.False(t, flags[0], "first cycle must never be a burst")
	assert.False(t, flags[len(flags)-1], "last cycle must never be a burst")
}

func TestDetectCycles_ShortRunCleared(t *testing.T) {
	// Boundary clip leaves an interior run of two, which cannot meet a
	// minimum of three
	table := passingTable(4)

	result := burst.DetectCycles(table, burst.DefaultCycleThresholds())
	assert.Equal(t, []bool{false, false, false, false}, burstFlags(result))
}

func TestDetectCycles_FailingMeasureBlocksBurst(t *testing.T) {
	thresholds := burst.DefaultCycleThresholds()

	for name, spoil := range map[string]func(*features.CycleFeatures){
		"amp fraction":       func(c *features.CycleFeatures) { c.AmpFraction = 0 },
		"amp consistency":    func(c *features.CycleFeatures) { c.AmpConsistency = 0.2 },
		"period consistency": func(c *features.CycleFeatures) { c.PeriodConsistency = 0.2 },
		"monotonicity":       func(c *features.CycleFeatures) { c.Monotonicity = 0.5 },
	} {
		table := passingTable(7)
		spoil(&table.Cycles[3])

		result := burst.DetectCycles(table, thresholds)
		assert.False(t, result.Cycles[3].IsBurst, "%s below threshold must block the cycle", name)
	}
}

func TestDetectCycles_StrictThresholds(t *testing.T) {
	// Measures exactly at a threshold do not pass: comparisons are strict
	table := passingTable(5)
	for i := range table.Cycles {
		table.Cycles[i].Monotonicity = 0.8
	}

	result := burst.DetectCycles(table, burst.DefaultCycleThresholds())
	assert.Equal(t, []bool{false, false, false, false, false}, burstFlags(result))
}

func TestDetectCycles_EmptyTable(t *testing.T) {
	table := &features.FeatureTable{}
	result := burst.DetectCycles(table, burst.DefaultCycleThresholds())
	assert.Zero(t, result.Len())
}

func TestDetectAmp_ThresholdInclusive(t *testing.T) {
	// DetectAmp admits fractions equal to the threshold
	table := passingTable(5)
	for i := range table.Cycles {
		table.Cycles[i].BurstFraction = 1.0
	}

	result := burst.DetectAmp(table, burst.DefaultAmpThresholds())
	assert.Equal(t, []bool{true, true, true, true, true}, burstFlags(result))
}

func TestDetectAmp_ShortTrailingRunCleared(t *testing.T) {
	table := passingTable(5)
	fractions := []float64{1, 0, 0, 1, 1}
	for i := range table.Cycles {
		table.Cycles[i].BurstFraction = fractions[i]
	}

	result := burst.DetectAmp(table, burst.DefaultAmpThresholds())
	assert.Equal(t, []bool{false, false, false, false, false}, burstFlags(result))
}

func TestDetectAmp_MinRunProperty(t *testing.T) {
	// Every surviving run must reach the minimum, and no flag outside a
	// candidate run may turn on
	fractions := []float64{1, 1, 1, 0, 1, 1, 0, 1, 1, 1, 1}
	table := &features.FeatureTable{Cycles: make([]features.CycleFeatures, len(fractions))}
	for i, f := range fractions {
		table.Cycles[i].BurstFraction = f
	}

	result := burst.DetectAmp(table, burst.AmpThresholds{BurstFraction: 1, MinCycles: 3})
	flags := burstFlags(result)
	require.Equal(t, []bool{true, true, true, false, false, false, false, true, true, true, true}, flags)

	run := 0
	for _, f := range append(flags, false) {
		if f {
			run++
			continue
		}
		if run > 0 {
			assert.GreaterOrEqual(t, run, 3, "surviving runs must meet the minimum")
		}
		run = 0
	}
}
