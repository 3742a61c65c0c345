package features

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ComputeBurstFeatures fills the burst-related columns of table:
// amplitude fraction, amplitude and period consistency, monotonicity, and
// burst fraction. The tables must come from ComputeShapeFeatures on the
// same (already orientation-adjusted) signal.
//
// Consistency measures need a neighbor on both sides, so the first and
// last cycle get NaN for AmpConsistency and PeriodConsistency.
func ComputeBurstFeatures(sig []float64, fs float64, fRange FreqRange, cfg *Config, table *FeatureTable, samples *SampleTable) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if table.Len() != samples.Len() {
		return fmt.Errorf("%w: feature table has %d cycles, sample table has %d",
			ErrInvalidParam, table.Len(), samples.Len())
	}

	n := table.Len()
	bandAmps := make([]float64, n)
	for i, c := range table.Cycles {
		bandAmps[i] = c.BandAmp
	}
	ampFraction := fractionalRanks(bandAmps)

	burstFraction, err := burstFractions(sig, fs, fRange, cfg, samples)
	if err != nil {
		return err
	}

	for i := range table.Cycles {
		c := &table.Cycles[i]
		c.AmpFraction = ampFraction[i]
		c.AmpConsistency = ampConsistency(table.Cycles, i)
		c.PeriodConsistency = periodConsistency(table.Cycles, i)
		c.Monotonicity = monotonicity(sig, samples.Cycles[i])
		c.BurstFraction = burstFraction[i]
	}

	return nil
}

// fractionalRanks maps each value to its average 1-based rank divided by
// the number of values, so the largest value scores 1.
func fractionalRanks(vals []float64) []float64 {
	n := len(vals)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return vals[order[a]] < vals[order[b]] })

	// Ties share the average of their positions
	for start := 0; start < n; {
		end := start + 1
		for end < n && vals[order[end]] == vals[order[start]] {
			end++
		}
		avgRank := float64(start+end+1) / 2 // positions are 1-based
		for k := start; k < end; k++ {
			ranks[order[k]] = avgRank / float64(n)
		}
		start = end
	}

	return ranks
}

// ratioConsistency maps a pair of magnitudes to (0, 1], where 1 means
// identical magnitudes.
func ratioConsistency(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a < b {
		return a / b
	}
	return b / a
}

// ampConsistency is the worst rise-decay magnitude agreement between
// cycle i and its neighbors.
func ampConsistency(cycles []CycleFeatures, i int) float64 {
	if i == 0 || i == len(cycles)-1 {
		return math.NaN()
	}

	c := cycles[i]
	consist := ratioConsistency(c.VoltRise, c.VoltDecay)
	consist = math.Min(consist, ratioConsistency(cycles[i-1].VoltDecay, c.VoltRise))
	consist = math.Min(consist, ratioConsistency(c.VoltDecay, cycles[i+1].VoltRise))

	return consist
}

// periodConsistency is the worst period agreement between cycle i and its
// neighbors.
func periodConsistency(cycles []CycleFeatures, i int) float64 {
	if i == 0 || i == len(cycles)-1 {
		return math.NaN()
	}

	p := float64(cycles[i].Period)
	consist := ratioConsistency(p, float64(cycles[i-1].Period))
	consist = math.Min(consist, ratioConsistency(p, float64(cycles[i+1].Period)))

	return consist
}

// monotonicity is the fraction of sample steps moving in the expected
// direction: upward through the rise, downward through the decay.
func monotonicity(sig []float64, cp CyclePoints) float64 {
	steps, consistent := 0, 0

	for k := cp.LastTrough; k < cp.Peak; k++ {
		steps++
		if sig[k+1] > sig[k] {
			consistent++
		}
	}
	for k := cp.Peak; k < cp.NextTrough; k++ {
		steps++
		if sig[k+1] < sig[k] {
			consistent++
		}
	}

	if steps == 0 {
		return 0
	}
	return float64(consistent) / float64(steps)
}

// burstFractions computes, per cycle, the fraction of samples whose
// median-normalized analytic amplitude satisfies the dual thresholds: a
// sample qualifies when it exceeds ThreshLow inside a region that reaches
// ThreshHigh.
func burstFractions(sig []float64, fs float64, fRange FreqRange, cfg *Config, samples *SampleTable) ([]float64, error) {
	filt, err := newNarrowband(fs, fRange, cfg)
	if err != nil {
		return nil, err
	}
	amp := analyticAmplitude(filt.ApplyZeroPhase(sig))

	sorted := append([]float64(nil), amp...)
	sort.Float64s(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if median > 0 {
		floats.Scale(1/median, amp)
	}

	bursting := dualThreshold(amp, cfg.ThreshLow, cfg.ThreshHigh)

	fractions := make([]float64, samples.Len())
	for i, cp := range samples.Cycles {
		count := 0
		for k := cp.LastTrough; k < cp.NextTrough; k++ {
			if bursting[k] {
				count++
			}
		}
		fractions[i] = float64(count) / float64(cp.NextTrough-cp.LastTrough)
	}
	return fractions, nil
}

// dualThreshold marks contiguous regions above low that reach high at
// least once.
func dualThreshold(amp []float64, low, high float64) []bool {
	marked := make([]bool, len(amp))

	for start := 0; start < len(amp); {
		if amp[start] < low {
			start++
			continue
		}
		end := start
		for end < len(amp) && amp[end] >= low {
			end++
		}
		if floats.Max(amp[start:end]) >= high {
			for k := start; k < end; k++ {
				marked[k] = true
			}
		}
		start = end
	}

	return marked
}
