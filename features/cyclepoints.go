package features

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ComputeCyclePoints locates the extrema and midpoint crossings that bound
// each cycle of sig.
//
// Peaks and troughs are localized on the raw trace between zero-crossings
// of a zero-phase narrowband filtered copy, so broadband transients do not
// split cycles. Rise and decay crossings are where the raw trace passes
// the voltage midway between the bounding extrema, falling back to the
// midpoint sample when the segment never crosses it.
//
// The first extremum analyzed is always a peak and cycles run
// trough-to-trough; callers wanting trough-centered cycles negate the
// signal first. A nil cfg uses DefaultConfig; cfg.NCycles sets the
// filter's selectivity.
func ComputeCyclePoints(sig []float64, fs float64, fRange FreqRange, cfg *Config) (*SampleTable, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := checkParams(fs, fRange); err != nil {
		return nil, err
	}

	filt, err := newNarrowband(fs, fRange, cfg)
	if err != nil {
		return nil, err
	}
	filtered := filt.ApplyZeroPhase(sig)

	rises, decays := zeroCrossings(filtered)

	// Drop leading decays so the first localized extremum is a peak
	for len(decays) > 0 && len(rises) > 0 && decays[0] < rises[0] {
		decays = decays[1:]
	}

	peaks := make([]int, 0, len(rises))
	for j := 0; j < len(rises) && j < len(decays); j++ {
		peaks = append(peaks, argMax(sig, rises[j], decays[j]))
	}

	troughs := make([]int, 0, len(decays))
	for j := 0; j < len(decays) && j+1 < len(rises); j++ {
		troughs = append(troughs, argMin(sig, decays[j], rises[j+1]))
	}

	// Alternating peak-trough pairs; each pair past the first yields a cycle
	nPairs := min(len(peaks), len(troughs))
	if nPairs < 2 {
		return nil, fmt.Errorf("%w: found %d peak-trough pairs, need at least 2", ErrShortSignal, nPairs)
	}
	peaks = peaks[:nPairs]
	troughs = troughs[:nPairs]

	// Midpoint crossings: one decay per peak-trough pair, one rise per cycle
	decayMids := make([]int, nPairs)
	for j := 0; j < nPairs; j++ {
		decayMids[j] = crossingDown(sig, peaks[j], troughs[j])
	}

	nCycles := nPairs - 1
	table := &SampleTable{Cycles: make([]CyclePoints, nCycles)}
	for i := 0; i < nCycles; i++ {
		table.Cycles[i] = CyclePoints{
			Peak:           peaks[i+1],
			LastZeroxDecay: decayMids[i],
			ZeroxDecay:     decayMids[i+1],
			ZeroxRise:      crossingUp(sig, troughs[i], peaks[i+1]),
			LastTrough:     troughs[i],
			NextTrough:     troughs[i+1],
		}
	}

	return table, nil
}

// zeroCrossings returns the rising and decaying zero-crossing indices of a
// zero-mean trace.
func zeroCrossings(sig []float64) (rises, decays []int) {
	for i := 1; i < len(sig); i++ {
		if sig[i-1] <= 0 && sig[i] > 0 {
			rises = append(rises, i)
		}
		if sig[i-1] >= 0 && sig[i] < 0 {
			decays = append(decays, i)
		}
	}
	return rises, decays
}

func argMax(sig []float64, start, end int) int {
	return start + floats.MaxIdx(sig[start:end])
}

func argMin(sig []float64, start, end int) int {
	return start + floats.MinIdx(sig[start:end])
}

// crossingDown finds where sig first drops below the midpoint voltage
// between a peak and the following trough.
func crossingDown(sig []float64, peak, trough int) int {
	mid := (sig[peak] + sig[trough]) / 2
	for k := peak + 1; k <= trough; k++ {
		if sig[k] <= mid {
			return k
		}
	}
	return (peak + trough) / 2
}

// crossingUp finds where sig first rises above the midpoint voltage
// between a trough and the following peak.
func crossingUp(sig []float64, trough, peak int) int {
	mid := (sig[trough] + sig[peak]) / 2
	for k := trough + 1; k <= peak; k++ {
		if sig[k] >= mid {
			return k
		}
	}
	return (trough + peak) / 2
}
