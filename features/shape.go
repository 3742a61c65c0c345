package features

import (
	"gonum.org/v1/gonum/stat"
)

// ComputeShapeFeatures computes durations, voltages, symmetry, and band
// amplitude for each cycle of sig. The returned tables are row-aligned:
// cycle i of the feature table is bounded by cycle i of the sample table.
//
// When cfg.CenterExtrema is ExtremaTrough, the signal is negated before
// cyclepoint detection, so peak-named values describe troughs of the raw
// trace and vice versa.
func ComputeShapeFeatures(sig []float64, fs float64, fRange FreqRange, cfg *Config) (*FeatureTable, *SampleTable, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	work := sig
	if cfg.CenterExtrema == ExtremaTrough {
		work = negated(sig)
	}

	samples, err := ComputeCyclePoints(work, fs, fRange, cfg)
	if err != nil {
		return nil, nil, err
	}

	bandAmp, err := bandAmplitude(work, fs, fRange, cfg, samples)
	if err != nil {
		return nil, nil, err
	}

	table := &FeatureTable{Cycles: make([]CycleFeatures, samples.Len())}
	for i, cp := range samples.Cycles {
		period := cp.NextTrough - cp.LastTrough
		timePeak := cp.ZeroxDecay - cp.ZeroxRise
		timeTrough := cp.ZeroxRise - cp.LastZeroxDecay

		voltDecay := work[cp.Peak] - work[cp.NextTrough]
		voltRise := work[cp.Peak] - work[cp.LastTrough]

		table.Cycles[i] = CycleFeatures{
			Period:     period,
			TimePeak:   timePeak,
			TimeTrough: timeTrough,
			TimeDecay:  cp.NextTrough - cp.Peak,
			TimeRise:   cp.Peak - cp.LastTrough,

			VoltPeak:   work[cp.Peak],
			VoltTrough: work[cp.LastTrough],
			VoltDecay:  voltDecay,
			VoltRise:   voltRise,
			VoltAmp:    (voltDecay + voltRise) / 2,

			TimeRDSym: float64(cp.Peak-cp.LastTrough) / float64(period),
			TimePTSym: float64(timePeak) / float64(timePeak+timeTrough),
			BandAmp:   bandAmp[i],
		}
	}

	return table, samples, nil
}

// bandAmplitude averages the narrowband analytic amplitude over each
// cycle's trough-to-trough span.
func bandAmplitude(sig []float64, fs float64, fRange FreqRange, cfg *Config, samples *SampleTable) ([]float64, error) {
	filt, err := newNarrowband(fs, fRange, cfg)
	if err != nil {
		return nil, err
	}
	amp := analyticAmplitude(filt.ApplyZeroPhase(sig))

	bandAmp := make([]float64, samples.Len())
	for i, cp := range samples.Cycles {
		bandAmp[i] = stat.Mean(amp[cp.LastTrough:cp.NextTrough], nil)
	}
	return bandAmp, nil
}

func negated(sig []float64) []float64 {
	out := make([]float64, len(sig))
	for i, v := range sig {
		out[i] = -v
	}
	return out
}
