package features

// ComputeFeatures computes the full per-cycle feature table for one
// signal: shape features first, then the burst measures layered on top.
//
// When returnSamples is false the sample table is nil. A nil cfg uses
// DefaultConfig.
func ComputeFeatures(sig []float64, fs float64, fRange FreqRange, returnSamples bool, cfg *Config) (*FeatureTable, *SampleTable, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	table, samples, err := ComputeShapeFeatures(sig, fs, fRange, cfg)
	if err != nil {
		return nil, nil, err
	}

	// Burst measures read the same orientation the cyclepoints were
	// localized on
	work := sig
	if cfg.CenterExtrema == ExtremaTrough {
		work = negated(sig)
	}

	if err := ComputeBurstFeatures(work, fs, fRange, cfg, table, samples); err != nil {
		return nil, nil, err
	}

	if !returnSamples {
		samples = nil
	}

	return table, samples, nil
}
