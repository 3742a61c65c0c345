// Package group applies single-signal feature extraction across 2-D
// batches and 3-D groups of signals, with per-signal config overrides,
// parallel dispatch, and shape-preserving result reassembly.
//
// The layer owns no state: each call validates and broadcasts its config
// override, fans the signals out to a worker pool scoped to the call, and
// collects results in input order.
package group

import (
	"fmt"

	"github.com/mzabolocki/bycycle/features"
	"github.com/mzabolocki/bycycle/logging"
)

// Options configures one dispatch call. The zero value computes with
// default configs on all CPUs and no sample tables; prefer
// DefaultOptions, which enables sample tables like the single-signal
// routine does.
type Options struct {
	// Override supplies per-call configs; nil means defaults for every
	// signal. Any ReturnSamples embedded in an override config is
	// discarded: the flag below is the sole authority.
	Override *ConfigOverride

	// ReturnSamples controls whether sample tables are produced.
	ReturnSamples bool

	// NJobs is the worker count; non-positive means one per CPU.
	NJobs int

	// Progress optionally receives per-unit completion events.
	Progress Progress

	// Compute is the single-signal routine; nil means
	// features.ComputeFeatures.
	Compute ComputeFunc
}

// DefaultOptions returns options matching the single-signal defaults:
// sample tables on, one worker per CPU.
func DefaultOptions() *Options {
	return &Options{
		ReturnSamples: true,
		NJobs:         -1,
	}
}

func (o *Options) compute() ComputeFunc {
	if o.Compute != nil {
		return o.Compute
	}
	return features.ComputeFeatures
}

// ComputeFeatures2D computes per-cycle features for a batch of signals in
// parallel. Result order matches signal order regardless of which worker
// finishes first. The sample table slice is nil when
// opts.ReturnSamples is false.
//
// A failure on any signal aborts the whole batch: partial results would
// silently break the positional correspondence with sigs.
func ComputeFeatures2D(sigs [][]float64, fs float64, fRange features.FreqRange,
	opts *Options) ([]*features.FeatureTable, []*features.SampleTable, error) {

	if opts == nil {
		opts = DefaultOptions()
	}

	cfgs, err := opts.Override.broadcast2D(len(sigs))
	if err != nil {
		return nil, nil, err
	}

	logging.WithFields(logging.Fields{"component": "group"}).Debug(
		"dispatching 2d batch", logging.Fields{
			"n_signals": len(sigs),
			"n_jobs":    workerCount(opts.NJobs, len(sigs)),
		})

	featureTables, sampleTables, err := mapOrdered(sigs, fs, fRange,
		opts.ReturnSamples, cfgs, opts.NJobs, opts.Progress, opts.compute())
	if err != nil {
		return nil, nil, err
	}

	if !opts.ReturnSamples {
		sampleTables = nil
	}
	return featureTables, sampleTables, nil
}

// ComputeFeatures3D computes per-cycle features for a group of signal
// batches. The group is flattened to a 2-D batch for dispatch and the
// results folded back, so output nesting mirrors the input's outer two
// dimensions exactly: result [g][s] corresponds to sigs[g][s].
func ComputeFeatures3D(sigs [][][]float64, fs float64, fRange features.FreqRange,
	opts *Options) ([][]*features.FeatureTable, [][]*features.SampleTable, error) {

	if opts == nil {
		opts = DefaultOptions()
	}

	nGroups := len(sigs)
	if nGroups == 0 {
		if !opts.ReturnSamples {
			return [][]*features.FeatureTable{}, nil, nil
		}
		return [][]*features.FeatureTable{}, [][]*features.SampleTable{}, nil
	}

	batchSize := len(sigs[0])
	for g, batch := range sigs {
		if len(batch) != batchSize {
			return nil, nil, fmt.Errorf("%w: group %d has %d signals, expected %d",
				ErrShapeMismatch, g, len(batch), batchSize)
		}
	}

	cfgs, err := opts.Override.broadcast3D(nGroups, batchSize)
	if err != nil {
		return nil, nil, err
	}

	logging.WithFields(logging.Fields{"component": "group"}).Debug(
		"dispatching 3d group", logging.Fields{
			"n_groups":   nGroups,
			"batch_size": batchSize,
		})

	featureTables, sampleTables, err := mapOrdered(flatten(sigs), fs, fRange,
		opts.ReturnSamples, cfgs, opts.NJobs, opts.Progress, opts.compute())
	if err != nil {
		return nil, nil, err
	}

	foldedFeatures := refold(featureTables, batchSize)
	if !opts.ReturnSamples {
		return foldedFeatures, nil, nil
	}
	return foldedFeatures, refold(sampleTables, batchSize), nil
}
