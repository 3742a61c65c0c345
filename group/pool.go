package group

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/mzabolocki/bycycle/features"
)

// ComputeFunc computes per-cycle feature and sample tables for one
// signal. It is the seam between the dispatch layer and the single-signal
// routine; Options.Compute defaults to features.ComputeFeatures.
type ComputeFunc func(sig []float64, fs float64, fRange features.FreqRange,
	returnSamples bool, cfg *features.Config) (*features.FeatureTable, *features.SampleTable, error)

// workerCount resolves the requested job count: non-positive means one
// worker per CPU, and the pool never exceeds the number of signals.
func workerCount(nJobs, nSignals int) int {
	if nJobs <= 0 {
		nJobs = runtime.NumCPU()
	}
	return max(min(nJobs, nSignals), 1)
}

// mapOrdered runs compute once per signal on a bounded worker pool and
// collects results in submission order: each worker writes into the slot
// matching its job index, so completion order never reorders output.
//
// If any signal fails, the first failure in input order is returned and
// no partial results are surfaced. The pool is scoped to the call; all
// workers have exited by the time mapOrdered returns.
func mapOrdered(sigs [][]float64, fs float64, fRange features.FreqRange, returnSamples bool,
	cfgs []*features.Config, nJobs int, progress Progress,
	compute ComputeFunc) ([]*features.FeatureTable, []*features.SampleTable, error) {

	n := len(sigs)
	featureTables := make([]*features.FeatureTable, n)
	sampleTables := make([]*features.SampleTable, n)
	errs := make([]error, n)

	// Completion events are funneled through a channel so Progress
	// implementations see a single goroutine
	var completed chan struct{}
	var progressDone chan struct{}
	if progress != nil {
		progress.Start(n)
		completed = make(chan struct{}, n)
		progressDone = make(chan struct{})
		go func() {
			defer close(progressDone)
			for range completed {
				progress.Advance()
			}
			progress.Done()
		}()
	}

	jobs := make(chan int, n)

	var wg sync.WaitGroup
	for w := 0; w < workerCount(nJobs, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				featureTables[idx], sampleTables[idx], errs[idx] =
					compute(sigs[idx], fs, fRange, returnSamples, cfgs[idx])
				if completed != nil {
					completed <- struct{}{}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			jobs <- i
		}
	}()

	wg.Wait()

	if completed != nil {
		close(completed)
		<-progressDone
	}

	for i, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("computing features for signal %d: %w", i, err)
		}
	}

	return featureTables, sampleTables, nil
}
