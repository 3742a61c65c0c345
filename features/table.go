// Package features computes per-cycle shape and burst features for a single
// oscillatory voltage trace. Cycles are segmented trough-to-trough around a
// center peak, located with a zero-phase narrowband filter.
package features

// CyclePoints holds the sample indices bounding one cycle.
type CyclePoints struct {
	Peak           int // sample at which the center peak occurs
	LastZeroxDecay int // decaying midpoint crossing of the previous cycle
	ZeroxDecay     int // decaying midpoint crossing after the peak
	ZeroxRise      int // rising midpoint crossing before the peak
	LastTrough     int // trough starting the cycle
	NextTrough     int // trough ending the cycle
}

// SampleTable holds cyclepoint indices for every cycle of one signal,
// in signal order.
type SampleTable struct {
	Cycles []CyclePoints
}

// Len returns the number of cycles in the table.
func (st *SampleTable) Len() int {
	return len(st.Cycles)
}

// CycleFeatures holds the shape and burst measures of one cycle.
// Durations are in samples, voltages in the signal's units.
//
// AmpConsistency and PeriodConsistency are NaN for the first and last
// cycle of a signal, which have no neighbor on one side.
type CycleFeatures struct {
	Period     int // trough-to-trough duration
	TimePeak   int // duration between rise and decay midpoint crossings
	TimeTrough int // duration of the previous trough between crossings
	TimeDecay  int // duration from peak to next trough
	TimeRise   int // duration from last trough to peak

	VoltPeak   float64 // voltage at the peak
	VoltTrough float64 // voltage at the last trough
	VoltDecay  float64 // voltage change from peak to next trough
	VoltRise   float64 // voltage change from last trough to peak
	VoltAmp    float64 // average of rise and decay voltage

	TimeRDSym float64 // fraction of the cycle in the rise period
	TimePTSym float64 // fraction of the cycle in the peak period
	BandAmp   float64 // average analytic amplitude over the cycle

	AmpFraction       float64 // fractional amplitude rank among all cycles
	AmpConsistency    float64 // rise-decay amplitude consistency with neighbors
	PeriodConsistency float64 // period consistency with neighbors
	Monotonicity      float64 // fraction of rise/decay steps in the expected direction
	BurstFraction     float64 // fraction of the cycle above the amplitude envelope

	IsBurst bool // set by the burst package
}

// FeatureTable holds per-cycle features for one signal, in signal order.
type FeatureTable struct {
	Cycles []CycleFeatures
}

// Len returns the number of cycles in the table.
func (ft *FeatureTable) Len() int {
	return len(ft.Cycles)
}
