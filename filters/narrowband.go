// Package filters provides the narrowband filtering used to localize
// cyclepoints in oscillatory signals.
package filters

import (
	"fmt"
	"math"
)

// Narrowband implements a digital bandpass filter using biquad topology,
// centered on a frequency band of interest.
//
// This implementation uses the cookbook formulas from Robert Bristow-Johnson's
// "Cookbook formulae for audio EQ biquad filter coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
type Narrowband struct {
	fs         float64
	centerFreq float64 // Center frequency in Hz
	bandwidth  float64 // Bandwidth in Hz
	qFactor    float64 // Quality factor (centerFreq/bandwidth)

	// Biquad coefficients
	b0, b1, b2 float64 // Numerator coefficients
	a0, a1, a2 float64 // Denominator coefficients

	// State variables for direct form II implementation
	w1, w2 float64 // Delay line
}

// DefaultCycles is the reference filter length, in cycles at the low
// cutoff, at which the effective bandwidth equals the requested band.
const DefaultCycles = 3

// NewNarrowband creates a bandpass filter spanning [low, high] Hz with
// the default selectivity of DefaultCycles cycles at the low cutoff.
//
// The filter is centered on the geometric mean of the band edges, which
// keeps the response symmetric on a log-frequency axis. The Q factor is
// calculated as centerFreq/bandwidth.
func NewNarrowband(fs, low, high float64) (*Narrowband, error) {
	return NewNarrowbandCycles(fs, low, high, DefaultCycles)
}

// NewNarrowbandCycles creates a bandpass filter spanning [low, high] Hz
// with selectivity scaled by a filter length expressed in cycles at the
// low cutoff: a longer filter resolves frequency more finely, so the
// effective bandwidth shrinks in proportion to nCycles/DefaultCycles.
func NewNarrowbandCycles(fs, low, high float64, nCycles int) (*Narrowband, error) {
	if fs <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %v", fs)
	}
	if low <= 0 || high <= low {
		return nil, fmt.Errorf("invalid frequency range (%v, %v): need 0 < low < high", low, high)
	}
	if high >= fs/2 {
		return nil, fmt.Errorf("high cutoff %v Hz must be below Nyquist (%v Hz)", high, fs/2)
	}
	if nCycles <= 0 {
		return nil, fmt.Errorf("filter length must be at least one cycle, got %d", nCycles)
	}

	nb := &Narrowband{
		fs:         fs,
		centerFreq: math.Sqrt(low * high),
		bandwidth:  (high - low) * DefaultCycles / float64(nCycles),
	}
	nb.qFactor = nb.centerFreq / nb.bandwidth
	nb.computeCoefficients()

	return nb, nil
}

// computeCoefficients calculates the biquad coefficients using the cookbook formula.
func (nb *Narrowband) computeCoefficients() {
	// Normalize frequency: w0 = 2*pi*f0/Fs
	w0 := 2.0 * math.Pi * nb.centerFreq / nb.fs

	// Prevent numerical issues at Nyquist
	if w0 >= math.Pi {
		w0 = math.Pi * 0.99
	}

	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)

	// Alpha parameter: alpha = sin(w0)/(2*Q)
	alpha := sinW0 / (2.0 * nb.qFactor)

	// Bandpass coefficients (cookbook formula)
	nb.b0 = alpha
	nb.b1 = 0.0
	nb.b2 = -alpha
	nb.a0 = 1.0 + alpha
	nb.a1 = -2.0 * cosW0
	nb.a2 = 1.0 - alpha

	// Normalize by a0 for direct form II implementation
	nb.b0 /= nb.a0
	nb.b1 /= nb.a0
	nb.b2 /= nb.a0
	nb.a1 /= nb.a0
	nb.a2 /= nb.a0
	nb.a0 = 1.0
}

// Process applies the filter to a single sample.
// Uses Direct Form II biquad implementation for numerical stability.
//
// The difference equation is:
// y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2]
func (nb *Narrowband) Process(input float64) float64 {
	// w[n] = x[n] - a1*w[n-1] - a2*w[n-2]
	w := input - nb.a1*nb.w1 - nb.a2*nb.w2

	// y[n] = b0*w[n] + b1*w[n-1] + b2*w[n-2]
	output := nb.b0*w + nb.b1*nb.w1 + nb.b2*nb.w2

	// Update delay line
	nb.w2 = nb.w1
	nb.w1 = w

	return output
}

// ProcessBuffer applies the filter to an entire buffer of samples.
func (nb *Narrowband) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = nb.Process(sample)
	}
	return output
}

// ApplyZeroPhase filters the buffer forward and then backward, cancelling
// the filter's phase lag. Cyclepoint localization depends on the filtered
// trace keeping its extrema aligned with the raw trace, so the single-pass
// Process methods are not suitable for it.
func (nb *Narrowband) ApplyZeroPhase(input []float64) []float64 {
	nb.Reset()
	forward := nb.ProcessBuffer(input)

	// Reverse, filter again, reverse back
	reverse(forward)
	nb.Reset()
	backward := nb.ProcessBuffer(forward)
	reverse(backward)

	return backward
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// Reset clears the filter's internal state (delay line).
// Call this when processing discontinuous segments.
func (nb *Narrowband) Reset() {
	nb.w1, nb.w2 = 0.0, 0.0
}

// Response computes the magnitude response at the given frequency (linear scale).
//
// The frequency response is computed as:
// H(e^jw) = (b0 + b1*e^-jw + b2*e^-j2w) / (a0 + a1*e^-jw + a2*e^-j2w)
func (nb *Narrowband) Response(frequency float64) float64 {
	w := 2.0 * math.Pi * frequency / nb.fs

	cosW := math.Cos(w)
	sinW := math.Sin(w)
	cos2W := math.Cos(2 * w)
	sin2W := math.Sin(2 * w)

	// Numerator: b0 + b1*e^-jw + b2*e^-j2w
	numReal := nb.b0 + nb.b1*cosW + nb.b2*cos2W
	numImag := -nb.b1*sinW - nb.b2*sin2W

	// Denominator: a0 + a1*e^-jw + a2*e^-j2w
	denReal := nb.a0 + nb.a1*cosW + nb.a2*cos2W
	denImag := -nb.a1*sinW - nb.a2*sin2W

	denMagSq := denReal*denReal + denImag*denImag

	hReal := (numReal*denReal + numImag*denImag) / denMagSq
	hImag := (numImag*denReal - numReal*denImag) / denMagSq

	return math.Sqrt(hReal*hReal + hImag*hImag)
}

// Parameters returns the center frequency, bandwidth, and Q factor.
func (nb *Narrowband) Parameters() (centerFreq, bandwidth, qFactor float64) {
	return nb.centerFreq, nb.bandwidth, nb.qFactor
}
