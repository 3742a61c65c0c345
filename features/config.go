package features

import (
	"errors"
	"fmt"

	"github.com/mzabolocki/bycycle/filters"
)

// ErrInvalidParam indicates an out-of-range parameter.
var ErrInvalidParam = errors.New("invalid parameter")

// ErrShortSignal indicates a signal with too few detectable cycles.
var ErrShortSignal = errors.New("signal too short to segment into cycles")

// FreqRange is the narrowband of interest, in Hz.
type FreqRange struct {
	Low  float64
	High float64
}

// Extrema selects which extremum sits at the center of a cycle.
type Extrema string

const (
	// ExtremaPeak defines cycles trough-to-trough around a peak.
	ExtremaPeak Extrema = "peak"
	// ExtremaTrough defines cycles peak-to-peak around a trough.
	ExtremaTrough Extrema = "trough"
)

// Config holds per-signal feature extraction settings.
//
// When CenterExtrema is ExtremaTrough, the signal is negated before
// analysis, so peak-named fields describe troughs of the raw trace and
// vice versa.
type Config struct {
	CenterExtrema Extrema

	// NCycles is the narrowband filter length, in cycles at the low
	// cutoff frequency. Longer filters are more frequency-selective.
	NCycles int

	// Dual amplitude thresholds for the burst fraction, relative to the
	// median analytic amplitude. A sample qualifies when its amplitude
	// exceeds ThreshLow and lies in a region that reaches ThreshHigh.
	ThreshLow  float64
	ThreshHigh float64

	// ReturnSamples is reserved for per-signal overrides passed through
	// the group layer, which strips it: the call-level flag of
	// group.Options is the sole authority on whether sample tables are
	// produced.
	ReturnSamples bool
}

// DefaultConfig returns the default extraction settings.
func DefaultConfig() *Config {
	return &Config{
		CenterExtrema: ExtremaPeak,
		NCycles:       filters.DefaultCycles,
		ThreshLow:     1.0,
		ThreshHigh:    2.0,
	}
}

func (c *Config) validate() error {
	switch c.CenterExtrema {
	case ExtremaPeak, ExtremaTrough:
	default:
		return fmt.Errorf("%w: center extrema must be %q or %q, got %q",
			ErrInvalidParam, ExtremaPeak, ExtremaTrough, c.CenterExtrema)
	}
	if c.NCycles <= 0 {
		return fmt.Errorf("%w: filter length must be at least one cycle, got %d",
			ErrInvalidParam, c.NCycles)
	}
	if c.ThreshLow < 0 || c.ThreshHigh < c.ThreshLow {
		return fmt.Errorf("%w: amplitude thresholds (%v, %v) must satisfy 0 <= low <= high",
			ErrInvalidParam, c.ThreshLow, c.ThreshHigh)
	}
	return nil
}

// newNarrowband builds the narrowband filter for a config, mapping
// construction failures onto the package error taxonomy.
func newNarrowband(fs float64, fRange FreqRange, cfg *Config) (*filters.Narrowband, error) {
	filt, err := filters.NewNarrowbandCycles(fs, fRange.Low, fRange.High, cfg.NCycles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParam, err)
	}
	return filt, nil
}

// checkParams validates the shared sampling arguments.
func checkParams(fs float64, fRange FreqRange) error {
	if fs <= 0 {
		return fmt.Errorf("%w: sampling rate must be positive, got %v", ErrInvalidParam, fs)
	}
	if fRange.Low <= 0 || fRange.High <= fRange.Low {
		return fmt.Errorf("%w: frequency range (%v, %v) must satisfy 0 < low < high",
			ErrInvalidParam, fRange.Low, fRange.High)
	}
	return nil
}
