package filters_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzabolocki/bycycle/filters"
)

func sineWave(freq, fs float64, n int) []float64 {
	sig := make([]float64, n)
	for i := range sig {
		sig[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
	}
	return sig
}

func TestNewNarrowband_InvalidParams(t *testing.T) {
	_, err := filters.NewNarrowband(0, 8, 12)
	assert.Error(t, err, "zero sampling rate")

	_, err = filters.NewNarrowband(500, 12, 8)
	assert.Error(t, err, "inverted band edges")

	_, err = filters.NewNarrowband(500, 0, 12)
	assert.Error(t, err, "zero low cutoff")

	_, err = filters.NewNarrowband(500, 8, 300)
	assert.Error(t, err, "high cutoff above Nyquist")
}

func TestNewNarrowbandCycles_InvalidLength(t *testing.T) {
	_, err := filters.NewNarrowbandCycles(500, 8, 12, 0)
	assert.Error(t, err, "zero-cycle filter length")

	_, err = filters.NewNarrowbandCycles(500, 8, 12, -3)
	assert.Error(t, err, "negative filter length")
}

func TestNewNarrowbandCycles_LongerFilterIsMoreSelective(t *testing.T) {
	short, err := filters.NewNarrowbandCycles(500, 8, 12, filters.DefaultCycles)
	require.NoError(t, err)
	long, err := filters.NewNarrowbandCycles(500, 8, 12, 3*filters.DefaultCycles)
	require.NoError(t, err)

	// Tripling the filter length shrinks the effective bandwidth to a third
	center, shortBW, _ := short.Parameters()
	longCenter, longBW, _ := long.Parameters()
	assert.Equal(t, center, longCenter, "center frequency is independent of length")
	assert.InDelta(t, shortBW/3, longBW, 1e-12)

	// Both designs peak at unity; the longer filter rejects more off-band
	assert.InDelta(t, 1.0, short.Response(center), 0.05)
	assert.InDelta(t, 1.0, long.Response(center), 0.05)
	assert.Less(t, long.Response(20), short.Response(20),
		"longer filter must attenuate out-of-band frequencies harder")
}

func TestNewNarrowband_UsesDefaultLength(t *testing.T) {
	plain, err := filters.NewNarrowband(500, 8, 12)
	require.NoError(t, err)
	explicit, err := filters.NewNarrowbandCycles(500, 8, 12, filters.DefaultCycles)
	require.NoError(t, err)

	pCenter, pBW, pQ := plain.Parameters()
	eCenter, eBW, eQ := explicit.Parameters()
	assert.Equal(t, eCenter, pCenter)
	assert.Equal(t, eBW, pBW)
	assert.Equal(t, eQ, pQ)
}

func TestNarrowband_PassbandAndStopband(t *testing.T) {
	nb, err := filters.NewNarrowband(500, 8, 12)
	require.NoError(t, err)

	center, _, _ := nb.Parameters()

	// Constant 0 dB peak gain design: unity at center, strong
	// attenuation well outside the band
	assert.InDelta(t, 1.0, nb.Response(center), 0.05, "center frequency gain")
	assert.Less(t, nb.Response(60), 0.3, "gain at 6x the band")
	assert.Less(t, nb.Response(1), 0.3, "gain far below the band")
}

func TestNarrowband_InBandSinusoidSurvives(t *testing.T) {
	fs := 500.0
	nb, err := filters.NewNarrowband(fs, 8, 12)
	require.NoError(t, err)

	sig := sineWave(10, fs, 2500)
	out := nb.ApplyZeroPhase(sig)

	// Ignore edge transients when measuring amplitude
	peak := 0.0
	for _, v := range out[500 : len(out)-500] {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.InDelta(t, 1.0, peak, 0.15, "in-band amplitude must survive")
}

func TestNarrowband_ZeroPhaseKeepsExtremaAligned(t *testing.T) {
	fs := 500.0
	freq := 10.0
	nb, err := filters.NewNarrowband(fs, 8, 12)
	require.NoError(t, err)

	sig := sineWave(freq, fs, 2500)
	out := nb.ApplyZeroPhase(sig)

	// Find the peak nearest the middle of both traces; the
	// forward-backward pass must not shift it
	argMaxIn := argMaxRange(sig, 1200, 1260)
	argMaxOut := argMaxRange(out, 1200, 1260)
	assert.InDelta(t, float64(argMaxIn), float64(argMaxOut), 2, "peak position must not shift")
}

func argMaxRange(sig []float64, start, end int) int {
	best := start
	for i := start; i < end; i++ {
		if sig[i] > sig[best] {
			best = i
		}
	}
	return best
}

func TestNarrowband_ResetClearsState(t *testing.T) {
	nb, err := filters.NewNarrowband(500, 8, 12)
	require.NoError(t, err)

	sig := sineWave(10, 500, 1000)
	first := nb.ProcessBuffer(sig)

	nb.Reset()
	second := nb.ProcessBuffer(sig)

	assert.Equal(t, first, second, "identical input after Reset must give identical output")
}
