package features

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// analyticAmplitude computes the instantaneous amplitude of sig as the
// magnitude of its analytic signal (Hilbert pair).
//
// The analytic signal is built in the frequency domain: negative
// frequencies are zeroed and positive ones doubled, leaving DC and
// Nyquist untouched. mjibson/go-dsp handles all sizes efficiently,
// including non-power-of-2.
func analyticAmplitude(sig []float64) []float64 {
	n := len(sig)
	if n == 0 {
		return nil
	}

	spectrum := fft.FFTReal(sig)

	for k := 1; k < (n+1)/2; k++ {
		spectrum[k] *= 2
	}
	for k := n/2 + 1; k < n; k++ {
		spectrum[k] = 0
	}

	analytic := fft.IFFT(spectrum)

	amp := make([]float64, n)
	for i, v := range analytic {
		amp[i] = cmplx.Abs(v)
	}
	return amp
}
