package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series too short for spectral analysis")

// FFT is the discrete Fourier transform of a real series of any length.
func FFT(data []float64) ([]complex128, error) {
	if len(data) == 0 {
		return nil, ErrShortSeries
	}
	return fft.FFTReal(data), nil
}

// PowerSpectrum is the magnitude of the non-negative frequency bins.
func PowerSpectrum(data []float64) ([]float64, error) {
	f, err := FFT(data)
	if err != nil {
		return nil, err
	}
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps, nil
}

// DominantPeriod estimates the strongest periodicity of a uniformly sampled
// series, such as one coordinate of an orbit. The mean is removed and the
// peak bin is refined by a parabola through its neighbours.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	n := len(series)
	if n < 8 {
		return 0, ErrShortSeries
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	ps, err := PowerSpectrum(centered)
	if err != nil {
		return 0, err
	}

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}

	bin := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	if bin <= 0 || math.IsNaN(bin) {
		return 0, ErrShortSeries
	}
	return float64(n) * dt / bin, nil
}
