package onset

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// hannWindow returns an n-point Hann window.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// stft computes a complex spectrogram with a Hann window. Each row holds the
// FrameSize/2+1 coefficients of one frame.
func stft(samples []float64, frameSize, hopSize int) [][]complex128 {
	if len(samples) < frameSize {
		return nil
	}
	frames := 1 + (len(samples)-frameSize)/hopSize
	window := hannWindow(frameSize)
	fft := fourier.NewFFT(frameSize)
	buf := make([]float64, frameSize)

	spec := make([][]complex128, frames)
	for t := 0; t < frames; t++ {
		start := t * hopSize
		for i := 0; i < frameSize; i++ {
			buf[i] = samples[start+i] * window[i]
		}
		spec[t] = fft.Coefficients(nil, buf)
	}
	return spec
}

// magnitudes converts a complex spectrogram to per-bin magnitudes.
func magnitudes(spec [][]complex128) [][]float64 {
	mags := make([][]float64, len(spec))
	for t, frame := range spec {
		row := make([]float64, len(frame))
		for k, c := range frame {
			row[k] = math.Hypot(real(c), imag(c))
		}
		mags[t] = row
	}
	return mags
}

// binRange maps a frequency band to FFT bin indices for the given frame size
// and sample rate. The DC bin is always excluded.
func binRange(lowHz, highHz float64, frameSize, sampleRate int) (lo, hi int) {
	binHz := float64(sampleRate) / float64(frameSize)
	lo = int(lowHz / binHz)
	if lo < 1 {
		lo = 1
	}
	hi = int(highHz / binHz)
	max := frameSize / 2
	if hi > max {
		hi = max
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// frameMagnitudeSum sums magnitudes over [lo, hi] bins for every frame.
func frameMagnitudeSum(mags [][]float64, lo, hi int) []float64 {
	out := make([]float64, len(mags))
	for t, row := range mags {
		upper := hi
		if upper >= len(row) {
			upper = len(row) - 1
		}
		var sum float64
		for k := lo; k <= upper; k++ {
			sum += row[k]
		}
		out[t] = sum
	}
	return out
}
