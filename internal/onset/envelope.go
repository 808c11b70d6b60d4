package onset

import (
	"math"
	"sort"
)

// rmsEnvelope computes the short-time RMS energy of overlapping frames.
func rmsEnvelope(samples []float64, frameSize, hopSize int) []float64 {
	if len(samples) < frameSize {
		return nil
	}
	frames := 1 + (len(samples)-frameSize)/hopSize
	env := make([]float64, frames)
	for t := 0; t < frames; t++ {
		start := t * hopSize
		var sum float64
		for _, v := range samples[start : start+frameSize] {
			sum += v * v
		}
		env[t] = math.Sqrt(sum / float64(frameSize))
	}
	return env
}

// movingAverage smooths values with a centered window of the given width.
func movingAverage(values []float64, width int) []float64 {
	if width <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	half := width / 2
	out := make([]float64, len(values))
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(values) {
			hi = len(values) - 1
		}
		var sum float64
		for _, v := range values[lo : hi+1] {
			sum += v
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// quietStats returns mean and standard deviation of the quietest quartile
// of an envelope. Statistics over the full envelope would drown the noise
// floor once vocals cover a large share of the track, so the baseline comes
// from the quiet frames only.
func quietStats(env []float64) (mean, stddev float64) {
	if len(env) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), env...)
	sort.Float64s(sorted)
	quarter := len(sorted) / 4
	if quarter < 1 {
		quarter = 1
	}
	quiet := sorted[:quarter]

	var sum float64
	for _, v := range quiet {
		sum += v
	}
	mean = sum / float64(len(quiet))

	var variance float64
	for _, v := range quiet {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(quiet))
	return mean, math.Sqrt(variance)
}

// median returns the middle value of the slice (upper median for even sizes).
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// medianAbsDeviation returns the MAD of values around the given median.
func medianAbsDeviation(values []float64, med float64) float64 {
	if len(values) == 0 {
		return 0
	}
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - med)
	}
	return median(devs)
}

// scoreFromRatio converts how far a candidate exceeds its threshold into a
// 0..1 confidence score. The log keeps strong attacks from saturating weak
// ones into the same band.
func scoreFromRatio(ratio float64) float64 {
	if ratio <= 1 {
		return 0.05
	}
	score := 0.3 + math.Log10(ratio)
	if score > 1 {
		return 1
	}
	if score < 0.05 {
		return 0.05
	}
	return score
}

// highPass applies a cascaded one-pole high-pass filter. Used to strip
// sub-band content out of a refinement span so out-of-band leakage cannot
// pull the refined onset earlier than the in-band attack.
func highPass(samples []float64, cutoffHz float64, sampleRate int, passes int) []float64 {
	if len(samples) == 0 || cutoffHz <= 0 || sampleRate <= 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}
	rc := 1 / (2 * math.Pi * cutoffHz)
	dt := 1 / float64(sampleRate)
	alpha := rc / (rc + dt)

	out := append([]float64(nil), samples...)
	for p := 0; p < passes; p++ {
		prevIn := out[0]
		prevOut := out[0]
		for i := 1; i < len(out); i++ {
			in := out[i]
			prevOut = alpha * (prevOut + in - prevIn)
			prevIn = in
			out[i] = prevOut
		}
		out[0] = 0
	}
	return out
}

// refineOnset narrows a frame-granular onset down to a few milliseconds by
// scanning short windows inside the candidate region for the first one whose
// RMS clears the floor. Returns the refined sample index.
func refineOnset(samples []float64, start, end int, floor float64, sampleRate int) int {
	if start < 0 {
		start = 0
	}
	if end > len(samples) {
		end = len(samples)
	}
	win := sampleRate / 200 // 5ms
	if win < 8 {
		win = 8
	}
	step := sampleRate / 1000 // 1ms
	if step < 1 {
		step = 1
	}
	for i := start; i+win <= end; i += step {
		var sum float64
		for _, v := range samples[i : i+win] {
			sum += v * v
		}
		if math.Sqrt(sum/float64(win)) > floor {
			return i
		}
	}
	return start
}
