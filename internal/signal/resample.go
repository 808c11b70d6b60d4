package signal

// Resample converts samples from one rate to another using linear
// interpolation. Onset localization tolerates far more interpolation error
// than the ±50ms accuracy target, so a polyphase filter is not warranted.
func Resample(samples []float64, fromRate, toRate int) []float64 {
	if fromRate <= 0 || toRate <= 0 || len(samples) == 0 {
		return nil
	}
	if fromRate == toRate {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen == 0 {
		outLen = 1
	}
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}
