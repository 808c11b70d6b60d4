package onset

import "fmt"

// noveltyHit is the outcome of scanning a novelty curve for its first
// accepted peak.
type noveltyHit struct {
	frame  int
	ratio  float64
	detail string
}

// scanNovelty finds the first novelty value exceeding its trailing local
// median + k·MAD threshold, then confirms via frame energy that the signal
// stays active for the sustain window. frameEnergy must be aligned with nov.
func scanNovelty(nov, frameEnergy []float64, cfg Config, sampleRate int) (noveltyHit, bool) {
	var maxNov float64
	for _, v := range nov {
		if v > maxNov {
			maxNov = v
		}
	}
	if maxNov == 0 {
		return noveltyHit{}, false
	}
	// A floor tied to the strongest novelty keeps pure-silence jitter from
	// ever crossing the adaptive threshold.
	guard := 0.05 * maxNov
	sustain := cfg.sustainFrames(sampleRate)

	for t := 3; t < len(nov); t++ {
		lo := t - cfg.MedianWindow
		if lo < 0 {
			lo = 0
		}
		window := nov[lo:t]
		med := median(window)
		mad := medianAbsDeviation(window, med)
		threshold := med + cfg.ThresholdK*mad + guard
		if nov[t] <= threshold {
			continue
		}
		if !sustained(frameEnergy, t, sustain, 0.25*frameEnergy[t]) {
			continue
		}
		ratio := nov[t] / threshold
		return noveltyHit{
			frame:  t,
			ratio:  ratio,
			detail: fmt.Sprintf("novelty %.5f over threshold %.5f (ratio %.2f)", nov[t], threshold, ratio),
		}, true
	}
	return noveltyHit{}, false
}
