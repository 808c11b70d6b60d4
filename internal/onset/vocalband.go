package onset

import (
	"fmt"

	"vocalign/internal/signal"
)

// VocalBandDetector restricts the spectrum to the dominant human-voice range
// before applying energy-envelope onset logic. Sub-bass instrumental leakage
// that survives separation never reaches the envelope, so it cannot trigger
// a false onset.
type VocalBandDetector struct{}

func (VocalBandDetector) Name() string { return MethodVocalBand.String() }

func (VocalBandDetector) Method() Method { return MethodVocalBand }

func (VocalBandDetector) Detect(sig *signal.Signal, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("vocal band detector config: %w", err)
	}

	spec := stft(sig.Samples, cfg.FrameSize, cfg.HopSize)
	if len(spec) == 0 {
		return NotFound(MethodVocalBand, "signal shorter than one frame"), nil
	}
	mags := magnitudes(spec)
	lo, hi := binRange(cfg.BandLowHz, cfg.BandHighHz, cfg.FrameSize, sig.SampleRate)
	raw := frameMagnitudeSum(mags, lo, hi)
	env := movingAverage(raw, cfg.SmoothingFrames)

	var peak float64
	for _, v := range env {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return NotFound(MethodVocalBand, "no energy in the vocal band"), nil
	}

	quietMean, quietStd := quietStats(env)
	threshold := quietMean + cfg.ThresholdK*quietStd
	if floor := 0.02 * peak; threshold < floor {
		threshold = floor
	}
	if threshold >= peak {
		return NotFound(MethodVocalBand, fmt.Sprintf("no frame clears band threshold %.5f (peak %.5f)", threshold, peak)), nil
	}
	sustain := cfg.sustainFrames(sig.SampleRate)

	for t := range env {
		if env[t] <= threshold {
			continue
		}
		// Sustain runs on the raw band envelope: smoothing smears a click
		// into a bump wide enough to fake a sustained excursion.
		if !sustained(raw, t, sustain, threshold/2) {
			continue
		}

		start := t * cfg.HopSize
		refined := refineBandLimited(sig, cfg, start)
		ratio := env[t] / threshold
		score := scoreFromRatio(ratio)
		return Result{
			Method:     MethodVocalBand,
			OnsetSec:   sig.SampleAt(refined),
			Found:      true,
			Score:      score,
			Confidence: BandFromScore(score),
			Detail: fmt.Sprintf("band [%.0f, %.0f] Hz energy %.5f over threshold %.5f (ratio %.2f)",
				cfg.BandLowHz, cfg.BandHighHz, env[t], threshold, ratio),
		}, nil
	}

	return NotFound(MethodVocalBand, "no sustained excursion inside the vocal band"), nil
}

// refineBandLimited narrows the onset inside the candidate span after
// high-passing it at the band's lower edge, so sub-band leakage cannot move
// the refined onset. The filter warms up on a short lead-in that is excluded
// from the scan.
func refineBandLimited(sig *signal.Signal, cfg Config, start int) int {
	warmup := sig.SampleRate / 100
	spanStart := start - warmup
	if spanStart < 0 {
		spanStart = 0
		warmup = start
	}
	spanEnd := start + cfg.FrameSize + (cfg.SmoothingFrames/2+1)*cfg.HopSize
	if spanEnd > len(sig.Samples) {
		spanEnd = len(sig.Samples)
	}
	if spanStart >= spanEnd {
		return start
	}

	filtered := highPass(sig.Samples[spanStart:spanEnd], cfg.BandLowHz, sig.SampleRate, 2)
	var peak float64
	for _, v := range filtered[warmup:] {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return start
	}
	refined := refineOnset(filtered, warmup, len(filtered), 0.1*peak*0.707, sig.SampleRate)
	return spanStart + refined
}
