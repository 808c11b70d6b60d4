package onset

import (
	"fmt"

	"vocalign/internal/signal"
)

// EnergyDetector scans a smoothed short-time RMS envelope for the first
// frame that clears a noise-floor threshold and stays above a lower floor
// for the minimum sustain window. Simple and fast, but fooled by loud
// instrumental bleed that survives separation.
type EnergyDetector struct{}

func (EnergyDetector) Name() string { return MethodEnergy.String() }

func (EnergyDetector) Method() Method { return MethodEnergy }

func (EnergyDetector) Detect(sig *signal.Signal, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("energy detector config: %w", err)
	}

	raw := rmsEnvelope(sig.Samples, cfg.FrameSize, cfg.HopSize)
	if len(raw) == 0 {
		return NotFound(MethodEnergy, "signal shorter than one frame"), nil
	}
	env := movingAverage(raw, cfg.SmoothingFrames)

	var peak float64
	for _, v := range env {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return NotFound(MethodEnergy, "digital silence"), nil
	}

	quietMean, quietStd := quietStats(env)
	threshold := quietMean + cfg.ThresholdK*quietStd
	// Numeric dust in near-silent tracks would otherwise produce a
	// vanishing threshold.
	if floor := 0.02 * peak; threshold < floor {
		threshold = floor
	}
	if threshold >= peak {
		return NotFound(MethodEnergy, fmt.Sprintf("no frame clears threshold %.5f (peak %.5f)", threshold, peak)), nil
	}
	sustainFloor := threshold / 2
	sustain := cfg.sustainFrames(sig.SampleRate)

	for t := range env {
		if env[t] <= threshold {
			continue
		}
		// Sustain is checked on the raw envelope: smoothing smears a click
		// into a bump wide enough to fake a sustained excursion.
		if !sustained(raw, t, sustain, sustainFloor) {
			continue
		}

		start := t * cfg.HopSize
		// The centered smoothing can pull the trigger a couple of frames
		// ahead of the raw excursion, so the refinement span covers that
		// lookahead too.
		end := start + cfg.FrameSize + (cfg.SmoothingFrames/2+1)*cfg.HopSize
		refined := refineWithin(sig.Samples, start, end, sig.SampleRate)
		ratio := env[t] / threshold
		score := scoreFromRatio(ratio)
		return Result{
			Method:     MethodEnergy,
			OnsetSec:   sig.SampleAt(refined),
			Found:      true,
			Score:      score,
			Confidence: BandFromScore(score),
			Detail:     fmt.Sprintf("envelope %.5f over threshold %.5f (ratio %.2f)", env[t], threshold, ratio),
		}, nil
	}

	return NotFound(MethodEnergy, "no sustained excursion above the noise floor"), nil
}

// sustained reports whether values stays at or above floor for the sustain
// window starting at t. The window clamps at the end of the signal.
func sustained(values []float64, t, sustain int, floor float64) bool {
	end := t + sustain
	if end > len(values) {
		end = len(values)
	}
	for u := t; u < end; u++ {
		if values[u] < floor {
			return false
		}
	}
	return true
}
