package onset

import (
	"fmt"

	"vocalign/internal/signal"
)

// SpectralFluxDetector sums the half-wave-rectified frame-to-frame magnitude
// increase across all frequency bins and picks the first flux peak above an
// adaptive local median + k·MAD threshold. More robust than raw energy
// against slowly rising ambient level, still subject to instrumental bleed.
type SpectralFluxDetector struct{}

func (SpectralFluxDetector) Name() string { return MethodSpectralFlux.String() }

func (SpectralFluxDetector) Method() Method { return MethodSpectralFlux }

func (SpectralFluxDetector) Detect(sig *signal.Signal, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("spectral flux detector config: %w", err)
	}

	spec := stft(sig.Samples, cfg.FrameSize, cfg.HopSize)
	if len(spec) < 2 {
		return NotFound(MethodSpectralFlux, "signal shorter than two frames"), nil
	}
	mags := magnitudes(spec)

	flux := make([]float64, len(mags))
	for t := 1; t < len(mags); t++ {
		var sum float64
		for k := 1; k < len(mags[t]); k++ {
			if d := mags[t][k] - mags[t-1][k]; d > 0 {
				sum += d
			}
		}
		flux[t] = sum
	}

	energy := frameMagnitudeSum(mags, 1, cfg.FrameSize/2)
	hit, ok := scanNovelty(flux, energy, cfg, sig.SampleRate)
	if !ok {
		return NotFound(MethodSpectralFlux, "no flux peak above the adaptive threshold"), nil
	}

	start := hit.frame * cfg.HopSize
	refined := refineWithin(sig.Samples, start-2*cfg.HopSize, start+cfg.FrameSize, sig.SampleRate)
	score := scoreFromRatio(hit.ratio)
	return Result{
		Method:     MethodSpectralFlux,
		OnsetSec:   sig.SampleAt(refined),
		Found:      true,
		Score:      score,
		Confidence: BandFromScore(score),
		Detail:     hit.detail,
	}, nil
}
