package onset

import (
	"fmt"
	"math/cmplx"

	"vocalign/internal/signal"
)

// ComplexDomainDetector predicts each STFT frame from the two preceding
// frames under a stationarity assumption (magnitude held, phase advanced
// linearly) and measures the deviation between prediction and observation.
// Singing onset breaks stationarity in both magnitude and phase, making
// this the sharpest of the four methods on clean vocal stems, at the cost
// of the heaviest computation and the most sensitivity to noise.
type ComplexDomainDetector struct{}

func (ComplexDomainDetector) Name() string { return MethodComplexDomain.String() }

func (ComplexDomainDetector) Method() Method { return MethodComplexDomain }

func (ComplexDomainDetector) Detect(sig *signal.Signal, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("complex domain detector config: %w", err)
	}

	spec := stft(sig.Samples, cfg.FrameSize, cfg.HopSize)
	if len(spec) < 3 {
		return NotFound(MethodComplexDomain, "signal shorter than three frames"), nil
	}

	deviation := make([]float64, len(spec))
	bins := len(spec[0])
	for t := 2; t < len(spec); t++ {
		var sum float64
		for k := 1; k < bins; k++ {
			prevMag := cmplx.Abs(spec[t-1][k])
			prevPhase := cmplx.Phase(spec[t-1][k])
			prevPrevPhase := cmplx.Phase(spec[t-2][k])
			predicted := cmplx.Rect(prevMag, 2*prevPhase-prevPrevPhase)
			sum += cmplx.Abs(spec[t][k] - predicted)
		}
		deviation[t] = sum
	}

	mags := magnitudes(spec)
	energy := frameMagnitudeSum(mags, 1, cfg.FrameSize/2)
	hit, ok := scanNovelty(deviation, energy, cfg, sig.SampleRate)
	if !ok {
		return NotFound(MethodComplexDomain, "no stationarity break above the adaptive threshold"), nil
	}

	start := hit.frame * cfg.HopSize
	refined := refineWithin(sig.Samples, start-2*cfg.HopSize, start+cfg.FrameSize, sig.SampleRate)
	score := scoreFromRatio(hit.ratio)
	return Result{
		Method:     MethodComplexDomain,
		OnsetSec:   sig.SampleAt(refined),
		Found:      true,
		Score:      score,
		Confidence: BandFromScore(score),
		Detail:     hit.detail,
	}, nil
}
