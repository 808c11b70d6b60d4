package onset

import (
	"vocalign/internal/signal"
)

// Detector locates the first sustained singing onset in a signal. The four
// implementations use independent signal features so their failure modes
// stay uncorrelated; the aggregator depends only on this interface, so new
// methods slot in without touching consensus code.
//
// Every implementation is deterministic: identical signal and config always
// yield an identical Result.
type Detector interface {
	Name() string
	Method() Method
	Detect(sig *signal.Signal, cfg Config) (Result, error)
}

// DefaultBank returns the four detectors in canonical order. Consensus
// traceability keeps per-method results in this order.
func DefaultBank() []Detector {
	return []Detector{
		EnergyDetector{},
		SpectralFluxDetector{},
		ComplexDomainDetector{},
		VocalBandDetector{},
	}
}

// refineWithin narrows an onset to a few milliseconds inside the candidate
// sample span. The floor is relative to the loudest content in the span so
// a low noise floor cannot trigger early.
func refineWithin(samples []float64, start, end, sampleRate int) int {
	if start < 0 {
		start = 0
	}
	if end > len(samples) {
		end = len(samples)
	}
	var peak float64
	for _, v := range samples[start:end] {
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
	return refineOnset(samples, start, end, 0.1*peak*0.707, sampleRate)
}
