package onset

// Method identifies one of the independent onset detection strategies.
type Method int

const (
	MethodEnergy Method = iota
	MethodSpectralFlux
	MethodComplexDomain
	MethodVocalBand
)

func (m Method) String() string {
	switch m {
	case MethodEnergy:
		return "energy"
	case MethodSpectralFlux:
		return "spectral-flux"
	case MethodComplexDomain:
		return "complex-domain"
	case MethodVocalBand:
		return "vocal-band"
	default:
		return "unknown"
	}
}

// Confidence is the qualitative trust band attached to a detection. None is
// reserved for detectors that found no onset at all and is distinct from Low.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "none"
	}
}

// Band score boundaries shared by detectors and the consensus aggregator so
// the enum stays monotonically consistent with the numeric score.
const (
	HighScoreFloor   = 0.75
	MediumScoreFloor = 0.45
)

// BandFromScore maps a 0..1 confidence score to its qualitative band.
func BandFromScore(score float64) Confidence {
	switch {
	case score >= HighScoreFloor:
		return ConfidenceHigh
	case score >= MediumScoreFloor:
		return ConfidenceMedium
	case score > 0:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// Result is a single detector's verdict on where singing begins.
type Result struct {
	Method     Method
	OnsetSec   float64
	Found      bool
	Confidence Confidence
	Score      float64
	Detail     string
}

// NotFound builds the canonical empty result for a method.
func NotFound(method Method, detail string) Result {
	return Result{Method: method, Confidence: ConfidenceNone, Detail: detail}
}
