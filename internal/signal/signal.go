package signal

// Signal is a mono audio buffer at a known sample rate. It is immutable once
// loaded; detectors share it read-only.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the signal length in seconds.
func (s *Signal) Duration() float64 {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// SampleAt converts a sample index to seconds.
func (s *Signal) SampleAt(index int) float64 {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return float64(index) / float64(s.SampleRate)
}
