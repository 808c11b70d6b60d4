package onset

import "fmt"

// Config carries the per-detector tunables. It is passed explicitly into
// every Detect call; nothing in this package holds state between calls.
type Config struct {
	// FrameSize is the analysis frame length in samples (power of two).
	FrameSize int
	// HopSize is the stride between frames in samples.
	HopSize int
	// ThresholdK scales the deviation term of every adaptive threshold.
	ThresholdK float64
	// MinSustainSec is how long energy must stay elevated for a candidate to
	// count as singing rather than a click or breath.
	MinSustainSec float64
	// SmoothingFrames is the moving-average width applied to energy envelopes.
	SmoothingFrames int
	// MedianWindow is the trailing window, in frames, of the local
	// median/MAD threshold used by the spectral detectors.
	MedianWindow int
	// BandLowHz and BandHighHz bound the vocal band detector.
	BandLowHz  float64
	BandHighHz float64
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() Config {
	return Config{
		FrameSize:       2048,
		HopSize:         512,
		ThresholdK:      2.0,
		MinSustainSec:   0.15,
		SmoothingFrames: 5,
		MedianWindow:    21,
		BandLowHz:       300,
		BandHighHz:      3400,
	}
}

// Validate rejects configurations the detectors cannot run with.
func (c Config) Validate() error {
	if c.FrameSize <= 0 || c.FrameSize&(c.FrameSize-1) != 0 {
		return fmt.Errorf("frame size must be a positive power of two, got %d", c.FrameSize)
	}
	if c.HopSize <= 0 || c.HopSize > c.FrameSize {
		return fmt.Errorf("hop size must be in (0, frame size], got %d", c.HopSize)
	}
	if c.ThresholdK <= 0 {
		return fmt.Errorf("threshold multiplier must be positive, got %g", c.ThresholdK)
	}
	if c.MinSustainSec < 0 {
		return fmt.Errorf("min sustain must be non-negative, got %g", c.MinSustainSec)
	}
	if c.SmoothingFrames < 1 {
		return fmt.Errorf("smoothing frames must be at least 1, got %d", c.SmoothingFrames)
	}
	if c.MedianWindow < 3 {
		return fmt.Errorf("median window must be at least 3 frames, got %d", c.MedianWindow)
	}
	if c.BandLowHz <= 0 || c.BandHighHz <= c.BandLowHz {
		return fmt.Errorf("vocal band [%g, %g] Hz is invalid", c.BandLowHz, c.BandHighHz)
	}
	return nil
}

func (c Config) sustainFrames(sampleRate int) int {
	if c.HopSize <= 0 || sampleRate <= 0 {
		return 1
	}
	frames := int(c.MinSustainSec * float64(sampleRate) / float64(c.HopSize))
	if frames < 1 {
		frames = 1
	}
	return frames
}
