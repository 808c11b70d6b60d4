package onset_test

import (
	"math"
	"testing"

	"vocalign/internal/onset"
	"vocalign/internal/signal"
	"vocalign/internal/testsupport"
)

const testSampleRate = 22050

func newSignal(samples []float64) *signal.Signal {
	return &signal.Signal{Samples: samples, SampleRate: testSampleRate}
}

// Synthetic silence followed by sustained voice-like content at a known
// time. Every detector must land within 50ms of the true onset.
func TestDetectorsLocateSyntheticOnset(t *testing.T) {
	const trueOnset = 2.0
	sig := newSignal(testsupport.SilenceThenVoiceLike(trueOnset, 1.5, testSampleRate))
	cfg := onset.DefaultConfig()

	for _, det := range onset.DefaultBank() {
		t.Run(det.Name(), func(t *testing.T) {
			result, err := det.Detect(sig, cfg)
			if err != nil {
				t.Fatalf("Detect returned error: %v", err)
			}
			if !result.Found {
				t.Fatalf("expected onset, got none (%s)", result.Detail)
			}
			if diff := math.Abs(result.OnsetSec - trueOnset); diff > 0.05 {
				t.Errorf("OnsetSec = %.4f, want %.4f ±0.05 (%s)", result.OnsetSec, trueOnset, result.Detail)
			}
			if result.Confidence == onset.ConfidenceNone {
				t.Error("found onset must not carry ConfidenceNone")
			}
			if result.Score <= 0 || result.Score > 1 {
				t.Errorf("Score = %v, want (0, 1]", result.Score)
			}
		})
	}
}

func TestDetectorsLocatePureToneOnset(t *testing.T) {
	const trueOnset = 1.5
	sig := newSignal(testsupport.SilenceThenTone(trueOnset, 1.5, 440, 0.8, testSampleRate))
	cfg := onset.DefaultConfig()

	for _, det := range onset.DefaultBank() {
		t.Run(det.Name(), func(t *testing.T) {
			result, err := det.Detect(sig, cfg)
			if err != nil {
				t.Fatalf("Detect returned error: %v", err)
			}
			if !result.Found {
				t.Fatalf("expected onset, got none (%s)", result.Detail)
			}
			if diff := math.Abs(result.OnsetSec - trueOnset); diff > 0.05 {
				t.Errorf("OnsetSec = %.4f, want %.4f ±0.05 (%s)", result.OnsetSec, trueOnset, result.Detail)
			}
		})
	}
}

func TestDetectorsReportNoOnsetInSilence(t *testing.T) {
	sig := newSignal(testsupport.Silence(3.0, testSampleRate))
	cfg := onset.DefaultConfig()

	for _, det := range onset.DefaultBank() {
		t.Run(det.Name(), func(t *testing.T) {
			result, err := det.Detect(sig, cfg)
			if err != nil {
				t.Fatalf("Detect returned error: %v", err)
			}
			if result.Found {
				t.Errorf("found onset at %.3f in pure silence (%s)", result.OnsetSec, result.Detail)
			}
			if result.Confidence != onset.ConfidenceNone {
				t.Errorf("Confidence = %v, want ConfidenceNone", result.Confidence)
			}
		})
	}
}

// A 20ms click must be rejected by the sustain requirement.
func TestDetectorsRejectTransientClick(t *testing.T) {
	base := testsupport.Silence(4.0, testSampleRate)
	click := testsupport.Tone(1000, 0.9, 0.02, testSampleRate)
	sig := newSignal(testsupport.Mix(base, click, testSampleRate)) // click at 1.0s

	cfg := onset.DefaultConfig()
	for _, det := range onset.DefaultBank() {
		t.Run(det.Name(), func(t *testing.T) {
			result, err := det.Detect(sig, cfg)
			if err != nil {
				t.Fatalf("Detect returned error: %v", err)
			}
			if result.Found {
				t.Errorf("click at 1.0s detected as onset %.3f (%s)", result.OnsetSec, result.Detail)
			}
		})
	}
}

func TestDetectorsAreDeterministic(t *testing.T) {
	sig := newSignal(testsupport.SilenceThenVoiceLike(1.2, 1.8, testSampleRate))
	cfg := onset.DefaultConfig()

	for _, det := range onset.DefaultBank() {
		t.Run(det.Name(), func(t *testing.T) {
			first, err := det.Detect(sig, cfg)
			if err != nil {
				t.Fatalf("first Detect: %v", err)
			}
			second, err := det.Detect(sig, cfg)
			if err != nil {
				t.Fatalf("second Detect: %v", err)
			}
			if first != second {
				t.Errorf("results differ:\n first: %+v\nsecond: %+v", first, second)
			}
		})
	}
}

func TestDetectorsRejectInvalidConfig(t *testing.T) {
	sig := newSignal(testsupport.SilenceThenTone(1.0, 1.0, 440, 0.8, testSampleRate))
	cfg := onset.DefaultConfig()
	cfg.FrameSize = 1000 // not a power of two

	for _, det := range onset.DefaultBank() {
		t.Run(det.Name(), func(t *testing.T) {
			if _, err := det.Detect(sig, cfg); err == nil {
				t.Error("expected config validation error")
			}
		})
	}
}

// Sub-bass leakage before the vocal entry must not trigger the vocal band
// detector, while the plain energy detector is expected to be fooled.
func TestVocalBandDetectorIgnoresSubBassLeakage(t *testing.T) {
	const vocalOnset = 3.0
	bass := testsupport.Tone(60, 0.4, 5.0, testSampleRate)
	voice := testsupport.SilenceThenVoiceLike(0, 2.0, testSampleRate)
	sig := newSignal(testsupport.Mix(bass, voice, int(vocalOnset*testSampleRate)))

	cfg := onset.DefaultConfig()
	result, err := (onset.VocalBandDetector{}).Detect(sig, cfg)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if !result.Found {
		t.Fatalf("expected vocal onset, got none (%s)", result.Detail)
	}
	if diff := math.Abs(result.OnsetSec - vocalOnset); diff > 0.1 {
		t.Errorf("OnsetSec = %.4f, want %.4f ±0.1 (%s)", result.OnsetSec, vocalOnset, result.Detail)
	}
}

func TestBandFromScoreMonotoneWithBands(t *testing.T) {
	tests := []struct {
		score float64
		want  onset.Confidence
	}{
		{0.9, onset.ConfidenceHigh},
		{0.75, onset.ConfidenceHigh},
		{0.6, onset.ConfidenceMedium},
		{0.45, onset.ConfidenceMedium},
		{0.2, onset.ConfidenceLow},
		{0, onset.ConfidenceNone},
	}
	for _, tt := range tests {
		if got := onset.BandFromScore(tt.score); got != tt.want {
			t.Errorf("BandFromScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
