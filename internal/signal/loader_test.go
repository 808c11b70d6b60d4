package signal_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"vocalign/internal/signal"
	"vocalign/internal/testsupport"
)

func TestLoadWAVDownmixAndDuration(t *testing.T) {
	dir := t.TempDir()
	samples := testsupport.SilenceThenTone(0.5, 1.5, 440, 0.8, 22050)
	path := testsupport.WriteWAV(t, dir, "stem.wav", samples, 22050)

	sig, err := signal.Load(context.Background(), path, signal.DefaultLoaderConfig())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sig.SampleRate != signal.DefaultSampleRate {
		t.Errorf("SampleRate = %d, want %d", sig.SampleRate, signal.DefaultSampleRate)
	}
	if got, want := sig.Duration(), 2.0; math.Abs(got-want) > 0.01 {
		t.Errorf("Duration = %.3f, want %.3f", got, want)
	}
}

func TestLoadResamplesToTargetRate(t *testing.T) {
	dir := t.TempDir()
	samples := testsupport.Tone(440, 0.8, 2.0, 44100)
	path := testsupport.WriteWAV(t, dir, "highrate.wav", samples, 44100)

	sig, err := signal.Load(context.Background(), path, signal.DefaultLoaderConfig())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sig.SampleRate != signal.DefaultSampleRate {
		t.Errorf("SampleRate = %d, want %d", sig.SampleRate, signal.DefaultSampleRate)
	}
	if got, want := sig.Duration(), 2.0; math.Abs(got-want) > 0.01 {
		t.Errorf("Duration = %.3f, want %.3f", got, want)
	}
}

func TestLoadRejectsShortAudio(t *testing.T) {
	dir := t.TempDir()
	samples := testsupport.Tone(440, 0.8, 0.25, 22050)
	path := testsupport.WriteWAV(t, dir, "short.wav", samples, 22050)

	_, err := signal.Load(context.Background(), path, signal.DefaultLoaderConfig())
	if !errors.Is(err, signal.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := signal.Load(context.Background(), "/nonexistent/void.wav", signal.DefaultLoaderConfig())
	if !errors.Is(err, signal.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestLoadCorruptWAVWithoutFFmpeg(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteCorruptAudio(t, dir, "garbage.wav")

	cfg := signal.DefaultLoaderConfig()
	// Point the fallback at a binary that cannot exist so the test does not
	// depend on a host ffmpeg install.
	cfg.FFmpegBinary = "/nonexistent/ffmpeg"

	_, err := signal.Load(context.Background(), path, cfg)
	if !errors.Is(err, signal.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestLoadCapsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	samples := testsupport.Tone(330, 0.5, 5.0, 22050)
	path := testsupport.WriteWAV(t, dir, "long.wav", samples, 22050)

	cfg := signal.DefaultLoaderConfig()
	cfg.MaxDuration = 2.0

	sig, err := signal.Load(context.Background(), path, cfg)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := sig.Duration(); got > 2.01 {
		t.Errorf("Duration = %.3f, want <= 2.0", got)
	}
}

func TestLoadDeterministic(t *testing.T) {
	dir := t.TempDir()
	samples := testsupport.SilenceThenVoiceLike(1.0, 2.0, 22050)
	path := testsupport.WriteWAV(t, dir, "repeat.wav", samples, 22050)

	first, err := signal.Load(context.Background(), path, signal.DefaultLoaderConfig())
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := signal.Load(context.Background(), path, signal.DefaultLoaderConfig())
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if len(first.Samples) != len(second.Samples) {
		t.Fatalf("sample counts differ: %d vs %d", len(first.Samples), len(second.Samples))
	}
	for i := range first.Samples {
		if first.Samples[i] != second.Samples[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, first.Samples[i], second.Samples[i])
		}
	}
}
