package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vocalign/internal/config"
	"vocalign/internal/consensus"
	"vocalign/internal/onset"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Analysis.SampleRate != 22050 {
		t.Fatalf("unexpected sample rate: %d", cfg.Analysis.SampleRate)
	}
	if cfg.Detector.FrameSize != 2048 || cfg.Detector.HopSize != 512 {
		t.Fatalf("unexpected frame/hop: %d/%d", cfg.Detector.FrameSize, cfg.Detector.HopSize)
	}
	if cfg.Consensus.Strategy != "weighted-mean" {
		t.Fatalf("unexpected consensus strategy: %q", cfg.Consensus.Strategy)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "vocalign.toml")

	type payload struct {
		Analysis struct {
			SampleRate int `toml:"sample_rate"`
		} `toml:"analysis"`
		Detector struct {
			FrameSize  int     `toml:"frame_size"`
			ThresholdK float64 `toml:"threshold_k"`
		} `toml:"detector"`
		Consensus struct {
			Strategy     string  `toml:"strategy"`
			WeightMedium float64 `toml:"weight_medium"`
		} `toml:"consensus"`
		Batch struct {
			SongTimeoutSeconds int `toml:"song_timeout_seconds"`
		} `toml:"batch"`
	}
	custom := payload{}
	custom.Analysis.SampleRate = 44100
	custom.Detector.FrameSize = 4096
	custom.Detector.ThresholdK = 2.5
	custom.Consensus.Strategy = "weighted-median"
	custom.Consensus.WeightMedium = 1.5
	custom.Batch.SongTimeoutSeconds = 30

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Analysis.SampleRate != 44100 {
		t.Fatalf("expected sample rate from file, got %d", cfg.Analysis.SampleRate)
	}
	if cfg.Detector.FrameSize != 4096 {
		t.Fatalf("expected frame size from file, got %d", cfg.Detector.FrameSize)
	}
	if cfg.Consensus.Strategy != "weighted-median" {
		t.Fatalf("expected strategy from file, got %q", cfg.Consensus.Strategy)
	}
	// Untouched sections keep their defaults.
	if cfg.Detector.HopSize != 512 {
		t.Fatalf("expected default hop size, got %d", cfg.Detector.HopSize)
	}
	if cfg.Batch.SongTimeoutSeconds != 30 {
		t.Fatalf("expected song timeout from file, got %d", cfg.Batch.SongTimeoutSeconds)
	}
}

func TestBridgeConfigs(t *testing.T) {
	cfg := config.Default()
	cfg.Consensus.WeightHigh = 4
	cfg.Batch.SongTimeoutSeconds = 45

	loader := cfg.LoaderConfig()
	if loader.TargetSampleRate != 22050 || loader.MinDuration != 1.0 {
		t.Fatalf("unexpected loader config: %+v", loader)
	}

	det := cfg.DetectorConfig()
	if err := det.Validate(); err != nil {
		t.Fatalf("default detector config invalid: %v", err)
	}

	cons := cfg.ConsensusConfig()
	if cons.Strategy != consensus.StrategyWeightedMean {
		t.Fatalf("unexpected strategy: %q", cons.Strategy)
	}
	if cons.Weights[onset.ConfidenceHigh] != 4 {
		t.Fatalf("expected overridden high weight, got %v", cons.Weights[onset.ConfidenceHigh])
	}

	if got := cfg.BatchConfig().SongTimeout; got != 45*time.Second {
		t.Fatalf("unexpected song timeout: %v", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[detector]") {
		t.Fatalf("sample config missing detector section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Detector.FrameSize != config.Default().Detector.FrameSize {
		t.Fatalf("sample frame size %d differs from default", cfg.Detector.FrameSize)
	}
	if cfg.Consensus.DisagreementToleranceSec != config.Default().Consensus.DisagreementToleranceSec {
		t.Fatalf("sample tolerance %g differs from default", cfg.Consensus.DisagreementToleranceSec)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Detector.FrameSize = 1000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-power-of-two frame size")
	}

	cfg = config.Default()
	cfg.Consensus.Strategy = "plurality"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown strategy")
	}

	cfg = config.Default()
	cfg.Consensus.WeightHigh = 0
	cfg.Consensus.WeightMedium = 0
	cfg.Consensus.WeightLow = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when every weight is zero")
	}

	cfg = config.Default()
	cfg.Analysis.MinDurationSec = 700
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when min duration exceeds max")
	}

	cfg = config.Default()
	cfg.Batch.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative workers")
	}
}
