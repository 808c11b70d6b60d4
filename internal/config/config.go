package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vocalign/internal/batch"
	"vocalign/internal/consensus"
	"vocalign/internal/logging"
	"vocalign/internal/onset"
	"vocalign/internal/pipeline"
	"vocalign/internal/signal"
)

//go:embed sample_config.toml
var sampleConfig string

// Analysis contains audio decoding and signal preparation settings.
type Analysis struct {
	SampleRate     int     `toml:"sample_rate"`
	MinDurationSec float64 `toml:"min_duration_sec"`
	MaxDurationSec float64 `toml:"max_duration_sec"`
	FFmpegBinary   string  `toml:"ffmpeg_binary"`
}

// Detector contains the shared tunables for the onset detectors.
type Detector struct {
	FrameSize       int     `toml:"frame_size"`
	HopSize         int     `toml:"hop_size"`
	ThresholdK      float64 `toml:"threshold_k"`
	MinSustainSec   float64 `toml:"min_sustain_sec"`
	SmoothingFrames int     `toml:"smoothing_frames"`
	MedianWindow    int     `toml:"median_window"`
	BandLowHz       float64 `toml:"band_low_hz"`
	BandHighHz      float64 `toml:"band_high_hz"`
}

// Consensus contains the aggregation settings.
type Consensus struct {
	Strategy                 string  `toml:"strategy"`
	WeightHigh               float64 `toml:"weight_high"`
	WeightMedium             float64 `toml:"weight_medium"`
	WeightLow                float64 `toml:"weight_low"`
	DisagreementToleranceSec float64 `toml:"disagreement_tolerance_sec"`
}

// Batch contains worker pool settings for multi-song runs.
type Batch struct {
	Workers            int `toml:"workers"`
	SongTimeoutSeconds int `toml:"song_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	LogDir string `toml:"log_dir"`
}

// Config encapsulates all configuration values for vocalign.
//
// Configuration sections by subsystem:
//   - Analysis: decoding and the analysis sample rate
//   - Detector: frame/hop sizes and detection thresholds
//   - Consensus: vote weights, combination strategy, disagreement tolerance
//   - Batch: worker pool sizing and per-song timeout
//   - Logging: log format, level, and optional log directory
type Config struct {
	Analysis  Analysis  `toml:"analysis"`
	Detector  Detector  `toml:"detector"`
	Consensus Consensus `toml:"consensus"`
	Batch     Batch     `toml:"batch"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vocalign/config.toml")
}

// Load locates, parses, and validates a configuration file. Missing files are
// not an error; defaults apply and exists reports what happened.
func Load(path string) (cfg *Config, resolvedPath string, exists bool, err error) {
	loaded := Default()

	resolvedPath, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&loaded); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := loaded.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := loaded.Validate(); err != nil {
		return nil, "", false, err
	}

	return &loaded, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vocalign.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// LoaderConfig produces the signal loader settings.
func (c *Config) LoaderConfig() signal.LoaderConfig {
	return signal.LoaderConfig{
		TargetSampleRate: c.Analysis.SampleRate,
		MinDuration:      c.Analysis.MinDurationSec,
		MaxDuration:      c.Analysis.MaxDurationSec,
		FFmpegBinary:     c.Analysis.FFmpegBinary,
	}
}

// DetectorConfig produces the onset detector settings.
func (c *Config) DetectorConfig() onset.Config {
	return onset.Config{
		FrameSize:       c.Detector.FrameSize,
		HopSize:         c.Detector.HopSize,
		ThresholdK:      c.Detector.ThresholdK,
		MinSustainSec:   c.Detector.MinSustainSec,
		SmoothingFrames: c.Detector.SmoothingFrames,
		MedianWindow:    c.Detector.MedianWindow,
		BandLowHz:       c.Detector.BandLowHz,
		BandHighHz:      c.Detector.BandHighHz,
	}
}

// ConsensusConfig produces the aggregation settings.
func (c *Config) ConsensusConfig() consensus.Config {
	return consensus.Config{
		Strategy: consensus.Strategy(c.Consensus.Strategy),
		Weights: consensus.Weights{
			onset.ConfidenceHigh:   c.Consensus.WeightHigh,
			onset.ConfidenceMedium: c.Consensus.WeightMedium,
			onset.ConfidenceLow:    c.Consensus.WeightLow,
		},
		DisagreementToleranceSec: c.Consensus.DisagreementToleranceSec,
	}
}

// PipelineConfig bundles the per-stage settings for a full analysis run.
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		Loader:    c.LoaderConfig(),
		Detector:  c.DetectorConfig(),
		Consensus: c.ConsensusConfig(),
	}
}

// BatchConfig produces the batch runner settings.
func (c *Config) BatchConfig() batch.Config {
	return batch.Config{
		Workers:     c.Batch.Workers,
		SongTimeout: time.Duration(c.Batch.SongTimeoutSeconds) * time.Second,
	}
}

// LoggingOptions produces the logger construction options. Console loggers
// write to stderr; when log_dir is set a run log file is added.
func (c *Config) LoggingOptions() logging.Options {
	opts := logging.Options{
		Format: c.Logging.Format,
		Level:  c.Logging.Level,
	}
	if dir := strings.TrimSpace(c.Logging.LogDir); dir != "" {
		opts.OutputPaths = []string{"stderr", filepath.Join(dir, "vocalign.log")}
	}
	return opts
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
