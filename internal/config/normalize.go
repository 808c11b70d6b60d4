package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAnalysis()
	c.normalizeConsensus()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.SampleRate <= 0 {
		c.Analysis.SampleRate = defaultSampleRate
	}
	if c.Analysis.MinDurationSec <= 0 {
		c.Analysis.MinDurationSec = defaultMinDurationSec
	}
	if c.Analysis.MaxDurationSec <= 0 {
		c.Analysis.MaxDurationSec = defaultMaxDurationSec
	}
	c.Analysis.FFmpegBinary = strings.TrimSpace(c.Analysis.FFmpegBinary)
	if c.Analysis.FFmpegBinary == "" {
		c.Analysis.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeConsensus() {
	c.Consensus.Strategy = strings.ToLower(strings.TrimSpace(c.Consensus.Strategy))
	if c.Consensus.Strategy == "" {
		c.Consensus.Strategy = defaultConsensusStrategy
	}
	if c.Consensus.DisagreementToleranceSec <= 0 {
		c.Consensus.DisagreementToleranceSec = defaultDisagreementToleranceSec
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if dir := strings.TrimSpace(c.Logging.LogDir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("logging.log_dir: %w", err)
		}
		c.Logging.LogDir = expanded
	} else {
		c.Logging.LogDir = ""
	}
	return nil
}
