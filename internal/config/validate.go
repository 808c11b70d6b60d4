package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.DetectorConfig().Validate(); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	if err := c.ConsensusConfig().Validate(); err != nil {
		return fmt.Errorf("consensus: %w", err)
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.MaxDurationSec <= c.Analysis.MinDurationSec {
		return errors.New("analysis.max_duration_sec must be greater than analysis.min_duration_sec")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must be >= 0 (0 means one per CPU)")
	}
	if c.Batch.SongTimeoutSeconds < 0 {
		return errors.New("batch.song_timeout_seconds must be >= 0 (0 disables the timeout)")
	}
	return nil
}
