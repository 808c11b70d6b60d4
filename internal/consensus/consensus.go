package consensus

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"vocalign/internal/onset"
)

// ErrNoOnset is returned when no detector produced a usable onset estimate.
var ErrNoOnset = errors.New("no detector found a vocal onset")

// Strategy selects how the surviving detector estimates are combined.
type Strategy string

const (
	StrategyWeightedMean   Strategy = "weighted-mean"
	StrategyWeightedMedian Strategy = "weighted-median"
)

// Weights maps a detector confidence band to its vote weight. A band absent
// from the map (or mapped to zero) contributes nothing to the combine.
type Weights map[onset.Confidence]float64

// DefaultWeights returns the standard 3/2/1 weighting for high, medium and
// low confidence detections.
func DefaultWeights() Weights {
	return Weights{
		onset.ConfidenceHigh:   3,
		onset.ConfidenceMedium: 2,
		onset.ConfidenceLow:    1,
	}
}

// Config controls aggregation. Both the weighting and the combination
// strategy are deliberately configurable rather than fixed.
type Config struct {
	Weights                  Weights
	Strategy                 Strategy
	DisagreementToleranceSec float64
}

// DefaultConfig returns the standard aggregation settings.
func DefaultConfig() Config {
	return Config{
		Weights:                  DefaultWeights(),
		Strategy:                 StrategyWeightedMean,
		DisagreementToleranceSec: 3.0,
	}
}

// Validate checks the config for values that would make aggregation
// meaningless.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyWeightedMean, StrategyWeightedMedian:
	default:
		return fmt.Errorf("unknown consensus strategy %q", c.Strategy)
	}
	if c.DisagreementToleranceSec <= 0 {
		return fmt.Errorf("disagreement tolerance must be positive, got %g", c.DisagreementToleranceSec)
	}
	total := 0.0
	for band, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weight for %s confidence is negative", band)
		}
		total += w
	}
	if total == 0 {
		return errors.New("all confidence weights are zero")
	}
	return nil
}

// Result is the aggregated verdict across all detectors.
type Result struct {
	EstimatedOnsetSec   float64
	AggregateConfidence onset.Confidence
	PerMethod           []onset.Result
	DisagreementSec     float64
}

// Aggregate combines the per-detector results into a single onset estimate.
// Detectors that found nothing are kept in PerMethod for reporting but cast
// no vote. With zero surviving votes it returns ErrNoOnset.
func Aggregate(results []onset.Result, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	out := Result{PerMethod: append([]onset.Result(nil), results...)}

	type vote struct {
		onset  float64
		score  float64
		weight float64
	}
	var votes []vote
	for _, r := range results {
		if !r.Found {
			continue
		}
		w := cfg.Weights[r.Confidence]
		if w <= 0 {
			continue
		}
		votes = append(votes, vote{onset: r.OnsetSec, score: r.Score, weight: w})
	}
	if len(votes) == 0 {
		return Result{}, ErrNoOnset
	}

	var totalWeight float64
	for _, v := range votes {
		totalWeight += v.weight
	}

	switch cfg.Strategy {
	case StrategyWeightedMedian:
		sort.Slice(votes, func(i, j int) bool { return votes[i].onset < votes[j].onset })
		half := totalWeight / 2
		acc := 0.0
		for _, v := range votes {
			acc += v.weight
			if acc >= half {
				out.EstimatedOnsetSec = v.onset
				break
			}
		}
	default:
		var sum float64
		for _, v := range votes {
			sum += v.onset * v.weight
		}
		out.EstimatedOnsetSec = sum / totalWeight
	}

	for i := range votes {
		for j := i + 1; j < len(votes); j++ {
			if d := math.Abs(votes[i].onset - votes[j].onset); d > out.DisagreementSec {
				out.DisagreementSec = d
			}
		}
	}

	var scoreSum float64
	for _, v := range votes {
		scoreSum += v.score * v.weight
	}
	out.AggregateConfidence = onset.BandFromScore(scoreSum / totalWeight)
	if out.DisagreementSec > cfg.DisagreementToleranceSec {
		out.AggregateConfidence = downgrade(out.AggregateConfidence)
	}

	return out, nil
}

// downgrade lowers a confidence band by one step, never below Low.
func downgrade(c onset.Confidence) onset.Confidence {
	switch c {
	case onset.ConfidenceHigh:
		return onset.ConfidenceMedium
	case onset.ConfidenceMedium:
		return onset.ConfidenceLow
	default:
		return onset.ConfidenceLow
	}
}
