package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"vocalign/internal/align"
	"vocalign/internal/consensus"
	"vocalign/internal/logging"
	"vocalign/internal/onset"
	"vocalign/internal/signal"
)

// ErrTimeout marks a song analysis that ran out of its time budget.
var ErrTimeout = errors.New("analysis timed out")

// FailureKind buckets an analysis error for batch accounting and logs.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, signal.ErrDecode):
		return "decode"
	case errors.Is(err, signal.ErrInsufficientData):
		return "too_short"
	case errors.Is(err, consensus.ErrNoOnset):
		return "no_onset"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

// Config bundles the per-stage configuration for a full analysis run.
type Config struct {
	Loader    signal.LoaderConfig
	Detector  onset.Config
	Consensus consensus.Config
}

// DefaultConfig returns the standard settings for every stage.
func DefaultConfig() Config {
	return Config{
		Loader:    signal.DefaultLoaderConfig(),
		Detector:  onset.DefaultConfig(),
		Consensus: consensus.DefaultConfig(),
	}
}

// Pipeline runs decode, the detector bank, consensus and offset calculation
// for one song at a time. It holds no per-song state, so a single Pipeline
// is safe for concurrent use across songs.
type Pipeline struct {
	cfg       Config
	detectors []onset.Detector
	logger    *slog.Logger
}

// New builds a pipeline with the default detector bank.
func New(cfg Config, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Detector.Validate(); err != nil {
		return nil, fmt.Errorf("detector config: %w", err)
	}
	if err := cfg.Consensus.Validate(); err != nil {
		return nil, fmt.Errorf("consensus config: %w", err)
	}
	return &Pipeline{
		cfg:       cfg,
		detectors: onset.DefaultBank(),
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}, nil
}

// AnalyzeFile decodes the audio at path and analyzes it.
func (p *Pipeline) AnalyzeFile(ctx context.Context, songID, path string, expectedOnsetSec float64) (align.Record, error) {
	ctx = logging.WithSongID(ctx, songID)
	log := logging.WithContext(ctx, p.logger)

	sig, err := signal.Load(ctx, path, p.cfg.Loader)
	if err != nil {
		return align.Record{}, fmt.Errorf("load %s: %w", path, err)
	}
	log.Debug("audio decoded",
		logging.Float64("duration_sec", sig.Duration()),
		logging.Int("sample_rate", sig.SampleRate))

	return p.Analyze(ctx, songID, sig, expectedOnsetSec)
}

// Analyze runs the detector bank over an already loaded signal. The four
// detectors run concurrently; their results keep the canonical bank order
// regardless of completion order. A detector error is logged and treated as
// a not-found verdict rather than failing the song.
func (p *Pipeline) Analyze(ctx context.Context, songID string, sig *signal.Signal, expectedOnsetSec float64) (align.Record, error) {
	ctx = logging.WithSongID(ctx, songID)
	log := logging.WithContext(ctx, p.logger)

	results := make([]onset.Result, len(p.detectors))
	var wg sync.WaitGroup
	for i, det := range p.detectors {
		wg.Add(1)
		go func(i int, det onset.Detector) {
			defer wg.Done()
			res, err := det.Detect(sig, p.cfg.Detector)
			if err != nil {
				log.Warn("detector failed",
					logging.String(logging.FieldMethod, det.Name()),
					logging.Error(err))
				res = onset.NotFound(det.Method(), fmt.Sprintf("detector error: %v", err))
			}
			results[i] = res
		}(i, det)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return align.Record{}, err
	}

	for _, res := range results {
		if res.Found {
			log.Debug("onset detected",
				logging.String(logging.FieldMethod, res.Method.String()),
				logging.Float64("onset_sec", res.OnsetSec),
				logging.String("confidence", res.Confidence.String()))
		}
	}

	cons, err := consensus.Aggregate(results, p.cfg.Consensus)
	if err != nil {
		return align.Record{}, fmt.Errorf("aggregate %s: %w", songID, err)
	}

	rec := align.ComputeOffset(cons, songID, expectedOnsetSec)
	log.Info("song analyzed",
		logging.Float64("detected_onset_sec", rec.DetectedOnsetSec),
		logging.Float64("offset_sec", rec.OffsetSec),
		logging.String("classification", string(rec.Classification)),
		logging.String("confidence", rec.Confidence.String()))
	return rec, nil
}
