package batch

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"vocalign/internal/align"
	"vocalign/internal/logging"
	"vocalign/internal/pipeline"
)

// Job identifies one song to analyze.
type Job struct {
	SongID           string
	Path             string
	ExpectedOnsetSec float64
}

// Config controls the worker pool.
type Config struct {
	// Workers is the pool size. Zero means one worker per CPU. The pool is
	// never larger than the job count.
	Workers int
	// SongTimeout bounds a single song's analysis. Zero disables the bound.
	SongTimeout time.Duration
}

// DefaultConfig returns the standard batch settings.
func DefaultConfig() Config {
	return Config{
		Workers:     runtime.NumCPU(),
		SongTimeout: 120 * time.Second,
	}
}

// Runner fans a job list out over a worker pool, one pipeline invocation per
// song, and reassembles a Report in input order.
type Runner struct {
	pipeline *pipeline.Pipeline
	cfg      Config
	logger   *slog.Logger
}

// NewRunner builds a batch runner around an already constructed pipeline.
func NewRunner(p *pipeline.Pipeline, cfg Config, logger *slog.Logger) *Runner {
	return &Runner{
		pipeline: p,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "batch"),
	}
}

type outcome struct {
	index  int
	record align.Record
	err    error
}

// Run analyzes every job and returns the aggregated report. Per-song
// failures are counted and logged but never abort the batch; only a
// cancelled batch context does.
func (r *Runner) Run(ctx context.Context, jobs []Job) (*Report, error) {
	started := time.Now()
	runID := uuid.NewString()
	log := r.logger.With(logging.String("run_id", runID))

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	log.Info("batch started",
		logging.Int("songs", len(jobs)),
		logging.Int("workers", workers))

	jobCh := make(chan int)
	outcomes := make([]outcome, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobCh {
				outcomes[i] = outcome{index: i}
				outcomes[i].record, outcomes[i].err = r.analyzeOne(ctx, jobs[i])
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case jobCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{RunID: runID, TotalSongs: len(jobs), GeneratedAt: started.UTC()}
	for i, out := range outcomes {
		if out.err != nil {
			kind := pipeline.FailureKind(out.err)
			log.Warn("song failed",
				logging.String(logging.FieldSongID, jobs[i].SongID),
				logging.String(logging.FieldFailureKind, kind),
				logging.Error(out.err))
			report.Failures = append(report.Failures, Failure{
				SongID: jobs[i].SongID,
				Kind:   kind,
				Err:    out.err.Error(),
			})
			continue
		}
		report.Records = append(report.Records, out.record)
	}
	report.Elapsed = time.Since(started)
	report.finalize()

	log.Info("batch finished",
		logging.Int("good", report.GoodCount),
		logging.Int("needs_adjustment", report.NeedsAdjustmentCount),
		logging.Int("suspect", report.SuspectCount),
		logging.Int("failed", report.FailedCount),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}

// analyzeOne runs a single job under the per-song timeout. A deadline hit is
// reported as the timeout sentinel so it is bucketed separately from decode
// or onset failures.
func (r *Runner) analyzeOne(ctx context.Context, job Job) (align.Record, error) {
	if r.cfg.SongTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.SongTimeout)
		defer cancel()
	}

	rec, err := r.pipeline.AnalyzeFile(ctx, job.SongID, job.Path, job.ExpectedOnsetSec)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return align.Record{}, pipeline.ErrTimeout
	}
	return rec, err
}
