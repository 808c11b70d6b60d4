package batch

import (
	"fmt"
	"time"

	"vocalign/internal/align"
)

// Failure records one song that could not be analyzed.
type Failure struct {
	SongID string `json:"song_id"`
	Kind   string `json:"kind"`
	Err    string `json:"error"`
}

// Report is the aggregate outcome of a batch run. Records and Failures both
// preserve the input order of the job list regardless of the order workers
// finished in.
type Report struct {
	RunID                string         `json:"run_id"`
	GeneratedAt          time.Time      `json:"generated_at"`
	TotalSongs           int            `json:"total_songs"`
	GoodCount            int            `json:"good_count"`
	NeedsAdjustmentCount int            `json:"needs_adjustment_count"`
	SuspectCount         int            `json:"suspect_count"`
	FailedCount          int            `json:"failed_count"`
	AverageOffsetSec     float64        `json:"average_offset_sec"`
	Records              []align.Record `json:"records"`
	Failures             []Failure      `json:"failures,omitempty"`
	Elapsed              time.Duration  `json:"elapsed_ns"`
}

// finalize derives the counters from the accumulated records and failures.
// The average offset covers classified records only; failed songs do not
// contribute.
func (r *Report) finalize() {
	r.GoodCount = 0
	r.NeedsAdjustmentCount = 0
	r.SuspectCount = 0
	r.FailedCount = len(r.Failures)

	var offsetSum float64
	for _, rec := range r.Records {
		offsetSum += rec.OffsetSec
		switch rec.Classification {
		case align.ClassGood:
			r.GoodCount++
		case align.ClassNeedsAdjustment:
			r.NeedsAdjustmentCount++
		case align.ClassSuspectSourceMismatch:
			r.SuspectCount++
		}
	}
	if len(r.Records) > 0 {
		r.AverageOffsetSec = offsetSum / float64(len(r.Records))
	} else {
		r.AverageOffsetSec = 0
	}
}

// Summary renders the human-readable one-line verdict for the run.
func (r *Report) Summary() string {
	if r.TotalSongs == 0 {
		return "no songs analyzed"
	}
	percent := 100 * float64(r.GoodCount) / float64(r.TotalSongs)
	return fmt.Sprintf("%d of %d songs (%.1f%%) have good alignment", r.GoodCount, r.TotalSongs, percent)
}
