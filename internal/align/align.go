package align

import (
	"fmt"
	"math"

	"vocalign/internal/consensus"
	"vocalign/internal/onset"
)

// Classification buckets the measured offset by how it should be acted on.
type Classification string

const (
	// ClassGood means the lyrics are already within the acceptable drift.
	ClassGood Classification = "good"
	// ClassNeedsAdjustment means a timing shift should be applied.
	ClassNeedsAdjustment Classification = "needs-adjustment"
	// ClassSuspectSourceMismatch means the discrepancy is too large to be
	// timing drift. The audio or the lyrics probably come from a different
	// version of the song.
	ClassSuspectSourceMismatch Classification = "suspect-source-mismatch"
)

// Offset boundaries in seconds, applied to the absolute offset.
const (
	GoodMaxOffsetSec    = 1.0
	SuspectMinOffsetSec = 5.0
)

// Classify maps a signed offset to its classification bucket.
func Classify(offsetSec float64) Classification {
	abs := math.Abs(offsetSec)
	switch {
	case abs < GoodMaxOffsetSec:
		return ClassGood
	case abs <= SuspectMinOffsetSec:
		return ClassNeedsAdjustment
	default:
		return ClassSuspectSourceMismatch
	}
}

// Record is the per-song alignment verdict. It is a value object and is
// never mutated after ComputeOffset builds it.
type Record struct {
	SongID           string
	ExpectedOnsetSec float64
	DetectedOnsetSec float64
	OffsetSec        float64
	Classification   Classification
	Confidence       onset.Confidence
	DisagreementSec  float64
	Recommendation   string
	PerMethod        []onset.Result
}

// ComputeOffset compares the consensus onset against the expected onset from
// the lyrics and produces the signed offset, its classification and a
// human-readable recommendation. The offset is detected minus expected, so a
// negative offset means the vocals start before the lyrics expect them to.
func ComputeOffset(cons consensus.Result, songID string, expectedOnsetSec float64) Record {
	offset := cons.EstimatedOnsetSec - expectedOnsetSec
	rec := Record{
		SongID:           songID,
		ExpectedOnsetSec: expectedOnsetSec,
		DetectedOnsetSec: cons.EstimatedOnsetSec,
		OffsetSec:        offset,
		Classification:   Classify(offset),
		Confidence:       cons.AggregateConfidence,
		DisagreementSec:  cons.DisagreementSec,
		PerMethod:        cons.PerMethod,
	}
	rec.Recommendation = recommendation(rec)
	return rec
}

func recommendation(rec Record) string {
	abs := math.Abs(rec.OffsetSec)
	direction := "later"
	if rec.OffsetSec < 0 {
		direction = "earlier"
	}

	var msg string
	switch rec.Classification {
	case ClassGood:
		msg = fmt.Sprintf("alignment is good: vocals start within %.2fs of the lyric timing", abs)
	case ClassNeedsAdjustment:
		msg = fmt.Sprintf("shift lyric timings: vocals start %.2fs %s than the lyrics expect", abs, direction)
	default:
		msg = fmt.Sprintf("vocals start %.2fs %s than the lyrics expect; verify the audio and lyrics come from the same version before auto-correcting", abs, direction)
	}

	if rec.Confidence <= onset.ConfidenceLow {
		msg += " (low confidence, recommend manual review)"
	}
	return msg
}
