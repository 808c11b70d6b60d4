package align

import (
	"math"
	"strings"
	"testing"

	"vocalign/internal/consensus"
	"vocalign/internal/onset"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		offset float64
		want   Classification
	}{
		{0, ClassGood},
		{0.99, ClassGood},
		{-0.99, ClassGood},
		{1.0, ClassNeedsAdjustment},
		{1.01, ClassNeedsAdjustment},
		{-2.67, ClassNeedsAdjustment},
		{5.0, ClassNeedsAdjustment},
		{5.01, ClassSuspectSourceMismatch},
		{-12.4, ClassSuspectSourceMismatch},
	}

	for _, tt := range tests {
		if got := Classify(tt.offset); got != tt.want {
			t.Errorf("Classify(%.2f) = %s, want %s", tt.offset, got, tt.want)
		}
	}
}

func TestComputeOffsetSignConvention(t *testing.T) {
	cons := consensus.Result{
		EstimatedOnsetSec:   22.88,
		AggregateConfidence: onset.ConfidenceHigh,
	}

	rec := ComputeOffset(cons, "song-1", 25.55)

	if math.Abs(rec.OffsetSec-(-2.67)) > 1e-9 {
		t.Errorf("OffsetSec = %.4f, want -2.67", rec.OffsetSec)
	}
	if rec.Classification != ClassNeedsAdjustment {
		t.Errorf("Classification = %s, want %s", rec.Classification, ClassNeedsAdjustment)
	}
	if !strings.Contains(rec.Recommendation, "earlier") {
		t.Errorf("Recommendation %q should name the earlier direction", rec.Recommendation)
	}
	if !strings.Contains(rec.Recommendation, "2.67") {
		t.Errorf("Recommendation %q should name the offset magnitude", rec.Recommendation)
	}
}

func TestComputeOffsetLaterDirection(t *testing.T) {
	cons := consensus.Result{
		EstimatedOnsetSec:   14.5,
		AggregateConfidence: onset.ConfidenceMedium,
	}

	rec := ComputeOffset(cons, "song-2", 12.0)

	if rec.OffsetSec != 2.5 {
		t.Errorf("OffsetSec = %.4f, want 2.5", rec.OffsetSec)
	}
	if !strings.Contains(rec.Recommendation, "later") {
		t.Errorf("Recommendation %q should name the later direction", rec.Recommendation)
	}
}

func TestComputeOffsetSuspectMismatchWarnsOnProvenance(t *testing.T) {
	cons := consensus.Result{
		EstimatedOnsetSec:   40.0,
		AggregateConfidence: onset.ConfidenceHigh,
	}

	rec := ComputeOffset(cons, "song-3", 10.0)

	if rec.Classification != ClassSuspectSourceMismatch {
		t.Fatalf("Classification = %s, want %s", rec.Classification, ClassSuspectSourceMismatch)
	}
	if !strings.Contains(rec.Recommendation, "same version") {
		t.Errorf("Recommendation %q should warn about source provenance", rec.Recommendation)
	}
}

func TestComputeOffsetLowConfidenceAsksForReview(t *testing.T) {
	cons := consensus.Result{
		EstimatedOnsetSec:   10.2,
		AggregateConfidence: onset.ConfidenceLow,
	}

	rec := ComputeOffset(cons, "song-4", 10.0)

	if rec.Classification != ClassGood {
		t.Fatalf("Classification = %s, want %s", rec.Classification, ClassGood)
	}
	if !strings.Contains(rec.Recommendation, "manual review") {
		t.Errorf("Recommendation %q should suggest manual review", rec.Recommendation)
	}
}

func TestComputeOffsetCarriesConsensusDetail(t *testing.T) {
	per := []onset.Result{
		{Method: onset.MethodEnergy, OnsetSec: 9.9, Found: true},
		{Method: onset.MethodVocalBand, OnsetSec: 10.1, Found: true},
	}
	cons := consensus.Result{
		EstimatedOnsetSec:   10.0,
		AggregateConfidence: onset.ConfidenceHigh,
		DisagreementSec:     0.2,
		PerMethod:           per,
	}

	rec := ComputeOffset(cons, "song-5", 10.0)

	if rec.DisagreementSec != 0.2 {
		t.Errorf("DisagreementSec = %.4f, want 0.2", rec.DisagreementSec)
	}
	if len(rec.PerMethod) != 2 {
		t.Errorf("PerMethod length = %d, want 2", len(rec.PerMethod))
	}
}
