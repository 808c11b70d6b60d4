// Package consensus combines the verdicts of the independent onset
// detectors into a single estimated vocal onset with an aggregate
// confidence band. Detections are weighted by their confidence, combined
// by a configurable strategy, and downgraded when the detectors disagree
// by more than the configured tolerance.
package consensus
