// Package pipeline orchestrates the per-song analysis: decode the vocal
// track, run the four onset detectors concurrently, aggregate their verdicts
// and compute the alignment record. It also owns the error taxonomy that the
// batch runner uses to classify per-song failures.
package pipeline
