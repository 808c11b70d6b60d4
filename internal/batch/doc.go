// Package batch runs the analysis pipeline over many songs with a worker
// pool and aggregates the outcomes into a single report. One bad file never
// aborts the batch: per-song failures are counted, classified and logged,
// and the report preserves the input order of the job list.
package batch
