// Package align turns a consensus onset estimate into an alignment verdict
// for a song: the signed offset between where the vocals actually start and
// where the lyrics say they should, a classification of that offset, and a
// recommendation for what to do about it.
package align
