// Package signal owns audio decoding and the analysis sample buffer.
//
// Load is the only place in vocalign that touches raw audio file I/O. It
// decodes PCM WAV and MP3 natively, falls back to an ffmpeg pipe for other
// containers, downmixes to mono, and resamples to the fixed analysis rate so
// every detector sees the same signal shape.
package signal
