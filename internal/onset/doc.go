// Package onset implements the four independent vocal onset detectors.
//
// All four consume the same mono analysis signal and share one Config, but
// use independent signal features: short-time RMS energy, spectral flux,
// complex-domain phase prediction error, and band-limited vocal energy.
// Each is fooled by different artifacts (breath noise, instrumental bleed,
// reverb tails), so their failure modes stay uncorrelated and a consensus
// over them is more trustworthy than any single method.
package onset
