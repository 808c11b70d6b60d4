package testsupport

import "math"

// Silence returns seconds of zero samples at the given rate.
func Silence(seconds float64, sampleRate int) []float64 {
	return make([]float64, int(seconds*float64(sampleRate)))
}

// Tone returns a sine tone of the given frequency, amplitude, and duration.
func Tone(freqHz, amplitude, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate))
	}
	return samples
}

// Noise returns deterministic pseudo-random noise in [-amplitude, amplitude].
// A fixed linear congruential generator keeps test signals reproducible
// without seeding math/rand.
func Noise(amplitude, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)
	state := uint64(0x2545F4914F6CDD1D)
	for i := range samples {
		state = state*6364136223846793005 + 1442695040888963407
		unit := float64(state>>11) / float64(1<<53)
		samples[i] = amplitude * (2*unit - 1)
	}
	return samples
}

// SilenceThenTone builds the canonical onset fixture: preSec of silence
// followed by a sustained tone. The true onset is exactly preSec.
func SilenceThenTone(preSec, toneSec, freqHz, amplitude float64, sampleRate int) []float64 {
	out := Silence(preSec, sampleRate)
	return append(out, Tone(freqHz, amplitude, toneSec, sampleRate)...)
}

// SilenceThenVoiceLike builds preSec of near-silence (low noise floor)
// followed by a harmonic burst resembling a sung vowel: a fundamental plus
// two formant partials inside the vocal band.
func SilenceThenVoiceLike(preSec, voiceSec float64, sampleRate int) []float64 {
	floor := Noise(0.002, preSec, sampleRate)
	n := int(voiceSec * float64(sampleRate))
	voice := make([]float64, n)
	for i := range voice {
		t := float64(i) / float64(sampleRate)
		voice[i] = 0.5*math.Sin(2*math.Pi*220*t) +
			0.3*math.Sin(2*math.Pi*440*t) +
			0.15*math.Sin(2*math.Pi*880*t)
	}
	return append(floor, voice...)
}

// Mix overlays b onto a starting at offset samples, returning a new slice
// long enough to hold both.
func Mix(a, b []float64, offset int) []float64 {
	length := len(a)
	if offset+len(b) > length {
		length = offset + len(b)
	}
	out := make([]float64, length)
	copy(out, a)
	for i, v := range b {
		out[offset+i] += v
	}
	return out
}
