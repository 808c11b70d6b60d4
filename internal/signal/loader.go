package signal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

var (
	// ErrDecode marks unreadable or corrupt audio input.
	ErrDecode = errors.New("audio decode error")
	// ErrInsufficientData marks audio too short to contain a meaningful onset.
	ErrInsufficientData = errors.New("audio too short")
)

const (
	// DefaultSampleRate is the analysis rate every signal is resampled to.
	DefaultSampleRate = 22050
	// DefaultMinDuration is the minimum usable signal length in seconds.
	DefaultMinDuration = 1.0
	// DefaultMaxDuration caps decoding so an oversized file cannot stall a batch.
	DefaultMaxDuration = 600.0
)

// LoaderConfig controls decoding and the analysis sample rate.
type LoaderConfig struct {
	TargetSampleRate int
	MinDuration      float64
	MaxDuration      float64
	FFmpegBinary     string
}

// DefaultLoaderConfig returns the loader defaults.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		TargetSampleRate: DefaultSampleRate,
		MinDuration:      DefaultMinDuration,
		MaxDuration:      DefaultMaxDuration,
		FFmpegBinary:     "ffmpeg",
	}
}

func (c LoaderConfig) withDefaults() LoaderConfig {
	if c.TargetSampleRate <= 0 {
		c.TargetSampleRate = DefaultSampleRate
	}
	if c.MinDuration <= 0 {
		c.MinDuration = DefaultMinDuration
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = DefaultMaxDuration
	}
	if strings.TrimSpace(c.FFmpegBinary) == "" {
		c.FFmpegBinary = "ffmpeg"
	}
	return c
}

// Load decodes the audio file at path into a mono Signal at the configured
// analysis sample rate. WAV and MP3 files are decoded natively; anything else
// falls back to an ffmpeg pipe. Raw file I/O is confined to this function so
// the detectors never see format concerns.
func Load(ctx context.Context, path string, cfg LoaderConfig) (*Signal, error) {
	cfg = cfg.withDefaults()

	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrDecode)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	var (
		samples []float64
		rate    int
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, rate, err = decodeWAV(path)
	case ".mp3":
		samples, rate, err = decodeMP3(path)
	default:
		samples, rate, err = decodeFFmpeg(ctx, cfg.FFmpegBinary, path, cfg.TargetSampleRate, cfg.MaxDuration)
	}
	if err != nil {
		// Native decoders reject what ffmpeg may still understand.
		if !errors.Is(err, ErrDecode) {
			return nil, err
		}
		samples, rate, err = decodeFFmpeg(ctx, cfg.FFmpegBinary, path, cfg.TargetSampleRate, cfg.MaxDuration)
		if err != nil {
			return nil, err
		}
	}

	if rate != cfg.TargetSampleRate {
		samples = Resample(samples, rate, cfg.TargetSampleRate)
		rate = cfg.TargetSampleRate
	}

	maxSamples := int(cfg.MaxDuration * float64(rate))
	if maxSamples > 0 && len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}

	sig := &Signal{Samples: samples, SampleRate: rate}
	if sig.Duration() < cfg.MinDuration {
		return nil, fmt.Errorf("%w: %s: %.3fs is below the %.1fs minimum",
			ErrInsufficientData, filepath.Base(path), sig.Duration(), cfg.MinDuration)
	}
	return sig, nil
}

func decodeWAV(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: open %s: %v", ErrDecode, path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: %s: not a valid wav file", ErrDecode, filepath.Base(path))
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(path), err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("%w: %s: empty pcm payload", ErrDecode, filepath.Base(path))
	}

	bitDepth := int(decoder.BitDepth)
	if buf.SourceBitDepth > 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}
	samples := downmixInts(buf.Data, channels, scale)
	return samples, buf.Format.SampleRate, nil
}

func decodeMP3(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: open %s: %v", ErrDecode, path, err)
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(path), err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(path), err)
	}
	// go-mp3 always emits 16-bit little-endian stereo frames.
	const frameBytes = 4
	frames := len(raw) / frameBytes
	if frames == 0 {
		return nil, 0, fmt.Errorf("%w: %s: empty mp3 stream", ErrDecode, filepath.Base(path))
	}
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		left := int16(uint16(raw[i*frameBytes]) | uint16(raw[i*frameBytes+1])<<8)
		right := int16(uint16(raw[i*frameBytes+2]) | uint16(raw[i*frameBytes+3])<<8)
		samples[i] = (float64(left) + float64(right)) / 2 / 32768.0
	}
	return samples, decoder.SampleRate(), nil
}

// decodeFFmpeg pipes the file through ffmpeg as mono float32 at the target rate.
func decodeFFmpeg(ctx context.Context, binary, path string, rate int, maxDuration float64) ([]float64, int, error) {
	args := []string{
		"-v", "error", "-hide_banner", "-nostats", "-nostdin",
		"-i", path,
	}
	if maxDuration > 0 {
		args = append(args, "-t", strconv.FormatFloat(maxDuration, 'f', 3, 64))
	}
	args = append(args,
		"-ac", "1",
		"-ar", strconv.Itoa(rate),
		"-f", "f32le",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, 0, fmt.Errorf("%w: %s: ffmpeg: %s", ErrDecode, filepath.Base(path), detail)
	}

	raw := stdout.Bytes()
	if len(raw)%4 != 0 {
		return nil, 0, fmt.Errorf("%w: %s: unexpected f32le payload length %d", ErrDecode, filepath.Base(path), len(raw))
	}
	n := len(raw) / 4
	if n == 0 {
		return nil, 0, fmt.Errorf("%w: %s: ffmpeg produced no samples", ErrDecode, filepath.Base(path))
	}
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		samples[i] = float64(math.Float32frombits(bits))
	}
	return samples, rate, nil
}

func downmixInts(data []int, channels int, scale float64) []float64 {
	if channels == 1 {
		samples := make([]float64, len(data))
		for i, v := range data {
			samples[i] = float64(v) / scale
		}
		return samples
	}
	frames := len(data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}
	return samples
}
