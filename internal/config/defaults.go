package config

const (
	defaultSampleRate               = 22050
	defaultMinDurationSec           = 1.0
	defaultMaxDurationSec           = 600.0
	defaultFFmpegBinary             = "ffmpeg"
	defaultFrameSize                = 2048
	defaultHopSize                  = 512
	defaultThresholdK               = 2.0
	defaultMinSustainSec            = 0.15
	defaultSmoothingFrames          = 5
	defaultMedianWindow             = 21
	defaultBandLowHz                = 300.0
	defaultBandHighHz               = 3400.0
	defaultConsensusStrategy        = "weighted-mean"
	defaultWeightHigh               = 3.0
	defaultWeightMedium             = 2.0
	defaultWeightLow                = 1.0
	defaultDisagreementToleranceSec = 3.0
	defaultSongTimeoutSeconds       = 120
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Analysis: Analysis{
			SampleRate:     defaultSampleRate,
			MinDurationSec: defaultMinDurationSec,
			MaxDurationSec: defaultMaxDurationSec,
			FFmpegBinary:   defaultFFmpegBinary,
		},
		Detector: Detector{
			FrameSize:       defaultFrameSize,
			HopSize:         defaultHopSize,
			ThresholdK:      defaultThresholdK,
			MinSustainSec:   defaultMinSustainSec,
			SmoothingFrames: defaultSmoothingFrames,
			MedianWindow:    defaultMedianWindow,
			BandLowHz:       defaultBandLowHz,
			BandHighHz:      defaultBandHighHz,
		},
		Consensus: Consensus{
			Strategy:                 defaultConsensusStrategy,
			WeightHigh:               defaultWeightHigh,
			WeightMedium:             defaultWeightMedium,
			WeightLow:                defaultWeightLow,
			DisagreementToleranceSec: defaultDisagreementToleranceSec,
		},
		Batch: Batch{
			Workers:            0, // one per CPU
			SongTimeoutSeconds: defaultSongTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
