package ald

import "fmt"

// Config holds the encoder parameters. FrameSize is derived from
// SampleRate and is not independently settable; use NewConfig or call
// Validate after filling the struct by hand.
type Config struct {
	SampleRate int
	Channels   int
	FrameSize  int
	Bitrate    int
	// Quality biases the quantizer scale, 0.0 (coarse) to 1.0 (fine).
	Quality float64
	// UseTNS enables the temporal noise shaping filter.
	UseTNS bool
	// UsePNS is reserved. It is validated but no pipeline stage
	// consults it yet.
	UsePNS bool
}

// NewConfig returns a validated Config with default quality (0.75) and
// TNS enabled. The frame size is derived from the sample rate.
func NewConfig(sampleRate, channels, bitrate int) (Config, error) {
	frameSize, err := frameSizeFor(sampleRate)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		SampleRate: sampleRate,
		Channels:   channels,
		FrameSize:  frameSize,
		Bitrate:    bitrate,
		Quality:    0.75,
		UseTNS:     true,
		UsePNS:     false,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig is 44.1 kHz stereo at 128 kbps.
func DefaultConfig() Config {
	cfg, err := NewConfig(44100, 2, 128000)
	if err != nil {
		panic("ald: default config invalid: " + err.Error())
	}
	return cfg
}

// frameSizeFor derives the frame size from the sample rate. Low-delay
// coding uses short frames so that one frame of lookahead stays within
// a few milliseconds.
func frameSizeFor(sampleRate int) (int, error) {
	switch {
	case sampleRate >= 8000 && sampleRate <= 16000:
		return 240, nil
	case sampleRate >= 16001 && sampleRate <= 48000:
		return 480, nil
	case sampleRate >= 48001 && sampleRate <= 96000:
		return 512, nil
	default:
		return 0, &ConfigError{Reason: fmt.Sprintf("unsupported sample rate: %d", sampleRate)}
	}
}

// Validate checks every bound and that FrameSize matches the sample
// rate's derived value.
func (c Config) Validate() error {
	frameSize, err := frameSizeFor(c.SampleRate)
	if err != nil {
		return err
	}
	if c.FrameSize != frameSize {
		return &ConfigError{Reason: fmt.Sprintf("frame size %d does not match sample rate %d (want %d)", c.FrameSize, c.SampleRate, frameSize)}
	}
	if c.Channels < 1 || c.Channels > 8 {
		return &ConfigError{Reason: fmt.Sprintf("invalid channel count: %d", c.Channels)}
	}
	if c.Bitrate < 8000 || c.Bitrate > 320000 {
		return &ConfigError{Reason: fmt.Sprintf("invalid bitrate: %d", c.Bitrate)}
	}
	if c.Quality < 0.0 || c.Quality > 1.0 {
		return &ConfigError{Reason: fmt.Sprintf("quality must be between 0.0 and 1.0, got %g", c.Quality)}
	}
	return nil
}
