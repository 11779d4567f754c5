package ald

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameSizeForSampleRate(t *testing.T) {
	testCases := []struct {
		name       string
		sampleRate int
		frameSize  int
		wantErr    bool
	}{
		{name: "8 kHz", sampleRate: 8000, frameSize: 240},
		{name: "16 kHz upper edge of short frames", sampleRate: 16000, frameSize: 240},
		{name: "just above 16 kHz", sampleRate: 16001, frameSize: 480},
		{name: "22.05 kHz", sampleRate: 22050, frameSize: 480},
		{name: "24 kHz", sampleRate: 24000, frameSize: 480},
		{name: "32 kHz", sampleRate: 32000, frameSize: 480},
		{name: "44.1 kHz", sampleRate: 44100, frameSize: 480},
		{name: "48 kHz", sampleRate: 48000, frameSize: 480},
		{name: "just above 48 kHz", sampleRate: 48001, frameSize: 512},
		{name: "96 kHz", sampleRate: 96000, frameSize: 512},
		{name: "below range", sampleRate: 7999, wantErr: true},
		{name: "above range", sampleRate: 96001, wantErr: true},
		{name: "zero", sampleRate: 0, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			frameSize, err := frameSizeFor(tc.sampleRate)
			if tc.wantErr {
				assert.Error(t, err)
				var cfgErr *ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.frameSize, frameSize)
		})
	}
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(44100, 2, 128000)
	require.NoError(t, err)

	assert.Equal(t, 480, cfg.FrameSize)
	assert.Equal(t, 0.75, cfg.Quality)
	assert.True(t, cfg.UseTNS)
	assert.False(t, cfg.UsePNS)
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(c *Config) {}},
		{name: "zero channels", mutate: func(c *Config) { c.Channels = 0 }, wantErr: true},
		{name: "nine channels", mutate: func(c *Config) { c.Channels = 9 }, wantErr: true},
		{name: "eight channels", mutate: func(c *Config) { c.Channels = 8 }},
		{name: "bitrate too low", mutate: func(c *Config) { c.Bitrate = 7999 }, wantErr: true},
		{name: "bitrate too high", mutate: func(c *Config) { c.Bitrate = 320001 }, wantErr: true},
		{name: "bitrate at bounds", mutate: func(c *Config) { c.Bitrate = 320000 }},
		{name: "quality below zero", mutate: func(c *Config) { c.Quality = -0.1 }, wantErr: true},
		{name: "quality above one", mutate: func(c *Config) { c.Quality = 1.1 }, wantErr: true},
		{name: "frame size mismatch", mutate: func(c *Config) { c.FrameSize = 512 }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, 2, cfg.Channels)
	assert.Equal(t, 128000, cfg.Bitrate)
	assert.NoError(t, cfg.Validate())
}
