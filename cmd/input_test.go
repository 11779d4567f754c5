package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedInput(t *testing.T) {
	testCases := []struct {
		name      string
		path      string
		supported bool
	}{
		{name: "wav", path: "song.wav", supported: true},
		{name: "flac", path: "song.flac", supported: true},
		{name: "ogg", path: "song.ogg", supported: true},
		{name: "mp3", path: "song.mp3", supported: true},
		{name: "qoa", path: "song.qoa", supported: true},
		{name: "ald output is not an input", path: "song.ald", supported: false},
		{name: "no extension", path: "song", supported: false},
		{name: "aiff", path: "song.aiff", supported: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.supported, isSupportedInput(tc.path))
		})
	}
}

func TestDecodeInputUnsupported(t *testing.T) {
	_, err := decodeInput("missing.xyz")
	assert.Error(t, err)
}

func TestFormatSize(t *testing.T) {
	testCases := []struct {
		size int
		want string
	}{
		{size: 512, want: "512 B"},
		{size: 2048, want: "2.00 KB"},
		{size: 5 * 1024 * 1024, want: "5.00 MB"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, formatSize(tc.size))
	}
}
