package ald

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarkBandLayout(t *testing.T) {
	testCases := []struct {
		name       string
		sampleRate int
		frameSize  int
	}{
		{name: "8 kHz short frames", sampleRate: 8000, frameSize: 240},
		{name: "44.1 kHz", sampleRate: 44100, frameSize: 480},
		{name: "96 kHz long frames", sampleRate: 96000, frameSize: 512},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bands := makeBarkBands(tc.sampleRate, tc.frameSize)
			require.NotEmpty(t, bands)
			assert.LessOrEqual(t, len(bands), 24)

			for i, band := range bands {
				assert.Less(t, band.startBin, band.endBin, "band %d empty", i)
				assert.GreaterOrEqual(t, band.startBin, 0)
				assert.LessOrEqual(t, band.endBin, tc.frameSize/2)
			}
			// Bands tile upward without gaps at the low end.
			assert.Equal(t, 0, bands[0].startBin)
		})
	}
}

func TestSpreadingMatrixAttenuates(t *testing.T) {
	bands := makeBarkBands(44100, 480)
	spreading := makeSpreading(bands)

	for i := range bands {
		for j := range bands {
			gain := spreading[i][j]
			if i == j {
				assert.Equal(t, 1.0, gain)
				continue
			}
			// Off-diagonal masking only ever attenuates.
			assert.Greater(t, gain, 0.0, "[%d][%d]", i, j)
			assert.Less(t, gain, 1.0, "[%d][%d]", i, j)
		}
	}
}

func TestAnalyzeThresholdsPositive(t *testing.T) {
	model := newPsychoModel(44100, 480)
	spectrum := newMDCT(480).Forward(Sine(1000, 44100, 480), make([]float64, 240))

	thresholds := model.Analyze(spectrum, make([]float64, 240))

	require.Len(t, thresholds, 240)
	for i, th := range thresholds {
		assert.Greater(t, th, 0.0, "threshold %d not positive", i)
		assert.False(t, math.IsInf(th, 0), "threshold %d infinite", i)
		assert.False(t, math.IsNaN(th), "threshold %d NaN", i)
	}
}

func TestAnalyzeSilenceHitsHearingFloor(t *testing.T) {
	model := newPsychoModel(44100, 480)

	thresholds := model.Analyze(make([]float64, 240), make([]float64, 240))

	// With no signal energy the masking term is zero everywhere, so
	// every threshold is the absolute threshold of hearing.
	ath := make([]float64, 240)
	model.applyAbsoluteThreshold(ath)
	assert.Equal(t, ath, thresholds)
}

func TestAnalyzeKeepsHistory(t *testing.T) {
	model := newPsychoModel(44100, 480)
	spectrum := newMDCT(480).Forward(Sine(1000, 44100, 480), make([]float64, 240))

	model.Analyze(spectrum, make([]float64, 240))

	nonzero := false
	for _, m := range model.prevMagnitude {
		if m != 0 {
			nonzero = true
			break
		}
	}
	assert.True(t, nonzero, "magnitude history not updated")
}

func TestAbsoluteThresholdFiniteAtDC(t *testing.T) {
	model := newPsychoModel(44100, 480)
	thresholds := make([]float64, 240)

	model.applyAbsoluteThreshold(thresholds)

	// The DC bin is evaluated at one bin width, not 0 Hz, so the
	// power-law term stays finite.
	assert.False(t, math.IsInf(thresholds[0], 0))
	assert.Greater(t, thresholds[0], 0.0)
}
