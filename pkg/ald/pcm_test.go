package ald

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleavedPlanarRoundTrip(t *testing.T) {
	interleaved := []float64{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}

	planar := InterleavedToPlanar(interleaved, 2)
	require.Len(t, planar, 2)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, planar[0])
	assert.Equal(t, []float64{-0.1, -0.2, -0.3}, planar[1])

	assert.Equal(t, interleaved, PlanarToInterleaved(planar))
}

func TestPlanarToInterleavedPadsShortChannels(t *testing.T) {
	planar := [][]float64{{1, 2, 3}, {4}}
	assert.Equal(t, []float64{1, 4, 2, 0, 3, 0}, PlanarToInterleaved(planar))
}

func TestInt16Float64Conversion(t *testing.T) {
	testCases := []struct {
		name  string
		pcm   int16
		float float64
	}{
		{name: "zero", pcm: 0, float: 0.0},
		{name: "half scale", pcm: 16384, float: 0.5},
		{name: "negative half", pcm: -16384, float: -0.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := Int16ToFloat64([]int16{tc.pcm})
			assert.InDelta(t, tc.float, out[0], 1e-9)
		})
	}
}

func TestInt32ToFloat64(t *testing.T) {
	// 24-bit half scale.
	out := Int32ToFloat64([]int32{0, 1 << 22, -(1 << 22)}, 24)
	assert.Equal(t, []float64{0.0, 0.5, -0.5}, out)

	// 16-bit full negative scale.
	out = Int32ToFloat64([]int32{-32768}, 16)
	assert.Equal(t, []float64{-1.0}, out)
}

func TestFloat64ToInt16Clamps(t *testing.T) {
	out := Float64ToInt16([]float64{2.0, -2.0, 0.0})
	assert.Equal(t, []int16{32767, -32767, 0}, out)
}

func TestApplyGain(t *testing.T) {
	samples := []float64{1.0, -0.5}
	ApplyGain(samples, -6.0)

	linear := math.Pow(10.0, -6.0/20.0)
	assert.InDelta(t, linear, samples[0], 1e-9)
	assert.InDelta(t, -0.5*linear, samples[1], 1e-9)
}

func TestRMSAndPeak(t *testing.T) {
	assert.Zero(t, RMS(nil))
	assert.Zero(t, Peak(nil))

	samples := []float64{0.5, -0.5, 0.5, -0.5}
	assert.InDelta(t, 0.5, RMS(samples), 1e-9)
	assert.Equal(t, 0.5, Peak(samples))

	// A full-scale sine has RMS 1/sqrt(2) of its peak.
	sine := Sine(1000, 44100, 44100)
	assert.InDelta(t, 0.5/math.Sqrt2, RMS(sine), 1e-3)
}

func TestMix(t *testing.T) {
	a := []float64{1.0, 1.0}
	b := []float64{0.0, 0.0, 0.0}

	assert.Equal(t, []float64{1.0, 1.0}, Mix(a, b, 0.0))
	assert.Equal(t, []float64{0.0, 0.0}, Mix(a, b, 1.0))
	assert.Equal(t, []float64{0.5, 0.5}, Mix(a, b, 0.5))
}

func TestSNRHelper(t *testing.T) {
	a := Sine(1000, 44100, 480)

	// Identical buffers are treated as perfect.
	assert.Equal(t, 100.0, SNR(a, a))
	// Mismatched lengths report no signal.
	assert.Zero(t, SNR(a, a[:100]))

	noisy := make([]float64, len(a))
	for i, v := range a {
		noisy[i] = v + 0.01
	}
	snr := SNR(a, noisy)
	assert.Greater(t, snr, 0.0)
	assert.Less(t, snr, 100.0)
}
