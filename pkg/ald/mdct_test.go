package ald

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBesselI0(t *testing.T) {
	// I0(0) = 1 exactly; reference values from the series definition.
	assert.Equal(t, 1.0, besselI0(0))
	assert.InDelta(t, 1.26607, besselI0(1.0), 1e-4)
	assert.InDelta(t, 11.30192, besselI0(4.0), 1e-4)
}

func TestKBDWindowShape(t *testing.T) {
	for _, n := range []int{240, 480, 512} {
		window := kbdWindow(n, kbdAlpha)
		require.Len(t, window, n)

		// Symmetric, bounded, and rising to 1 at the frame center.
		for i := 0; i < n/2; i++ {
			assert.Equal(t, window[i], window[n-1-i], "window not symmetric at %d", i)
			assert.Greater(t, window[i], 0.0)
			assert.LessOrEqual(t, window[i], 1.0)
			if i > 0 {
				assert.GreaterOrEqual(t, window[i], window[i-1], "window not monotone at %d", i)
			}
		}
		assert.InDelta(t, 1.0, window[n/2-1], 1e-12)
	}
}

func TestMDCTSilence(t *testing.T) {
	m := newMDCT(480)
	overlap := make([]float64, 240)

	coeffs := m.Forward(make([]float64, 480), overlap)

	require.Len(t, coeffs, 240)
	for i, c := range coeffs {
		assert.Zero(t, c, "coefficient %d not zero for silence", i)
	}
}

func TestMDCTOverlapCarry(t *testing.T) {
	m := newMDCT(480)
	overlap := make([]float64, 240)
	input := Sine(1000, 44100, 480)

	m.Forward(input, overlap)

	// The overlap buffer must now hold the trailing half of the input.
	assert.Equal(t, input[240:], overlap)
}

func TestMDCTLinearity(t *testing.T) {
	input := Sine(700, 44100, 480)
	scaled := make([]float64, len(input))
	for i, v := range input {
		scaled[i] = 3.0 * v
	}

	ma := newMDCT(480)
	mb := newMDCT(480)
	ca := ma.Forward(input, make([]float64, 240))
	cb := mb.Forward(scaled, make([]float64, 240))

	for i := range ca {
		assert.InDelta(t, 3.0*ca[i], cb[i], 1e-9)
	}
}

func TestMDCTEnergy(t *testing.T) {
	m := newMDCT(480)
	overlap := make([]float64, 240)
	input := Sine(1000, 44100, 480)

	// Prime the overlap so the second frame sees a full lapped window.
	m.Forward(input, overlap)
	coeffs := m.Forward(input, overlap)

	energy := 0.0
	for _, c := range coeffs {
		require.False(t, math.IsNaN(c))
		require.False(t, math.IsInf(c, 0))
		energy += c * c
	}
	assert.Greater(t, energy, 0.0)
}
