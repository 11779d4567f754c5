package ald

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTNSZeroInput(t *testing.T) {
	filter := newTNS()
	coeffs := make([]float64, 240)

	filter.Apply(coeffs)

	for i, c := range coeffs {
		assert.Zero(t, c, "coefficient %d changed for zero input", i)
	}
	for _, c := range filter.coeffs {
		assert.Zero(t, c, "filter coefficient not reset for zero-energy input")
	}
}

func TestTNSShortInput(t *testing.T) {
	filter := newTNS()

	testCases := []struct {
		name   string
		coeffs []float64
	}{
		{name: "empty", coeffs: nil},
		{name: "one value", coeffs: []float64{1.5}},
		{name: "below order", coeffs: []float64{1.0, -2.0, 3.0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			original := append([]float64(nil), tc.coeffs...)
			filter.Apply(tc.coeffs)
			assert.Equal(t, original, tc.coeffs)
		})
	}
}

func TestTNSDeterministic(t *testing.T) {
	a := Sine(2000, 44100, 240)
	b := append([]float64(nil), a...)

	newTNS().Apply(a)
	newTNS().Apply(b)

	assert.Equal(t, a, b)
}

func TestTNSOutputFinite(t *testing.T) {
	filter := newTNS()
	coeffs := WhiteNoise(240, 1.0, 7)

	filter.Apply(coeffs)

	require.Len(t, coeffs, 240)
	for i, c := range coeffs {
		assert.False(t, math.IsNaN(c), "NaN at %d", i)
		assert.False(t, math.IsInf(c, 0), "Inf at %d", i)
	}
}

func TestTNSLeadingValuesUntouched(t *testing.T) {
	coeffs := Sine(500, 44100, 240)
	head := append([]float64(nil), coeffs[:tnsDefaultOrder]...)

	newTNS().Apply(coeffs)

	// The filter only rewrites bins at or above the filter order.
	assert.Equal(t, head, coeffs[:tnsDefaultOrder])
}
