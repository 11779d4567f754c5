package ald

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// kbdAlpha is the Kaiser shape parameter of the analysis window.
const kbdAlpha = 6.0

// mdct is the lapped forward transform: frameSize time samples in,
// frameSize/2 coefficients out. The window and twiddle tables are built
// once per frame size; the overlap state is owned by the caller and
// passed in explicitly so it can be kept per channel.
type mdct struct {
	frameSize int
	window    []float64
	twidCos   []float64
	twidSin   []float64
}

func newMDCT(frameSize int) *mdct {
	m := &mdct{
		frameSize: frameSize,
		window:    kbdWindow(frameSize, kbdAlpha),
		twidCos:   make([]float64, frameSize/2),
		twidSin:   make([]float64, frameSize/2),
	}
	for k := 0; k < frameSize/2; k++ {
		angle := math.Pi * (float64(k) + 0.5) / float64(frameSize)
		m.twidCos[k] = math.Cos(angle)
		m.twidSin[k] = math.Sin(angle)
	}
	return m
}

// besselI0 is the zeroth-order modified Bessel function, as a truncated
// power series. Terms below 1e-8 are dropped, capped at 20 terms.
func besselI0(x float64) float64 {
	result := 1.0
	term := 1.0
	x2 := x * x / 4.0
	for k := 1; k <= 20; k++ {
		term *= x2 / float64(k*k)
		result += term
		if term < 1e-8 {
			break
		}
	}
	return result
}

// kbdWindow builds the Kaiser-Bessel-Derived analysis window: a running
// sum of the Kaiser window, normalized and square-rooted, mirrored onto
// the second half.
func kbdWindow(n int, alpha float64) []float64 {
	kaiser := make([]float64, n/2+1)
	for i := 0; i <= n/2; i++ {
		x := 2.0*float64(i)/float64(n) - 1.0
		kaiser[i] = besselI0(alpha*math.Sqrt(1.0-x*x)) / besselI0(alpha)
	}

	window := make([]float64, n)
	sum := 0.0
	for i := 0; i < n/2; i++ {
		sum += kaiser[i]
		window[i] = sum
	}
	total := sum
	for i := 0; i < n/2; i++ {
		window[i] = math.Sqrt(window[i] / total)
		window[n-1-i] = window[i]
	}
	return window
}

// Forward windows the input against the incoming overlap, replaces the
// overlap with the trailing half of input, and returns frameSize/2
// coefficients. Calls against the same overlap buffer must stay in
// temporal order.
func (m *mdct) Forward(input, overlap []float64) []float64 {
	n := m.frameSize
	n2 := n / 2

	// First half blends the previous frame's tail, second half is the
	// new input alone.
	windowed := make([]float64, n)
	copy(windowed, input)
	vecmath.AddBlockInPlace(windowed[:n2], overlap)
	vecmath.MulBlockInPlace(windowed, m.window)

	copy(overlap, input[n2:])

	// Pre-rotation into DCT-IV order.
	rotated := make([]float64, n)
	for i := 0; i < n; i++ {
		k := i * 2 % n
		cos := m.twidCos[i%n2]
		sin := m.twidSin[i%n2]
		rotated[i] = windowed[k]*cos + windowed[(k+1)%n]*sin
	}

	return m.dctIV(rotated)
}

// dctIV is the direct O(n^2) Type-IV DCT, half-length output,
// normalized by sqrt(2/N).
func (m *mdct) dctIV(input []float64) []float64 {
	n := len(input)
	n2 := n / 2
	output := make([]float64, n2)
	norm := math.Sqrt(2.0 / float64(n))
	for k := 0; k < n2; k++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			angle := math.Pi * (float64(i) + 0.5) * (float64(k) + 0.5) / float64(n)
			sum += input[i] * math.Cos(angle)
		}
		output[k] = sum * norm
	}
	return output
}
