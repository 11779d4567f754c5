package ald

import (
	"math"
	"math/rand"
)

// Test-signal generators for exercising the encoder without file
// input.

// Sine returns n samples of a sine at the given frequency and 0.5
// amplitude.
func Sine(frequency float64, sampleRate, n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		t := float64(i) / float64(sampleRate)
		signal[i] = math.Sin(2.0*math.Pi*frequency*t) * 0.5
	}
	return signal
}

// MultiTone sums sines at the given frequencies and amplitudes. The two
// slices must have equal length.
func MultiTone(frequencies, amplitudes []float64, sampleRate, n int) []float64 {
	if len(frequencies) != len(amplitudes) {
		panic("ald: MultiTone frequency/amplitude length mismatch")
	}
	signal := make([]float64, n)
	for t := range signal {
		sec := float64(t) / float64(sampleRate)
		for i, freq := range frequencies {
			signal[t] += math.Sin(2.0*math.Pi*freq*sec) * amplitudes[i]
		}
	}
	return signal
}

// WhiteNoise returns n uniform noise samples in [-amplitude, amplitude]
// from a deterministic seed.
func WhiteNoise(n int, amplitude float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = (rng.Float64()*2.0 - 1.0) * amplitude
	}
	return signal
}
