package ald

import "math"

// PCM conversion and measurement helpers for callers sitting between
// file decoders and the encoder. Nothing here touches encoder state.

// InterleavedToPlanar splits interleaved samples into one slice per
// channel.
func InterleavedToPlanar(input []float64, channels int) [][]float64 {
	if channels == 0 {
		return nil
	}
	perChannel := len(input) / channels
	output := make([][]float64, channels)
	for ch := range output {
		output[ch] = make([]float64, 0, perChannel)
	}
	for i, sample := range input {
		ch := i % channels
		output[ch] = append(output[ch], sample)
	}
	return output
}

// PlanarToInterleaved merges per-channel slices back into interleaved
// order. Shorter channels are padded with silence.
func PlanarToInterleaved(input [][]float64) []float64 {
	if len(input) == 0 {
		return nil
	}
	channels := len(input)
	perChannel := len(input[0])
	output := make([]float64, 0, channels*perChannel)
	for i := 0; i < perChannel; i++ {
		for ch := 0; ch < channels; ch++ {
			if i < len(input[ch]) {
				output = append(output, input[ch][i])
			} else {
				output = append(output, 0.0)
			}
		}
	}
	return output
}

// Int16ToFloat64 converts 16-bit PCM to normalized samples.
func Int16ToFloat64(input []int16) []float64 {
	output := make([]float64, len(input))
	for i, v := range input {
		output[i] = float64(v) / 32768.0
	}
	return output
}

// Int32ToFloat64 converts PCM of the given bit depth (as decoded into
// int32, e.g. by FLAC) to normalized samples.
func Int32ToFloat64(input []int32, bitDepth int) []float64 {
	norm := float64(int64(1) << (bitDepth - 1))
	output := make([]float64, len(input))
	for i, v := range input {
		output[i] = float64(v) / norm
	}
	return output
}

// Float64ToInt16 converts normalized samples to 16-bit PCM, clamping
// out-of-range values.
func Float64ToInt16(input []float64) []int16 {
	output := make([]int16, len(input))
	for i, v := range input {
		scaled := v * 32767.0
		if scaled > 32767.0 {
			scaled = 32767.0
		}
		if scaled < -32767.0 {
			scaled = -32767.0
		}
		output[i] = int16(scaled)
	}
	return output
}

// ApplyGain scales samples in place by a decibel amount.
func ApplyGain(samples []float64, gainDB float64) {
	linear := math.Pow(10.0, gainDB/20.0)
	for i := range samples {
		samples[i] *= linear
	}
}

// RMS is the root-mean-square level of samples.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Peak is the largest absolute sample value.
func Peak(samples []float64) float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// Mix blends two buffers; ratio 0 keeps a, ratio 1 keeps b. The result
// has the length of the shorter input.
func Mix(a, b []float64, ratio float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	output := make([]float64, n)
	for i := 0; i < n; i++ {
		output[i] = a[i]*(1.0-ratio) + b[i]*ratio
	}
	return output
}

// SNR is the signal-to-noise ratio in dB between an original and a
// processed buffer of equal length. Mismatched lengths return 0;
// identical buffers return 100 (treated as perfect).
func SNR(original, processed []float64) float64 {
	if len(original) != len(processed) {
		return 0.0
	}
	signalPower := 0.0
	noisePower := 0.0
	for i := range original {
		signalPower += original[i] * original[i]
		err := original[i] - processed[i]
		noisePower += err * err
	}
	if noisePower == 0 {
		return 100.0
	}
	return 10.0 * math.Log10(signalPower/noisePower)
}
