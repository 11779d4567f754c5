package ald

import "math"

// Rate-distortion loop bounds.
const (
	maxRDIterations = 10
	// Convergence is declared when the estimated frame bits land
	// within 1/20 (5%) of the target.
	rdToleranceDiv = 20
)

// rateController carries the feedback state of the quantizer across
// frames: the bit target derived once from the bitrate, an exponential
// average of produced bits, and a bounded bit reservoir.
type rateController struct {
	targetBits int
	avgBits    float64
	reservoir  int
}

func (rc *rateController) update(totalBits int) {
	rc.avgBits = 0.9*rc.avgBits + 0.1*float64(totalBits)
	rc.reservoir += rc.targetBits - totalBits
	if rc.reservoir > 1000 {
		rc.reservoir = 1000
	}
	if rc.reservoir < -1000 {
		rc.reservoir = -1000
	}
}

// quantizer maps spectral coefficients to 16-bit integers under a bit
// budget. The global gain persists across frames, so convergence left
// over from one frame speeds up the next; one quantizer instance
// belongs to exactly one channel.
type quantizer struct {
	scaleFactors []uint8
	globalGain   int
	rate         rateController

	// scales holds the effective per-bin scale of the most recent
	// Quantize call, for reconstruction (SNR measurement).
	scales []float64
}

func newQuantizer(bands, bitrate, sampleRate, frameSize int) *quantizer {
	targetBits := bitrate * frameSize / sampleRate
	return &quantizer{
		scaleFactors: make([]uint8, bands),
		globalGain:   100,
		rate: rateController{
			targetBits: targetBits,
			avgBits:    float64(targetBits),
		},
	}
}

// baseGain converts the global gain to a linear scale. It is a
// decreasing function of the gain so that the +2 (over budget) and -1
// (under budget) steps push the produced bits toward the target.
func baseGain(globalGain int) float64 {
	return math.Pow(2.0, float64(100-globalGain)/4.0)
}

// scaleFor is the effective quantization scale for one bin.
func (q *quantizer) scaleFor(bin int, threshold, quality float64) float64 {
	idx := bin
	if idx > len(q.scaleFactors)-1 {
		idx = len(q.scaleFactors) - 1
	}
	sfScale := math.Pow(2.0, float64(q.scaleFactors[idx])/4.0)
	qualityFactor := 0.5 + quality*1.5 // 0.5 to 2.0
	return baseGain(q.globalGain) * sfScale * qualityFactor / (threshold + 1e-10)
}

// estimateBits is the fixed per-value bit cost heuristic used by the
// rate loop: 2 bits for zero, 4 plus a sign bit for small magnitudes,
// escape-coded cost for the rest.
func estimateBits(v int16) int {
	abs := int(v)
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs == 0:
		return 2
	case abs < 16:
		if v < 0 {
			return 5
		}
		return 4
	default:
		return 8 + 2*int(math.Log2(float64(abs)))
	}
}

// Quantize runs the bounded rate-distortion loop and returns one
// quantized value per coefficient. It always returns a result, possibly
// not fully converged at the iteration cap.
func (q *quantizer) Quantize(coeffs, thresholds []float64, quality float64) []int16 {
	quantized := make([]int16, len(coeffs))
	if cap(q.scales) < len(coeffs) {
		q.scales = make([]float64, len(coeffs))
	}
	q.scales = q.scales[:len(coeffs)]

	for iteration := 0; ; iteration++ {
		totalBits := 0
		for i, coeff := range coeffs {
			scale := q.scaleFor(i, thresholds[i], quality)
			q.scales[i] = scale

			v := math.Round(coeff * scale)
			if v > 32767 {
				v = 32767
			}
			if v < -32767 {
				v = -32767
			}
			quantized[i] = int16(v)
			totalBits += estimateBits(quantized[i])
		}

		bitError := totalBits - q.rate.targetBits
		if abs(bitError) < q.rate.targetBits/rdToleranceDiv || iteration >= maxRDIterations {
			q.rate.update(totalBits)
			return quantized
		}

		// Back off fast when over budget, creep up when under. The
		// asymmetry shapes how bits distribute across frames.
		if bitError > 0 {
			q.globalGain += 2
			if q.globalGain > 255 {
				q.globalGain = 255
			}
		} else {
			q.globalGain--
			if q.globalGain < 0 {
				q.globalGain = 0
			}
		}
	}
}

// Reconstruct returns the dequantized value of bin i from the most
// recent Quantize call.
func (q *quantizer) Reconstruct(i int, v int16) float64 {
	if q.scales[i] == 0 {
		return 0
	}
	return float64(v) / q.scales[i]
}

// AvgBits is the running exponential average of bits per frame.
func (q *quantizer) AvgBits() float64 {
	return q.rate.avgBits
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
