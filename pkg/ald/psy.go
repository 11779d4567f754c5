package ald

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Spreading slopes in dB per Bark. Masking spreads more steeply toward
// higher frequencies than toward lower ones.
const (
	spreadUpDB   = -25.0
	spreadDownDB = -15.0
)

// toneMaskRatio scales the tone-to-noise adjustment: a fully tonal band
// masks 1+14.5 times less energy than a noise-like one.
const toneMaskRatio = 14.5

type barkBand struct {
	startBin   int
	endBin     int
	centerFreq float64
}

// psychoModel estimates per-bin masking thresholds over 24 critical
// bands. The band table and spreading matrix are fixed at construction;
// the previous frame's magnitude and phase are carried as tonality
// history, so one model instance belongs to exactly one channel.
type psychoModel struct {
	sampleRate int
	frameSize  int
	bands      []barkBand
	spreading  [][]float64

	prevMagnitude []float64
	prevPhase     []float64
}

func newPsychoModel(sampleRate, frameSize int) *psychoModel {
	bands := makeBarkBands(sampleRate, frameSize)
	return &psychoModel{
		sampleRate:    sampleRate,
		frameSize:     frameSize,
		bands:         bands,
		spreading:     makeSpreading(bands),
		prevMagnitude: make([]float64, frameSize/2),
		prevPhase:     make([]float64, frameSize/2),
	}
}

// makeBarkBands lays out up to 24 critical bands on the Bark scale
// (freq = 600*sinh(bark/7)), stopping at Nyquist.
func makeBarkBands(sampleRate, frameSize int) []barkBand {
	var bands []barkBand
	nyquist := float64(sampleRate) / 2.0
	binFreq := nyquist / float64(frameSize/2)

	for i := 0; i < 24; i++ {
		freq := 600.0 * math.Sinh(float64(i)/7.0)
		if freq > nyquist {
			break
		}

		startBin := int(math.Round(freq / binFreq))
		nextFreq := nyquist
		if i < 23 {
			nextFreq = 600.0 * math.Sinh(float64(i+1)/7.0)
		}
		endBin := int(math.Round(nextFreq / binFreq))
		if endBin > frameSize/2 {
			endBin = frameSize / 2
		}

		if startBin < endBin {
			bands = append(bands, barkBand{startBin: startBin, endBin: endBin, centerFreq: freq})
		}
	}
	return bands
}

// makeSpreading builds the band-by-band masking matrix. Entry [j][i] is
// the linear power gain from masker band j into masked band i.
func makeSpreading(bands []barkBand) [][]float64 {
	spreading := make([][]float64, len(bands))
	for i := range bands {
		spreading[i] = make([]float64, len(bands))
		for j := range bands {
			barkDiff := math.Asinh(bands[j].centerFreq/600.0) - math.Asinh(bands[i].centerFreq/600.0)
			var spreadDB float64
			if barkDiff >= 0 {
				spreadDB = spreadUpDB * barkDiff
			} else {
				spreadDB = -spreadDownDB * barkDiff
			}
			spreading[i][j] = math.Pow(10.0, spreadDB/10.0)
		}
	}
	return spreading
}

// Analyze returns per-bin masking thresholds for the given spectrum.
// The magnitude/phase history is overwritten each call; the first call
// runs against all-zero history. Every returned threshold is strictly
// positive and finite.
func (p *psychoModel) Analyze(spectrumReal, spectrumImag []float64) []float64 {
	n := len(spectrumReal)
	magnitude := make([]float64, n)
	power := make([]float64, n)
	vecmath.Magnitude(magnitude, spectrumReal, spectrumImag)
	vecmath.Power(power, spectrumReal, spectrumImag)

	phase := make([]float64, n)
	for i := 0; i < n; i++ {
		phase[i] = math.Atan2(spectrumImag[i], spectrumReal[i])
	}

	tonality := p.tonality(magnitude, phase)
	thresholds := p.maskingThresholds(power, tonality)
	p.applyAbsoluteThreshold(thresholds)

	p.prevMagnitude = magnitude
	p.prevPhase = phase
	return thresholds
}

// tonality estimates, per bin, how tone-like the signal is (1 tonal,
// 0 noise-like) from a second-order linear prediction of magnitude and
// phase against the previous frame.
func (p *psychoModel) tonality(magnitude, phase []float64) []float64 {
	tonality := make([]float64, len(magnitude))
	for i := 1; i < len(magnitude)-1; i++ {
		magPredict := 2.0*p.prevMagnitude[i] - p.prevMagnitude[i-1]
		magErr := math.Abs(magnitude[i] - magPredict)

		phasePredict := 2.0*p.prevPhase[i] - p.prevPhase[i-1]
		phaseErr := math.Abs(phase[i] - phasePredict)
		for phaseErr > math.Pi {
			phaseErr -= 2.0 * math.Pi
		}
		for phaseErr < -math.Pi {
			phaseErr += 2.0 * math.Pi
		}

		err := magErr/(magnitude[i]+1e-10) + math.Abs(phaseErr)/math.Pi
		t := 1.0 - math.Min(err, 1.0)
		if t < 0 {
			t = 0
		}
		tonality[i] = t
	}
	return tonality
}

// maskingThresholds aggregates energy and tonality per band, spreads
// the energy across bands, and broadcasts the resulting threshold to
// every bin of each band.
func (p *psychoModel) maskingThresholds(power, tonality []float64) []float64 {
	bandEnergy := make([]float64, len(p.bands))
	bandTonality := make([]float64, len(p.bands))
	for i, band := range p.bands {
		energy := 0.0
		tone := 0.0
		count := 0
		end := band.endBin
		if end > len(power) {
			end = len(power)
		}
		for bin := band.startBin; bin < end; bin++ {
			energy += power[bin]
			tone += tonality[bin]
			count++
		}
		bandEnergy[i] = energy
		if count > 0 {
			bandTonality[i] = tone / float64(count)
		}
	}

	thresholds := make([]float64, len(power))
	for i, band := range p.bands {
		maskedEnergy := 0.0
		for j, energy := range bandEnergy {
			maskedEnergy += energy * p.spreading[j][i]
		}

		toneFactor := 1.0 + toneMaskRatio*bandTonality[i]
		threshold := math.Sqrt(maskedEnergy / toneFactor) // power to magnitude

		end := band.endBin
		if end > len(thresholds) {
			end = len(thresholds)
		}
		for bin := band.startBin; bin < end; bin++ {
			thresholds[bin] = threshold
		}
	}
	return thresholds
}

// applyAbsoluteThreshold floors every threshold with the absolute
// threshold of hearing. The bin frequency is floored at one bin width
// so the DC bin stays finite.
func (p *psychoModel) applyAbsoluteThreshold(thresholds []float64) {
	binFreq := (float64(p.sampleRate) / 2.0) / float64(len(thresholds))
	for i := range thresholds {
		freq := float64(i) * binFreq
		if freq < binFreq {
			freq = binFreq
		}

		khz := freq / 1000.0
		var db float64
		if freq < 1000.0 {
			db = 3.64*math.Pow(khz, -0.8) - 6.5*math.Exp(-0.6*(khz-3.3)*(khz-3.3))
		} else {
			db = -3.0 + 0.6*math.Log(khz)
		}

		linear := math.Pow(10.0, db/20.0) * 0.001 // reference level
		if thresholds[i] < linear {
			thresholds[i] = linear
		}
	}
}
