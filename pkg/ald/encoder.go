package ald

import (
	"math"
	"time"

	"github.com/cwbudde/algo-vecmath"
)

// encoderDelay is the fixed lookahead the pipeline adds on top of the
// MDCT's half-frame delay.
const encoderDelay = 64

// Stats accumulates per-encoder counters. AvgSNR is an exponentially
// blended average of the per-frame channel-0 SNR in dB.
type Stats struct {
	FramesEncoded uint64
	TotalBits     uint64
	AvgSNR        float64
	EncodingTime  time.Duration
}

// channelState bundles everything that must not be shared between
// channels: the lapped-transform overlap, the tonality history inside
// the psychoacoustic model, and the quantizer's gain and reservoir.
type channelState struct {
	overlap []float64
	psy     *psychoModel
	quant   *quantizer
	tns     *tns
}

// Encoder is the per-stream orchestrator. It is not safe for
// concurrent use; see SafeEncoder.
type Encoder struct {
	cfg      Config
	mdct     *mdct
	channels []*channelState
	stats    Stats

	// scratch buffers reused across frames
	channelData []float64
	zeroImag    []float64
}

// NewEncoder validates cfg and builds an encoder with independent
// per-channel pipeline state.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	channels := make([]*channelState, cfg.Channels)
	for ch := range channels {
		channels[ch] = &channelState{
			overlap: make([]float64, cfg.FrameSize/2),
			psy:     newPsychoModel(cfg.SampleRate, cfg.FrameSize),
			quant:   newQuantizer(cfg.FrameSize/2, cfg.Bitrate/cfg.Channels, cfg.SampleRate, cfg.FrameSize),
			tns:     newTNS(),
		}
	}

	return &Encoder{
		cfg:         cfg,
		mdct:        newMDCT(cfg.FrameSize),
		channels:    channels,
		channelData: make([]float64, cfg.FrameSize),
		zeroImag:    make([]float64, cfg.FrameSize/2),
	}, nil
}

// EncodeFrame encodes exactly one frame of interleaved samples
// (FrameSize*Channels values) and returns the packed bytes. A length
// mismatch fails before any stage runs, leaving all state untouched.
func (e *Encoder) EncodeFrame(input []float64) ([]byte, error) {
	start := time.Now()

	expected := e.cfg.FrameSize * e.cfg.Channels
	if len(input) != expected {
		return nil, &BufferSizeError{Expected: expected, Actual: len(input)}
	}

	w := newBitWriter()
	if err := writeFrameHeader(w, e.cfg); err != nil {
		return nil, err
	}

	var refCoeffs []float64
	var refQuantized []int16
	var refQuant *quantizer

	for ch, state := range e.channels {
		for i := 0; i < e.cfg.FrameSize; i++ {
			e.channelData[i] = input[i*e.cfg.Channels+ch]
		}

		coeffs := e.mdct.Forward(e.channelData, state.overlap)

		if e.cfg.UseTNS {
			state.tns.Apply(coeffs)
		}

		// The real coefficients stand in as a pseudo-spectrum with a
		// zero imaginary part.
		thresholds := state.psy.Analyze(coeffs, e.zeroImag)

		quantized := state.quant.Quantize(coeffs, thresholds, e.cfg.Quality)

		if err := writeCoefficients(w, quantized); err != nil {
			return nil, err
		}

		if ch == 0 {
			refCoeffs = coeffs
			refQuantized = quantized
			refQuant = state.quant
		}
	}

	encoded := w.Finish()
	e.updateStats(encoded, refCoeffs, refQuantized, refQuant, time.Since(start))
	return encoded, nil
}

// EncodeBuffer splits input into frames and concatenates the encoded
// frames. The input length must be an exact multiple of
// FrameSize*Channels.
func (e *Encoder) EncodeBuffer(input []float64) ([]byte, error) {
	frameTotal := e.cfg.FrameSize * e.cfg.Channels
	if len(input)%frameTotal != 0 {
		return nil, &BufferSizeError{Expected: len(input) - len(input)%frameTotal, Actual: len(input)}
	}

	var output []byte
	for off := 0; off < len(input); off += frameTotal {
		frame, err := e.EncodeFrame(input[off : off+frameTotal])
		if err != nil {
			return nil, err
		}
		output = append(output, frame...)
	}
	return output, nil
}

// updateStats folds one frame into the running counters. The SNR
// compares channel-0 coefficients against their dequantized
// reconstruction.
func (e *Encoder) updateStats(encoded []byte, coeffs []float64, quantized []int16, q *quantizer, elapsed time.Duration) {
	e.stats.FramesEncoded++
	e.stats.TotalBits += uint64(len(encoded)) * 8
	e.stats.EncodingTime += elapsed

	signalPower := 0.0
	noisePower := 0.0
	power := make([]float64, len(coeffs))
	vecmath.Power(power, coeffs, e.zeroImag)
	for i := range coeffs {
		signalPower += power[i]
		err := coeffs[i] - q.Reconstruct(i, quantized[i])
		noisePower += err * err
	}

	snr := 100.0 // perfect reconstruction
	if noisePower > 0 {
		snr = 10.0 * math.Log10(signalPower/noisePower)
	}

	if e.stats.FramesEncoded == 1 {
		e.stats.AvgSNR = snr
	} else {
		e.stats.AvgSNR = 0.9*e.stats.AvgSNR + 0.1*snr
	}
}

// Config returns the encoder's configuration.
func (e *Encoder) Config() Config {
	return e.cfg
}

// Stats returns a copy of the running statistics.
func (e *Encoder) Stats() Stats {
	return e.stats
}

// ResetStats zeroes the running statistics.
func (e *Encoder) ResetStats() {
	e.stats = Stats{}
}

// DelaySamples is the algorithmic delay: half a frame of MDCT overlap
// plus the fixed encoder lookahead.
func (e *Encoder) DelaySamples() int {
	return e.cfg.FrameSize/2 + encoderDelay
}

// FrameDurationMs is the duration of one frame in milliseconds.
func (e *Encoder) FrameDurationMs() float64 {
	return float64(e.cfg.FrameSize) * 1000.0 / float64(e.cfg.SampleRate)
}

// BitrateKbps is the effective bitrate derived from the rate
// controllers' running bit averages (plus the shared header). Before
// the first frame it reports the configured target.
func (e *Encoder) BitrateKbps() float64 {
	if e.stats.FramesEncoded == 0 {
		return float64(e.cfg.Bitrate) / 1000.0
	}
	bitsPerFrame := float64(frameHeaderBits)
	for _, state := range e.channels {
		bitsPerFrame += state.quant.AvgBits()
	}
	framesPerSecond := float64(e.cfg.SampleRate) / float64(e.cfg.FrameSize)
	return bitsPerFrame * framesPerSecond / 1000.0
}

// RealtimeCapable reports whether half the frame duration fits within
// the caller's latency budget.
func (e *Encoder) RealtimeCapable(maxLatency time.Duration) bool {
	delay := time.Duration(e.FrameDurationMs() / 2.0 * float64(time.Millisecond))
	return delay <= maxLatency
}

// RecommendedBufferSize is a buffer of four frames, a reasonable
// latency/throughput balance for streaming callers.
func (e *Encoder) RecommendedBufferSize() int {
	return e.cfg.FrameSize * e.cfg.Channels * 4
}

// EstimatedMemoryKB is a rough per-instance memory estimate.
func (e *Encoder) EstimatedMemoryKB() int {
	frameSize := e.cfg.FrameSize
	spectrumSize := frameSize / 2

	mdctMemory := frameSize * 8
	psyMemory := spectrumSize * 16
	quantizerMemory := spectrumSize * 2
	overlapMemory := frameSize / 2 * 8

	return e.cfg.Channels * (mdctMemory + psyMemory + quantizerMemory + overlapMemory) / 1024
}
