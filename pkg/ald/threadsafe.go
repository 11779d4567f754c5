package ald

import (
	"sync"
	"time"
)

// SafeEncoder exposes one Encoder to multiple goroutines by funneling
// every call through a single mutex. This serializes encoding, it does
// not parallelize it: frames from different callers interleave in
// arrival order into the one shared pipeline state. Independent audio
// streams should use independent Encoder instances instead.
type SafeEncoder struct {
	mu  sync.Mutex
	enc *Encoder
}

// NewSafeEncoder builds a mutex-guarded encoder.
func NewSafeEncoder(cfg Config) (*SafeEncoder, error) {
	enc, err := NewEncoder(cfg)
	if err != nil {
		return nil, err
	}
	return &SafeEncoder{enc: enc}, nil
}

// EncodeFrame encodes one frame under the lock.
func (s *SafeEncoder) EncodeFrame(input []float64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.EncodeFrame(input)
}

// EncodeBuffer encodes a whole buffer under the lock.
func (s *SafeEncoder) EncodeBuffer(input []float64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.EncodeBuffer(input)
}

// Stats returns a copy of the running statistics.
func (s *SafeEncoder) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Stats()
}

// Config returns the encoder configuration.
func (s *SafeEncoder) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Config()
}

// ResetStats zeroes the running statistics.
func (s *SafeEncoder) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enc.ResetStats()
}

// DelaySamples reports the algorithmic delay in samples.
func (s *SafeEncoder) DelaySamples() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.DelaySamples()
}

// FrameDurationMs reports the frame duration in milliseconds.
func (s *SafeEncoder) FrameDurationMs() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.FrameDurationMs()
}

// BitrateKbps reports the effective bitrate.
func (s *SafeEncoder) BitrateKbps() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.BitrateKbps()
}

// RealtimeCapable reports whether the encoder fits the latency budget.
func (s *SafeEncoder) RealtimeCapable(maxLatency time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.RealtimeCapable(maxLatency)
}
