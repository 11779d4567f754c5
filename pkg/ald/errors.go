package ald

import "fmt"

// ConfigError reports an invalid encoder configuration. It is returned
// at construction time; an Encoder is never created from a bad Config.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid config: " + e.Reason
}

// BufferSizeError reports input of the wrong length to EncodeFrame or
// EncodeBuffer. The mismatch is detected before any pipeline stage
// runs, so encoder state is left untouched.
type BufferSizeError struct {
	Expected int
	Actual   int
}

func (e *BufferSizeError) Error() string {
	return fmt.Sprintf("buffer size mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// BitstreamError reports a bit-level packing failure: a request for
// more than 32 bits in one write, or a sample rate with no header
// index.
type BitstreamError struct {
	Reason string
}

func (e *BitstreamError) Error() string {
	return "bitstream error: " + e.Reason
}

// EncodingError wraps failures at the boundary layers (lock handling,
// I/O in callers). The core pipeline itself never produces one.
type EncodingError struct {
	Op  string
	Err error
}

func (e *EncodingError) Error() string {
	return "encoding failed: " + e.Op + ": " + e.Err.Error()
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
