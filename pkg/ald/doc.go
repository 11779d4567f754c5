/*
Package ald implements a low-delay perceptual audio encoder.

The encoder converts interleaved float PCM frames into a compressed
bitstream while keeping the algorithmic delay at roughly one frame
(about 5-11 ms depending on sample rate). Each frame runs through a
lapped MDCT with a Kaiser-Bessel-Derived analysis window, an optional
temporal noise shaping filter, a psychoacoustic masking model over 24
critical bands, and an iterative rate-distortion quantizer driven by a
bit-budget feedback loop.

# Frame Format

The output is a self-contained frame format, not a standards-conformant
container. A frame starts with a short header:

	sync word            12 bits  0xFFF
	ID                    1 bit   0
	layer                 2 bits  0
	protection absent     1 bit   1
	profile               5 bits  23 (low delay)
	sample rate index     4 bits  table below
	private               1 bit   0
	channel configuration 3 bits  channel count
	original/copy         1 bit   0
	home                  1 bit   0

The sample rate index maps 96000->0, 88200->1, 64000->2, 48000->3,
44100->4, 32000->5, 24000->6, 22050->7, 16000->8, 12000->9, 11025->10,
8000->11. Rates outside this table fail at header-write time even when
the configuration accepted them.

The header is followed, per channel, by one variable-length code per
quantized coefficient:

	0 coefficient:    00                        (2 bits)
	|v| < 16:         01 + 4-bit |v| + sign     (7 bits)
	otherwise:        10 + 16-bit |v| + sign    (19 bits)

The final partial byte is zero padded.

# State and Concurrency

An Encoder carries per-channel state across calls: the MDCT overlap
buffer, the psychoacoustic magnitude/phase history, and the rate
controller's gain and bit reservoir. Frames must therefore be fed in
strict temporal order, and a single Encoder must not be used from
multiple goroutines concurrently. Independent Encoder instances share
no state and may run in parallel. SafeEncoder wraps one instance behind
a mutex for shared use; it serializes calls rather than parallelizing
them.
*/
package ald
