package ald

import "fmt"

// maxWriteBits is the widest single write the packer accepts.
const maxWriteBits = 32

// frameHeaderBits is the size of the shared frame header.
const frameHeaderBits = 31

// bitWriter packs values MSB first into a growing byte buffer. It is
// single use: Finish flushes the partial byte and the writer must not
// be written to afterwards.
type bitWriter struct {
	buf      []byte
	current  byte
	bitPos   int
	finished bool
}

func newBitWriter() *bitWriter {
	return &bitWriter{}
}

// WriteBits appends the numBits least significant bits of value, most
// significant bit first. numBits above 32 is an error.
func (w *bitWriter) WriteBits(value uint32, numBits int) error {
	if numBits > maxWriteBits {
		return &BitstreamError{Reason: fmt.Sprintf("cannot write %d bits at once (max %d)", numBits, maxWriteBits)}
	}
	if w.finished {
		return &BitstreamError{Reason: "write after finish"}
	}

	remaining := numBits
	for remaining > 0 {
		n := remaining
		if free := 8 - w.bitPos; n > free {
			n = free
		}
		bits := (value >> (remaining - n)) & ((1 << n) - 1)

		w.current |= byte(bits) << (8 - w.bitPos - n)
		w.bitPos += n
		if w.bitPos == 8 {
			w.buf = append(w.buf, w.current)
			w.current = 0
			w.bitPos = 0
		}

		remaining -= n
		if remaining > 0 {
			value &= (1 << remaining) - 1
		}
	}
	return nil
}

// BitCount reports the number of bits written so far.
func (w *bitWriter) BitCount() int {
	return len(w.buf)*8 + w.bitPos
}

// Finish zero-pads the partial byte and returns the buffer, consuming
// the writer.
func (w *bitWriter) Finish() []byte {
	if w.bitPos > 0 {
		w.buf = append(w.buf, w.current)
		w.current = 0
		w.bitPos = 0
	}
	w.finished = true
	return w.buf
}

// sampleRateIndex returns the 4-bit header index for the given rate.
// The table is fixed; rates the configuration accepted but that have no
// index (for example 20000 Hz) fail here.
func sampleRateIndex(sampleRate int) (uint32, error) {
	switch sampleRate {
	case 96000:
		return 0, nil
	case 88200:
		return 1, nil
	case 64000:
		return 2, nil
	case 48000:
		return 3, nil
	case 44100:
		return 4, nil
	case 32000:
		return 5, nil
	case 24000:
		return 6, nil
	case 22050:
		return 7, nil
	case 16000:
		return 8, nil
	case 12000:
		return 9, nil
	case 11025:
		return 10, nil
	case 8000:
		return 11, nil
	default:
		return 0, &BitstreamError{Reason: fmt.Sprintf("sample rate %d has no header index", sampleRate)}
	}
}

// writeFrameHeader packs the shared frame header.
func writeFrameHeader(w *bitWriter, cfg Config) error {
	srIndex, err := sampleRateIndex(cfg.SampleRate)
	if err != nil {
		return err
	}

	if err := w.WriteBits(0xFFF, 12); err != nil { // sync word
		return err
	}
	if err := w.WriteBits(0, 1); err != nil { // ID
		return err
	}
	if err := w.WriteBits(0, 2); err != nil { // layer
		return err
	}
	if err := w.WriteBits(1, 1); err != nil { // protection absent
		return err
	}
	if err := w.WriteBits(23, 5); err != nil { // profile: low delay
		return err
	}
	if err := w.WriteBits(srIndex, 4); err != nil {
		return err
	}
	if err := w.WriteBits(0, 1); err != nil { // private
		return err
	}
	if err := w.WriteBits(uint32(cfg.Channels), 3); err != nil {
		return err
	}
	if err := w.WriteBits(0, 1); err != nil { // original/copy
		return err
	}
	return w.WriteBits(0, 1) // home
}

// writeCoefficients packs one channel's quantized coefficients with the
// three-way variable-length code described in the package comment.
func writeCoefficients(w *bitWriter, coeffs []int16) error {
	for _, c := range coeffs {
		if c == 0 {
			if err := w.WriteBits(0, 2); err != nil {
				return err
			}
			continue
		}

		abs := uint32(c)
		sign := uint32(0)
		if c < 0 {
			abs = uint32(-int32(c))
			sign = 1
		}
		if abs < 16 {
			if err := w.WriteBits(1, 2); err != nil {
				return err
			}
			if err := w.WriteBits(abs, 4); err != nil {
				return err
			}
			if err := w.WriteBits(sign, 1); err != nil {
				return err
			}
		} else {
			if err := w.WriteBits(2, 2); err != nil {
				return err
			}
			if err := w.WriteBits(abs, 16); err != nil {
				return err
			}
			if err := w.WriteBits(sign, 1); err != nil {
				return err
			}
		}
	}
	return nil
}
