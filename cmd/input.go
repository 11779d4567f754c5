package cmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/braheezy/qoa"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/goald-codec/goald/pkg/ald"
)

var supportedInputFormats = []string{".wav", ".flac", ".ogg", ".mp3", ".qoa"}

// inputAudio is a fully decoded input file: normalized interleaved
// samples plus stream parameters.
type inputAudio struct {
	samples    []float64
	sampleRate int
	channels   int
}

func isSupportedInput(path string) bool {
	ext := filepath.Ext(path)
	for _, s := range supportedInputFormats {
		if s == ext {
			return true
		}
	}
	return false
}

// decodeInput loads and decodes an audio file into normalized float
// PCM, dispatching on the file extension.
func decodeInput(path string) (*inputAudio, error) {
	inputData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading audio file: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".wav":
		logger.Info("Input format is WAV")
		return decodeWAV(inputData)
	case ".flac":
		logger.Info("Input format is FLAC")
		return decodeFLAC(path, len(inputData))
	case ".ogg":
		logger.Info("Input format is OGG")
		return decodeOGG(inputData)
	case ".mp3":
		logger.Info("Input format is MP3")
		return decodeMP3(inputData)
	case ".qoa":
		logger.Info("Input format is QOA")
		return decodeQOA(inputData)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", ext)
	}
}

func decodeWAV(inputData []byte) (*inputAudio, error) {
	wavDecoder := wav.NewDecoder(bytes.NewReader(inputData))
	if err := wavDecoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV header: %w", err)
	}

	bitDepth := int(wavDecoder.BitDepth)
	if bitDepth < 16 {
		return nil, fmt.Errorf("bit depth too low (%v < 16)", bitDepth)
	}
	norm := float64(int64(1) << (bitDepth - 1))

	var samples []float64
	pcmBuffer := &audio.IntBuffer{Data: make([]int, 4096), Format: wavDecoder.Format()}
	for {
		n, err := wavDecoder.PCMBuffer(pcmBuffer)
		if err != nil {
			return nil, fmt.Errorf("decoding WAV data: %w", err)
		}
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			samples = append(samples, float64(pcmBuffer.Data[i])/norm)
		}
	}

	format := wavDecoder.Format()
	logger.Debug("wav",
		"channels", format.NumChannels,
		"samplerate(hz)", format.SampleRate,
		"samples/channel", len(samples)/format.NumChannels,
		"bit depth", bitDepth,
		"size", formatSize(len(inputData)),
	)
	return &inputAudio{
		samples:    samples,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
	}, nil
}

func decodeFLAC(path string, inputSize int) (*inputAudio, error) {
	flacStream, err := flac.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening FLAC file: %w", err)
	}
	defer flacStream.Close()

	var raw []int32
	for {
		flacFrame, err := flacStream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("parsing FLAC frame: %w", err)
		}
		for i := 0; i < flacFrame.Subframes[0].NSamples; i++ {
			for _, subframe := range flacFrame.Subframes {
				raw = append(raw, subframe.Samples[i])
			}
		}
	}
	samples := ald.Int32ToFloat64(raw, int(flacStream.Info.BitsPerSample))

	info := flacStream.Info
	logger.Debug("flac",
		"channels", info.NChannels,
		"samplerate(hz)", info.SampleRate,
		"samples/channel", len(samples)/int(info.NChannels),
		"bit depth", info.BitsPerSample,
		"size", formatSize(inputSize),
	)
	return &inputAudio{
		samples:    samples,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
	}, nil
}

func decodeOGG(inputData []byte) (*inputAudio, error) {
	oggData, format, err := oggvorbis.ReadAll(bytes.NewReader(inputData))
	if err != nil {
		return nil, fmt.Errorf("decoding OGG data: %w", err)
	}

	samples := make([]float64, len(oggData))
	for i, v := range oggData {
		samples[i] = float64(v)
	}

	logger.Debug("ogg",
		"channels", format.Channels,
		"samplerate(hz)", format.SampleRate,
		"samples/channel", len(samples)/format.Channels,
		"size", formatSize(len(inputData)),
	)
	return &inputAudio{
		samples:    samples,
		sampleRate: format.SampleRate,
		channels:   format.Channels,
	}, nil
}

func decodeMP3(inputData []byte) (*inputAudio, error) {
	stream, err := mp3.DecodeWithoutResampling(bytes.NewReader(inputData))
	if err != nil {
		return nil, fmt.Errorf("decoding MP3 data: %w", err)
	}

	// The decoder emits 16-bit little-endian stereo.
	const channels = 2
	var pcmBytes []byte
	buf := make([]byte, 4096)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			pcmBytes = append(pcmBytes, buf[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading MP3 stream: %w", err)
		}
	}

	samples := make([]float64, len(pcmBytes)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcmBytes[i*2 : i*2+2]))
		samples[i] = float64(v) / 32768.0
	}

	logger.Debug("mp3",
		"channels", channels,
		"samplerate(hz)", stream.SampleRate(),
		"samples/channel", len(samples)/channels,
		"size", formatSize(len(inputData)),
	)
	return &inputAudio{
		samples:    samples,
		sampleRate: stream.SampleRate(),
		channels:   channels,
	}, nil
}

func decodeQOA(inputData []byte) (*inputAudio, error) {
	q, decodedData, err := qoa.Decode(inputData)
	if err != nil {
		return nil, fmt.Errorf("decoding QOA data: %w", err)
	}

	samples := make([]float64, len(decodedData))
	for i, v := range decodedData {
		samples[i] = float64(v) / 32768.0
	}

	logger.Debug("qoa",
		"channels", q.Channels,
		"samplerate(hz)", q.SampleRate,
		"samples/channel", q.Samples,
		"size", formatSize(len(inputData)),
	)
	return &inputAudio{
		samples:    samples,
		sampleRate: int(q.SampleRate),
		channels:   int(q.Channels),
	}, nil
}

// formatSize converts the inputSize to a human readable format
func formatSize(inputSize int) string {
	const unit = 1024
	if inputSize < unit {
		return fmt.Sprintf("%d B", inputSize)
	}
	div, exp := int64(unit), 0
	for n := inputSize / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(inputSize)/float64(div), "KMGTPE"[exp])
}
