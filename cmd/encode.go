package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/goald-codec/goald/pkg/ald"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input-file> <output-file>",
	Short: "Encode an audio file to an ALD stream",
	Long:  fmt.Sprintf("Encode an audio file to a low-delay ALD stream. The supported input formats are:\n%v", strings.Join(supportedInputFormats, "\n")),
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		outputFile := args[1]

		if !isSupportedInput(inputFile) {
			logger.Fatalf("Unsupported input format: %s", inputFile)
		}
		encodeAudio(inputFile, outputFile)
	},
	DisableFlagsInUseLine: true,
}

var encodeBitrate int
var encodeQuality float64
var encodeNoTNS bool

func init() {
	encodeCmd.Flags().IntVarP(&encodeBitrate, "bitrate", "b", 128000, "Target bitrate in bits per second")
	encodeCmd.Flags().Float64VarP(&encodeQuality, "quality", "Q", 0.75, "Encoding quality between 0 and 1")
	encodeCmd.Flags().BoolVar(&encodeNoTNS, "no-tns", false, "Disable temporal noise shaping")
	rootCmd.AddCommand(encodeCmd)
}

// ==========================================
// =============== Messages =================
// ==========================================
// frameDoneMsg reports how many frames have been encoded so far.
type frameDoneMsg int

// encodeDoneMsg is sent when the worker finishes or fails.
type encodeDoneMsg struct {
	err error
}

// ==========================================
// ================ Model ===================
// ==========================================
// encodeModel shows a progress bar while frames are encoded in the
// background.
type encodeModel struct {
	inputFile   string
	totalFrames int
	doneFrames  int
	progress    progress.Model
	err         error
}

func newEncodeModel(inputFile string, totalFrames int) encodeModel {
	prog := progress.New(progress.WithGradient(blueLight, blueDark))
	prog.Width = maxWidth
	return encodeModel{
		inputFile:   inputFile,
		totalFrames: totalFrames,
		progress:    prog,
	}
}

func (m encodeModel) Init() tea.Cmd {
	return nil
}

func (m encodeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.err = fmt.Errorf("encoding canceled")
			return m, tea.Quit
		}

	case frameDoneMsg:
		m.doneFrames = int(msg)
		cmd := m.progress.SetPercent(float64(m.doneFrames) / float64(m.totalFrames))
		return m, cmd

	case encodeDoneMsg:
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m encodeModel) View() string {
	pad := strings.Repeat(" ", 2)
	return fmt.Sprintf("\nEncoding: %s (%d/%d frames)\n\n%s%s\n", m.inputFile, m.doneFrames, m.totalFrames, pad, m.progress.View())
}

// ==========================================
// ================= Main ===================
// ==========================================
func encodeAudio(inputFile, outputFile string) {
	input, err := decodeInput(inputFile)
	if err != nil {
		logger.Fatalf("Error decoding input: %v", err)
	}

	cfg, err := ald.NewConfig(input.sampleRate, input.channels, encodeBitrate)
	if err != nil {
		logger.Fatalf("Error configuring encoder: %v", err)
	}
	cfg.Quality = encodeQuality
	cfg.UseTNS = !encodeNoTNS

	encoder, err := ald.NewEncoder(cfg)
	if err != nil {
		logger.Fatalf("Error creating encoder: %v", err)
	}

	// Pad the tail with silence so every frame is full.
	samplesPerFrame := cfg.FrameSize * cfg.Channels
	if rem := len(input.samples) % samplesPerFrame; rem != 0 {
		input.samples = append(input.samples, make([]float64, samplesPerFrame-rem)...)
	}
	totalFrames := len(input.samples) / samplesPerFrame

	logger.Debug("encode",
		"frame size", cfg.FrameSize,
		"frames", totalFrames,
		"delay(samples)", encoder.DelaySamples(),
		"bitrate(bit/s)", cfg.Bitrate,
		"quality", cfg.Quality,
	)

	var encoded []byte
	if quiet {
		encoded, err = encodeFrames(encoder, input.samples, samplesPerFrame, nil)
	} else {
		encoded, err = encodeWithProgress(encoder, input.samples, samplesPerFrame, inputFile, totalFrames)
	}
	if err != nil {
		logger.Fatalf("Error encoding: %v", err)
	}

	if err := os.WriteFile(outputFile, encoded, 0644); err != nil {
		logger.Fatalf("Error writing output file: %v", err)
	}

	stats := encoder.Stats()
	duration := time.Duration(float64(totalFrames)*encoder.FrameDurationMs()) * time.Millisecond
	realtimeFactor := duration.Seconds() / stats.EncodingTime.Seconds()
	logger.Debug(outputFile,
		"size", formatSize(len(encoded)),
		"bitrate", fmt.Sprintf("%0.2f kbit/s", encoder.BitrateKbps()),
		"snr", fmt.Sprintf("%0.2f dB", stats.AvgSNR),
		"realtime factor", fmt.Sprintf("%0.1fx", realtimeFactor),
	)
	logger.Info("Encoded!", "file", outputFile)
}

// encodeFrames runs the frame loop, reporting progress through report
// when it is non-nil.
func encodeFrames(encoder *ald.Encoder, samples []float64, samplesPerFrame int, report func(frames int)) ([]byte, error) {
	var out []byte
	for i := 0; i+samplesPerFrame <= len(samples); i += samplesPerFrame {
		frameBytes, err := encoder.EncodeFrame(samples[i : i+samplesPerFrame])
		if err != nil {
			return nil, err
		}
		out = append(out, frameBytes...)
		if report != nil {
			report(i/samplesPerFrame + 1)
		}
	}
	return out, nil
}

// encodeWithProgress wraps encodeFrames in a bubbletea progress bar,
// running the encoder in a worker goroutine.
func encodeWithProgress(encoder *ald.Encoder, samples []float64, samplesPerFrame int, inputFile string, totalFrames int) ([]byte, error) {
	p := tea.NewProgram(newEncodeModel(inputFile, totalFrames))

	var encoded []byte
	var encodeErr error
	go func() {
		encoded, encodeErr = encodeFrames(encoder, samples, samplesPerFrame, func(frames int) {
			p.Send(frameDoneMsg(frames))
		})
		p.Send(encodeDoneMsg{err: encodeErr})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := finalModel.(encodeModel); ok && m.err != nil {
		return nil, m.err
	}
	return encoded, encodeErr
}
