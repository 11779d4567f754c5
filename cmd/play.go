package cmd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ebitengine/oto/v3"
	"github.com/spf13/cobra"

	"github.com/goald-codec/goald/pkg/ald"
)

var playCmd = &cobra.Command{
	Use:   "play <input-file>",
	Short: "Play an audio file",
	Long:  "Decode an audio file and play it on the default audio device.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		if !isSupportedInput(inputFile) {
			logger.Fatalf("Unsupported input format: %s", inputFile)
		}
		startPlayer(inputFile)
	},
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

// tickMsg is sent periodically to update the playback position.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type playerModel struct {
	player      *oto.Player
	filename    string
	startTime   time.Time
	totalLength time.Duration
	lastTick    time.Time
}

func startPlayer(filename string) {
	// Set up clean exit handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Print("\nUser interrupted, exiting...\n")
		os.Exit(0)
	}()

	input, err := decodeInput(filename)
	if err != nil {
		logger.Fatalf("Error decoding input: %v", err)
	}

	// oto supports mono and stereo only, so keep the first two
	// channels of anything wider.
	if input.channels > 2 {
		input.samples = dropExtraChannels(input.samples, input.channels, 2)
		input.channels = 2
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   input.sampleRate,
		ChannelCount: input.channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		logger.Fatalf("Error creating audio context: %v", err)
	}
	<-ready

	pcm := ald.Float64ToInt16(input.samples)
	pcmBytes := make([]byte, len(pcm)*2)
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(pcmBytes[i*2:], uint16(v))
	}
	player := ctx.NewPlayer(bytes.NewReader(pcmBytes))

	totalLength := time.Duration(float64(len(pcm)/input.channels) / float64(input.sampleRate) * float64(time.Second))
	fmt.Printf("\nPlaying: %s\n", filename)
	fmt.Printf("Sample Rate: %d Hz, Channels: %d\n", input.sampleRate, input.channels)
	fmt.Printf("Duration: %s\n", formatDuration(totalLength))
	fmt.Println("\nPress Ctrl+C to quit")

	player.Play()

	p := tea.NewProgram(
		playerModel{
			player:      player,
			filename:    filename,
			startTime:   time.Now(),
			totalLength: totalLength,
			lastTick:    time.Now(),
		},
		tea.WithoutRenderer(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running player: %v\n", err)
	}
}

func (m playerModel) Init() tea.Cmd {
	return tickCmd()
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if time.Since(m.lastTick) >= time.Second {
			elapsed := time.Since(m.startTime)
			if elapsed > m.totalLength {
				elapsed = m.totalLength
			}
			fmt.Printf("\rTime: %s / %s", formatDuration(elapsed), formatDuration(m.totalLength))
			m.lastTick = time.Now()
		}
		if !m.player.IsPlaying() {
			fmt.Println("\nPlayback complete")
			return m, tea.Quit
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m playerModel) View() string {
	return ""
}

// dropExtraChannels keeps the first keep channels of interleaved audio.
func dropExtraChannels(samples []float64, channels, keep int) []float64 {
	frames := len(samples) / channels
	out := make([]float64, 0, frames*keep)
	for f := 0; f < frames; f++ {
		out = append(out, samples[f*channels:f*channels+keep]...)
	}
	return out
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d - m*time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d", m, s)
}
