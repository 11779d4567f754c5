package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goald-codec/goald/pkg/ald"
)

var infoCmd = &cobra.Command{
	Use:   "info <input-file>",
	Short: "Show stream parameters and encoder metrics for an audio file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inputFile := args[0]
		if !isSupportedInput(inputFile) {
			logger.Fatalf("Unsupported input format: %s", inputFile)
		}
		showInfo(inputFile)
	},
	DisableFlagsInUseLine: true,
}

var infoBitrate int

func init() {
	infoCmd.Flags().IntVarP(&infoBitrate, "bitrate", "b", 128000, "Target bitrate in bits per second")
	rootCmd.AddCommand(infoCmd)
}

func showInfo(inputFile string) {
	input, err := decodeInput(inputFile)
	if err != nil {
		logger.Fatalf("Error decoding input: %v", err)
	}

	cfg, err := ald.NewConfig(input.sampleRate, input.channels, infoBitrate)
	if err != nil {
		logger.Fatalf("Error configuring encoder: %v", err)
	}
	encoder, err := ald.NewEncoder(cfg)
	if err != nil {
		logger.Fatalf("Error creating encoder: %v", err)
	}

	numSamples := len(input.samples) / input.channels
	duration := time.Duration(float64(numSamples) / float64(input.sampleRate) * float64(time.Second))
	delayMs := float64(encoder.DelaySamples()) / float64(input.sampleRate) * 1000.0

	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render(inputFile) + "\n\n")
	sb.WriteString(fmt.Sprintf("%-22s %d Hz\n", "Sample rate", input.sampleRate))
	sb.WriteString(fmt.Sprintf("%-22s %d\n", "Channels", input.channels))
	sb.WriteString(fmt.Sprintf("%-22s %d\n", "Samples/channel", numSamples))
	sb.WriteString(fmt.Sprintf("%-22s %v\n", "Duration", duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("%-22s %0.4f\n", "RMS", ald.RMS(input.samples)))
	sb.WriteString(fmt.Sprintf("%-22s %0.4f\n\n", "Peak", ald.Peak(input.samples)))

	sb.WriteString(fmt.Sprintf("%-22s %d samples\n", "Frame size", cfg.FrameSize))
	sb.WriteString(fmt.Sprintf("%-22s %0.2f ms\n", "Frame duration", encoder.FrameDurationMs()))
	sb.WriteString(fmt.Sprintf("%-22s %d samples (%0.2f ms)\n", "Codec delay", encoder.DelaySamples(), delayMs))
	sb.WriteString(fmt.Sprintf("%-22s %v\n", "Realtime (20ms budget)", encoder.RealtimeCapable(20*time.Millisecond)))
	sb.WriteString(fmt.Sprintf("%-22s %s\n", "Buffer size", formatSize(encoder.RecommendedBufferSize())))
	sb.WriteString(fmt.Sprintf("%-22s %d KB", "Encoder memory", encoder.EstimatedMemoryKB()))

	fmt.Println(panelStyle.Render(sb.String()))
}
