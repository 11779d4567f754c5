package cmd

import "github.com/charmbracelet/lipgloss"

const (
	padding  = 4
	maxWidth = 60

	aldBlue   = "#1f4e79"
	aldCyan   = "#7fd4e0"
	blueLight = "#3e6990"
	blueDark  = "#aad6e8"
)

var (
	accent = lipgloss.AdaptiveColor{Dark: blueDark, Light: blueLight}
	main   = lipgloss.AdaptiveColor{Dark: aldCyan, Light: aldBlue}

	panelStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Margin(1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent)
	panelTitleStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(main).
			Bold(true)
)
