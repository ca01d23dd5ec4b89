package ui

import "github.com/charmbracelet/lipgloss"

const (
	version        = "0.1.0"
	maxHistorySize = 240
	gbDivisor      = 1 << 30
)

const (
	colorBg        = "#1a1b26"
	colorText      = "#c0caf5"
	colorDim       = "#565f89"
	colorMuted     = "#414868"
	colorItalic    = "#9aa5ce"
	colorFocused   = "#7aa2f7"
	colorUnfocused = "#3b4261"
	colorGreen     = "#9ece6a"
	colorYellow    = "#e0af68"
	colorOrange    = "#ff9e64"
	colorRed       = "#f7768e"
)

var (
	cpuColor    = lipgloss.Color("#7dcfff")
	ramColor    = lipgloss.Color(colorGreen)
	gpuColor    = lipgloss.Color(colorOrange)
	gpuRAMColor = lipgloss.Color("#bb9af7")
)

var popupStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color(colorFocused)).
	Foreground(lipgloss.Color(colorText)).
	Background(lipgloss.Color(colorBg)).
	Padding(1, 2)

var statusBarStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color(colorText)).
	Background(lipgloss.Color(colorBg)).
	Padding(0, 1)

func borderStyle(width, height int, focused bool) lipgloss.Style {
	color := colorFocused
	if !focused {
		color = colorUnfocused
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Background(lipgloss.Color(colorBg)).
		Padding(0, 1).
		Width(width).
		Height(height)
}

func styleColor(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func getPercentColor(percent float64) string {
	switch {
	case percent >= 90:
		return colorRed
	case percent >= 70:
		return colorOrange
	case percent >= 40:
		return colorYellow
	}
	return colorGreen
}

func ensureMin(width, height, minWidth, minHeight int) (int, int) {
	return max(width, minWidth), max(height, minHeight)
}
