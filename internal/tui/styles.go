package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	liveFg    = lipgloss.Color("#9DD3CC")
	pausedFg  = lipgloss.Color("#FA8383")

	appStyle    = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	activeStyle = lipgloss.NewStyle().Foreground(accentFg).Underline(true)
	liveStyle   = lipgloss.NewStyle().Foreground(liveFg).Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(pausedFg).Bold(true)
)

// Raster colours, as hex strings since the canvas stores per-cell colours.
const (
	hoverColor   = "#FFA500"
	overlayColor = "#E6E6E6"
)
