package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorModified   lipgloss.TerminalColor = ac("166", "214")
	colorError      lipgloss.TerminalColor = ac("160", "203")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle   = lipgloss.NewStyle().Bold(true)
	countStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	keyStyle      = lipgloss.NewStyle()
	valueStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	descStyle     = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	badgeStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	modifiedStyle = lipgloss.NewStyle().Foreground(colorModified).Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
	statusStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted)
)

// noColor reports whether the user asked for plain output.
func noColor() bool {
	return strings.TrimSpace(os.Getenv("NO_COLOR")) != ""
}
