package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	barFull  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

// ProgressBar renders percent (0-100) as a bar of width cells.
func ProgressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return barFull.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %3d%%", percent)
}

// Swatch renders a small block in the habit's color.
func Swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}
