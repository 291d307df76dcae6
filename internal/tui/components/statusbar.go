package components

import (
	"nathanbeddoewebdev/hureg/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// StatusBar renders the outcome of the last action above the footer: muted
// for confirmations, red with an "x" marker for failures. An empty message
// renders nothing so callers can skip the line.
func StatusBar(width int, message string, isError bool) string {
	if message == "" {
		return ""
	}

	line := styles.MutedText.Render(message)
	if isError {
		line = styles.ErrorText.Render("x " + message)
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 2).Render(line)
}
