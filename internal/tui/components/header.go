// Package components renders the header, footer and status lines shared by
// the full-screen hureg views. They are plain render helpers, not tea.Models.
package components

import (
	"strings"

	"nathanbeddoewebdev/hureg/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Header renders the application header bar: the breadcrumb on the left
// and the registry environment on the right.
//
//	hureg > config                         test
func Header(width int, breadcrumb string, environment string) string {
	if width < 10 {
		return ""
	}

	leftStyle := styles.Title.Foreground(styles.Blue)
	left := leftStyle.Render("hureg")
	if breadcrumb != "" {
		left += styles.MutedText.Render(" > ") + styles.Title.Render(breadcrumb)
	}

	right := ""
	if environment != "" {
		right = styles.Subtitle.Render(environment)
	}

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	innerWidth := width - 4
	gap := max(innerWidth-leftLen-rightLen, 1)

	content := left + strings.Repeat(" ", gap) + right

	bar := lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.DimGray).
		Render(content)

	return bar
}
