package components

import (
	"strings"

	"nathanbeddoewebdev/hureg/internal/tui/styles"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Footer renders the help line under a view from the bindings' help text.
// Disabled bindings and bindings without help are left out.
func Footer(width int, bindings ...key.Binding) string {
	if width < 10 {
		return ""
	}

	var hints []string
	for _, b := range bindings {
		h := b.Help()
		if !b.Enabled() || h.Key == "" {
			continue
		}
		hints = append(hints, styles.FormatKeyBinding(h.Key, h.Desc))
	}
	if len(hints) == 0 {
		return ""
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(styles.DimGray).
		Render(strings.Join(hints, styles.KeySepStyle.Render("  ")))
}
