package styles

import "github.com/charmbracelet/lipgloss"

// Text styles.
var (
	Title      = lipgloss.NewStyle().Bold(true).Foreground(White)
	Subtitle   = lipgloss.NewStyle().Foreground(Gray)
	Label      = lipgloss.NewStyle().Bold(true).Foreground(Gray)
	Value      = lipgloss.NewStyle().Foreground(White)
	MutedText  = lipgloss.NewStyle().Foreground(Muted)
	AccentText = lipgloss.NewStyle().Foreground(Blue)

	ErrorText   = lipgloss.NewStyle().Bold(true).Foreground(Red)
	SuccessText = lipgloss.NewStyle().Bold(true).Foreground(Green)
	WarningText = lipgloss.NewStyle().Bold(true).Foreground(Yellow)
)

// Card is the rounded panel the full-screen views put their content in.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(DimGray).
	Padding(1, 2)

// stateStyles colors the names printed by domain.DomainState.String, plus
// "free" and "taken" from availability checks. A usable domain is green, a
// restricted one yellow and a dead one red.
var stateStyles = map[string]lipgloss.Style{
	"ok":               SuccessText,
	"free":             SuccessText,
	"conditional-use":  WarningText,
	"deactivated":      lipgloss.NewStyle().Foreground(Yellow),
	"zone-deactivated": lipgloss.NewStyle().Foreground(Red),
	"taken":            lipgloss.NewStyle().Foreground(Red),
}

// StatusStyle returns the style for a domain state or availability word.
// Unknown values are gray.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := stateStyles[status]; ok {
		return s
	}
	return Subtitle
}

// StatusIndicator renders status behind a colored dot.
func StatusIndicator(status string) string {
	style := StatusStyle(status)
	return style.Render("● " + status)
}

var (
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(Blue)
	keyDescStyle = lipgloss.NewStyle().Foreground(Muted)

	// KeySepStyle renders the gap between footer hints.
	KeySepStyle = lipgloss.NewStyle().Foreground(DimGray)
)

// FormatKeyBinding renders a footer hint such as "q quit".
func FormatKeyBinding(key, desc string) string {
	return keyStyle.Render(key) + " " + keyDescStyle.Render(desc)
}
