package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/config"
	"nathanbeddoewebdev/hureg/internal/registry/session"
	"nathanbeddoewebdev/hureg/internal/tui/components"
	"nathanbeddoewebdev/hureg/internal/tui/styles"
	"nathanbeddoewebdev/hureg/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// configGroups sorts keys under a heading in the settings card. Keys not
// listed fall under "Other".
var configGroups = map[string]string{
	"environment":  "Registry",
	"url":          "Registry",
	"registrar":    "Registry",
	"registrar-id": "Registry",
	"key-id":       "Signing",
	"keystore":     "Signing",
	"timeout":      "Transport",
	"proxy":        "Transport",
	"nameserver":   "Defaults",
	"cache-size":   "Defaults",
}

// configFallbacks is what the client uses when a key is left empty.
var configFallbacks = map[string]string{
	"environment": config.EnvLive,
	"keystore":    "$GNUPGHOME or ~/.gnupg",
	"timeout":     "no timeout",
	"proxy":       "from environment",
	"cache-size":  "unbounded",
}

type configSavedMsg struct{ note string }

type configSaveErrorMsg struct {
	err      error
	previous *config.Config
}

type configViewModel struct {
	cfg  *config.Config
	keys []config.KeySpec

	cursor  int
	editing bool
	editor  textinput.Model

	width  int
	height int

	status  string
	isError bool
}

// RunConfigView opens the settings editor. Every change is validated and
// written to disk before the cursor moves on.
func RunConfigView() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p := tea.NewProgram(configViewModel{cfg: cfg, keys: config.Keys}, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m configViewModel) Init() tea.Cmd {
	return nil
}

func (m configViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditor(msg)
		}
		return m.updateBrowser(msg)

	case configSavedMsg:
		m.editing = false
		m.status, m.isError = msg.note, false
		return m, nil

	case configSaveErrorMsg:
		m.status, m.isError = "Error: "+msg.err.Error(), true
		if msg.previous != nil {
			m.cfg = msg.previous
		}
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m configViewModel) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, keys.Down):
		m.cursor = min(m.cursor+1, len(m.keys)-1)
	case key.Matches(msg, keys.Top):
		m.cursor = 0
	case key.Matches(msg, keys.Bottom):
		m.cursor = len(m.keys) - 1
	case key.Matches(msg, keys.Edit):
		m.editor = m.newEditor(m.keys[m.cursor])
		m.editing = true
		m.status = ""
		return m, textinput.Blink
	case key.Matches(msg, keys.Clear):
		spec := m.keys[m.cursor]
		if spec.Get(m.cfg) == "" {
			m.status, m.isError = spec.Name+" is already unset", false
			return m, nil
		}
		return m, m.apply(spec, "", spec.Name+" cleared")
	}
	return m, nil
}

func (m configViewModel) newEditor(spec config.KeySpec) textinput.Model {
	ti := textinput.New()
	ti.SetValue(spec.Get(m.cfg))
	ti.CursorEnd()
	ti.Focus()
	ti.Width = 40
	if fallback, ok := configFallbacks[spec.Name]; ok {
		ti.Placeholder = fallback
	} else {
		ti.Placeholder = "enter value"
	}
	return ti
}

func (m configViewModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.editing = false
		return m, nil
	case key.Matches(msg, keys.Save):
		spec := m.keys[m.cursor]
		value := strings.TrimSpace(m.editor.Value())
		if spec.Fold {
			value = util.NormalizeKey(value)
		}
		return m, m.apply(spec, value, "Configuration saved")
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// apply sets spec to value on a copy of the config and returns the command
// that persists it. m.cfg is swapped for the copy right away so the row
// shows the new value; a failed save restores the old one.
func (m *configViewModel) apply(spec config.KeySpec, value, note string) tea.Cmd {
	previous := m.cfg
	updated := *m.cfg
	spec.Set(&updated, value)
	m.cfg = &updated

	return func() tea.Msg {
		if err := updated.Save(); err != nil {
			return configSaveErrorMsg{err: err, previous: previous}
		}
		return configSavedMsg{note: note}
	}
}

func (m configViewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "config", m.cfg.Environment)

	footer := components.Footer(m.width, keys.Down, keys.Edit, keys.Clear, keys.Quit)
	if m.editing {
		footer = components.Footer(m.width, keys.Save, keys.Cancel)
	}

	parts := []string{header}
	used := lipgloss.Height(header) + lipgloss.Height(footer)
	var statusBar string
	if m.status != "" {
		statusBar = components.StatusBar(m.width, m.status, m.isError)
		used += lipgloss.Height(statusBar)
	}

	parts = append(parts, m.renderSettings(max(m.height-used, 1)))
	if statusBar != "" {
		parts = append(parts, statusBar)
	}
	parts = append(parts, footer)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

const (
	configCardWidth  = 76
	configLabelWidth = 16
)

func (m configViewModel) renderSettings(height int) string {
	title := styles.Title.Render("Configuration")

	var body string
	if len(m.keys) == 0 {
		body = styles.MutedText.Render("No configuration keys defined.")
	} else {
		card := styles.Card.Width(configCardWidth).Render(strings.Join(m.settingLines(), "\n"))
		endpoint := styles.MutedText.Render("Endpoint: ") + styles.Value.Render(session.Endpoint(m.cfg))
		body = lipgloss.JoinVertical(lipgloss.Center, card, "", endpoint)
	}

	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, title, "", body))
}

func (m configViewModel) settingLines() []string {
	var lines []string
	group := ""
	for i, spec := range m.keys {
		if g := groupOf(spec.Name); g != group {
			if group != "" {
				lines = append(lines, "")
			}
			lines = append(lines, styles.Subtitle.Render(g))
			group = g
		}

		if i != m.cursor {
			lines = append(lines, "  "+
				styles.MutedText.Width(configLabelWidth).Render(spec.Name)+
				styles.MutedText.Render(m.displayValue(spec)))
			continue
		}

		label := styles.AccentText.Render("> ") + styles.Label.Width(configLabelWidth).Render(spec.Name)
		if m.editing {
			lines = append(lines, label+m.editor.View())
			continue
		}
		lines = append(lines,
			label+styles.Value.Bold(true).Render(m.displayValue(spec)),
			"    "+styles.MutedText.Italic(true).Render(spec.Description))
	}
	return lines
}

// displayValue renders the stored value, or what an empty key falls back to.
func (m configViewModel) displayValue(spec config.KeySpec) string {
	if v := spec.Get(m.cfg); v != "" {
		return v
	}
	if fallback, ok := configFallbacks[spec.Name]; ok {
		return "(not set, " + fallback + ")"
	}
	return "(not set)"
}

func groupOf(key string) string {
	if g, ok := configGroups[key]; ok {
		return g
	}
	return "Other"
}
