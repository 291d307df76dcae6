package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/platform/credentials"
	"nathanbeddoewebdev/hureg/internal/services/auth"
	"nathanbeddoewebdev/hureg/internal/tui/components"
	"nathanbeddoewebdev/hureg/internal/tui/styles"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type secretsSavedMsg struct{}

type secretsSaveErrorMsg struct {
	err error
}

type authLoginModel struct {
	registrar string
	store     auth.Store

	specs  []credentials.Spec
	inputs []textinput.Model
	focus  int

	width  int
	height int

	err      error
	saved    bool
	quitting bool
}

// AuthLoginResult holds the outcome of the login TUI.
type AuthLoginResult struct {
	Saved bool
}

// RunAuthLogin prompts for every registrar secret on one screen and stores
// the non-empty ones in store.
func RunAuthLogin(registrar string, store auth.Store) (*AuthLoginResult, error) {
	m := newAuthLoginModel(registrar, store)

	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run auth login: %w", err)
	}

	final := result.(authLoginModel)
	if final.quitting && !final.saved {
		return nil, nil
	}
	return &AuthLoginResult{Saved: final.saved}, nil
}

func newAuthLoginModel(registrar string, store auth.Store) authLoginModel {
	specs := credentials.All()
	inputs := make([]textinput.Model, len(specs))
	for i, spec := range specs {
		ti := textinput.New()
		ti.Placeholder = spec.Prompt
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.Width = 50
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}
	return authLoginModel{registrar: registrar, store: store, specs: specs, inputs: inputs}
}

func (m authLoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m authLoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case secretsSavedMsg:
		m.saved = true
		return m, tea.Quit

	case secretsSaveErrorMsg:
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m authLoginModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, abort):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Next):
		return m.moveFocus(1), nil
	case key.Matches(msg, keys.Prev):
		return m.moveFocus(-1), nil
	case key.Matches(msg, keys.Save):
		if m.focus < len(m.inputs)-1 {
			return m.moveFocus(1), nil
		}
		values, err := m.values()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		return m, m.saveSecrets(values)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.err = nil
	return m, cmd
}

func (m authLoginModel) moveFocus(delta int) authLoginModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

// values returns the entered secrets by key, checking required ones.
func (m authLoginModel) values() (map[string]string, error) {
	out := make(map[string]string, len(m.specs))
	for i, spec := range m.specs {
		v := strings.TrimSpace(m.inputs[i].Value())
		if v == "" && spec.Required {
			return nil, fmt.Errorf("%s cannot be empty", strings.ToLower(spec.Prompt))
		}
		out[spec.Key] = v
	}
	return out, nil
}

func (m authLoginModel) saveSecrets(values map[string]string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if err := SaveSecrets(store, values); err != nil {
			return secretsSaveErrorMsg{err: err}
		}
		return secretsSavedMsg{}
	}
}

// SaveSecrets stores every non-empty value under its key.
func SaveSecrets(store auth.Store, values map[string]string) error {
	for _, key := range credentials.Keys() {
		v := values[key]
		if v == "" {
			continue
		}
		if err := store.SetSecret(key, v); err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
	}
	return nil
}

func (m authLoginModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth login", m.registrar)
	footer := components.Footer(m.width, keys.Next, keys.Save, abort)

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderContent(contentH), footer)
}

func (m authLoginModel) renderContent(height int) string {
	rows := []string{
		styles.Title.Render("Registrar credentials"),
		styles.MutedText.Render("Stored in the system keychain, never in config.json"),
		"",
	}
	for i, spec := range m.specs {
		label := styles.Label.Render(spec.Prompt)
		if i == m.focus {
			label = styles.AccentText.Render(spec.Prompt)
		}
		rows = append(rows, label, m.inputs[i].View(), "")
	}
	if m.err != nil {
		rows = append(rows, styles.ErrorText.Render(m.err.Error()))
	}

	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
