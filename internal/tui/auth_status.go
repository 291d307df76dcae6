package tui

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/hureg/internal/platform/credentials"
	"nathanbeddoewebdev/hureg/internal/services/auth"
	"nathanbeddoewebdev/hureg/internal/tui/components"
	"nathanbeddoewebdev/hureg/internal/tui/styles"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SecretStatus describes whether one keychain secret is present.
type SecretStatus struct {
	Key      string
	Status   string
	OK       bool
	Required bool
}

// SecretStatuses checks every registered secret in store.
func SecretStatuses(store auth.Store) []SecretStatus {
	specs := credentials.All()
	out := make([]SecretStatus, 0, len(specs))
	for _, spec := range specs {
		st := SecretStatus{Key: spec.Key, Required: spec.Required}
		_, err := store.GetSecret(spec.Key)
		switch {
		case err == nil:
			st.Status, st.OK = "stored", true
		case errors.Is(err, auth.ErrSecretNotFound) && spec.Required:
			st.Status = "missing"
		case errors.Is(err, auth.ErrSecretNotFound):
			st.Status = "not set"
			st.OK = true
		default:
			st.Status = fmt.Sprintf("error: %v", err)
		}
		out = append(out, st)
	}
	return out
}

type authStatusModel struct {
	registrar string
	statuses  []SecretStatus

	width  int
	height int
}

// RunAuthStatus shows which registrar secrets are stored.
func RunAuthStatus(registrar string, store auth.Store) error {
	m := authStatusModel{registrar: registrar, statuses: SecretStatuses(store)}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m authStatusModel) Init() tea.Cmd {
	return nil
}

func (m authStatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m authStatusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth status", m.registrar)
	footer := components.Footer(m.width, keys.Quit)
	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	rows := make([]string, 0, len(m.statuses))
	for _, st := range m.statuses {
		name := styles.Label.Width(16).Render(st.Key)
		var status string
		switch {
		case st.OK && st.Status == "stored":
			status = styles.SuccessText.Render(st.Status)
		case st.OK:
			status = styles.MutedText.Render(st.Status)
		case st.Status == "missing":
			status = styles.WarningText.Render(st.Status)
		default:
			status = styles.ErrorText.Render(st.Status)
		}
		rows = append(rows, name+status)
	}

	card := styles.Card.Width(48).Render(strings.Join(rows, "\n"))
	title := styles.Title.Render("Registrar secrets")
	if m.registrar == "" {
		title += styles.MutedText.Render("  (registrar not configured)")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, title, "", card)),
		footer,
	)
}
