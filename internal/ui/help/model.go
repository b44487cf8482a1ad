package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/quicktasks/internal/keys"
	"github.com/nhle/quicktasks/internal/theme"
)

// Model is the keyboard shortcut overlay.
type Model struct {
	keys    *keys.KeyMap
	help    help.Model
	baseURL string
	width   int
	height  int
}

// New creates the overlay. baseURL is shown so the user knows which
// server the client talks to.
func New(k *keys.KeyMap, baseURL string, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: k, help: h, baseURL: baseURL}
	m.SetSize(width, height)
	return m
}

// View renders the overlay.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Keyboard shortcuts")

	server := theme.HelpStyle.MarginTop(1).Render("server: " + m.baseURL)

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.help.View(m.keys), server)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = max(width-8, 0)
}
