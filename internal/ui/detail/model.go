package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhle/quicktasks/internal/keys"
	"github.com/nhle/quicktasks/internal/model"
	"github.com/nhle/quicktasks/internal/theme"
	"github.com/nhle/quicktasks/internal/ui/tasklist"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model shows one task in full: long texts wrap and scroll.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	m := Model{viewport: vp, keys: k}
	m.SetSize(width, height)
	return m
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Toggle):
			if m.task == nil {
				return m, nil
			}
			id := m.task.ID
			return m, func() tea.Msg { return tasklist.ToggleTaskMsg{ID: id} }
		}
	}

	// Scrolling (j/k, up/down, pgup/pgdn) goes to the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		return theme.EmptyStateStyle.
			Width(m.width).
			Height(m.height).
			Render("No task selected")
	}
	return m.viewport.View()
}

func (m Model) renderContent() string {
	t := m.task
	textWidth := max(min(m.width-4, 100), 10)

	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Width(textWidth).
		Render(t.Text))
	sections = append(sections, "")

	status := theme.OpenMarkStyle.Render("○ قيد التنفيذ")
	if t.Completed {
		status = theme.DoneMarkStyle.Render("✓ مكتملة")
	}

	label := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(10)
	value := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(name, v string) string {
		return label.Render(name) + value.Render(v)
	}

	sections = append(sections,
		row("Status:", status),
		row("Created:", fmt.Sprintf("%s (%s)",
			t.CreatedAt.Local().Format(time.DateTime),
			humanize.Time(t.CreatedAt))),
		row("ID:", t.ID),
	)

	sep := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", textWidth))
	sections = append(sections, "", sep, theme.HelpStyle.Render("space/x toggle | esc back"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask shows t from the top.
func (m *Model) SetTask(t model.Task) {
	m.task = &t
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Refresh replaces the shown task with a newer copy from tasks, keeping
// the scroll position. It reports false when the task no longer exists.
func (m *Model) Refresh(tasks []model.Task) bool {
	if m.task == nil {
		return false
	}
	for _, t := range tasks {
		if t.ID == m.task.ID {
			m.task = &t
			m.viewport.SetContent(m.renderContent())
			return true
		}
	}
	m.task = nil
	return false
}

// Task returns the task being shown.
func (m Model) Task() (model.Task, bool) {
	if m.task == nil {
		return model.Task{}, false
	}
	return *m.task, true
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
