package tasklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/quicktasks/internal/keys"
	"github.com/nhle/quicktasks/internal/model"
	"github.com/nhle/quicktasks/internal/theme"
)

// Mode is what the task list is currently accepting input for.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeInput
	ModeConfirmDelete
)

// TasksLoadedMsg carries the result of fetching the task list.
type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

// CreateTaskMsg asks the parent to create a task.
type CreateTaskMsg struct {
	Text string
}

// OpenTaskMsg asks the parent to show a task in full.
type OpenTaskMsg struct {
	Task model.Task
}

// ToggleTaskMsg asks the parent to flip a task's completed flag.
type ToggleTaskMsg struct {
	ID string
}

// DeleteTaskMsg is sent once the user has confirmed a deletion.
type DeleteTaskMsg struct {
	ID string
}

// Model is the task list view. It never talks to the server itself;
// mutations are emitted as messages for the parent to carry out.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	mode   Mode
	loaded bool

	input textinput.Model

	confirm       *huh.Form
	confirmed     *bool
	pendingDelete model.Task

	width  int
	height int
}

// New creates a new task list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "اكتب مهمة جديدة..."
	ti.Prompt = "+ "
	ti.CharLimit = 500

	m := Model{
		list:  l,
		keys:  k,
		input: ti,
	}
	m.SetSize(width, height)
	return m
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		// Load errors are reported by the parent; keep what we have.
		if msg.Err != nil {
			return m, nil
		}
		m.loaded = true
		cmd := m.setTasks(msg.Tasks)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case ModeInput:
			return m.updateInput(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.handleBrowseKeys(msg)
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeInput:
		m.input, cmd = m.input.Update(msg)
	case ModeConfirmDelete:
		return m.updateConfirm(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		m.mode = ModeInput
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Select):
		t, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, emit(OpenTaskMsg{Task: t})

	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, emit(ToggleTaskMsg{ID: t.ID})

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.SelectedTask()
		if !ok {
			return m, nil
		}
		m.pendingDelete = t
		m.confirmed = new(bool)
		m.confirm = m.buildDeleteConfirmForm(t)
		m.mode = ModeConfirmDelete
		return m, m.confirm.Init()
	}

	// Navigation keys (up/down/pgup/pgdn) go to the list.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		m.leaveInput()
		return m, emit(CreateTaskMsg{Text: text})

	case key.Matches(msg, m.keys.Back):
		m.leaveInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) leaveInput() {
	m.input.Blur()
	m.input.Reset()
	m.mode = ModeBrowse
}

func (m *Model) buildDeleteConfirmForm(t model.Task) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("حذف المهمة %q؟", t.Text)).
				Affirmative("نعم، احذف").
				Negative("إلغاء").
				Value(m.confirmed),
		),
	).WithWidth(max(m.width-8, 20)).WithShowHelp(false)
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirm == nil {
		m.mode = ModeBrowse
		return m, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Back) {
		m.closeConfirm()
		return m, nil
	}

	mdl, cmd := m.confirm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirm = f
	}

	if next, done := m.resolveConfirm(); done {
		return m, next
	}
	return m, cmd
}

// resolveConfirm leaves confirm mode once the form has finished and
// returns the delete request if the user accepted.
func (m *Model) resolveConfirm() (tea.Cmd, bool) {
	switch m.confirm.State {
	case huh.StateCompleted:
		id, accepted := m.pendingDelete.ID, *m.confirmed
		m.closeConfirm()
		if accepted {
			return emit(DeleteTaskMsg{ID: id}), true
		}
		return nil, true
	case huh.StateAborted:
		m.closeConfirm()
		return nil, true
	}
	return nil, false
}

func (m *Model) closeConfirm() {
	m.confirm = nil
	m.confirmed = nil
	m.pendingDelete = model.Task{}
	m.mode = ModeBrowse
}

// setTasks replaces the list contents, keeping the cursor in range.
func (m *Model) setTasks(tasks []model.Task) tea.Cmd {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
	}
	cmd := m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	return cmd
}

// View renders the task list view.
func (m Model) View() string {
	if m.mode == ModeConfirmDelete && m.confirm != nil {
		return theme.PanelStyle.Render(m.confirm.View())
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}

	if m.mode == ModeInput {
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.input.View())
		return lipgloss.JoinVertical(lipgloss.Left, bar, body)
	}
	return body
}

func (m Model) renderEmptyState() string {
	text := "جاري التحميل..."
	if m.loaded {
		text = "لا توجد مهام بعد. أضف مهمتك الأولى!\n\n(n)"
	}
	return theme.EmptyStateStyle.
		Width(m.width).
		Height(max(m.height-1, 1)).
		Render(text)
}

// Mode reports the current input mode.
func (m Model) Mode() Mode { return m.mode }

// Capturing reports whether keystrokes belong to the input line or the
// confirm dialog rather than to global shortcuts.
func (m Model) Capturing() bool { return m.mode != ModeBrowse }

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Counts returns the number of completed tasks and the total.
func (m Model) Counts() (done, total int) {
	items := m.list.Items()
	for _, it := range items {
		if ti, ok := it.(TaskItem); ok && ti.Task.Completed {
			done++
		}
	}
	return done, len(items)
}

// SetSize updates the list dimensions. One row is kept free for the
// input line.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-1, 1))
	m.input.Width = max(width-6, 10)
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
