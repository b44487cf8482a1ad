package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/quicktasks/internal/keys"
	appsync "github.com/nhle/quicktasks/internal/sync"
	"github.com/nhle/quicktasks/internal/theme"
	"github.com/nhle/quicktasks/internal/ui"
	"github.com/nhle/quicktasks/internal/ui/detail"
	helpview "github.com/nhle/quicktasks/internal/ui/help"
	"github.com/nhle/quicktasks/internal/ui/tasklist"
)

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultStatusTimeout  = 3 * time.Second
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
)

// clearStatusMsg expires the status message it was scheduled for.
type clearStatusMsg struct {
	seq int
}

// Model is the root Bubble Tea model. It owns the server client,
// routes keys and reports request outcomes in the status bar.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	api          API
	keys         *keys.KeyMap
	taskList     tasklist.Model
	detail       detail.Model
	helpView     helpview.Model
	shortHelp    help.Model
	poller       *appsync.Poller
	ready        bool

	requestTimeout time.Duration
	statusTimeout  time.Duration

	status    string
	statusErr bool
	statusSeq int
}

// Option customizes a Model.
type Option func(*Model)

// WithRequestTimeout bounds every call to the server.
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Model) { m.requestTimeout = d }
}

// WithStatusTimeout sets how long a status message stays visible.
func WithStatusTimeout(d time.Duration) Option {
	return func(m *Model) { m.statusTimeout = d }
}

// WithPoller refreshes the list in the background with p.
func WithPoller(p *appsync.Poller) Option {
	return func(m *Model) { m.poller = p }
}

// New creates the root model for the server at baseURL.
func New(api API, baseURL string, opts ...Option) Model {
	k := keys.DefaultKeyMap()
	m := Model{
		currentView:    ViewList,
		layout:         ui.NewLayout(80, 24),
		api:            api,
		keys:           k,
		taskList:       tasklist.New(k, 80, 22),
		detail:         detail.New(k, 80, 22),
		helpView:       helpview.New(k, baseURL, 80, 22),
		shortHelp:      help.New(),
		requestTimeout: DefaultRequestTimeout,
		statusTimeout:  DefaultStatusTimeout,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init loads the task list and starts background polling.
func (m Model) Init() tea.Cmd {
	if m.poller == nil {
		return m.loadTasks()
	}
	return tea.Batch(m.loadTasks(), m.poller.Start())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.taskList.SetSize(msg.Width, m.layout.ContentHeight())
		m.detail.SetSize(msg.Width, m.layout.ContentHeight())
		m.helpView.SetSize(msg.Width, m.layout.ContentHeight())
		m.shortHelp.Width = msg.Width - 2
		// Forward so an open huh form can recompute its layout.
		return m.updateTaskList(msg)

	case tasklist.TasksLoadedMsg:
		var statusCmd tea.Cmd
		if msg.Err != nil {
			statusCmd = m.setStatus(errorText(msg.Err), true)
		}
		cmd := m.applyTasks(msg)
		return m, tea.Batch(cmd, statusCmd)

	case appsync.ResultMsg:
		var statusCmd tea.Cmd
		if msg.Err != nil {
			statusCmd = m.setStatus(errorText(msg.Err), true)
		}
		cmd := m.applyTasks(tasklist.TasksLoadedMsg{Tasks: msg.Tasks, Err: msg.Err})
		return m, tea.Batch(cmd, statusCmd, m.poller.WaitForNextResult())

	case tasklist.OpenTaskMsg:
		m.detail.SetTask(msg.Task)
		m.currentView = ViewDetail
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case tasklist.CreateTaskMsg:
		if strings.TrimSpace(msg.Text) == "" {
			cmd := m.setStatus(msgEmptyText, true)
			return m, cmd
		}
		return m, m.createTask(msg.Text)

	case tasklist.ToggleTaskMsg:
		return m, m.toggleTask(msg.ID)

	case tasklist.DeleteTaskMsg:
		return m, m.deleteTask(msg.ID)

	case taskCreatedResultMsg:
		if msg.err != nil {
			cmd := m.setStatus(errorText(msg.err), true)
			return m, cmd
		}
		statusCmd := m.setStatus(msgCreated, false)
		return m, tea.Batch(m.loadTasks(), statusCmd)

	case taskToggledResultMsg:
		// Refresh either way so the list reflects the server.
		var statusCmd tea.Cmd
		if msg.err != nil {
			statusCmd = m.setStatus(errorText(msg.err), true)
		} else {
			statusCmd = m.setStatus(msgToggled, false)
		}
		return m, tea.Batch(m.loadTasks(), statusCmd)

	case taskDeletedResultMsg:
		if msg.err != nil {
			cmd := m.setStatus(errorText(msg.err), true)
			return m, cmd
		}
		text := msg.message
		if text == "" {
			text = msgDeleted
		}
		statusCmd := m.setStatus(text, false)
		return m, tea.Batch(m.loadTasks(), statusCmd)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.currentView == ViewList && m.taskList.Capturing() {
			return m.updateTaskList(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
			} else {
				m.previousView = m.currentView
				m.currentView = ViewHelp
			}
			return m, nil

		case m.currentView == ViewHelp:
			if key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadTasks()
		}

		if m.currentView == ViewDetail {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
	}

	return m.updateTaskList(msg)
}

// applyTasks hands a fetched list to the list and detail views. The
// detail view closes when its task was deleted elsewhere.
func (m *Model) applyTasks(msg tasklist.TasksLoadedMsg) tea.Cmd {
	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	if msg.Err != nil {
		return cmd
	}
	if _, open := m.detail.Task(); open && !m.detail.Refresh(msg.Tasks) {
		if m.currentView == ViewDetail {
			m.currentView = ViewList
		}
		if m.previousView == ViewDetail {
			m.previousView = ViewList
		}
	}
	return cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.poller != nil {
		m.poller.Stop()
	}
	return m, tea.Quit
}

func (m Model) updateTaskList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

// setStatus shows text in the status bar and schedules its removal.
// A newer message is never cleared by an older timer.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(m.statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// View renders the header, the active view and the status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	done, total := m.taskList.Counts()
	header := m.layout.RenderHeader("قائمة المهام", fmt.Sprintf("%d/%d مكتملة", done, total))

	var content string
	switch m.currentView {
	case ViewHelp:
		content = m.helpView.View()
	case ViewDetail:
		content = m.detail.View()
	default:
		content = m.taskList.View()
	}

	return m.layout.RenderWithFrame(header, content, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	if m.status != "" {
		return m.layout.RenderStatusBar(m.status, theme.StatusMessageStyle(m.statusErr))
	}
	return m.layout.RenderStatusBar(m.keyHints(), theme.StatusBarStyle)
}

// keyHints returns the shortcut line for the current view.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "space/x toggle | j/k scroll | esc back"
	}
	switch m.taskList.Mode() {
	case tasklist.ModeInput:
		return "enter save | esc cancel"
	case tasklist.ModeConfirmDelete:
		return "←/→ choose | enter confirm | esc cancel"
	}
	return m.shortHelp.ShortHelpView(m.keys.ShortHelp())
}

// Status returns the current status message and whether it is an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}
