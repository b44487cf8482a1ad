package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/quicktasks/internal/client"
	"github.com/nhle/quicktasks/internal/model"
	"github.com/nhle/quicktasks/internal/ui/tasklist"
)

// Status texts match what the web page shows.
const (
	msgCreated     = "تم إضافة المهمة بنجاح!"
	msgToggled     = "تم تحديث المهمة بنجاح!"
	msgDeleted     = "تم حذف المهمة بنجاح!"
	msgEmptyText   = "الرجاء كتابة مهمة أولاً!"
	msgUnreachable = "تعذر الاتصال بالخادم"
)

// API is the subset of *client.Client the UI needs.
type API interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, text string) (model.Task, error)
	Toggle(ctx context.Context, id string) (model.Task, error)
	Delete(ctx context.Context, id string) (string, error)
}

// taskCreatedResultMsg is sent after a create request returns.
type taskCreatedResultMsg struct {
	task model.Task
	err  error
}

// taskToggledResultMsg is sent after a toggle request returns.
type taskToggledResultMsg struct {
	task model.Task
	err  error
}

// taskDeletedResultMsg carries the server's confirmation message.
type taskDeletedResultMsg struct {
	message string
	err     error
}

// loadTasks fetches the full list from the server.
func (m Model) loadTasks() tea.Cmd {
	api, timeout := m.api, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tasks, err := api.List(ctx)
		return tasklist.TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

func (m Model) createTask(text string) tea.Cmd {
	api, timeout := m.api, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		t, err := api.Create(ctx, text)
		return taskCreatedResultMsg{task: t, err: err}
	}
}

func (m Model) toggleTask(id string) tea.Cmd {
	api, timeout := m.api, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		t, err := api.Toggle(ctx, id)
		return taskToggledResultMsg{task: t, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	api, timeout := m.api, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		message, err := api.Delete(ctx, id)
		return taskDeletedResultMsg{message: message, err: err}
	}
}

// errorText picks the text to show for a failed request: the server's
// own message when there is one.
func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return msgUnreachable
}
