package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/quicktasks/internal/client"
	"github.com/nhle/quicktasks/internal/model"
	appsync "github.com/nhle/quicktasks/internal/sync"
	"github.com/nhle/quicktasks/internal/ui/tasklist"
)

// fakeAPI keeps tasks in memory, newest first, and answers like the server.
type fakeAPI struct {
	tasks   []model.Task
	listErr error
	nextID  int
}

func (f *fakeAPI) List(context.Context) ([]model.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) Create(_ context.Context, text string) (model.Task, error) {
	f.nextID++
	t := model.Task{ID: fmt.Sprintf("t%d", f.nextID), Text: strings.TrimSpace(text), CreatedAt: time.Now().UTC()}
	f.tasks = append([]model.Task{t}, f.tasks...)
	return t, nil
}

func (f *fakeAPI) Toggle(_ context.Context, id string) (model.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = !f.tasks[i].Completed
			return f.tasks[i], nil
		}
	}
	return model.Task{}, &client.APIError{Status: http.StatusNotFound, Message: "المهمة غير موجودة"}
}

func (f *fakeAPI) Delete(_ context.Context, id string) (string, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return "تم حذف المهمة بنجاح", nil
		}
	}
	return "", &client.APIError{Status: http.StatusNotFound, Message: "المهمة غير موجودة"}
}

// drain runs cmd and any batched commands it produces.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, []tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), drain(cmd)
}

// press sends a key without running the returned command, which may be a
// cursor blink timer.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle feeds msgs back into the model until no work is left. Status
// expiry messages are returned instead of applied.
func settle(t *testing.T, m Model, msgs []tea.Msg) (Model, []clearStatusMsg) {
	t.Helper()
	var clears []clearStatusMsg
	for len(msgs) > 0 {
		msg := msgs[0]
		msgs = msgs[1:]
		if c, ok := msg.(clearStatusMsg); ok {
			clears = append(clears, c)
			continue
		}
		var more []tea.Msg
		m, more = update(t, m, msg)
		msgs = append(msgs, more...)
	}
	return m, clears
}

func start(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m := New(api, "http://localhost:5000", WithStatusTimeout(time.Millisecond))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = settle(t, m, drain(m.Init()))
	return m
}

func TestCreateToggleDeleteFlow(t *testing.T) {
	api := &fakeAPI{}
	m := start(t, api)

	m = press(t, m, runes("n"))
	m = press(t, m, runes("buy milk"))
	m, msgs := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, clears := settle(t, m, msgs)

	status, isErr := m.Status()
	assert.Equal(t, msgCreated, status)
	assert.False(t, isErr)
	require.Len(t, api.tasks, 1)
	assert.Equal(t, "buy milk", api.tasks[0].Text)
	done, total := m.taskList.Counts()
	assert.Equal(t, 0, done)
	assert.Equal(t, 1, total)

	require.Len(t, clears, 1)
	m, _ = update(t, m, clears[0])
	status, _ = m.Status()
	assert.Empty(t, status)

	m, msgs = update(t, m, runes("x"))
	m, _ = settle(t, m, msgs)
	status, _ = m.Status()
	assert.Equal(t, msgToggled, status)
	done, _ = m.taskList.Counts()
	assert.Equal(t, 1, done)

	m, msgs = update(t, m, tasklist.DeleteTaskMsg{ID: api.tasks[0].ID})
	m, _ = settle(t, m, msgs)
	status, isErr = m.Status()
	assert.Equal(t, "تم حذف المهمة بنجاح", status)
	assert.False(t, isErr)
	_, total = m.taskList.Counts()
	assert.Equal(t, 0, total)
}

func TestBlankTextIsNotSent(t *testing.T) {
	api := &fakeAPI{}
	m := start(t, api)

	m, msgs := update(t, m, tasklist.CreateTaskMsg{Text: "   "})
	assert.Empty(t, api.tasks)
	status, isErr := m.Status()
	assert.Equal(t, msgEmptyText, status)
	assert.True(t, isErr)
	require.Len(t, msgs, 1)
	assert.IsType(t, clearStatusMsg{}, msgs[0])
}

func TestToggleUnknownShowsServerMessage(t *testing.T) {
	m := start(t, &fakeAPI{})

	m, msgs := update(t, m, tasklist.ToggleTaskMsg{ID: "missing"})
	m, _ = settle(t, m, msgs)

	status, isErr := m.Status()
	assert.Equal(t, "المهمة غير موجودة", status)
	assert.True(t, isErr)
}

func TestUnreachableServer(t *testing.T) {
	m := start(t, &fakeAPI{listErr: errors.New("connection refused")})

	status, isErr := m.Status()
	assert.Equal(t, msgUnreachable, status)
	assert.True(t, isErr)
}

func TestStaleStatusTimerIsIgnored(t *testing.T) {
	m := start(t, &fakeAPI{})

	m, first := update(t, m, tasklist.CreateTaskMsg{Text: ""})
	m, _ = settle(t, m, []tea.Msg{taskToggledResultMsg{err: &client.APIError{Status: 500, Message: "boom"}}})

	require.Len(t, first, 1)
	m, _ = update(t, m, first[0])
	status, _ := m.Status()
	assert.Equal(t, "boom", status)
}

func TestGlobalKeys(t *testing.T) {
	m := start(t, &fakeAPI{})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = press(t, m, runes("?"))
	assert.Equal(t, ViewHelp, m.CurrentView())
	assert.Contains(t, m.View(), "Keyboard shortcuts")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewList, m.CurrentView())

	// While typing a task, q and ? are text.
	m = press(t, m, runes("n"))
	m = press(t, m, runes("q"))
	m = press(t, m, runes("?"))
	assert.Equal(t, ViewList, m.CurrentView())
	assert.True(t, m.taskList.Capturing())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRefreshReloads(t *testing.T) {
	api := &fakeAPI{}
	m := start(t, api)
	api.tasks = []model.Task{{ID: "x1", Text: "added elsewhere", CreatedAt: time.Now().UTC()}}

	m, msgs := update(t, m, runes("r"))
	m, _ = settle(t, m, msgs)
	_, total := m.taskList.Counts()
	assert.Equal(t, 1, total)
	assert.Contains(t, m.View(), "added elsewhere")
}

func TestViewBeforeWindowSize(t *testing.T) {
	m := New(&fakeAPI{}, "http://localhost:5000")
	assert.Equal(t, "Loading...", m.View())
}

func TestPollerResults(t *testing.T) {
	api := &fakeAPI{}
	p := appsync.New(api, time.Hour, time.Second)
	m := New(api, "http://localhost:5000", WithPoller(p), WithStatusTimeout(time.Millisecond))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	tasks := []model.Task{{ID: "w1", Text: "from the web page", CreatedAt: time.Now().UTC()}}
	next, cmd := m.Update(appsync.ResultMsg{Tasks: tasks, At: time.Now()})
	m = next.(Model)
	require.NotNil(t, cmd, "keeps listening for results")
	_, total := m.taskList.Counts()
	assert.Equal(t, 1, total)

	next, _ = m.Update(appsync.ResultMsg{Err: errors.New("connection refused")})
	m = next.(Model)
	status, isErr := m.Status()
	assert.Equal(t, msgUnreachable, status)
	assert.True(t, isErr)
	_, total = m.taskList.Counts()
	assert.Equal(t, 1, total, "a failed poll keeps the last list")

	// Quitting stops the poller, so a pending wait returns at once.
	_, cmd = m.Update(runes("q"))
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Nil(t, p.WaitForNextResult()())
}

func TestDetailView(t *testing.T) {
	api := &fakeAPI{}
	m := start(t, api)
	m, _ = settle(t, m, []tea.Msg{tasklist.CreateTaskMsg{Text: "buy milk"}})

	m, msgs := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = settle(t, m, msgs)
	require.Equal(t, ViewDetail, m.CurrentView())
	assert.Contains(t, m.View(), "buy milk")

	// Toggling from the detail view refreshes it.
	m, msgs = update(t, m, runes("x"))
	m, _ = settle(t, m, msgs)
	got, ok := m.detail.Task()
	require.True(t, ok)
	assert.True(t, got.Completed)

	// Help returns to the detail view.
	m = press(t, m, runes("?"))
	require.Equal(t, ViewHelp, m.CurrentView())
	m = press(t, m, runes("?"))
	assert.Equal(t, ViewDetail, m.CurrentView())

	// Deleted elsewhere: the next load closes the detail view.
	api.tasks = nil
	m, msgs = update(t, m, runes("r"))
	m, _ = settle(t, m, msgs)
	assert.Equal(t, ViewList, m.CurrentView())
}

func TestDetailEscReturnsToList(t *testing.T) {
	api := &fakeAPI{tasks: []model.Task{{ID: "a", Text: "walk dog", CreatedAt: time.Now().UTC()}}}
	m := start(t, api)

	m, msgs := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = settle(t, m, msgs)
	require.Equal(t, ViewDetail, m.CurrentView())

	m, msgs = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = settle(t, m, msgs)
	assert.Equal(t, ViewList, m.CurrentView())
}
