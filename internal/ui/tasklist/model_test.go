package tasklist

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/quicktasks/internal/keys"
	"github.com/nhle/quicktasks/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleTasks() []model.Task {
	now := time.Now().UTC()
	return []model.Task{
		{ID: "b", Text: "buy milk", CreatedAt: now.Add(-time.Minute)},
		{ID: "a", Text: "walk dog", Completed: true, CreatedAt: now.Add(-3 * time.Hour)},
	}
}

func loaded(t *testing.T, tasks []model.Task) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), 80, 20)
	m, _ = m.Update(TasksLoadedMsg{Tasks: tasks})
	return m
}

func TestTasksLoadedPopulatesList(t *testing.T) {
	m := loaded(t, sampleTasks())

	sel, ok := m.SelectedTask()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)

	done, total := m.Counts()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)
}

func TestLoadErrorKeepsCurrentTasks(t *testing.T) {
	m := loaded(t, sampleTasks())
	m, _ = m.Update(TasksLoadedMsg{Err: assert.AnError})

	_, total := m.Counts()
	assert.Equal(t, 2, total)
}

func TestShrinkingListKeepsCursorInRange(t *testing.T) {
	m := loaded(t, sampleTasks())
	m, _ = m.Update(runes("j"))
	sel, _ := m.SelectedTask()
	require.Equal(t, "a", sel.ID)

	m, _ = m.Update(TasksLoadedMsg{Tasks: sampleTasks()[:1]})
	sel, ok := m.SelectedTask()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)
}

func TestNewTaskInput(t *testing.T) {
	m := loaded(t, nil)

	m, _ = m.Update(runes("n"))
	require.Equal(t, ModeInput, m.Mode())
	assert.True(t, m.Capturing())

	m, _ = m.Update(runes("buy milk"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CreateTaskMsg{Text: "buy milk"}, cmd())
	assert.Equal(t, ModeBrowse, m.Mode())
}

func TestInputEscCancels(t *testing.T) {
	m := loaded(t, nil)
	m, _ = m.Update(runes("n"))
	m, _ = m.Update(runes("draft"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, ModeBrowse, m.Mode())

	// The next input starts empty.
	m, _ = m.Update(runes("n"))
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, CreateTaskMsg{Text: ""}, cmd())
}

func TestToggleEmitsSelectedTask(t *testing.T) {
	m := loaded(t, sampleTasks())

	_, cmd := m.Update(runes("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, ToggleTaskMsg{ID: "b"}, cmd())

	m, _ = m.Update(runes("j"))
	_, cmd = m.Update(runes("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, ToggleTaskMsg{ID: "a"}, cmd())
}

func TestActionsOnEmptyListDoNothing(t *testing.T) {
	m := loaded(t, nil)

	m, cmd := m.Update(runes("x"))
	assert.Nil(t, cmd)
	m, cmd = m.Update(runes("d"))
	assert.Nil(t, cmd)
	assert.Equal(t, ModeBrowse, m.Mode())
}

func TestDeleteConfirmed(t *testing.T) {
	m := loaded(t, sampleTasks())

	m, _ = m.Update(runes("d"))
	require.Equal(t, ModeConfirmDelete, m.Mode())
	require.NotNil(t, m.confirm)

	*m.confirmed = true
	m.confirm.State = huh.StateCompleted
	cmd, done := m.resolveConfirm()
	require.True(t, done)
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteTaskMsg{ID: "b"}, cmd())
	assert.Equal(t, ModeBrowse, m.Mode())
}

func TestDeleteDeclined(t *testing.T) {
	m := loaded(t, sampleTasks())
	m, _ = m.Update(runes("d"))

	m.confirm.State = huh.StateCompleted
	cmd, done := m.resolveConfirm()
	assert.True(t, done)
	assert.Nil(t, cmd)
	assert.Equal(t, ModeBrowse, m.Mode())
}

func TestDeleteEscCancels(t *testing.T) {
	m := loaded(t, sampleTasks())
	m, _ = m.Update(runes("d"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.False(t, m.Capturing())
}

func TestEmptyStateView(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	assert.Contains(t, m.View(), "جاري التحميل")

	m, _ = m.Update(TasksLoadedMsg{Tasks: []model.Task{}})
	assert.Contains(t, m.View(), "لا توجد مهام بعد")
}

func TestItemRender(t *testing.T) {
	m := loaded(t, sampleTasks())
	tasks := sampleTasks()

	var buf bytes.Buffer
	ItemDelegate{}.Render(&buf, m.list, 1, TaskItem{Task: tasks[1]})
	out := buf.String()
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "walk dog")
	assert.Contains(t, out, "3 hours ago")

	buf.Reset()
	ItemDelegate{}.Render(&buf, m.list, 0, TaskItem{Task: tasks[0]})
	assert.Contains(t, buf.String(), "○")
	assert.Contains(t, buf.String(), "buy milk")
}
