package tasklist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/nhle/quicktasks/internal/model"
	"github.com/nhle/quicktasks/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

func (i TaskItem) FilterValue() string { return i.Task.Text }

func (i TaskItem) Title() string { return i.Task.Text }

// Description returns the humanized creation time.
func (i TaskItem) Description() string {
	if i.Task.CreatedAt.IsZero() {
		return ""
	}
	return humanize.Time(i.Task.CreatedAt)
}

// ItemDelegate renders one task per line.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int { return 1 }

func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws "✓ text  3 minutes ago", dimmed for completed tasks.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	mark := theme.OpenMarkStyle.Render("○")
	text := ti.Task.Text
	if ti.Task.Completed {
		mark = theme.DoneMarkStyle.Render("✓")
		text = theme.CompletedStyle.Render(text)
	}

	line := fmt.Sprintf("%s %s  %s", mark, text, theme.AgeStyle.Render(ti.Description()))

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
