package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/quicktasks/internal/model"
)

const selectTaskColumns = "SELECT id, text, completed, created_at FROM tasks"

// List returns all tasks ordered by creation time, newest first. Ties are
// broken by ID, which is a time-ordered UUIDv7.
func (s *SQLStore) List(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	err := s.db.SelectContext(ctx, &tasks,
		selectTaskColumns+" ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	for i := range tasks {
		tasks[i].CreatedAt = tasks[i].CreatedAt.UTC()
	}
	return tasks, nil
}

// Create inserts a new open task and returns it as stored.
func (s *SQLStore) Create(ctx context.Context, text string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, ErrEmptyText
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Task{}, fmt.Errorf("generating task id: %w", err)
	}

	task := model.Task{
		ID:        id.String(),
		Text:      text,
		Completed: false,
		// Postgres and MySQL keep microseconds; truncate so every dialect
		// returns exactly what was written.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO tasks (id, text, completed, created_at)
		VALUES (?, ?, ?, ?)`),
		task.ID, task.Text, task.Completed, task.CreatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}

	return task, nil
}

// Toggle flips the completed flag in a single UPDATE so concurrent toggles
// never lose a flip, then reads the row back in the same transaction.
func (s *SQLStore) Toggle(ctx context.Context, id string) (model.Task, bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Task{}, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		tx.Rebind("UPDATE tasks SET completed = NOT completed WHERE id = ?"), id)
	if err != nil {
		return model.Task{}, false, fmt.Errorf("toggling task %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return model.Task{}, false, fmt.Errorf("toggling task %s: %w", id, err)
	}
	if rows == 0 {
		return model.Task{}, false, nil
	}

	var task model.Task
	err = tx.GetContext(ctx, &task, tx.Rebind(selectTaskColumns+" WHERE id = ?"), id)
	if err != nil {
		return model.Task{}, false, fmt.Errorf("reading toggled task %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Task{}, false, fmt.Errorf("committing toggle of task %s: %w", id, err)
	}

	task.CreatedAt = task.CreatedAt.UTC()
	return task, true, nil
}

// Delete removes a task by ID and reports whether it existed.
func (s *SQLStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		return false, fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting task %s: %w", id, err)
	}
	return rows > 0, nil
}
