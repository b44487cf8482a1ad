package store

import (
	"context"
	"errors"

	"github.com/nhle/quicktasks/internal/model"
)

var (
	// ErrEmptyText is returned by Create when the text is blank after trimming.
	ErrEmptyText = errors.New("task text must not be empty")

	// ErrUnknownDriver is returned by Open for an unsupported database driver.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// Store defines the persistence interface for tasks.
type Store interface {
	// List returns every task, most recently created first.
	List(ctx context.Context) ([]model.Task, error)

	// Create persists a new open task with a generated ID.
	Create(ctx context.Context, text string) (model.Task, error)

	// Toggle flips the completed flag of the task with the given ID.
	// found is false when no such task exists.
	Toggle(ctx context.Context, id string) (task model.Task, found bool, err error)

	// Delete removes the task with the given ID and reports whether a row
	// was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	Close() error
}
