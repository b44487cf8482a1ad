package model

import "time"

// Task is a single to-do item.
type Task struct {
	// ID is generated at creation and never reused.
	ID string `json:"id" db:"id"`

	// Text is the user-supplied description, stored trimmed and never empty.
	Text string `json:"text" db:"text"`

	// Completed is flipped by the toggle operation only.
	Completed bool `json:"completed" db:"completed"`

	// CreatedAt is assigned by the store in UTC and never changes.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
