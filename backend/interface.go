package backend

import (
	"context"
	"errors"
	"time"
)

// Task represents one to-do item as held by a store
type Task struct {
	ID        string
	Title     string
	Completed bool
	CreatedAt time.Time
}

// NewTask holds the fields a client supplies on insert.
// The store assigns ID and CreatedAt.
type NewTask struct {
	Title     string
	Completed bool
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// TitlePatch returns a patch that only changes the title
func TitlePatch(title string) TaskPatch {
	return TaskPatch{Title: &title}
}

// CompletedPatch returns a patch that only changes the completion flag
func CompletedPatch(completed bool) TaskPatch {
	return TaskPatch{Completed: &completed}
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Apply copies the set fields of the patch onto t
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

var (
	// ErrNotConnected is returned by every operation of a store that has no
	// connectivity parameters.
	ErrNotConnected = errors.New("not connected")

	// ErrNotFound is returned when an update or delete targets a missing id.
	ErrNotFound = errors.New("task not found")
)

// Store defines the interface for the remote task table
type Store interface {
	// List returns all tasks ordered by creation time ascending.
	List(ctx context.Context) ([]Task, error)

	// Insert creates a task. The returned task carries the store-assigned
	// ID and CreatedAt.
	Insert(ctx context.Context, task NewTask) (*Task, error)

	// Update applies a partial update to the task with the given id.
	Update(ctx context.Context, id string, patch TaskPatch) error

	// Delete removes the task with the given id.
	Delete(ctx context.Context, id string) error

	// Connected reports whether the store has connectivity parameters.
	Connected() bool

	// Close releases connections held by the store.
	Close() error
}
