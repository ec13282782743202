// Package memory provides an in-memory store seeded with mock data.
// Nothing survives the process.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"todopad/backend"
)

// sampleTitles seed a fresh store when seeding is enabled
var sampleTitles = []struct {
	title     string
	completed bool
}{
	{"Read the project README", true},
	{"Add a task of your own", false},
	{"Press space to complete a task", false},
}

// Backend implements backend.Store with a mutex-guarded slice
type Backend struct {
	mu     sync.Mutex
	tasks  []backend.Task
	lastID int64
	now    func() time.Time
}

// Option configures a memory backend
type Option func(*Backend)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// WithSampleTasks seeds the store with a few sample tasks
func WithSampleTasks() Option {
	return func(b *Backend) {
		for _, s := range sampleTitles {
			b.insertLocked(backend.NewTask{Title: s.title, Completed: s.completed})
		}
	}
}

// New creates an empty memory backend
func New(opts ...Option) *Backend {
	b := &Backend{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// nextID derives the id from the creation timestamp in milliseconds.
// Two inserts in the same millisecond get consecutive ids, so ids are
// strictly increasing and never reused.
func (b *Backend) nextID(created time.Time) string {
	id := created.UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return strconv.FormatInt(id, 10)
}

func (b *Backend) insertLocked(task backend.NewTask) backend.Task {
	created := b.now().UTC()
	t := backend.Task{
		ID:        b.nextID(created),
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: created,
	}
	b.tasks = append(b.tasks, t)
	return t
}

// List returns a copy of all tasks in insertion (creation) order
func (b *Backend) List(ctx context.Context) ([]backend.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	tasks := make([]backend.Task, len(b.tasks))
	copy(tasks, b.tasks)
	return tasks, nil
}

// Insert appends a task with a timestamp-derived id
func (b *Backend) Insert(ctx context.Context, task backend.NewTask) (*backend.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.insertLocked(task)
	return &t, nil
}

// Update applies patch to the task with the given id
func (b *Backend) Update(ctx context.Context, id string, patch backend.TaskPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.tasks {
		if b.tasks[i].ID == id {
			patch.Apply(&b.tasks[i])
			return nil
		}
	}
	return backend.ErrNotFound
}

// Delete removes the task with the given id
func (b *Backend) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

// Connected always returns true
func (b *Backend) Connected() bool {
	return true
}

// Close is a no-op
func (b *Backend) Close() error {
	return nil
}

// Verify interface compliance at compile time
var _ backend.Store = (*Backend)(nil)

func init() {
	backend.Register("memory", func(opts backend.Options) (backend.Store, error) {
		if opts.Seed {
			return New(WithSampleTasks()), nil
		}
		return New(), nil
	})
}
