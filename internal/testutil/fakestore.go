package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"todopad/backend"
)

// Call records one store invocation.
type Call struct {
	Op    string
	ID    string
	Title string
	Patch backend.TaskPatch
}

// FakeStore is an in-memory backend.Store with error injection for testing.
type FakeStore struct {
	mu     sync.Mutex
	tasks  []backend.Task
	nextID int
	calls  []Call
	base   time.Time

	// Error injection for testing
	ListErr   error
	InsertErr error
	UpdateErr error
	DeleteErr error

	// Disconnected makes Connected report false.
	Disconnected bool
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		nextID: 1,
		base:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Seed appends a task directly, bypassing the call log, and returns it.
func (f *FakeStore) Seed(title string, completed bool) backend.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.newTaskLocked(title, completed)
	f.tasks = append(f.tasks, t)
	return t
}

func (f *FakeStore) newTaskLocked(title string, completed bool) backend.Task {
	id := f.nextID
	f.nextID++
	return backend.Task{
		ID:        strconv.Itoa(id),
		Title:     title,
		Completed: completed,
		CreatedAt: f.base.Add(time.Duration(id) * time.Second),
	}
}

// Calls returns a copy of the call log.
func (f *FakeStore) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times op was invoked.
func (f *FakeStore) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Stored returns a copy of the tasks currently held by the store.
func (f *FakeStore) Stored() []backend.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]backend.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// List implements backend.Store.
func (f *FakeStore) List(ctx context.Context) ([]backend.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "list"})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]backend.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// Insert implements backend.Store.
func (f *FakeStore) Insert(ctx context.Context, nt backend.NewTask) (*backend.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "insert", Title: nt.Title})
	if f.InsertErr != nil {
		return nil, f.InsertErr
	}
	t := f.newTaskLocked(nt.Title, nt.Completed)
	f.tasks = append(f.tasks, t)
	return &t, nil
}

// Update implements backend.Store.
func (f *FakeStore) Update(ctx context.Context, id string, patch backend.TaskPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "update", ID: id, Patch: patch})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			patch.Apply(&f.tasks[i])
			return nil
		}
	}
	return backend.ErrNotFound
}

// Delete implements backend.Store.
func (f *FakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	// Filtered deletes of absent rows succeed, matching the REST store
	return nil
}

// Connected implements backend.Store.
func (f *FakeStore) Connected() bool {
	return !f.Disconnected
}

// Close implements backend.Store.
func (f *FakeStore) Close() error {
	return nil
}

var _ backend.Store = (*FakeStore)(nil)
