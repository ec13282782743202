// Package tasklist keeps a local task list consistent with a backend.Store.
//
// Every mutation waits for the store to answer before touching the local
// list: success applies the change, failure leaves the list as it was and
// records an *OpError in a single shared error slot. The store call runs
// without holding the controller lock, so concurrent operations are not
// serialized and the last response to arrive wins.
package tasklist

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"todopad/backend"
	"todopad/internal/utils"
)

// EditCursor is the task currently being edited inline and its draft title.
type EditCursor struct {
	ID    string
	Draft string
}

// Stats counts the tasks in the local list.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// ItemsLeft renders the active count, e.g. "1 item left".
func (s Stats) ItemsLeft() string {
	if s.Active == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", s.Active)
}

// Controller owns the task list, the active filter, the edit cursor and
// the error slot.
type Controller struct {
	store  backend.Store
	logger *utils.Logger

	mu     sync.RWMutex
	tasks  []backend.Task
	filter FilterMode
	cursor *EditCursor
	err    error
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger replaces the global logger
func WithLogger(l *utils.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithFilter sets the initial filter mode
func WithFilter(mode FilterMode) Option {
	return func(c *Controller) {
		c.filter = mode
	}
}

// New creates a controller over store with an empty list.
func New(store backend.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		logger: utils.GetLogger(),
		filter: All,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying store.
func (c *Controller) Store() backend.Store {
	return c.store
}

// Connected reports whether the store has connectivity parameters.
func (c *Controller) Connected() bool {
	return c.store.Connected()
}

// fail records err in the error slot and returns it wrapped.
func (c *Controller) fail(kind Kind, id string, err error) error {
	opErr := &OpError{Kind: kind, ID: id, Err: err}
	c.logger.Warn("store operation failed", "op", kind, "id", id, "err", err)

	c.mu.Lock()
	c.err = opErr
	c.mu.Unlock()
	return opErr
}

// Load replaces the local list with the store's contents. On failure the
// list becomes empty.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()

	tasks, err := c.store.List(ctx)
	if err != nil {
		c.mu.Lock()
		c.tasks = nil
		c.mu.Unlock()
		return c.fail(LoadFailed, "", err)
	}

	tasks = normalize(tasks)

	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()

	c.logger.Debug("tasks loaded", "count", len(tasks))
	return nil
}

// normalize returns a copy of tasks ordered by creation time. Tasks with
// equal timestamps keep the order the store returned them in.
func normalize(tasks []backend.Task) []backend.Task {
	out := make([]backend.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Add inserts a task titled raw. Blank titles are ignored and return
// (nil, nil) without contacting the store.
func (c *Controller) Add(ctx context.Context, raw string) (*backend.Task, error) {
	title := utils.NormalizeTitle(raw)
	if title == "" {
		return nil, nil
	}

	created, err := c.store.Insert(ctx, backend.NewTask{Title: title})
	if err != nil {
		return nil, c.fail(AddFailed, "", err)
	}

	task := *created
	c.mu.Lock()
	c.tasks = append(c.tasks, task)
	c.mu.Unlock()

	c.logger.Debug("task added", "id", task.ID)
	return &task, nil
}

// BeginEdit puts the task into edit mode with currentTitle as the draft.
// Any other unsaved edit is abandoned.
func (c *Controller) BeginEdit(id, currentTitle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = &EditCursor{ID: id, Draft: currentTitle}
}

// SetDraft replaces the draft of the current edit.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor != nil {
		c.cursor.Draft = text
	}
}

// CancelEdit leaves edit mode without saving.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = nil
}

// SaveEdit commits the draft for id. It does nothing unless id is the task
// being edited. A draft that trims to empty is discarded and the title
// reverts. The cursor is cleared whatever the outcome.
func (c *Controller) SaveEdit(ctx context.Context, id string) error {
	title, ok := c.CommitEdit(id)
	if !ok {
		return nil
	}
	return c.Rename(ctx, id, title)
}

// CommitEdit ends the edit of id and returns its normalized draft. ok is
// false when id is not being edited or the draft trims to empty. Callers
// that send the update later use it to take the draft before another edit
// can replace the cursor.
func (c *Controller) CommitEdit(id string) (title string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor == nil || c.cursor.ID != id {
		return "", false
	}
	title = utils.NormalizeTitle(c.cursor.Draft)
	c.cursor = nil
	return title, title != ""
}

// Rename stores a new title for id, then patches the local list. A title
// that trims to empty is ignored.
func (c *Controller) Rename(ctx context.Context, id, title string) error {
	title = utils.NormalizeTitle(title)
	if title == "" {
		return nil
	}

	if err := c.store.Update(ctx, id, backend.TitlePatch(title)); err != nil {
		return c.fail(UpdateFailed, id, err)
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.tasks[i].Title = title
	}
	c.mu.Unlock()
	return nil
}

// Delete removes the task from the store, then from the local list. The
// request is sent even if id is not in the local list.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return c.fail(DeleteFailed, id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	}
	if c.cursor != nil && c.cursor.ID == id {
		c.cursor = nil
	}
	return nil
}

// ToggleCompleted flips the completion flag of id. Unknown ids return a
// not-found error without contacting the store or touching the error slot.
func (c *Controller) ToggleCompleted(ctx context.Context, id string) error {
	c.mu.RLock()
	i := c.indexLocked(id)
	var want bool
	if i >= 0 {
		want = !c.tasks[i].Completed
	}
	c.mu.RUnlock()

	if i < 0 {
		return utils.ErrTaskNotFound(id)
	}

	if err := c.store.Update(ctx, id, backend.CompletedPatch(want)); err != nil {
		return c.fail(UpdateFailed, id, err)
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.tasks[i].Completed = want
	}
	c.mu.Unlock()
	return nil
}

func (c *Controller) indexLocked(id string) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Tasks returns a copy of the full local list.
func (c *Controller) Tasks() []backend.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]backend.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Task returns the local task with the given id.
func (c *Controller) Task(id string) (backend.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.tasks[i], true
	}
	return backend.Task{}, false
}

// SetFilter changes the active filter mode.
func (c *Controller) SetFilter(mode FilterMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = mode
}

// FilterMode returns the active filter mode.
func (c *Controller) FilterMode() FilterMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Visible returns the local list through the active filter.
func (c *Controller) Visible() []backend.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Filter(c.tasks, c.filter)
}

// Editing returns the current edit cursor, if any.
func (c *Controller) Editing() (EditCursor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cursor == nil {
		return EditCursor{}, false
	}
	return *c.cursor, true
}

// Err returns the last store failure, or nil.
func (c *Controller) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// ClearError empties the error slot.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = nil
}

// Stats counts total, active and completed tasks.
func (c *Controller) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Stats{Total: len(c.tasks)}
	for _, t := range c.tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Active = s.Total - s.Completed
	return s
}
