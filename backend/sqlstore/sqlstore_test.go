package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"todopad/backend"
)

// mustNewBackend creates an in-memory backend and registers cleanup
func mustNewBackend(t *testing.T) (*Backend, context.Context) {
	t.Helper()
	b, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite(:memory:) error: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b, context.Background()
}

// mustInsert inserts a task and fails the test on error
func mustInsert(t *testing.T, b *Backend, ctx context.Context, title string) *backend.Task {
	t.Helper()
	task, err := b.Insert(ctx, backend.NewTask{Title: title})
	if err != nil {
		t.Fatalf("Insert(%q) error: %v", title, err)
	}
	return task
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	b, ctx := mustNewBackend(t)

	first := mustInsert(t, b, ctx, "first")
	second := mustInsert(t, b, ctx, "second")

	if first.ID != "1" || second.ID != "2" {
		t.Errorf("ids = %s, %s; want 1, 2", first.ID, second.ID)
	}
	if first.Completed {
		t.Error("new task should not be completed")
	}
	if first.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	b, ctx := mustNewBackend(t)

	mustInsert(t, b, ctx, "a")
	last := mustInsert(t, b, ctx, "b")
	if err := b.Delete(ctx, last.ID); err != nil {
		t.Fatal(err)
	}
	next := mustInsert(t, b, ctx, "c")
	if next.ID == last.ID {
		t.Errorf("id %s was reused", next.ID)
	}
}

func TestListOrderedByCreatedAt(t *testing.T) {
	b, ctx := mustNewBackend(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of chronological order
	offsets := []time.Duration{2 * time.Second, 500 * time.Millisecond, time.Second}
	for i, off := range offsets {
		at := base.Add(off)
		b.now = func() time.Time { return at }
		mustInsert(t, b, ctx, string(rune('a'+i)))
	}

	tasks, err := b.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	if got := strings.Join(titles, ""); got != "bca" {
		t.Errorf("order = %q, want %q", got, "bca")
	}
	if !tasks[0].CreatedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("CreatedAt = %v", tasks[0].CreatedAt)
	}
}

func TestListEmpty(t *testing.T) {
	b, ctx := mustNewBackend(t)
	tasks, err := b.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", tasks)
	}
}

func TestUpdatePatch(t *testing.T) {
	b, ctx := mustNewBackend(t)
	task := mustInsert(t, b, ctx, "old")

	if err := b.Update(ctx, task.ID, backend.CompletedPatch(true)); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := b.Update(ctx, task.ID, backend.TitlePatch("new")); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	tasks, _ := b.List(ctx)
	if tasks[0].Title != "new" || !tasks[0].Completed {
		t.Errorf("task = %+v", tasks[0])
	}
}

func TestUpdateEmptyPatch(t *testing.T) {
	b, ctx := mustNewBackend(t)
	task := mustInsert(t, b, ctx, "x")
	if err := b.Update(ctx, task.ID, backend.TaskPatch{}); err != nil {
		t.Errorf("empty patch error: %v", err)
	}
}

func TestMissingIDs(t *testing.T) {
	b, ctx := mustNewBackend(t)

	for _, id := range []string{"42", "not-a-number"} {
		if err := b.Update(ctx, id, backend.TitlePatch("x")); !errors.Is(err, backend.ErrNotFound) {
			t.Errorf("Update(%q) error = %v, want ErrNotFound", id, err)
		}
		if err := b.Delete(ctx, id); !errors.Is(err, backend.ErrNotFound) {
			t.Errorf("Delete(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todopad.db")
	ctx := context.Background()

	b, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}
	mustInsert(t, b, ctx, "kept")
	_ = b.Close()

	b, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer func() { _ = b.Close() }()

	tasks, err := b.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "kept" {
		t.Errorf("tasks after reopen = %+v", tasks)
	}
}

func TestRegistry(t *testing.T) {
	store, err := backend.Open("sqlite", backend.Options{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open(sqlite) error: %v", err)
	}
	defer func() { _ = store.Close() }()
	if !store.Connected() {
		t.Error("sqlite store should be connected")
	}

	if _, err := backend.Open("sqlite", backend.Options{}); err == nil {
		t.Error("sqlite without a path should fail")
	}

	store, err = backend.Open("mysql", backend.Options{})
	if err != nil {
		t.Fatalf("Open(mysql) error: %v", err)
	}
	if store.Connected() {
		t.Error("mysql without a DSN should be disconnected")
	}
}

func TestNormalizeDSN(t *testing.T) {
	dsn, err := normalizeDSN("user:pw@tcp(127.0.0.1:3306)/todopad")
	if err != nil {
		t.Fatalf("normalizeDSN error: %v", err)
	}
	for _, want := range []string{"parseTime=true", "clientFoundRows=true"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %s", dsn, want)
		}
	}

	if _, err := normalizeDSN("::not a dsn"); err == nil {
		t.Error("expected parse error")
	}
}

func TestTimestampScanner(t *testing.T) {
	want := time.Date(2024, 5, 6, 7, 8, 9, 123000000, time.UTC)
	inputs := []any{
		want,
		"2024-05-06T07:08:09.123000000Z",
		[]byte("2024-05-06 07:08:09.123"),
		"2024-05-06 09:08:09.123+02:00",
	}
	for _, in := range inputs {
		var s timestampScanner
		if err := s.Scan(in); err != nil {
			t.Errorf("Scan(%v) error: %v", in, err)
			continue
		}
		if !s.Time.Equal(want) {
			t.Errorf("Scan(%v) = %v, want %v", in, s.Time, want)
		}
	}

	var s timestampScanner
	if err := s.Scan(42); err == nil {
		t.Error("expected error for int input")
	}
}
