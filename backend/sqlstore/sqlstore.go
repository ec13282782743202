// Package sqlstore provides a backend.Store over a single SQL table with
// the same shape as the remote REST table. Dialects exist for SQLite
// (modernc.org/sqlite) and MySQL (go-sql-driver/mysql).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"todopad/backend"
	"todopad/internal/utils"
)

// dialect holds the per-driver differences
type dialect struct {
	name    string
	driver  string
	schema  string
	timeArg func(time.Time) any
	maxOpen int // 0 means unlimited
}

// Backend implements backend.Store on database/sql
type Backend struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func open(d dialect, dsn string) (*Backend, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(d.maxOpen)

	b := &Backend{db: db, dialect: d, now: time.Now}
	if err := b.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// initSchema creates the tasks table if it doesn't exist
func (b *Backend) initSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.db.PingContext(ctx); err != nil {
		return utils.ErrBackendOffline(b.dialect.name, err)
	}
	_, err := b.db.ExecContext(ctx, b.dialect.schema)
	return err
}

// List returns all tasks ordered by creation time, oldest first
func (b *Backend) List(ctx context.Context) ([]backend.Task, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT id, title, completed, created_at FROM tasks ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tasks := []backend.Task{}
	for rows.Next() {
		var (
			id      int64
			t       backend.Task
			created timestampScanner
		)
		if err := rows.Scan(&id, &t.Title, &t.Completed, &created); err != nil {
			return nil, err
		}
		t.ID = strconv.FormatInt(id, 10)
		t.CreatedAt = created.Time
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Insert creates a task and returns it with its assigned id
func (b *Backend) Insert(ctx context.Context, task backend.NewTask) (*backend.Task, error) {
	created := b.now().UTC()

	res, err := b.db.ExecContext(ctx,
		"INSERT INTO tasks (title, completed, created_at) VALUES (?, ?, ?)",
		task.Title, task.Completed, b.dialect.timeArg(created),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &backend.Task{
		ID:        strconv.FormatInt(id, 10),
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: created,
	}, nil
}

// Update applies the set fields of patch to the task with the given id
func (b *Backend) Update(ctx context.Context, id string, patch backend.TaskPatch) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}
	args = append(args, key)

	res, err := b.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes the task with the given id
func (b *Backend) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := b.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", key)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Connected always reports true; an unreachable database fails at Open
func (b *Backend) Connected() bool {
	return true
}

// Close closes the database connection
func (b *Backend) Close() error {
	return b.db.Close()
}

func parseID(id string) (int64, error) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", backend.ErrNotFound, id)
	}
	return key, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

// timestampScanner reads created_at whether the driver hands back a
// time.Time (mysql with parseTime) or text (sqlite)
type timestampScanner struct {
	Time time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func (s *timestampScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		s.Time = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	case nil:
		s.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported created_at type %T", src)
	}
}

func (s *timestampScanner) parse(v string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			s.Time = t.UTC()
			return nil
		}
	}
	return errors.New("unparseable created_at: " + v)
}

var _ backend.Store = (*Backend)(nil)
