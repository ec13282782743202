package sqlstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"todopad/backend"
)

// sqliteTimeLayout is fixed width so text order matches time order
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var sqliteDialect = dialect{
	name:   "sqlite",
	driver: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at);
	`,
	timeArg: func(t time.Time) any { return t.UTC().Format(sqliteTimeLayout) },
	// A second pooled connection to ":memory:" would see a different database
	maxOpen: 1,
}

// NewSQLite opens (creating if needed) a SQLite database at path.
// ":memory:" gives a throwaway database.
func NewSQLite(path string) (*Backend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return open(sqliteDialect, path)
}

func init() {
	backend.Register("sqlite", func(opts backend.Options) (backend.Store, error) {
		if opts.Path == "" {
			return nil, errors.New("sqlite backend requires sql.path")
		}
		return NewSQLite(opts.Path)
	})
}
