package sqlstore

import (
	"time"

	"github.com/go-sql-driver/mysql"

	"todopad/backend"
)

var mysqlDialect = dialect{
	name:   "mysql",
	driver: "mysql",
	schema: `CREATE TABLE IF NOT EXISTS tasks (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    title VARCHAR(480) NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
    INDEX idx_tasks_created_at (created_at)
)`,
	timeArg: func(t time.Time) any { return t },
}

// NewMySQL connects to the database named in dsn, for example
// "user:pass@tcp(127.0.0.1:3306)/todopad".
func NewMySQL(dsn string) (*Backend, error) {
	dsn, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	return open(mysqlDialect, dsn)
}

// normalizeDSN forces the settings the store relies on: DATETIME columns
// scan as UTC time.Time, and UPDATE reports matched rather than changed rows
// so re-applying an unchanged value is not mistaken for a missing id.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

func init() {
	backend.Register("mysql", func(opts backend.Options) (backend.Store, error) {
		if opts.DSN == "" {
			return backend.Disconnected{Reason: "sql.dsn is not set"}, nil
		}
		return NewMySQL(opts.DSN)
	})
}
