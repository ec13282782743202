// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"todopad/backend"
	"todopad/internal/tasklist"
	"todopad/internal/utils"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown id, empty title).
	UserError = 1

	// ConfigError indicates a config or credentials error, including a
	// store with no connectivity parameters or a rejected access key.
	ConfigError = 2

	// BackendError indicates a store, network or database error.
	BackendError = 3
)

// Error carries an explicit exit code.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Config marks err as a configuration error.
func Config(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: ConfigError, Err: err}
}

// Backend marks err as a store error.
func Backend(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: BackendError, Err: err}
}

// For maps err to an exit code.
func For(err error) int {
	if err == nil {
		return Success
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	if errors.Is(err, backend.ErrNotConnected) || errors.Is(err, utils.ErrAuth) {
		return ConfigError
	}

	var opErr *tasklist.OpError
	if errors.As(err, &opErr) {
		return BackendError
	}
	return UserError
}
