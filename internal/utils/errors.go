package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAuth is wrapped by every authentication failure.
var ErrAuth = errors.New("authentication failed")

// ErrorWithSuggestion wraps an error with a user-friendly suggestion.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%s\n\nSuggestion: %s", e.Err.Error(), e.Suggestion)
}

// GetSuggestion returns the suggestion text.
func (e *ErrorWithSuggestion) GetSuggestion() string {
	return e.Suggestion
}

// Unwrap returns the underlying error for error chain support.
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WrapWithSuggestion wraps an existing error with a suggestion.
func WrapWithSuggestion(err error, suggestion string) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Suggestion returns the suggestion carried anywhere in err's chain, or "".
func Suggestion(err error) string {
	var s *ErrorWithSuggestion
	if errors.As(err, &s) {
		return s.Suggestion
	}
	return ""
}

// ErrTaskNotFound returns an error for when a task id is not in the list.
func ErrTaskNotFound(id string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("task not found: %s", id),
		Suggestion: "Use 'todopad list' to see task ids",
	}
}

// ErrNotConnected wraps a not-connected store error with setup guidance.
func ErrNotConnected(err error) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: "Set TODOPAD_URL and TODOPAD_KEY, or store the key with 'todopad credentials set rest <url>'",
	}
}

// ErrUnknownBackend returns an error for an unregistered backend name.
func ErrUnknownBackend(name string, valid []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("unknown backend: %s", name),
		Suggestion: fmt.Sprintf("Valid options: %s", strings.Join(valid, ", ")),
	}
}

// ErrInvalidFilter returns an error for an unknown filter mode.
func ErrInvalidFilter(mode string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid filter: %s", mode),
		Suggestion: "Valid options: all, active, completed",
	}
}

// ErrBackendOffline returns an error when a backend is unreachable with smart suggestions.
func ErrBackendOffline(name string, cause error) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("backend %s is offline: %w", name, cause),
		Suggestion: getSmartSuggestion(cause.Error()),
	}
}

// getSmartSuggestion returns a context-aware suggestion based on the error reason.
func getSmartSuggestion(reason string) string {
	lowerReason := strings.ToLower(reason)

	if strings.Contains(lowerReason, "no such host") || strings.Contains(lowerReason, "dns") {
		return "Check your DNS settings and internet connection"
	}

	if strings.Contains(lowerReason, "connection refused") {
		return "Check if the server is running and accessible"
	}

	if strings.Contains(lowerReason, "timeout") {
		return "The server may be slow or unreachable. Try again later"
	}

	return "Check your internet connection and try again"
}

// ErrAuthenticationFailed returns an error when authentication fails.
func ErrAuthenticationFailed(backend string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("%w for %s", ErrAuth, backend),
		Suggestion: "Verify your access key is correct and has not been revoked",
	}
}
