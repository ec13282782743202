package tasklist

import "fmt"

// Kind classifies which store operation failed.
type Kind int

const (
	LoadFailed Kind = iota + 1
	AddFailed
	UpdateFailed
	DeleteFailed
)

// String returns the kind name used in logs and JSON output.
func (k Kind) String() string {
	switch k {
	case LoadFailed:
		return "LoadFailed"
	case AddFailed:
		return "AddFailed"
	case UpdateFailed:
		return "UpdateFailed"
	case DeleteFailed:
		return "DeleteFailed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) verb() string {
	switch k {
	case LoadFailed:
		return "could not load tasks"
	case AddFailed:
		return "could not add task"
	case UpdateFailed:
		return "could not save task"
	case DeleteFailed:
		return "could not delete task"
	default:
		return "task operation failed"
	}
}

// OpError is a failed store operation as reported through the error slot.
type OpError struct {
	Kind Kind
	ID   string // task id, empty for load and add
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind.verb(), e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
