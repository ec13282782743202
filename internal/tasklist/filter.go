package tasklist

import (
	"strings"

	"todopad/backend"
	"todopad/internal/utils"
)

// FilterMode selects which tasks are visible.
type FilterMode int

const (
	All FilterMode = iota
	Active
	Completed
)

// FilterModes lists every mode in display order.
var FilterModes = []FilterMode{All, Active, Completed}

func (m FilterMode) String() string {
	switch m {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "all"
	}
}

// Next cycles to the following mode, wrapping after Completed.
func (m FilterMode) Next() FilterMode {
	return FilterModes[(int(m)+1)%len(FilterModes)]
}

// ParseFilterMode parses "all", "active" or "completed" (case-insensitive).
// An empty string means All.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "active":
		return Active, nil
	case "completed":
		return Completed, nil
	default:
		return All, utils.ErrInvalidFilter(s)
	}
}

// Filter returns the tasks matching mode, preserving order.
// The input slice is never modified.
func Filter(tasks []backend.Task, mode FilterMode) []backend.Task {
	out := make([]backend.Task, 0, len(tasks))
	for _, t := range tasks {
		switch mode {
		case Active:
			if t.Completed {
				continue
			}
		case Completed:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
