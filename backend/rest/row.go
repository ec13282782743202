package rest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"todopad/backend"
)

// rowSchemaJSON describes the loosest row shape accepted from the table.
// Anything that passes is coerced by rowToTask.
const rowSchemaJSON = `{
	"type": "object",
	"required": ["id", "title"],
	"properties": {
		"id": {"type": ["integer", "string"]},
		"title": {"type": "string"},
		"completed": {"type": ["boolean", "integer", "string", "null"]},
		"created_at": {"type": ["string", "null"]}
	}
}`

var rowSchema = jsonschema.MustCompileString("todopad://task-row.json", rowSchemaJSON)

// timestamp layouts seen from the table; the last one is a
// "timestamp without time zone" column.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

// rowToTask validates one decoded row and coerces it into a Task
func rowToTask(row any) (backend.Task, error) {
	if err := rowSchema.Validate(row); err != nil {
		return backend.Task{}, fmt.Errorf("unexpected row shape: %w", err)
	}
	m := row.(map[string]any)

	id, err := coerceID(m["id"])
	if err != nil {
		return backend.Task{}, err
	}

	t := backend.Task{
		ID:        id,
		Title:     m["title"].(string),
		Completed: coerceBool(m["completed"]),
	}
	if s, ok := m["created_at"].(string); ok {
		t.CreatedAt = parseTimestamp(s)
	}
	return t, nil
}

// coerceID renders a numeric or string key as a string id
func coerceID(v any) (string, error) {
	switch id := v.(type) {
	case json.Number:
		return id.String(), nil
	case string:
		if id == "" {
			return "", fmt.Errorf("empty id")
		}
		return id, nil
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}

// coerceBool forces the completed column to a boolean
func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case json.Number:
		n, err := b.Float64()
		return err == nil && n != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "t", "1", "yes", "y":
			return true
		}
		return false
	default:
		return false
	}
}

// parseTimestamp returns the zero time for unparseable input
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
