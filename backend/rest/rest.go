// Package rest provides a store backed by a hosted backend-as-a-service
// table exposed through a PostgREST-style HTTP interface.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"todopad/backend"
	"todopad/internal/utils"
)

const (
	// DefaultTable is the table holding tasks
	DefaultTable = "tasks"

	// DefaultTimeout bounds every request
	DefaultTimeout = 30 * time.Second

	// restPrefix is where the table endpoints live under the base URL
	restPrefix = "/rest/v1/"

	// columns selected on list
	columns = "id,title,completed,created_at"
)

// Config holds connection settings
type Config struct {
	URL     string
	Key     string
	Table   string
	Timeout time.Duration
}

// Backend implements backend.Store over HTTP
type Backend struct {
	config  Config
	client  *http.Client
	baseURL string
}

// New creates a REST backend. Both URL and Key are required.
func New(cfg Config) (*Backend, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rest backend URL is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("rest backend access key is required")
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid rest backend URL %q: %w", cfg.URL, err)
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Backend{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.URL, "/"),
	}, nil
}

// Close closes idle connections
func (b *Backend) Close() error {
	if b.client == nil {
		return nil
	}
	b.client.CloseIdleConnections()
	return nil
}

// Connected returns true; a Backend only exists with URL and key set
func (b *Backend) Connected() bool {
	return true
}

// tableURL builds the endpoint URL for the task table with the given query
func (b *Backend) tableURL(query url.Values) string {
	u := b.baseURL + restPrefix + url.PathEscape(b.config.Table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// idFilter selects a single row by primary key
func idFilter(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

// doRequest performs one authenticated request. There is no retry: a
// failed attempt is reported to the caller as is.
func (b *Backend) doRequest(ctx context.Context, method, target string, body any, prefer string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("apikey", b.config.Key)
	req.Header.Set("Authorization", "Bearer "+b.config.Key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	utils.GetLogger().Debug("rest request", "method", method, "table", b.config.Table, "request_id", requestID)

	resp, err := b.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, utils.ErrBackendOffline("rest", err)
	}
	return resp, nil
}

// checkStatus turns a non-2xx response into an error and closes nothing;
// callers own the body.
func checkStatus(resp *http.Response, action string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return utils.ErrAuthenticationFailed("rest")
	}

	var apiErr struct {
		Message string `json:"message"`
		Hint    string `json:"hint"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("failed to %s: status %d: %s", action, resp.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("failed to %s: status %d", action, resp.StatusCode)
}

// decodeRows reads a JSON array of rows and converts them at the boundary
func decodeRows(r io.Reader) ([]backend.Task, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid response body: %w", err)
	}

	tasks := make([]backend.Task, 0, len(raw))
	for i, row := range raw {
		t, err := rowToTask(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// =============================================================================
// Store operations
// =============================================================================

// List returns all rows ordered by created_at ascending
func (b *Backend) List(ctx context.Context) ([]backend.Task, error) {
	query := url.Values{
		"select": {columns},
		"order":  {"created_at.asc"},
	}

	resp, err := b.doRequest(ctx, http.MethodGet, b.tableURL(query), nil, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, "list tasks"); err != nil {
		return nil, err
	}
	return decodeRows(resp.Body)
}

// Insert creates a row and returns it as stored, with the server-assigned
// id and created_at.
func (b *Backend) Insert(ctx context.Context, task backend.NewTask) (*backend.Task, error) {
	body := map[string]any{
		"title":     task.Title,
		"completed": task.Completed,
	}

	resp, err := b.doRequest(ctx, http.MethodPost, b.tableURL(url.Values{"select": {columns}}), body, "return=representation")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp, "create task"); err != nil {
		return nil, err
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("failed to create task: expected 1 row, got %d", len(rows))
	}
	return &rows[0], nil
}

// Update patches the row with the given id
func (b *Backend) Update(ctx context.Context, id string, patch backend.TaskPatch) error {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Completed != nil {
		body["completed"] = *patch.Completed
	}
	if len(body) == 0 {
		return nil
	}

	resp, err := b.doRequest(ctx, http.MethodPatch, b.tableURL(idFilter(id)), body, "return=minimal")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return checkStatus(resp, "update task")
}

// Delete removes the row with the given id
func (b *Backend) Delete(ctx context.Context, id string) error {
	resp, err := b.doRequest(ctx, http.MethodDelete, b.tableURL(idFilter(id)), nil, "return=minimal")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return checkStatus(resp, "delete task")
}

// Verify interface compliance at compile time
var _ backend.Store = (*Backend)(nil)

// init registers the rest backend. Missing connectivity parameters yield
// a disconnected store instead of an error.
func init() {
	backend.Register("rest", func(opts backend.Options) (backend.Store, error) {
		if opts.URL == "" || opts.Key == "" {
			return backend.Disconnected{Reason: "rest endpoint URL or access key not set"}, nil
		}
		return New(Config{
			URL:     opts.URL,
			Key:     opts.Key,
			Table:   opts.Table,
			Timeout: opts.Timeout,
		})
	})
}
