package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"todopad/backend"
	"todopad/internal/utils"
)

// =============================================================================
// Table API Mock Server for Tests
// =============================================================================

// mockTableServer simulates the PostgREST interface of the tasks table
type mockTableServer struct {
	server     *httptest.Server
	apiKey     string
	mu         sync.Mutex
	rows       []map[string]any
	nextID     int
	failNext   int // status returned by the next request, 0 = none
	requestLog []string
	headers    []http.Header
}

func newMockTableServer(apiKey string) *mockTableServer {
	m := &mockTableServer{apiKey: apiKey, nextID: 1}
	m.server = httptest.NewServer(http.HandlerFunc(m.handler))
	return m
}

func (m *mockTableServer) Close() {
	m.server.Close()
}

func (m *mockTableServer) URL() string {
	return m.server.URL
}

// AddRow inserts a raw row, bypassing the API
func (m *mockTableServer) AddRow(row map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
}

func (m *mockTableServer) FailNext(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = status
}

func (m *mockTableServer) GetRequestLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.requestLog...)
}

func (m *mockTableServer) lastHeader() http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.headers) == 0 {
		return nil
	}
	return m.headers[len(m.headers)-1]
}

func (m *mockTableServer) handler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestLog = append(m.requestLog, r.Method+" "+r.URL.RequestURI())
	m.headers = append(m.headers, r.Header.Clone())

	if m.failNext != 0 {
		status := m.failNext
		m.failNext = 0
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"simulated failure"}`))
		return
	}

	if r.Header.Get("apikey") != m.apiKey || r.Header.Get("Authorization") != "Bearer "+m.apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if r.URL.Path != "/rest/v1/tasks" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(m.rows)
	case http.MethodPost:
		var input map[string]any
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		row := map[string]any{
			"id":         m.nextID,
			"title":      input["title"],
			"completed":  input["completed"],
			"created_at": time.Date(2025, 1, 1, 0, 0, m.nextID, 0, time.UTC).Format(time.RFC3339Nano),
		}
		m.nextID++
		m.rows = append(m.rows, row)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]any{row})
	case http.MethodPatch:
		id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
		var input map[string]any
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, row := range m.rows {
			if idString(row["id"]) == id {
				for k, v := range input {
					row[k] = v
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
		kept := m.rows[:0]
		for _, row := range m.rows {
			if idString(row["id"]) != id {
				kept = append(kept, row)
			}
		}
		m.rows = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func idString(v any) string {
	switch id := v.(type) {
	case int:
		return strconv.Itoa(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case string:
		return id
	}
	return ""
}

func mustNewBackend(t *testing.T, m *mockTableServer, key string) *Backend {
	t.Helper()
	b, err := New(Config{URL: m.URL(), Key: key})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// =============================================================================
// Tests
// =============================================================================

func TestNewRequiresURLAndKey(t *testing.T) {
	if _, err := New(Config{Key: "k"}); err == nil {
		t.Error("expected error without URL")
	}
	if _, err := New(Config{URL: "http://example.test"}); err == nil {
		t.Error("expected error without key")
	}
	if _, err := New(Config{URL: "not a url", Key: "k"}); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestRegisteredStoreDegradesToDisconnected(t *testing.T) {
	s, err := backend.Open("rest", backend.Options{URL: "http://example.test"})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if s.Connected() {
		t.Error("store without key should be disconnected")
	}
	if _, err := s.List(context.Background()); !errors.Is(err, backend.ErrNotConnected) {
		t.Errorf("List error = %v, want ErrNotConnected", err)
	}
}

func TestCRUDRoundTrip(t *testing.T) {
	m := newMockTableServer("secret")
	defer m.Close()
	b := mustNewBackend(t, m, "secret")
	ctx := context.Background()

	created, err := b.Insert(ctx, backend.NewTask{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if created.ID != "1" || created.Title != "Buy milk" || created.Completed {
		t.Errorf("Insert returned %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}

	if err := b.Update(ctx, created.ID, backend.CompletedPatch(true)); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := b.Update(ctx, created.ID, backend.TitlePatch("Buy oat milk")); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	tasks, err := b.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Buy oat milk" || !tasks[0].Completed {
		t.Fatalf("List returned %+v", tasks)
	}

	if err := b.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	tasks, _ = b.List(ctx)
	if len(tasks) != 0 {
		t.Errorf("expected empty table after delete, got %+v", tasks)
	}
}

func TestListRequestsCreationOrder(t *testing.T) {
	m := newMockTableServer("secret")
	defer m.Close()
	b := mustNewBackend(t, m, "secret")

	if _, err := b.List(context.Background()); err != nil {
		t.Fatalf("List error: %v", err)
	}

	log := m.GetRequestLog()
	if len(log) != 1 || !strings.Contains(log[0], "order=created_at.asc") {
		t.Errorf("request log = %v, want order=created_at.asc", log)
	}
	h := m.lastHeader()
	if h.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestUpdateTargetsSingleRow(t *testing.T) {
	m := newMockTableServer("secret")
	defer m.Close()
	b := mustNewBackend(t, m, "secret")

	if err := b.Update(context.Background(), "7", backend.TitlePatch("x")); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	log := m.GetRequestLog()
	if len(log) != 1 || !strings.HasPrefix(log[0], "PATCH /rest/v1/tasks?id=eq.7") {
		t.Errorf("request log = %v", log)
	}
}

func TestEmptyPatchSendsNothing(t *testing.T) {
	m := newMockTableServer("secret")
	defer m.Close()
	b := mustNewBackend(t, m, "secret")

	if err := b.Update(context.Background(), "1", backend.TaskPatch{}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if log := m.GetRequestLog(); len(log) != 0 {
		t.Errorf("expected no requests, got %v", log)
	}
}

func TestAuthenticationFailure(t *testing.T) {
	m := newMockTableServer("secret")
	defer m.Close()
	b := mustNewBackend(t, m, "wrong")

	_, err := b.List(context.Background())
	if err == nil {
		t.Fatal("expected error with wrong key")
	}
	var sugg *utils.ErrorWithSuggestion
	if !errors.As(err, &sugg) {
		t.Errorf("error %v should carry a suggestion", err)
	}
}

func TestServerErrorIsNotRetried(t *testing.T) {
	m := newMockTableServer("secret")
	defer m.Close()
	b := mustNewBackend(t, m, "secret")

	m.FailNext(http.StatusInternalServerError)
	err := b.Delete(context.Background(), "1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "simulated failure") {
		t.Errorf("error = %v, want server message", err)
	}
	if log := m.GetRequestLog(); len(log) != 1 {
		t.Errorf("expected exactly one request, got %v", log)
	}
}

func TestOfflineServer(t *testing.T) {
	m := newMockTableServer("secret")
	b := mustNewBackend(t, m, "secret")
	m.Close()

	_, err := b.List(context.Background())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	var sugg *utils.ErrorWithSuggestion
	if !errors.As(err, &sugg) {
		t.Errorf("offline error %v should carry a suggestion", err)
	}
}

func TestCoercesLooseRows(t *testing.T) {
	m := newMockTableServer("secret")
	defer m.Close()
	m.AddRow(map[string]any{"id": 1, "title": "bool", "completed": true, "created_at": "2025-01-01T00:00:00.123456+00:00"})
	m.AddRow(map[string]any{"id": "2", "title": "null", "completed": nil, "created_at": "2025-01-01T00:00:01.5"})
	m.AddRow(map[string]any{"id": 3, "title": "number", "completed": 1})
	m.AddRow(map[string]any{"id": 4, "title": "string", "completed": "false"})
	b := mustNewBackend(t, m, "secret")

	tasks, err := b.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	want := []struct {
		id        string
		completed bool
	}{{"1", true}, {"2", false}, {"3", true}, {"4", false}}
	if len(tasks) != len(want) {
		t.Fatalf("len(tasks) = %d, want %d", len(tasks), len(want))
	}
	for i, w := range want {
		if tasks[i].ID != w.id || tasks[i].Completed != w.completed {
			t.Errorf("tasks[%d] = %+v, want id %s completed %v", i, tasks[i], w.id, w.completed)
		}
	}
	if tasks[0].CreatedAt.IsZero() || tasks[1].CreatedAt.IsZero() {
		t.Error("timestamps not parsed")
	}
	if !tasks[2].CreatedAt.IsZero() {
		t.Error("missing created_at should be zero")
	}
}

func TestRejectsMalformedRows(t *testing.T) {
	m := newMockTableServer("secret")
	defer m.Close()
	m.AddRow(map[string]any{"id": 1, "completed": false})
	b := mustNewBackend(t, m, "secret")

	if _, err := b.List(context.Background()); err == nil {
		t.Error("expected error for row without title")
	}
}
