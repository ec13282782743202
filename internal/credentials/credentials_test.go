package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const testURL = "https://abc.example.test"

// noEnv is a getenv that finds nothing
func noEnv(string) string { return "" }

func envWith(key string) func(string) string {
	return func(name string) string {
		if name == KeyEnv {
			return key
		}
		return ""
	}
}

// TestCredentialsSetKeyring tests that a key can be stored in the keyring
// CLI: todopad credentials set rest https://abc.example.test --prompt
func TestCredentialsSetKeyring(t *testing.T) {
	mockKeyring := NewMockKeyring()
	manager := NewManager(WithKeyring(mockKeyring), WithGetenv(noEnv))

	if err := manager.Set(context.Background(), "REST", testURL, "anon-key"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	stored, err := mockKeyring.Get("todopad-rest", testURL)
	if err != nil {
		t.Fatalf("Keyring Get failed: %v", err)
	}
	if stored != "anon-key" {
		t.Errorf("Expected key 'anon-key', got '%s'", stored)
	}
}

// TestCredentialsSetEmpty verifies empty keys are rejected
func TestCredentialsSetEmpty(t *testing.T) {
	manager := NewManager(WithKeyring(NewMockKeyring()))
	if err := manager.Set(context.Background(), "rest", testURL, ""); err == nil {
		t.Error("expected error for empty key")
	}
}

// TestCredentialsGetKeyring tests that a key can be retrieved from the keyring
func TestCredentialsGetKeyring(t *testing.T) {
	mockKeyring := NewMockKeyring()
	manager := NewManager(WithKeyring(mockKeyring), WithGetenv(noEnv))
	_ = mockKeyring.Set("todopad-rest", testURL, "from-keyring")

	info, err := manager.Get(context.Background(), "rest", testURL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !info.Found || info.Source != SourceKeyring || info.Secret != "from-keyring" {
		t.Errorf("unexpected info %+v", info)
	}
}

// TestCredentialsEnvWins verifies the environment takes priority over the keyring
func TestCredentialsEnvWins(t *testing.T) {
	mockKeyring := NewMockKeyring()
	_ = mockKeyring.Set("todopad-rest", testURL, "from-keyring")
	manager := NewManager(WithKeyring(mockKeyring), WithGetenv(envWith("from-env")))

	info, err := manager.Get(context.Background(), "rest", testURL)
	if err != nil {
		t.Fatal(err)
	}
	if info.Source != SourceEnvironment || info.Secret != "from-env" {
		t.Errorf("unexpected info %+v", info)
	}
}

// TestCredentialsNotFound verifies a missing key is reported, not an error
func TestCredentialsNotFound(t *testing.T) {
	manager := NewManager(WithKeyring(NewMockKeyring()), WithGetenv(noEnv))

	for _, account := range []string{testURL, ""} {
		info, err := manager.Get(context.Background(), "rest", account)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", account, err)
		}
		if info.Found || info.Source != SourceNone {
			t.Errorf("Get(%q) = %+v", account, info)
		}
	}
}

// failingKeyring returns a fixed error from every call
type failingKeyring struct{ err error }

func (f failingKeyring) Set(string, string, string) error   { return f.err }
func (f failingKeyring) Get(string, string) (string, error) { return "", f.err }
func (f failingKeyring) Delete(string, string) error        { return f.err }

// TestCredentialsKeyringUnavailable verifies an absent keyring degrades to not found
func TestCredentialsKeyringUnavailable(t *testing.T) {
	manager := NewManager(WithKeyring(failingKeyring{ErrKeyringNotAvailable}), WithGetenv(noEnv))
	info, err := manager.Get(context.Background(), "rest", testURL)
	if err != nil || info.Found {
		t.Errorf("Get = %+v, %v", info, err)
	}

	other := errors.New("dbus exploded")
	manager = NewManager(WithKeyring(failingKeyring{other}), WithGetenv(noEnv))
	if _, err := manager.Get(context.Background(), "rest", testURL); !errors.Is(err, other) {
		t.Errorf("Get error = %v, want %v", err, other)
	}
}

// TestCredentialsDeleteIdempotent verifies deleting twice succeeds
func TestCredentialsDeleteIdempotent(t *testing.T) {
	mockKeyring := NewMockKeyring()
	manager := NewManager(WithKeyring(mockKeyring))
	_ = mockKeyring.Set("todopad-rest", testURL, "k")

	for i := 0; i < 2; i++ {
		if err := manager.Delete(context.Background(), "rest", testURL); err != nil {
			t.Fatalf("Delete #%d failed: %v", i+1, err)
		}
	}
	if _, err := mockKeyring.Get("todopad-rest", testURL); !errors.Is(err, ErrNotFound) {
		t.Errorf("key should be gone, got %v", err)
	}
}

// TestCredentialInfoJSONOmitsSecret verifies the key never appears in JSON
func TestCredentialInfoJSONOmitsSecret(t *testing.T) {
	info := &CredentialInfo{Backend: "rest", Account: testURL, Secret: "s3cret", Source: SourceKeyring, Found: true}
	data, err := info.JSON()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "s3cret") {
		t.Errorf("JSON leaks the secret: %s", data)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["source"] != "keyring" || decoded["found"] != true {
		t.Errorf("decoded = %v", decoded)
	}
}

// TestPromptPasswordNonTTY verifies line reading for piped input
func TestPromptPasswordNonTTY(t *testing.T) {
	var out bytes.Buffer
	key, err := PromptPassword(strings.NewReader("  typed-key \n"), &out, "rest", testURL)
	if err != nil {
		t.Fatal(err)
	}
	if key != "typed-key" {
		t.Errorf("key = %q", key)
	}
	if !strings.Contains(out.String(), "Enter access key for rest") {
		t.Errorf("prompt = %q", out.String())
	}

	if _, err := PromptPassword(strings.NewReader(""), &out, "rest", testURL); err == nil {
		t.Error("expected error on empty input")
	}
}

// TestCLISet verifies the set command stores the prompted key
func TestCLISet(t *testing.T) {
	mockKeyring := NewMockKeyring()
	var out bytes.Buffer
	h := NewCLIHandler(NewManager(WithKeyring(mockKeyring)), strings.NewReader("k-123\n"), &out)

	if err := h.Set(context.Background(), "rest", testURL, true); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got, _ := mockKeyring.Get("todopad-rest", testURL); got != "k-123" {
		t.Errorf("stored %q", got)
	}
	if !strings.Contains(out.String(), "Credentials stored") {
		t.Errorf("output = %q", out.String())
	}

	if err := h.Set(context.Background(), "rest", testURL, false); err == nil {
		t.Error("Set without --prompt should fail")
	}
}

// TestCLISetKeyringUnavailable verifies the env var fallback hint
func TestCLISetKeyringUnavailable(t *testing.T) {
	mockKeyring := NewMockKeyring()
	mockKeyring.SetErr = ErrKeyringNotAvailable
	var out bytes.Buffer
	h := NewCLIHandler(NewManager(WithKeyring(mockKeyring)), strings.NewReader("k\n"), &out)

	err := h.Set(context.Background(), "rest", testURL, true)
	if !errors.Is(err, ErrKeyringNotAvailable) {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(err.Error(), KeyEnv) {
		t.Errorf("error should mention %s: %v", KeyEnv, err)
	}
}

// TestCLIGet verifies text and JSON output
func TestCLIGet(t *testing.T) {
	mockKeyring := NewMockKeyring()
	_ = mockKeyring.Set("todopad-rest", testURL, "hidden-value")
	manager := NewManager(WithKeyring(mockKeyring), WithGetenv(noEnv))

	var out bytes.Buffer
	h := NewCLIHandler(manager, strings.NewReader(""), &out)
	if err := h.Get(context.Background(), "rest", testURL, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Source: keyring") || strings.Contains(out.String(), "hidden-value") {
		t.Errorf("text output = %q", out.String())
	}

	out.Reset()
	if err := h.Get(context.Background(), "rest", "https://other.test", true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"found":false`) {
		t.Errorf("json output = %q", out.String())
	}
}

// TestCLIDelete verifies the delete command output
func TestCLIDelete(t *testing.T) {
	var out bytes.Buffer
	h := NewCLIHandler(NewManager(WithKeyring(NewMockKeyring())), strings.NewReader(""), &out)
	if err := h.Delete(context.Background(), "rest", testURL); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "removed") {
		t.Errorf("output = %q", out.String())
	}
}
