// Package credentials stores and resolves the REST access key. The key is
// taken from the environment first and the OS keyring second; it is never
// written to the config file.
package credentials

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Source indicates where credentials were retrieved from
type Source string

const (
	SourceEnvironment Source = "environment"
	SourceKeyring     Source = "keyring"
	SourceNone        Source = "none"
)

// KeyEnv is the environment variable holding the access key
const KeyEnv = "TODOPAD_KEY"

// CredentialInfo contains credential information returned by Get()
type CredentialInfo struct {
	Source  Source // Where the key came from
	Backend string // Backend name (e.g., "rest")
	Account string // Account the key belongs to, the project URL for rest
	Secret  string // The key itself, never printed
	Found   bool   // Whether a key was found
}

// JSON serializes the credential info to JSON (secret excluded)
func (c *CredentialInfo) JSON() ([]byte, error) {
	output := struct {
		Backend string `json:"backend"`
		Account string `json:"account"`
		Source  string `json:"source"`
		Found   bool   `json:"found"`
	}{
		Backend: c.Backend,
		Account: c.Account,
		Source:  string(c.Source),
		Found:   c.Found,
	}
	return json.Marshal(output)
}

// Keyring is the interface for keyring operations
type Keyring interface {
	Set(service, account, secret string) error
	Get(service, account string) (string, error)
	Delete(service, account string) error
}

// Manager handles credential operations
type Manager struct {
	keyring Keyring
	getenv  func(string) string
}

// ManagerOption is a functional option for Manager
type ManagerOption func(*Manager)

// WithKeyring sets a custom keyring implementation
func WithKeyring(k Keyring) ManagerOption {
	return func(m *Manager) {
		m.keyring = k
	}
}

// WithGetenv replaces os.Getenv
func WithGetenv(getenv func(string) string) ManagerOption {
	return func(m *Manager) {
		m.getenv = getenv
	}
}

// NewManager creates a new credential manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		keyring: &systemKeyring{},
		getenv:  os.Getenv,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// normalizeBackend normalizes backend names to lowercase
func normalizeBackend(backend string) string {
	return strings.ToLower(strings.TrimSpace(backend))
}

// serviceName returns the keyring service name for a backend
func serviceName(backend string) string {
	return fmt.Sprintf("todopad-%s", normalizeBackend(backend))
}

// Set stores a key in the keyring
func (m *Manager) Set(ctx context.Context, backend, account, secret string) error {
	if secret == "" {
		return errors.New("refusing to store an empty key")
	}
	return m.keyring.Set(serviceName(backend), account, secret)
}

// Get resolves the key for backend/account: environment first, then keyring.
// A missing key is not an error; check Found.
func (m *Manager) Get(ctx context.Context, backend, account string) (*CredentialInfo, error) {
	backend = normalizeBackend(backend)
	info := &CredentialInfo{Backend: backend, Account: account, Source: SourceNone}

	if key := m.getenv(KeyEnv); key != "" {
		info.Source, info.Secret, info.Found = SourceEnvironment, key, true
		return info, nil
	}

	if account == "" {
		return info, nil
	}
	secret, err := m.keyring.Get(serviceName(backend), account)
	switch {
	case err == nil && secret != "":
		info.Source, info.Secret, info.Found = SourceKeyring, secret, true
	case err == nil, errors.Is(err, ErrNotFound), errors.Is(err, ErrKeyringNotAvailable):
	default:
		return nil, err
	}
	return info, nil
}

// Delete removes a key from the keyring. Deleting a missing key succeeds.
func (m *Manager) Delete(ctx context.Context, backend, account string) error {
	err := m.keyring.Delete(serviceName(backend), account)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// PromptPassword prompts for a secret. Input from a terminal is hidden;
// other readers are read one line at a time.
func PromptPassword(reader io.Reader, writer io.Writer, backend, account string) (string, error) {
	_, _ = fmt.Fprintf(writer, "Enter access key for %s (%s): ", backend, account)

	if f, ok := reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(writer)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	scanner := bufio.NewScanner(reader)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no input received")
}
