package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// CLIHandler handles CLI commands for credential management
type CLIHandler struct {
	manager *Manager
	stdin   io.Reader
	stdout  io.Writer
}

// NewCLIHandler creates a new CLI handler for credential commands
func NewCLIHandler(manager *Manager, stdin io.Reader, stdout io.Writer) *CLIHandler {
	return &CLIHandler{
		manager: manager,
		stdin:   stdin,
		stdout:  stdout,
	}
}

// Set stores a key in the keyring.
// The key is always prompted for so it never lands in shell history.
func (h *CLIHandler) Set(ctx context.Context, backend, account string, prompt bool) error {
	if !prompt {
		return fmt.Errorf("--prompt flag is required for secure key input")
	}

	secret, err := PromptPassword(h.stdin, h.stdout, backend, account)
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}

	if err := h.manager.Set(ctx, backend, account, secret); err != nil {
		if errors.Is(err, ErrKeyringNotAvailable) {
			return keyringNotAvailableError()
		}
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	_, _ = fmt.Fprintf(h.stdout, "Credentials stored in system keyring\n")
	return nil
}

// keyringNotAvailableError points at the environment variable alternative
func keyringNotAvailableError() error {
	return fmt.Errorf(`%w on this system.

Alternative: export the key instead:
  export %s="your-access-key"

Run 'todopad credentials get rest <url>' to verify it is detected.`, ErrKeyringNotAvailable, KeyEnv)
}

// Get retrieves and displays credential information
func (h *CLIHandler) Get(ctx context.Context, backend, account string, jsonOutput bool) error {
	info, err := h.manager.Get(ctx, backend, account)
	if err != nil {
		return fmt.Errorf("failed to get credentials: %w", err)
	}

	if jsonOutput {
		jsonBytes, err := info.JSON()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(h.stdout, string(jsonBytes))
		return nil
	}

	if !info.Found {
		_, _ = fmt.Fprintf(h.stdout, "No credentials found for %s/%s\n", info.Backend, info.Account)
		_, _ = fmt.Fprintf(h.stdout, "Searched:\n")
		_, _ = fmt.Fprintf(h.stdout, "  - Environment variable %s: Not set\n", KeyEnv)
		_, _ = fmt.Fprintf(h.stdout, "  - System keyring: Not found\n")
		_, _ = fmt.Fprintf(h.stdout, "\nSuggestion: Run 'todopad credentials set %s %s --prompt'\n", info.Backend, info.Account)
		return nil
	}

	_, _ = fmt.Fprintf(h.stdout, "Source: %s\n", info.Source)
	_, _ = fmt.Fprintf(h.stdout, "Account: %s\n", info.Account)
	_, _ = fmt.Fprintf(h.stdout, "Key: ******** (hidden)\n")
	_, _ = fmt.Fprintf(h.stdout, "Backend: %s\n", info.Backend)
	return nil
}

// Delete removes a key from the keyring
func (h *CLIHandler) Delete(ctx context.Context, backend, account string) error {
	if err := h.manager.Delete(ctx, backend, account); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}

	_, _ = fmt.Fprintf(h.stdout, "Credentials removed from system keyring\n")
	return nil
}
