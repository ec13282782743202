// Package testutil provides shared test utilities: an in-memory FakeStore
// and a helper for running CLI commands in isolation.
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todopad/cmd/todopad/cmd"
	"todopad/internal/config"
	"todopad/internal/credentials"
)

// defaultTestConfig is the minimal config used by the test constructors to ensure isolation.
const defaultTestConfig = `# test config
backend: memory
ui:
  seed_sample_tasks: false
logging:
  session_log: false
`

// CLITest provides a test helper for running CLI commands in isolation.
type CLITest struct {
	t          *testing.T
	cfg        *cmd.Config
	tmpDir     string
	configPath string
	store      *FakeStore
	keyring    *credentials.MockKeyring
}

// NewCLITest creates a CLI test helper backed by a FakeStore.
func NewCLITest(t *testing.T) *CLITest {
	t.Helper()
	c := NewCLITestWithConfig(t)
	c.store = NewFakeStore()
	c.cfg.Store = c.store
	return c
}

// NewCLITestWithConfig creates a CLI test helper that opens stores through
// the registry, as configured in ConfigPath().
func NewCLITestWithConfig(t *testing.T) *CLITest {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte(defaultTestConfig), 0644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	// Keep the developer's environment out of the test.
	for _, name := range []string{config.EnvBackend, config.EnvURL, config.EnvKey, config.EnvTable, config.EnvSQLDSN} {
		t.Setenv(name, "")
	}
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))

	keyring := credentials.NewMockKeyring()
	return &CLITest{
		t: t,
		cfg: &cmd.Config{
			ConfigPath: configPath,
			Stdin:      strings.NewReader(""),
			Keyring:    keyring,
		},
		tmpDir:     tmpDir,
		configPath: configPath,
		keyring:    keyring,
	}
}

// Config returns the test configuration.
func (c *CLITest) Config() *cmd.Config {
	return c.cfg
}

// TmpDir returns the temporary directory for the test.
func (c *CLITest) TmpDir() string {
	return c.tmpDir
}

// ConfigPath returns the path to the config file.
func (c *CLITest) ConfigPath() string {
	return c.configPath
}

// Store returns the injected FakeStore, or nil for NewCLITestWithConfig.
func (c *CLITest) Store() *FakeStore {
	return c.store
}

// Keyring returns the mock keyring used for credentials.
func (c *CLITest) Keyring() *credentials.MockKeyring {
	return c.keyring
}

// SetStdin sets the input read by prompts.
func (c *CLITest) SetStdin(input string) {
	c.cfg.Stdin = strings.NewReader(input)
}

// SetFullConfig replaces the entire config file with the given YAML content.
func (c *CLITest) SetFullConfig(yamlContent string) {
	c.t.Helper()

	if err := os.WriteFile(c.configPath, []byte(yamlContent), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// Execute runs a CLI command with the given arguments and returns stdout, stderr, and exit code.
func (c *CLITest) Execute(args ...string) (stdout, stderr string, exitCode int) {
	c.t.Helper()

	var stdoutBuf, stderrBuf bytes.Buffer
	exitCode = cmd.Execute(args, &stdoutBuf, &stderrBuf, c.cfg)
	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

// MustExecute runs a CLI command and fails the test if exit code is non-zero.
func (c *CLITest) MustExecute(args ...string) string {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode != 0 {
		c.t.Fatalf("expected exit code 0, got %d: stdout=%s stderr=%s", exitCode, stdout, stderr)
	}
	return stdout
}

// ExecuteAndFail runs a CLI command and fails the test if exit code is zero.
func (c *CLITest) ExecuteAndFail(args ...string) (stdout, stderr string) {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode == 0 {
		c.t.Fatalf("expected non-zero exit code, got 0: stdout=%s", stdout)
	}
	return stdout, stderr
}

// AssertContains fails the test if output doesn't contain expected string.
func AssertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// AssertNotContains fails the test if output contains unexpected string.
func AssertNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	if strings.Contains(output, unexpected) {
		t.Errorf("expected output NOT to contain %q, got:\n%s", unexpected, output)
	}
}

// AssertExitCode fails the test if exit code doesn't match expected.
func AssertExitCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// AssertResultCode verifies the "result" field of a JSON response.
func AssertResultCode(t *testing.T, output, expectedCode string) {
	t.Helper()
	var resp struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if resp.Result != expectedCode {
		t.Errorf("expected result code %q, got %q\nFull output:\n%s", expectedCode, resp.Result, output)
	}
}
