// Package config handles application configuration
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed config.sample.yaml
var sampleConfig string

// GetSampleConfig returns the embedded sample configuration content
func GetSampleConfig() string {
	return sampleConfig
}

// Backends lists the accepted values of the backend setting
var Backends = []string{"memory", "mysql", "rest", "sqlite"}

// Environment variables that override file settings
const (
	EnvBackend = "TODOPAD_BACKEND"
	EnvURL     = "TODOPAD_URL"
	EnvKey     = "TODOPAD_KEY"
	EnvTable   = "TODOPAD_TABLE"
	EnvSQLDSN  = "TODOPAD_SQL_DSN"
)

// Config represents the application configuration
type Config struct {
	Backend string        `yaml:"backend" toml:"backend"`
	REST    RESTConfig    `yaml:"rest" toml:"rest"`
	SQL     SQLConfig     `yaml:"sql" toml:"sql"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`

	// Key is the REST access key. It is only ever taken from the
	// environment or the keyring, never from the file.
	Key string `yaml:"-" toml:"-"`
}

// RESTConfig holds settings for the hosted table store
type RESTConfig struct {
	URL     string `yaml:"url" toml:"url"`
	Table   string `yaml:"table" toml:"table"`
	Timeout string `yaml:"timeout" toml:"timeout"` // e.g. "30s"
}

// SQLConfig holds settings for the sqlite and mysql stores
type SQLConfig struct {
	Path string `yaml:"path" toml:"path"` // sqlite database file
	DSN  string `yaml:"dsn" toml:"dsn"`   // mysql data source name
}

// UIConfig holds user interface settings
type UIConfig struct {
	SeedSampleTasks bool   `yaml:"seed_sample_tasks" toml:"seed_sample_tasks"`
	DefaultFilter   string `yaml:"default_filter" toml:"default_filter"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Verbose    bool   `yaml:"verbose" toml:"verbose"`
	SessionLog *bool  `yaml:"session_log" toml:"session_log"` // default: true
	Dir        string `yaml:"dir" toml:"dir"`                 // default: os.TempDir()
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: "memory",
		REST: RESTConfig{
			Table:   "tasks",
			Timeout: "30s",
		},
		SQL: SQLConfig{
			Path: filepath.Join(GetDataDir(), "tasks.db"),
		},
		UI: UIConfig{
			SeedSampleTasks: true,
			DefaultFilter:   "all",
		},
	}
}

// DefaultPath returns the config file location under the XDG config dir
func DefaultPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load loads configuration from the specified path, or the default XDG path if empty.
// If the config file doesn't exist, it creates one with defaults.
// Files ending in .toml are parsed as TOML, everything else as YAML.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.ApplyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, isTOML(configPath))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Parse decodes config bytes and fills unset fields with defaults
func Parse(data []byte, asTOML bool) (*Config, error) {
	cfg := &Config{}
	if asTOML {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("invalid TOML in config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// applyDefaults fills fields left empty by the file
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.REST.Table == "" {
		c.REST.Table = def.REST.Table
	}
	if c.REST.Timeout == "" {
		c.REST.Timeout = def.REST.Timeout
	}
	if c.SQL.Path == "" {
		c.SQL.Path = def.SQL.Path
	}
	c.SQL.Path = ExpandPath(c.SQL.Path)
	if c.UI.DefaultFilter == "" {
		c.UI.DefaultFilter = def.UI.DefaultFilter
	}
	c.Logging.Dir = ExpandPath(c.Logging.Dir)
}

// ApplyEnv overrides file settings with TODOPAD_* environment variables
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvBackend); ok && v != "" {
		c.Backend = v
	}
	if v, ok := os.LookupEnv(EnvURL); ok && v != "" {
		c.REST.URL = v
	}
	if v, ok := os.LookupEnv(EnvKey); ok && v != "" {
		c.Key = v
	}
	if v, ok := os.LookupEnv(EnvTable); ok && v != "" {
		c.REST.Table = v
	}
	if v, ok := os.LookupEnv(EnvSQLDSN); ok && v != "" {
		c.SQL.DSN = v
	}
}

// save writes the configuration to the specified path
func (c *Config) save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// YAML uses the embedded sample which includes all documentation and comments
	content := []byte(sampleConfig)
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		content = buf.Bytes()
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	valid := false
	for _, b := range Backends {
		if c.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown backend: %q (must be one of %s)", c.Backend, strings.Join(Backends, ", "))
	}

	if c.REST.Timeout != "" {
		d, err := time.ParseDuration(c.REST.Timeout)
		if err != nil {
			return fmt.Errorf("invalid duration for rest.timeout: %q", c.REST.Timeout)
		}
		if d <= 0 {
			return fmt.Errorf("rest.timeout must be positive, got %q", c.REST.Timeout)
		}
	}

	switch strings.ToLower(c.UI.DefaultFilter) {
	case "", "all", "active", "completed":
	default:
		return fmt.Errorf("invalid ui.default_filter: %q (must be all, active or completed)", c.UI.DefaultFilter)
	}

	return nil
}

// GetTimeout returns rest.timeout as a duration.
// Returns 30 seconds if not configured or if parsing fails.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.REST.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// IsSessionLogEnabled returns true if the TUI should log to a session file.
// Returns true (default) if not configured.
func (c *Config) IsSessionLogEnabled() bool {
	if c.Logging.SessionLog == nil {
		return true
	}
	return *c.Logging.SessionLog
}

// getXDGDir returns a directory path following XDG spec.
// envVar is the XDG environment variable (e.g., "XDG_CONFIG_HOME").
// fallbackPath is the relative path from home (e.g., ".config").
func getXDGDir(envVar, fallbackPath string) string {
	if xdgDir := os.Getenv(envVar); xdgDir != "" {
		return filepath.Join(xdgDir, "todopad")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", fallbackPath, "todopad")
	}
	return filepath.Join(home, fallbackPath, "todopad")
}

// GetConfigDir returns the configuration directory following XDG spec
func GetConfigDir() string {
	return getXDGDir("XDG_CONFIG_HOME", ".config")
}

// GetDataDir returns the data directory following XDG spec
func GetDataDir() string {
	return getXDGDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ExpandPath expands ~ and environment variables in a path
func ExpandPath(path string) string {
	if path == "" || path == ":memory:" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
