package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Logger provides leveled, key/value logging with verbose mode support.
type Logger struct {
	mu      sync.RWMutex
	verbose bool
	out     io.Writer
	logger  *log.Logger
}

var (
	loggerInstance *Logger
	once           sync.Once
)

// NewLogger creates a logger writing to w.
func NewLogger(w io.Writer) *Logger {
	return &Logger{
		out: w,
		logger: log.NewWithOptions(w, log.Options{
			Level:  log.InfoLevel,
			Prefix: "todopad",
		}),
	}
}

// GetLogger returns the singleton logger instance, writing to stderr.
func GetLogger() *Logger {
	once.Do(func() {
		loggerInstance = NewLogger(os.Stderr)
	})
	return loggerInstance
}

// SetVerboseMode sets the verbose mode globally.
func SetVerboseMode(verbose bool) {
	GetLogger().SetVerbose(verbose)
}

// SetVerbose switches between info and debug level.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
	if verbose {
		l.logger.SetLevel(log.DebugLevel)
	} else {
		l.logger.SetLevel(log.InfoLevel)
	}
}

// IsVerbose returns whether verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// SetOutput redirects the logger, e.g. to a file while the TUI owns the terminal.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.logger.SetOutput(w)
}

// Silence discards output until restore is called, which puts back the
// previous writer.
func (l *Logger) Silence() (restore func()) {
	l.mu.RLock()
	prev := l.out
	l.mu.RUnlock()

	l.SetOutput(io.Discard)
	return func() { l.SetOutput(prev) }
}

// Debug logs a debug message (only shown when verbose=true).
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.logger.Error(msg, keyvals...)
}

// Debugf logs a printf-style debug message using the global logger.
func Debugf(format string, args ...any) {
	GetLogger().Debug(fmt.Sprintf(format, args...))
}

// Infof logs a printf-style info message using the global logger.
func Infof(format string, args ...any) {
	GetLogger().Info(fmt.Sprintf(format, args...))
}

// Warnf logs a printf-style warning using the global logger.
func Warnf(format string, args ...any) {
	GetLogger().Warn(fmt.Sprintf(format, args...))
}

// SessionLog is a log file for one interactive session.
type SessionLog struct {
	file *os.File
	path string
}

// OpenSessionLog creates a session log file in dir (os.TempDir() if empty)
// and points the global logger at it. The file name carries a random
// session id so concurrent sessions never share a file.
func OpenSessionLog(dir string) (*SessionLog, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("todopad-%s.log", uuid.NewString()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}

	GetLogger().SetOutput(file)
	return &SessionLog{file: file, path: path}, nil
}

// Path returns the log file path.
func (s *SessionLog) Path() string {
	return s.path
}

// Close restores stderr logging and closes the file.
func (s *SessionLog) Close() error {
	GetLogger().SetOutput(os.Stderr)
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
