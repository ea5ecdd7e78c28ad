// Package logging provides file-based logging for taskdesk on top of logrus.
// The terminal belongs to the board, so entries only go to the log file.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/runoshun/taskdesk/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

const (
	fieldTaskID   = "task_id"
	fieldCategory = "category"
)

// Logger adapts logrus to domain.Logger.
// Fields are ordered to minimize memory padding.
type Logger struct {
	entry *log.Logger
	file  *os.File
	path  string
	mu    sync.Mutex
}

// New creates a Logger appending to path. The file and its directory are
// created on first write. An empty path disables logging.
func New(path string, level log.Level) *Logger {
	l := log.New()
	l.SetLevel(level)
	l.SetFormatter(&LineFormatter{})
	l.SetOutput(io.Discard)
	return &Logger{entry: l, path: path}
}

// NewWithLogger wraps an existing logrus logger, e.g. one with test hooks.
func NewWithLogger(l *log.Logger) *Logger {
	return &Logger{entry: l}
}

// ParseLevel parses a log level string. Unknown values fall back to info.
func ParseLevel(levelStr string) log.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Path returns the log file path.
func (l *Logger) Path() string {
	return l.path
}

// ensureFile opens the log file once and points logrus at it.
func (l *Logger) ensureFile() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		// Hook-only loggers from NewWithLogger have no file.
		return l.entry.Out != io.Discard || len(l.entry.Hooks) > 0
	}
	if l.file != nil {
		return true
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return false
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return false
	}
	l.file = f
	l.entry.SetOutput(f)
	return true
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.entry.SetOutput(io.Discard)
	return err
}

func (l *Logger) log(level log.Level, taskID int, category, msg string) {
	if !l.entry.IsLevelEnabled(level) || !l.ensureFile() {
		return
	}
	fields := log.Fields{fieldCategory: category}
	if taskID > 0 {
		fields[fieldTaskID] = taskID
	}
	l.entry.WithFields(fields).Log(level, msg)
}

// Info logs an info message.
func (l *Logger) Info(taskID int, category, msg string) {
	l.log(log.InfoLevel, taskID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID int, category, msg string) {
	l.log(log.DebugLevel, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID int, category, msg string) {
	l.log(log.WarnLevel, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID int, category, msg string) {
	l.log(log.ErrorLevel, taskID, category, msg)
}

// LineFormatter renders one line per entry:
//
//	[2025-12-30 09:32:51] [INFO] [task-1] [category] message
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (LineFormatter) Format(e *log.Entry) ([]byte, error) {
	scope := "global"
	if id, ok := e.Data[fieldTaskID].(int); ok && id > 0 {
		scope = fmt.Sprintf("task-%d", id)
	}
	category, _ := e.Data[fieldCategory].(string)

	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] [%s] [%s] [%s] %s\n",
		e.Time.Format("2006-01-02 15:04:05"),
		levelName(e.Level),
		scope,
		category,
		e.Message,
	)
	return b.Bytes(), nil
}

func levelName(level log.Level) string {
	if level == log.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(level.String())
}
