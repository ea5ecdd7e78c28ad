package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"unknown", log.InfoLevel},
		{"", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskdesk.log")
	logger := New(path, log.InfoLevel)
	defer func() { _ = logger.Close() }()

	logger.Info(3, "board", "moved to High")
	logger.Warn(0, "api", "request failed")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[INFO] [task-3] [board] moved to High")
	assert.Contains(t, lines[1], "[WARN] [global] [api] request failed")
}

func TestLogger_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskdesk.log")
	logger := New(path, log.WarnLevel)
	defer func() { _ = logger.Close() }()

	logger.Debug(0, "x", "debug")
	logger.Info(0, "x", "info")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file is created until something is written")

	logger.Error(0, "x", "error")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "debug")
	assert.NotContains(t, string(content), "] info")
	assert.Contains(t, string(content), "[ERROR]")
}

func TestLogger_DisabledWhenEmptyPath(t *testing.T) {
	logger := New("", log.DebugLevel)

	logger.Info(1, "x", "ignored")

	assert.NoError(t, logger.Close())
}

func TestLogger_Hook(t *testing.T) {
	base, hook := test.NewNullLogger()
	logger := NewWithLogger(base)

	logger.Warn(7, "store", "rolled back")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Equal(t, "rolled back", entry.Message)
	assert.Equal(t, 7, entry.Data["task_id"])
	assert.Equal(t, "store", entry.Data["category"])
}

func TestLineFormatter_Format(t *testing.T) {
	entry := &log.Entry{
		Time:    time.Date(2025, 12, 30, 9, 32, 51, 0, time.UTC),
		Level:   log.InfoLevel,
		Message: "hello",
		Data:    log.Fields{"category": "cli"},
	}

	out, err := LineFormatter{}.Format(entry)

	require.NoError(t, err)
	assert.Equal(t, "[2025-12-30 09:32:51] [INFO] [global] [cli] hello\n", string(out))
}

func TestLogger_CloseAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskdesk.log")
	logger := New(path, log.InfoLevel)

	logger.Info(0, "x", "first")
	require.NoError(t, logger.Close())
	logger.Info(0, "x", "second")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "first")
	assert.Contains(t, string(content), "second")
	assert.Equal(t, path, logger.Path())
}
