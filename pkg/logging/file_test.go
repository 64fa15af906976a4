package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewFileLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    1024 * 1024,
		MaxBackups: 3,
	})
	require.NoError(t, err)
	defer logger.Close()

	assert.FileExists(t, logPath)
}

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})
	require.NoError(t, err)
	defer logger.Close()

	assert.FileExists(t, logPath)
}

func TestFileLogger_LogLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatText, Level: WarnLevel})
	require.NoError(t, err)

	ctx := context.Background()
	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)
	require.NoError(t, logger.Close())

	content := readLog(t, logPath)
	assert.NotContains(t, content, "debug message")
	assert.NotContains(t, content, "info message")
	assert.Contains(t, content, "warn message")
	assert.Contains(t, content, "error message")
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatJSON, Level: DebugLevel})
	require.NoError(t, err)

	logger.Info(context.Background(), "deleted file", Fields{"path": "/data/b.txt", "size": 3})
	require.NoError(t, logger.Close())

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "deleted file", entry["message"])
	assert.Equal(t, "/data/b.txt", entry["path"])
	assert.Equal(t, float64(3), entry["size"])
	assert.Contains(t, entry, "time")
}

func TestFileLogger_ErrorWithErr(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatJSON, Level: InfoLevel})
	require.NoError(t, err)

	logger.Error(context.Background(), "failed to delete file", errors.New("permission denied"), Fields{"path": "/x"})
	require.NoError(t, logger.Close())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "permission denied", entry["error"])
}

func TestFileLogger_WithFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatJSON, Level: InfoLevel})
	require.NoError(t, err)

	scoped := logger.WithFields(Fields{"operation_id": "op-1"})
	scoped.Info(context.Background(), "scan started", Fields{"root": "/data"})
	logger.Info(context.Background(), "unscoped", nil)
	require.NoError(t, logger.Close())

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "op-1", first["operation_id"])
	assert.Equal(t, "/data", first["root"])
	assert.NotContains(t, second, "operation_id")
}

func TestFileLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     FormatJSON,
		Level:      InfoLevel,
		MaxSize:    200,
		MaxBackups: 2,
	})
	require.NoError(t, err)

	for i := 0; i < 40; i++ {
		logger.Info(context.Background(), "a message long enough to fill the file quickly", Fields{"i": i})
	}
	require.NoError(t, logger.Close())

	assert.FileExists(t, logPath)
	assert.FileExists(t, logPath+".1")
	assert.FileExists(t, logPath+".2")
	assert.NoFileExists(t, logPath+".3")
}

func TestFileLogger_WriteAfterClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	assert.NotPanics(t, func() {
		logger.Info(context.Background(), "dropped", nil)
	})
	assert.NoError(t, logger.Close())
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, InfoLevel, false)

	logger.Debug(context.Background(), "hidden", nil)
	logger.Info(context.Background(), "scan finished", Fields{"groups": 2})
	require.NoError(t, logger.Close())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "scan finished")
	assert.Contains(t, buf.String(), "groups=2")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warning", WarnLevel},
		{"WARN", WarnLevel},
		{"error", ErrorLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}

	assert.Equal(t, "warn", WarnLevel.String())
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.Debug(ctx, "debug", nil)
		logger.Info(ctx, "info", Fields{"k": "v"})
		logger.Warn(ctx, "warn", nil)
		logger.Error(ctx, "error", errors.New("x"), nil)
	})
	assert.Same(t, logger, logger.WithFields(Fields{"k": "v"}))
	assert.NoError(t, logger.Close())
}
