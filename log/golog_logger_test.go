package log

import (
	"bytes"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGologLogger(t *testing.T) {
	logger := NewGologLogger(golog.New())

	assert.NotNil(t, logger)
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}

func TestGologLogger_LevelControl(t *testing.T) {
	logger := NewGologLogger(golog.New())

	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())

	logger.SetLevel(LogLevelError)
	assert.Equal(t, LogLevelError, logger.GetLevel())

	logger.SetLevel(LogLevelNone)
	assert.Equal(t, LogLevelNone, logger.GetLevel())
}

func TestGologLogger_FormatsMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LogLevelDebug)

	logger.Info("Searching for: '%s'", "quantum computing")
	logger.Warn("Error processing %s: %v", "https://example.com", "timeout")

	out := buf.String()
	assert.Contains(t, out, "Searching for: 'quantum computing'")
	assert.Contains(t, out, "Error processing https://example.com: timeout")
	assert.NotContains(t, out, "%s")
}

func TestGologLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, LogLevelError)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("hidden warn")
	logger.Error("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible error")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"":        LogLevelInfo,
		"INFO":    LogLevelInfo,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"off":     LogLevelNone,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefaultLogger()
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	SetDefaultLogger(NewWriterLogger(&buf, LogLevelInfo))
	Info("hello %d", 42)
	Debug("not shown")
	assert.Contains(t, buf.String(), "hello 42")
	assert.NotContains(t, buf.String(), "not shown")

	SetDefaultLogger(nil)
	assert.IsType(t, &NoOpLogger{}, GetDefaultLogger())
	Error("discarded")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "UNKNOWN(42)", LogLevel(42).String())
}
