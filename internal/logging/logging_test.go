package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger with proper configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

		logger.Info("test message",
			slog.String("component", "test"),
			slog.Int("count", 42))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"test message"`)
		assert.Contains(t, output, `"component":"test"`)
		assert.Contains(t, output, `"count":42`)
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo, "text")
		logger.Info("hello", slog.String("stop_id", "BUS215"))
		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "stop_id=BUS215")
	})

	t.Run("respects log level configuration", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn, "json")

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError creates structured error log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

		LogError(logger, "failed to fetch feed", assert.AnError,
			slog.String("url", "http://example.com/tu.pb"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to fetch feed"`)
		assert.Contains(t, output, `"url":"http://example.com/tu.pb"`)
		assert.Contains(t, output, assert.AnError.Error())
	})

	t.Run("nil logger and nil error are ignored", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogError(nil, "x", assert.AnError)
			LogOperation(nil, "x")
			LogHTTPRequest(nil, "GET", "/", 200, 1)
		})
		var buf bytes.Buffer
		LogError(NewStructuredLogger(&buf, slog.LevelInfo, "json"), "x", nil)
		assert.Empty(t, buf.String())
	})

	t.Run("LogOperation drops zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

		LogOperation(logger, "schedule_loaded",
			slog.Duration("duration", 0),
			slog.Int("stops", 3))

		output := buf.String()
		assert.Contains(t, output, `"msg":"schedule_loaded"`)
		assert.Contains(t, output, `"stops":3`)
		assert.NotContains(t, output, `"duration"`)

		buf.Reset()
		LogOperation(logger, "schedule_loaded", slog.Duration("duration", time.Second))
		assert.Contains(t, buf.String(), `"duration"`)
	})

	t.Run("LogHTTPRequest", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")
		LogHTTPRequest(logger, "GET", "/api/health", 200, 1.5)
		assert.Contains(t, buf.String(), `"path":"/api/health"`)
		assert.Contains(t, buf.String(), `"status":200`)
	})
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("close failed") }

func TestSafeCloseWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo, "json")

	SafeCloseWithLogging(failingCloser{}, logger, "http_response_body")
	assert.Contains(t, buf.String(), "close failed")
	assert.Contains(t, buf.String(), `"operation":"http_response_body"`)

	assert.NotPanics(t, func() { SafeCloseWithLogging(nil, logger, "noop") })
}

func TestOrDefault(t *testing.T) {
	assert.Same(t, slog.Default(), OrDefault(nil))
	l := Discard()
	assert.Same(t, l, OrDefault(l))
}
