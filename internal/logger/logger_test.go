package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  slog.LevelInfo,
		Format: "json",
		Writer: &buf,
	}

	logger := New(cfg)
	logger.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantFormat  string
	}{
		{
			name:        "production uses json",
			environment: "production",
			wantFormat:  "json",
		},
		{
			name:        "development uses pretty",
			environment: "development",
			wantFormat:  "pretty",
		},
		{
			name:        "staging uses pretty",
			environment: "staging",
			wantFormat:  "pretty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := Config{
				Level:       slog.LevelInfo,
				Environment: tt.environment,
				Writer:      &buf,
			}

			logger := New(cfg)
			logger.Info("test")

			output := buf.String()
			if tt.wantFormat == "json" {
				assert.Contains(t, output, `"msg":"test"`)
			} else {
				// Pretty format carries ANSI codes around the message.
				assert.Contains(t, output, "test")
				assert.Contains(t, output, colorReset)
			}
		})
	}
}

func TestNew_ExplicitFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:       slog.LevelInfo,
		Format:      "json",
		Environment: "development", // Would normally use pretty
		Writer:      &buf,
	}

	logger := New(cfg)
	logger.Info("test")

	// Should use JSON despite development environment
	assert.Contains(t, buf.String(), `"msg":"test"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		checkLevel   slog.Level
		wantEnabled  bool
	}{
		{
			name:         "debug handler allows debug",
			handlerLevel: slog.LevelDebug,
			checkLevel:   slog.LevelDebug,
			wantEnabled:  true,
		},
		{
			name:         "info handler blocks debug",
			handlerLevel: slog.LevelInfo,
			checkLevel:   slog.LevelDebug,
			wantEnabled:  false,
		},
		{
			name:         "info handler allows error",
			handlerLevel: slog.LevelInfo,
			checkLevel:   slog.LevelError,
			wantEnabled:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, &slog.HandlerOptions{
				Level: tt.handlerLevel,
			})

			enabled := handler.Enabled(context.Background(), tt.checkLevel)
			assert.Equal(t, tt.wantEnabled, enabled)
		})
	}
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	logger := slog.New(handler)
	logger.Info("test message", "key1", "value1", "key2", 42)

	output := buf.String()
	assert.Contains(t, output, "test message")
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=42")
	assert.Contains(t, output, "INF") // Level indicator
}

func TestPrettyHandler_LevelFormatting(t *testing.T) {
	tests := []struct {
		level      slog.Level
		wantString string
	}{
		{slog.LevelDebug, "DBG"},
		{slog.LevelInfo, "INF"},
		{slog.LevelWarn, "WRN"},
		{slog.LevelError, "ERR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantString, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})

			logger := slog.New(handler)
			logger.Log(context.Background(), tt.level, "test")

			assert.Contains(t, buf.String(), tt.wantString)
		})
	}
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	handlerWithAttrs := handler.WithAttrs([]slog.Attr{
		slog.String("service", "prompthub"),
		slog.Int("version", 1),
	})

	logger := slog.New(handlerWithAttrs)
	logger.Info("test message")

	output := buf.String()
	assert.Contains(t, output, "service=prompthub")
	assert.Contains(t, output, "version=1")
	assert.Contains(t, output, "test message")
}

func TestNewPrettyHandler_NilOptions(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, nil)

	assert.NotNil(t, handler)
	assert.NotNil(t, handler.opts)

	logger := slog.New(handler)
	logger.Info("test")

	assert.Contains(t, buf.String(), "test")
}

func TestFormatLevel(t *testing.T) {
	tests := []struct {
		level     slog.Level
		wantStr   string
		wantColor string
	}{
		{slog.LevelDebug, "DBG", colorMagenta},
		{slog.LevelInfo, "INF", colorGreen},
		{slog.LevelWarn, "WRN", colorYellow},
		{slog.LevelError, "ERR", colorRed},
	}

	for _, tt := range tests {
		t.Run(tt.wantStr, func(t *testing.T) {
			str, color := formatLevel(tt.level)
			assert.Equal(t, tt.wantStr, str)
			assert.Equal(t, tt.wantColor, color)
		})
	}
}

func TestFormatValue(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{
			name:  "string",
			value: slog.StringValue("test"),
			want:  "test",
		},
		{
			name:  "time",
			value: slog.TimeValue(now),
			want:  now.Format(time.RFC3339),
		},
		{
			name:  "duration",
			value: slog.DurationValue(5 * time.Second),
			want:  "5s",
		},
		{
			name:  "int",
			value: slog.IntValue(42),
			want:  "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatValue(tt.value)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithError(errors.New("disk full")).Info("snapshot failed")

	output := buf.String()
	assert.Contains(t, output, "disk full")
	assert.Contains(t, output, "error")
}

func TestLogger_WithField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithField("prompt_id", "prompt-123").Info("prompt used")

	output := buf.String()
	assert.Contains(t, output, "prompt_id")
	assert.Contains(t, output, "prompt-123")
	assert.Contains(t, output, "prompt used")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}
