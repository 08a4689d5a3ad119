package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func parseLogLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	return logEntry
}

func TestNewWithWriterLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		debugShown bool
	}{
		{name: "debug level shows debug", level: "debug", debugShown: true},
		{name: "info level hides debug", level: "info", debugShown: false},
		{name: "warn level hides debug", level: "warn", debugShown: false},
		{name: "invalid level defaults to info", level: "bogus", debugShown: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)
			log.Debug("debug message")

			if got := buf.Len() > 0; got != tt.debugShown {
				t.Errorf("debug output present = %v, want %v", got, tt.debugShown)
			}
		})
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info("test message")

	logEntry := parseLogLine(t, &buf)

	requiredFields := []string{"timestamp", "level", "message"}
	for _, field := range requiredFields {
		if _, ok := logEntry[field]; !ok {
			t.Errorf("JSON log missing required field %q", field)
		}
	}

	if logEntry["message"] != "test message" {
		t.Errorf("message = %v, want %q", logEntry["message"], "test message")
	}
	if logEntry["level"] != "info" {
		t.Errorf("level = %v, want %q", logEntry["level"], "info")
	}
}

func TestLogger_WarnLevelRenamed(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("heads up")

	logEntry := parseLogLine(t, &buf)
	if logEntry["level"] != "warning" {
		t.Errorf("level = %v, want %q", logEntry["level"], "warning")
	}
}

func TestLogger_WithModule(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("bot").Info("test message")

	logEntry := parseLogLine(t, &buf)
	if module, ok := logEntry["module"].(string); !ok || module != "bot" {
		t.Errorf("WithModule() module = %v, want %q", logEntry["module"], "bot")
	}
}

func TestLogger_WithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithRequestID("req-123").Info("test message")

	logEntry := parseLogLine(t, &buf)
	if requestID, ok := logEntry["request_id"].(string); !ok || requestID != "req-123" {
		t.Errorf("WithRequestID() request_id = %v, want %q", logEntry["request_id"], "req-123")
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithError(errors.New("boom")).Error("operation failed")

	logEntry := parseLogLine(t, &buf)
	if errField, ok := logEntry["error"].(string); !ok || errField != "boom" {
		t.Errorf("WithError() error = %v, want %q", logEntry["error"], "boom")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithFields(map[string]any{"session_id": "s1", "score": 87}).Info("matched")

	logEntry := parseLogLine(t, &buf)
	if logEntry["session_id"] != "s1" {
		t.Errorf("session_id = %v, want s1", logEntry["session_id"])
	}
	if logEntry["score"] != float64(87) {
		t.Errorf("score = %v, want 87", logEntry["score"])
	}
}

func TestNewWithOptionsWithoutToken(t *testing.T) {
	log := NewWithOptions("info", Options{})
	if log == nil {
		t.Fatal("NewWithOptions() returned nil")
	}
}
