package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("debug", "json", &buf)
	l.Infof("hello %s", "world")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json.Unmarshal() error = %v, output = %q", err, buf.String())
	}
	if entry["msg"] != "hello world" {
		t.Errorf("msg = %v, want %q", entry["msg"], "hello world")
	}
	if entry["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", entry["level"])
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("warn", "text", &buf)
	l.Debugf("should not appear")
	l.Infof("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("buf = %q, want empty below WARN level", buf.String())
	}
	l.Warnf("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("buf = %q, want to contain %q", buf.String(), "visible")
	}
}

func TestLoggerWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("info", "json", &buf).With("component", "test")
	l.Infof("tagged")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if entry["component"] != "test" {
		t.Errorf("component = %v, want %q", entry["component"], "test")
	}
}

func TestLoggerIsEnabled(t *testing.T) {
	l := NewLogger("error", "text", &bytes.Buffer{})
	if l.IsEnabled(slog.LevelInfo) {
		t.Error("IsEnabled(Info) = true, want false at ERROR level")
	}
	if !l.IsEnabled(slog.LevelError) {
		t.Error("IsEnabled(Error) = false, want true at ERROR level")
	}
}
