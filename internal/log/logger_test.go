package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/felixgeelhaar/planora/internal/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("text") != FormatText {
		t.Error("ParseFormat(text) should be FormatText")
	}
	if ParseFormat("json") != FormatJSON {
		t.Error("ParseFormat(json) should be FormatJSON")
	}
	if ParseFormat("") != FormatJSON {
		t.Error("ParseFormat empty should default to FormatJSON")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:       LevelInfo,
		Format:      FormatJSON,
		Output:      &buf,
		ServiceName: "planora",
	})

	logger.Info("session saved", "session_id", "abc-123")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["msg"] != "session saved" {
		t.Errorf("msg = %v, want 'session saved'", entry["msg"])
	}
	if entry["session_id"] != "abc-123" {
		t.Errorf("session_id = %v, want abc-123", entry["session_id"])
	}
	if entry["service"] != "planora" {
		t.Errorf("service = %v, want planora", entry["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug/info should be filtered, got %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn should pass, got %q", out)
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	err := errors.NewPlanNotReadyError("define_outcome")
	logger.WithError(err).Error("compile rejected")

	var entry map[string]any
	if jerr := json.Unmarshal(buf.Bytes(), &entry); jerr != nil {
		t.Fatalf("output is not valid JSON: %v", jerr)
	}
	if entry["error_code"] != "PLAN-001" {
		t.Errorf("error_code = %v, want PLAN-001", entry["error_code"])
	}
}

func TestWithErrorPlain(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.WithError(errString("boom")).Error("failed")

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("plain error should appear, got %q", buf.String())
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestDefaultLogger(t *testing.T) {
	custom := Default()
	SetDefaultLogger(custom)
	if DefaultLogger() != custom {
		t.Error("DefaultLogger should return the configured logger")
	}
}
