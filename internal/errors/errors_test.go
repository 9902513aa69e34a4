package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(ErrCodeSessionNotFound, "session not found: abc")

	got := err.Error()
	if !strings.Contains(got, "[SESSION-001]") {
		t.Errorf("Error() = %q, want code prefix", got)
	}
	if !strings.Contains(got, "session not found: abc") {
		t.Errorf("Error() = %q, want message", got)
	}
}

func TestErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeOracleUnavailable, "provider down", cause)

	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() should include cause, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should unwrap to cause")
	}
}

func TestErrorSuggestions(t *testing.T) {
	err := New(ErrCodePlanNotReady, "not ready").
		WithSuggestion("keep chatting").
		WithSuggestions("check progress", "be patient")

	got := err.Error()
	for _, want := range []string{"Suggestions:", "keep chatting", "check progress", "be patient"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() missing %q in %q", want, got)
		}
	}
}

func TestErrorWithDocs(t *testing.T) {
	err := New(ErrCodeConfigLoad, "bad config").WithDocs("https://example.com/docs")
	if !strings.Contains(err.Error(), "Documentation: https://example.com/docs") {
		t.Errorf("Error() missing docs URL, got %q", err.Error())
	}
}

func TestHasCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewSessionNotFoundError("x"), ErrCodeSessionNotFound, true},
		{"different code", NewSessionNotFoundError("x"), ErrCodePlanNotReady, false},
		{"plain error", fmt.Errorf("boom"), ErrCodeSessionNotFound, false},
		{"nil", nil, ErrCodeSessionNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPlanNotReadyError(t *testing.T) {
	err := NewPlanNotReadyError("phases_and_milestones")
	if err.Code != ErrCodePlanNotReady {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePlanNotReady)
	}
	if !strings.Contains(err.Message, "phases_and_milestones") {
		t.Errorf("message should carry the current stage, got %q", err.Message)
	}
}

func TestNewOracleUnavailableError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	err := NewOracleUnavailableError("anthropic", cause)
	if err.Code != ErrCodeOracleUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeOracleUnavailable)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be unwrappable")
	}
}
