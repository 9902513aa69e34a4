package exitcode

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/planora/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ConfigError", ConfigError, 3},
		{"AuthError", AuthError, 4},
		{"NetworkError", NetworkError, 5},
		{"NotFound", NotFound, 6},
		{"NotReady", NotReady, 7},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCodeCoded(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "session not found",
			err:      errors.NewSessionNotFoundError("abc"),
			expected: NotFound,
		},
		{
			name:     "plan not ready",
			err:      errors.NewPlanNotReadyError("define_outcome"),
			expected: NotReady,
		},
		{
			name:     "provider auth",
			err:      errors.NewOracleAuthError("anthropic"),
			expected: AuthError,
		},
		{
			name:     "missing api key",
			err:      errors.NewConfigAPIKeyError("ANTHROPIC_API_KEY"),
			expected: AuthError,
		},
		{
			name:     "provider unreachable",
			err:      errors.NewOracleUnavailableError("anthropic", stderrors.New("refused")),
			expected: NetworkError,
		},
		{
			name:     "invalid config",
			err:      errors.New(errors.ErrCodeConfigInvalid, "bad store backend"),
			expected: ConfigError,
		},
		{
			name:     "wrapped coded error",
			err:      fmt.Errorf("load session: %w", errors.NewSessionNotFoundError("abc")),
			expected: NotFound,
		},
		{
			name:     "other coded error",
			err:      errors.New(errors.ErrCodeStoreQuery, "query failed"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := DetermineExitCode(tt.err)
			if code != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCodeFallback(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "authentication error",
			err:      stderrors.New("authentication failed"),
			expected: AuthError,
		},
		{
			name:     "api key error",
			err:      stderrors.New("invalid api key provided"),
			expected: AuthError,
		},
		{
			name:     "uppercase UNAUTHORIZED",
			err:      stderrors.New("UNAUTHORIZED access"),
			expected: AuthError,
		},
		{
			name:     "connection error",
			err:      stderrors.New("connection refused"),
			expected: NetworkError,
		},
		{
			name:     "timeout error",
			err:      stderrors.New("request timeout"),
			expected: NetworkError,
		},
		{
			name:     "unreachable host",
			err:      stderrors.New("host unreachable"),
			expected: NetworkError,
		},
		{
			name:     "usage error - invalid flag",
			err:      stderrors.New("invalid flag: --foo"),
			expected: UsageError,
		},
		{
			name:     "usage error - unknown command",
			err:      stderrors.New("unknown command: foo"),
			expected: UsageError,
		},
		{
			name:     "usage error - required flag",
			err:      stderrors.New("required flag --session not set"),
			expected: UsageError,
		},
		{
			name:     "generic error",
			err:      stderrors.New("something went wrong"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := DetermineExitCode(tt.err)
			if code != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, code, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{UsageError, "Usage error (invalid flags or arguments)"},
		{ConfigError, "Configuration error"},
		{AuthError, "Authentication error"},
		{NetworkError, "Network error"},
		{NotFound, "Session not found"},
		{NotReady, "Plan not ready"},
		{Interrupted, "Interrupted"},
		{99, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := GetExitCodeDescription(tt.code)
			if result != tt.expected {
				t.Errorf("GetExitCodeDescription(%d) = %s, want %s", tt.code, result, tt.expected)
			}
		})
	}
}
