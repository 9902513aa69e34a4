package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/planora/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates invalid or missing configuration
	ConfigError = 3

	// AuthError indicates an authentication failure against the model provider
	AuthError = 4

	// NetworkError indicates the model provider or server was unreachable
	NetworkError = 5

	// NotFound indicates a requested session does not exist
	NotFound = 6

	// NotReady indicates a plan was requested from an incomplete session
	NotReady = 7

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	// Coded errors map directly
	var pe *errors.PlanoraError
	if errors.As(err, &pe) {
		switch pe.Code {
		case errors.ErrCodeSessionNotFound:
			return NotFound
		case errors.ErrCodePlanNotReady:
			return NotReady
		case errors.ErrCodeOracleAuth, errors.ErrCodeConfigAPIKey:
			return AuthError
		case errors.ErrCodeOracleUnavailable, errors.ErrCodeOracleRateLimit:
			return NetworkError
		case errors.ErrCodeConfigLoad, errors.ErrCodeConfigInvalid:
			return ConfigError
		}
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())

	// Authentication errors
	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "api key") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "timeout") {
		return NetworkError
	}
	if strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ConfigError:
		return "Configuration error"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case NotFound:
		return "Session not found"
	case NotReady:
		return "Plan not ready"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
