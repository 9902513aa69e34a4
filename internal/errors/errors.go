package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionNotFound ErrorCode = "SESSION-001"
	ErrCodeSessionLoad     ErrorCode = "SESSION-002"
	ErrCodeSessionSave     ErrorCode = "SESSION-003"

	// Stage errors (STAGE-001 to STAGE-099)
	ErrCodeStageUnknown       ErrorCode = "STAGE-001"
	ErrCodeStageRecordInvalid ErrorCode = "STAGE-002"

	// Oracle errors (ORACLE-001 to ORACLE-099)
	ErrCodeOracleUnavailable ErrorCode = "ORACLE-001"
	ErrCodeOracleEmptyReply  ErrorCode = "ORACLE-002"
	ErrCodeOracleAuth        ErrorCode = "ORACLE-003"
	ErrCodeOracleRateLimit   ErrorCode = "ORACLE-004"

	// Plan errors (PLAN-001 to PLAN-099)
	ErrCodePlanNotReady      ErrorCode = "PLAN-001"
	ErrCodePlanRecordMissing ErrorCode = "PLAN-002"
	ErrCodePlanRecordCorrupt ErrorCode = "PLAN-003"

	// Store errors (STORE-001 to STORE-099)
	ErrCodeStoreOpen    ErrorCode = "STORE-001"
	ErrCodeStoreQuery   ErrorCode = "STORE-002"
	ErrCodeStoreMigrate ErrorCode = "STORE-003"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigLoad    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"
	ErrCodeConfigAPIKey  ErrorCode = "CONFIG-003"
)

// PlanoraError represents an enhanced error with code, suggestions, and documentation
type PlanoraError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *PlanoraError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PlanoraError) Unwrap() error {
	return e.Cause
}

// New creates a new PlanoraError
func New(code ErrorCode, message string) *PlanoraError {
	return &PlanoraError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PlanoraError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PlanoraError {
	return &PlanoraError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PlanoraError) WithSuggestion(suggestion string) *PlanoraError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PlanoraError) WithSuggestions(suggestions ...string) *PlanoraError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *PlanoraError) WithDocs(url string) *PlanoraError {
	e.DocsURL = url
	return e
}

// As is a passthrough to the standard library so callers need only one
// errors import.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is a passthrough to the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// HasCode reports whether err is a PlanoraError carrying the given code
func HasCode(err error, code ErrorCode) bool {
	var pe *PlanoraError
	if !stderrors.As(err, &pe) {
		return false
	}
	return pe.Code == code
}

// Common error constructors for frequently used errors

// NewSessionNotFoundError creates an unknown-session error
func NewSessionNotFoundError(sessionID string) *PlanoraError {
	return New(ErrCodeSessionNotFound, fmt.Sprintf("session not found: %s", sessionID)).
		WithSuggestion("Start a new conversation with POST /api/v1/chat and no session_id").
		WithSuggestion("Check that the session identifier is correct")
}

// NewPlanNotReadyError creates a not-ready error carrying the current stage.
// The stage string lets the caller tell the user how far along they are.
func NewPlanNotReadyError(currentStage string) *PlanoraError {
	return New(ErrCodePlanNotReady,
		fmt.Sprintf("plan not yet complete; currently at stage: %s", currentStage)).
		WithSuggestion("Continue the conversation to finish all 5 planning stages").
		WithSuggestion("Check progress with GET /api/v1/session/{id}")
}

// NewOracleUnavailableError creates an oracle failure error
func NewOracleUnavailableError(provider string, cause error) *PlanoraError {
	return Wrap(ErrCodeOracleUnavailable,
		fmt.Sprintf("language model provider %s is unavailable", provider), cause).
		WithSuggestion("Retry the request after a short wait").
		WithSuggestion(fmt.Sprintf("Run 'planora provider health %s' to verify connectivity", provider))
}

// NewOracleAuthError creates a provider authentication error
func NewOracleAuthError(provider string) *PlanoraError {
	return New(ErrCodeOracleAuth, fmt.Sprintf("authentication failed for provider: %s", provider)).
		WithSuggestion(fmt.Sprintf("Set the %s_API_KEY environment variable", strings.ToUpper(provider))).
		WithSuggestion("Check if your API key is valid and not expired")
}

// NewPlanRecordMissingError creates an error for a stage record absent at compile time
func NewPlanRecordMissingError(stage string) *PlanoraError {
	return New(ErrCodePlanRecordMissing,
		fmt.Sprintf("stage record missing for completed session: %s", stage)).
		WithSuggestion("The session data is inconsistent; delete the session and start over")
}

// NewPlanRecordCorruptError creates an error for an unparseable committed record
func NewPlanRecordCorruptError(stage string, cause error) *PlanoraError {
	return Wrap(ErrCodePlanRecordCorrupt,
		fmt.Sprintf("stage record for %s does not match its schema", stage), cause).
		WithSuggestion("The session data is inconsistent; delete the session and start over")
}

// NewConfigAPIKeyError creates a missing-API-key error
func NewConfigAPIKeyError(envVar string) *PlanoraError {
	return New(ErrCodeConfigAPIKey, fmt.Sprintf("no API key configured (%s is empty)", envVar)).
		WithSuggestion(fmt.Sprintf("Export %s before starting the server", envVar)).
		WithSuggestion("Or set provider.api_key in ~/.planora/config.yaml")
}
