package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // The config field path (e.g., "store.backend")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidProviders returns the list of valid provider backends.
func ValidProviders() []string {
	return []string{"anthropic", "openai"}
}

// ValidStoreBackends returns the list of valid store backends.
func ValidStoreBackends() []string {
	return []string{"memory", "sqlite"}
}

// ValidLogLevels returns the list of valid log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the list of valid log formats.
func ValidLogFormats() []string {
	return []string{"json", "text"}
}

// Validate checks the Config for invalid values and returns every
// validation error found.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateProvider()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateLog()...)

	return errors
}

func (c *Config) validateProvider() []ValidationError {
	var errors []ValidationError

	if c.Provider.Name != "" && !slices.Contains(ValidProviders(), c.Provider.Name) {
		errors = append(errors, ValidationError{
			Field:   "provider.name",
			Value:   c.Provider.Name,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProviders(), ", ")),
		})
	}
	if c.Provider.MaxTokens < 0 {
		errors = append(errors, ValidationError{
			Field:   "provider.max_tokens",
			Value:   c.Provider.MaxTokens,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if c.Server.Address == "" {
		errors = append(errors, ValidationError{
			Field:   "server.address",
			Value:   c.Server.Address,
			Message: "must not be empty",
		})
	}
	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"server.shutdown_timeout", c.Server.ShutdownTimeout},
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"server.idle_timeout", c.Server.IdleTimeout},
	}
	for _, t := range timeouts {
		if t.value < 0 {
			errors = append(errors, ValidationError{
				Field:   t.field,
				Value:   t.value,
				Message: "must be non-negative",
			})
		}
	}

	return errors
}

func (c *Config) validateStore() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidStoreBackends(), c.Store.Backend) {
		errors = append(errors, ValidationError{
			Field:   "store.backend",
			Value:   c.Store.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStoreBackends(), ", ")),
		})
	}
	if c.Store.Backend == "sqlite" && c.Store.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "store.path",
			Value:   c.Store.Path,
			Message: "must be set when store.backend is sqlite",
		})
	}

	return errors
}

func (c *Config) validateLog() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), c.Log.Level) {
		errors = append(errors, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), c.Log.Format) {
		errors = append(errors, ValidationError{
			Field:   "log.format",
			Value:   c.Log.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errors
}
