// Package provider contains HTTP clients for the language model APIs the
// planning conversation runs on. Callers depend on the Client interface;
// concrete providers are selected by configuration.
package provider

import "context"

// Client is the interface all model providers implement.
type Client interface {
	// Generate sends a conversation and returns a complete response.
	// A nil error implies a usable response; transport and API errors
	// are returned as errors, never encoded in the response.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider identifier (e.g. "anthropic").
	Name() string

	// IsAvailable checks if the provider is configured and ready to use.
	IsAvailable() bool

	// Health performs a connectivity check against the provider API.
	Health(ctx context.Context) error

	// Close cleans up any resources used by the provider.
	Close() error
}

// Config selects and parameterizes a provider.
type Config struct {
	// Name is the provider identifier: "anthropic" or "openai".
	Name string

	// APIKey authenticates against the provider API.
	APIKey string

	// BaseURL overrides the default API endpoint (for proxies and tests).
	BaseURL string

	// Model is the model identifier requests are sent to.
	Model string

	// MaxTokens bounds the response length. Zero uses the provider default.
	MaxTokens int
}

// New constructs the provider selected by cfg.Name.
func New(cfg Config) (Client, error) {
	switch cfg.Name {
	case "anthropic", "":
		return NewAnthropic(cfg)
	case "openai":
		return NewOpenAI(cfg)
	default:
		return nil, &UnknownProviderError{Name: cfg.Name}
	}
}

// UnknownProviderError reports an unrecognized provider name.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return "unknown provider: " + e.Name
}
