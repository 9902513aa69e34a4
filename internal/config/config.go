// Package config loads planora configuration from a YAML file and
// PLANORA_* environment variables via viper.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete planora configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
}

// ProviderConfig selects and tunes the model provider.
type ProviderConfig struct {
	// Name is the provider backend: "anthropic" or "openai"
	Name string `mapstructure:"name"`
	// APIKey overrides the provider's environment variable
	// (ANTHROPIC_API_KEY / OPENAI_API_KEY)
	APIKey string `mapstructure:"api_key"`
	// BaseURL overrides the provider's default API endpoint
	BaseURL string `mapstructure:"base_url"`
	// Model overrides the provider's default model
	Model string `mapstructure:"model"`
	// MaxTokens caps the tokens per generation (0 = provider default)
	MaxTokens int `mapstructure:"max_tokens"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	// Address is the listen address (default ":8080")
	Address string `mapstructure:"address"`
	// ShutdownTimeout bounds graceful drain on SIGTERM
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// ReadTimeout bounds reading a request
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout bounds writing a response; chat turns make two
	// model calls, so this runs long
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout bounds keep-alive connections
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// StoreConfig selects the session store backend.
type StoreConfig struct {
	// Backend is "memory" or "sqlite"
	Backend string `mapstructure:"backend"`
	// Path is the data directory holding the sqlite database (sqlite
	// backend only)
	Path string `mapstructure:"path"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is "debug", "info", "warn", or "error"
	Level string `mapstructure:"level"`
	// Format is "json" or "text"
	Format string `mapstructure:"format"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:      "anthropic",
			MaxTokens: 0,
		},
		Server: ServerConfig{
			Address:         ":8080",
			ShutdownTimeout: 30 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     60 * time.Second,
		},
		Store: StoreConfig{
			Backend: "memory",
			Path:    ConfigDir(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// SetDefaults registers every default with viper so keys resolve even
// without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("provider.name", defaults.Provider.Name)
	viper.SetDefault("provider.api_key", defaults.Provider.APIKey)
	viper.SetDefault("provider.base_url", defaults.Provider.BaseURL)
	viper.SetDefault("provider.model", defaults.Provider.Model)
	viper.SetDefault("provider.max_tokens", defaults.Provider.MaxTokens)

	viper.SetDefault("server.address", defaults.Server.Address)
	viper.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	viper.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", defaults.Server.WriteTimeout)
	viper.SetDefault("server.idle_timeout", defaults.Server.IdleTimeout)

	viper.SetDefault("store.backend", defaults.Store.Backend)
	viper.SetDefault("store.path", defaults.Store.Path)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)
}

// Load reads the configuration from viper into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the planora config directory.
func ConfigDir() string {
	if dir := os.Getenv("PLANORA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planora"
	}
	return filepath.Join(home, ".planora")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
