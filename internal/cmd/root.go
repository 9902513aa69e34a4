// Package cmd wires the planora CLI.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/planora/internal/config"
	"github.com/felixgeelhaar/planora/internal/log"
	"github.com/felixgeelhaar/planora/internal/oracle"
	"github.com/felixgeelhaar/planora/internal/provider"
	"github.com/felixgeelhaar/planora/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "planora",
	Short: "Conversational project planning assistant",
	Long: `planora turns a guided conversation into a structured project plan.
A staged interview walks from outcome definition through constraints,
phases, tasks, and governance; each stage extracts structured data and
the completed session compiles into a Markdown or JSON plan.`,
}

var cfgFile string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellation context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.planora/config.yaml)")
}

func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PLANORA")
	// PLANORA_PROVIDER_NAME maps to provider.name and so on
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing config file is fine, defaults and env cover everything
	_ = viper.ReadInConfig()
}

// loadConfig reads the merged configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a logger from the log section.
func newLogger(cfg *config.Config) *log.Logger {
	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.Log.Level)
	logCfg.Format = log.ParseFormat(cfg.Log.Format)
	return log.New(logCfg)
}

// openStore builds the configured session store.
func openStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return session.NewSQLiteStore(cfg.Store.Path)
	default:
		return session.NewMemoryStore(), nil
	}
}

// newOracle builds the provider client and wraps it in an oracle.
func newOracle(cfg *config.Config, logger *log.Logger) (*oracle.Oracle, error) {
	client, err := provider.New(provider.Config{
		Name:      cfg.Provider.Name,
		APIKey:    cfg.Provider.APIKey,
		BaseURL:   cfg.Provider.BaseURL,
		Model:     cfg.Provider.Model,
		MaxTokens: cfg.Provider.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return oracle.New(client, logger), nil
}
