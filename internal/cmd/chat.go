package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planora/internal/config"
	"github.com/felixgeelhaar/planora/internal/engine"
	"github.com/felixgeelhaar/planora/internal/errors"
	"github.com/felixgeelhaar/planora/internal/session"
	"github.com/felixgeelhaar/planora/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive planning conversation",
	Long: `Start the terminal chat client. The assistant walks through five
planning stages: outcome, constraints, phases and milestones, tasks,
and risk and governance. When every stage is complete the compiled
plan renders inline and the session is saved for export.

Without --provider, --model, or --store flags a short setup form runs
first.

Examples:
  # Start a new conversation
  planora chat

  # Resume a saved sqlite session
  planora chat --store sqlite --session 2b1c...

  # Skip the setup form
  planora chat --provider anthropic --store memory`,
	RunE: runChat,
}

var (
	chatProvider  string
	chatModelFlag string
	chatStore     string
	chatSessionID string
)

func init() {
	chatCmd.Flags().StringVar(&chatProvider, "provider", "", "model provider: anthropic or openai")
	chatCmd.Flags().StringVar(&chatModelFlag, "model", "", "model name (provider default when empty)")
	chatCmd.Flags().StringVar(&chatStore, "store", "", "session store backend: memory or sqlite")
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "resume an existing session id")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flagged := cmd.Flags().Changed("provider") ||
		cmd.Flags().Changed("model") ||
		cmd.Flags().Changed("store")

	if flagged {
		if chatProvider != "" {
			cfg.Provider.Name = chatProvider
		}
		if chatModelFlag != "" {
			cfg.Provider.Model = chatModelFlag
		}
		if chatStore != "" {
			cfg.Store.Backend = chatStore
		}
	} else {
		setup, err := tui.RunSetup(cfg)
		if err != nil {
			return err
		}
		cfg.Provider.Name = setup.Provider
		cfg.Provider.Model = setup.Model
		cfg.Store.Backend = setup.Store
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", config.ValidationErrors(errs))
	}

	logger := newLogger(cfg)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	orc, err := newOracle(cfg, logger)
	if err != nil {
		return err
	}
	defer orc.Close()

	var sess *session.Session
	if chatSessionID != "" {
		sess, err = store.Get(cmd.Context(), chatSessionID)
		if err != nil {
			return err
		}
		if sess == nil {
			return errors.NewSessionNotFoundError(chatSessionID)
		}
	}

	controller := engine.NewController(orc, logger)
	final, err := tui.Run(controller, store, sess)
	if err != nil {
		return err
	}

	if final != nil && len(final.Messages) > 0 && cfg.Store.Backend != "memory" {
		fmt.Printf("Session saved: %s\n", final.ID)
		if final.IsComplete {
			fmt.Printf("Export the plan with: planora plan %s\n", final.ID)
		} else {
			fmt.Printf("Resume with: planora chat --store %s --session %s\n", cfg.Store.Backend, final.ID)
		}
	}
	return nil
}
