package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planora/internal/errors"
	"github.com/felixgeelhaar/planora/internal/session"
	"github.com/felixgeelhaar/planora/internal/stage"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and manage saved planning sessions",
	Long: `Inspect and manage planning sessions in the configured store.

Only the sqlite store survives between invocations; with the memory
store these commands see an empty store.

Examples:
  planora session show 2b1c0b7e-...
  planora session delete 2b1c0b7e-...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openConfiguredStore()
		if err != nil {
			return err
		}
		defer store.Close()

		return showSession(cmd.Context(), store, args[0], os.Stdout)
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openConfiguredStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := deleteSession(cmd.Context(), store, args[0]); err != nil {
			return err
		}
		fmt.Printf("Session %s deleted.\n", args[0])
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}

func openConfiguredStore() (session.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openStore(cfg)
}

// sessionSummary is the CLI view of a session.
type sessionSummary struct {
	SessionID    string `json:"session_id"`
	CurrentStage string `json:"current_stage"`
	StageLabel   string `json:"stage_label"`
	Progress     int    `json:"progress_percent"`
	IsComplete   bool   `json:"is_complete"`
	Messages     int    `json:"message_count"`
	StagesDone   int    `json:"stages_committed"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func showSession(ctx context.Context, store session.Store, id string, out io.Writer) error {
	sess, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.NewSessionNotFoundError(id)
	}

	summary := sessionSummary{
		SessionID:    sess.ID,
		CurrentStage: string(sess.CurrentStage),
		StageLabel:   stage.Label(sess.CurrentStage),
		Progress:     stage.Progress(sess.CurrentStage),
		IsComplete:   sess.IsComplete,
		Messages:     len(sess.Messages),
		StagesDone:   len(sess.StageData),
		CreatedAt:    sess.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    sess.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func deleteSession(ctx context.Context, store session.Store, id string) error {
	sess, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.NewSessionNotFoundError(id)
	}
	return store.Delete(ctx, id)
}
