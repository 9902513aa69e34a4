package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/planora/internal/errors"
	"github.com/felixgeelhaar/planora/internal/plan"
	"github.com/felixgeelhaar/planora/internal/session"
)

var planCmd = &cobra.Command{
	Use:   "plan <session-id>",
	Short: "Export the compiled plan of a completed session",
	Long: `Compile the plan of a completed session and write it to stdout or
a file. Compilation is deterministic: the same session always yields
the same plan.

Formats:
  markdown  rendered project plan document (default)
  json      structured plan
  yaml      structured plan

Examples:
  planora plan 2b1c0b7e-... > plan.md
  planora plan 2b1c0b7e-... --format json
  planora plan 2b1c0b7e-... --format yaml --output plan.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

var (
	planFormat string
	planOutput string
)

func init() {
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "markdown", "output format: markdown, json, or yaml")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	out, err := exportPlan(cmd.Context(), store, plan.NewAssembler(logger), args[0], planFormat)
	if err != nil {
		return err
	}

	if planOutput != "" {
		if err := os.WriteFile(planOutput, out, 0644); err != nil {
			return fmt.Errorf("write %s: %w", planOutput, err)
		}
		fmt.Printf("Plan written to %s\n", planOutput)
		return nil
	}

	fmt.Print(string(out))
	return nil
}

func exportPlan(ctx context.Context, store session.Store, assembler *plan.Assembler, id, format string) ([]byte, error) {
	sess, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.NewSessionNotFoundError(id)
	}

	compiled, err := assembler.Compile(sess)
	if err != nil {
		return nil, err
	}

	switch format {
	case "markdown", "md":
		return []byte(plan.RenderMarkdown(compiled)), nil
	case "json":
		data, err := json.MarshalIndent(compiled, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal plan: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(compiled)
		if err != nil {
			return nil, fmt.Errorf("marshal plan: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format %q (expected markdown, json, or yaml)", format)
	}
}
