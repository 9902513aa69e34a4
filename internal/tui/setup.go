package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/planora/internal/config"
)

// SetupResult holds the choices made in the pre-chat setup form.
type SetupResult struct {
	Provider string
	Model    string
	Store    string
}

// RunSetup prompts for the provider, model, and store backend when the
// command line did not decide them. Defaults come from the loaded config.
func RunSetup(cfg *config.Config) (*SetupResult, error) {
	result := SetupResult{
		Provider: cfg.Provider.Name,
		Model:    cfg.Provider.Model,
		Store:    cfg.Store.Backend,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("provider").
				Title("Model provider").
				Description("Which API should drive the planning conversation?").
				Options(
					huh.NewOption("Anthropic", "anthropic"),
					huh.NewOption("OpenAI", "openai"),
				).
				Value(&result.Provider),
			huh.NewInput().
				Key("model").
				Title("Model").
				Description("Leave empty for the provider default.").
				Value(&result.Model),
			huh.NewSelect[string]().
				Key("store").
				Title("Session store").
				Description("Memory sessions vanish on exit; sqlite sessions can be resumed.").
				Options(
					huh.NewOption("In-memory", "memory"),
					huh.NewOption("SQLite", "sqlite"),
				).
				Value(&result.Store).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("please select a store")
					}
					return nil
				}),
		).Title("planora setup"),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("run setup form: %w", err)
	}

	result.Model = strings.TrimSpace(result.Model)
	return &result, nil
}
