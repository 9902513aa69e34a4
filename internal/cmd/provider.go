package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Inspect the configured model provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var providerHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check connectivity to the configured provider",
	Long: `Send a minimal request to the configured provider and report
whether it responds. Requires the provider's API key to be set
(ANTHROPIC_API_KEY or OPENAI_API_KEY, or provider.api_key in the
config file).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		orc, err := newOracle(cfg, logger)
		if err != nil {
			return err
		}
		defer orc.Close()

		fmt.Printf("Provider: %s\n", orc.Provider())
		if err := orc.Health(cmd.Context()); err != nil {
			fmt.Println("Status:   unreachable")
			return err
		}
		fmt.Println("Status:   ok")
		return nil
	},
}

func init() {
	providerCmd.AddCommand(providerHealthCmd)
	rootCmd.AddCommand(providerCmd)
}
