package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Prints the configuration after the config file, environment and flags
have been applied. Redirect it to jarpath.yaml to start a config file;
jarpath itself never writes one.`,
	Args: cobra.NoArgs,
	RunE: showConfig,
}

func showConfig(cmd *cobra.Command, args []string) error {
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
