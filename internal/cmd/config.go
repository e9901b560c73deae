package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brandscope/brandscope/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage brandscope configuration",
	Long: `Manage brandscope configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (BRANDSCOPE_*)
3. Config file (./config.yaml or ~/.brandscope/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Display the merged configuration from defaults, config file, and environment variables. API keys are redacted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		redacted := *cfg
		if redacted.Search.APIKey != "" {
			redacted.Search.APIKey = "<set>"
		}
		if redacted.LLM.APIKey != "" {
			redacted.LLM.APIKey = "<set>"
		}
		if redacted.Session.AuthToken != "" {
			redacted.Session.AuthToken = "<set>"
		}

		data, err := yaml.Marshal(&redacted)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  "Create a default configuration file at ~/.brandscope/config.yaml.",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		configDir := filepath.Join(home, ".brandscope")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		header := []byte(`# brandscope configuration file
#
# Hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (BRANDSCOPE_*)
#   3. This config file
#   4. Built-in defaults
#
# API keys are better passed via environment:
#   export BRANDSCOPE_LLM_API_KEY=sk-...
#   export BRANDSCOPE_SEARCH_API_KEY=BSA...

`)

		if err := os.WriteFile(configPath, append(header, data...), 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("Created %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
