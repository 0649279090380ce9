package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"StockAdvisor/pkg/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "stockadvisor",
	Short:         "Multi-analyst equity recommendation engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path")
	rootCmd.AddCommand(serveCmd, analyzeCmd, rolesCmd)
}

// loadConfig reads the YAML file and applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
