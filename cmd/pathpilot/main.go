// Package main provides the pathpilot command: an HTTP API and CLI that
// recommend careers for a free-text description of interests and skills.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "pathpilot",
	Short:         "Career recommendations by embedding similarity",
	Long:          "PathPilot loads a directory of career category files, embeds every career once and ranks them against free-text queries.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	dataDir    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "Directory of career category files (overrides config)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
