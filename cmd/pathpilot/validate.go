package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathpilot/backend/internal/corpus"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the career data directory",
	Long:  "Loads every category file without embedding anything and reports what was found. Fails on the first invalid file.",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	careers, err := corpus.LoadDir(cfg.Data.Dir, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	categories := careers.Categories()
	fmt.Fprintf(out, "%s: %d careers in %d categories\n", cfg.Data.Dir, len(careers), len(categories))
	for _, c := range categories {
		fmt.Fprintf(out, "  %-20s %d\n", c.Name, c.Count)
	}
	return nil
}
