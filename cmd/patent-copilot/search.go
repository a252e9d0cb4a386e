// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/patent-copilot/internal/copilot"
	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/internal/report"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [description]",
	Short: "Search for patents similar to an invention",
	Long: `Search extracts the key technical concepts of an invention, plans several
search strategies (broad, specific, and alternative), runs them concurrently
against the configured patent provider, merges and ranks the hits, and adds
a novelty analysis.

The description comes from the arguments, from --file, or from standard
input. Interactive entry ends after two consecutive blank lines.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("file", "", "read the invention description from a file")
	searchCmd.Flags().Int("results", 0, "results requested per strategy")
	searchCmd.Flags().Int("concurrency", 0, "maximum strategies searched at once")
	searchCmd.Flags().Duration("budget", 0, "wall-clock budget for the search stage")
	searchCmd.Flags().Int("max-candidates", 0, "maximum ranked patents sent for analysis")
	searchCmd.Flags().String("provider", "", "patent search provider: serpapi or patentsview")
	searchCmd.Flags().String("backend", "", "AI backend: gemini or anthropic")
	searchCmd.Flags().String("model", "", "AI model identifier")
	searchCmd.Flags().String("format", "table", "output format: table, json, yaml, markdown, or html")

	rootCmd.AddCommand(searchCmd)
}

// bindFlags binds the named flags of cmd to configuration keys. Binding
// happens at run time because several commands share keys.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, map[string]string{
		"results":        "search.results_per_strategy",
		"concurrency":    "search.max_concurrency",
		"budget":         "search.budget",
		"provider":       "search.provider",
		"max-candidates": "ai.max_candidates",
		"backend":        "ai.backend",
		"model":          "ai.model",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	description, err := resolveDescription(args, mustString(cmd, "file"), os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	if description == "" {
		return errs.Validation("search", "invention description is empty")
	}

	ctx := cmd.Context()
	logger := logging.Default()
	planner, err := newPlanner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	exec, err := newExecutor(cfg, logger)
	if err != nil {
		return err
	}

	c := copilot.New(planner, planner, planner, exec, copilot.WithLogger(logger))
	result, runErr := c.RunWithProgress(ctx, description, copilot.Options{
		ResultsPerStrategy: cfg.Search.ResultsPerStrategy,
		MaxConcurrency:     cfg.Search.MaxConcurrency,
		SearchBudget:       cfg.Search.Budget,
		MaxCandidates:      cfg.AI.MaxCandidates,
	}, func(state types.RunState, message string) {
		logger.Info(message, "state", state)
	})

	if err := report.Write(cmd.OutOrStdout(), format, result); err != nil {
		return err
	}
	return runErr
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
