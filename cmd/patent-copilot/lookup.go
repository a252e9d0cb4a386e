// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/fanout"
	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/internal/rank"
	"github.com/pdiddy/patent-copilot/internal/report"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Run one query against the patent search provider",
	Long: `Lookup sends a single query to the configured patent search provider with
the same retry and timeout policy used by search, and prints the normalized
results. No AI backend is needed.`,
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("query", "", "search query (required)")
	lookupCmd.Flags().Int("results", 0, "number of results to request")
	lookupCmd.Flags().String("provider", "", "patent search provider: serpapi or patentsview")
	lookupCmd.Flags().String("format", "table", "output format: table, json, yaml, markdown, or html")
	_ = lookupCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return err
	}
	query := strings.TrimSpace(mustString(cmd, "query"))
	if query == "" {
		return errs.Validation("lookup", "query is empty")
	}
	if err := bindFlags(cmd, map[string]string{
		"results":  "search.results_per_strategy",
		"provider": "search.provider",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	exec, err := newExecutor(cfg, logging.Default())
	if err != nil {
		return err
	}

	strategy := types.SearchStrategy{ID: 1, Label: types.LabelSpecific, Query: query}
	started := time.Now()
	deadline := time.Time{}
	if cfg.Search.Budget > 0 {
		deadline = started.Add(cfg.Search.Budget)
	}
	outcome := exec.Execute(cmd.Context(), strategy, cfg.Search.ResultsPerStrategy, deadline)
	outcomes := map[int]types.StrategyOutcome{strategy.ID: outcome}
	candidates, stats := rank.MergeWithStats(outcomes)

	result := types.RunResult{
		Description: query,
		Strategies:  []types.SearchStrategy{strategy},
		Outcomes:    outcomes,
		Status:      fanout.Classify(outcomes),
		State:       types.StateDone,
		Candidates:  candidates,
		Coverage:    &stats,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	result.DurationMS = result.CompletedAt.Sub(started).Milliseconds()

	var runErr error
	if !outcome.Succeeded() {
		runErr = errs.TotalFailure("lookup", "%s: %s", outcome.Kind, outcome.Message)
		result.State = types.StateFailed
		result.Error = runErr.Error()
	}
	if err := report.Write(cmd.OutOrStdout(), format, result); err != nil {
		return err
	}
	return runErr
}
