// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/internal/report"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan [description]",
	Short: "Extract concepts and plan search strategies without searching",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().String("file", "", "read the invention description from a file")
	planCmd.Flags().String("backend", "", "AI backend: gemini or anthropic")
	planCmd.Flags().String("model", "", "AI model identifier")
	planCmd.Flags().Bool("json", false, "output the plan as JSON")

	rootCmd.AddCommand(planCmd)
}

type plan struct {
	Concepts   []types.Concept        `json:"concepts"`
	Strategies []types.SearchStrategy `json:"strategies"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"backend": "ai.backend",
		"model":   "ai.model",
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
		return errs.Validation("plan", "invention description is empty")
	}

	ctx := cmd.Context()
	planner, err := newPlanner(ctx, cfg, logging.Default())
	if err != nil {
		return err
	}

	concepts, err := planner.ExtractConcepts(ctx, description)
	if err != nil {
		return fmt.Errorf("extracting concepts: %w", err)
	}
	strategies, err := planner.GenerateStrategies(ctx, concepts)
	if err != nil {
		return fmt.Errorf("generating strategies: %w", err)
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan{Concepts: concepts, Strategies: strategies})
	}

	fmt.Fprintln(w, "Concepts:")
	for _, c := range concepts {
		fmt.Fprintf(w, "  - %s\n", c)
	}
	fmt.Fprintln(w)
	report.FormatStrategies(strategies, w)
	return nil
}
