// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

// FormatTable writes a human-readable summary of result to w.
func FormatTable(result types.RunResult, w io.Writer) {
	fmt.Fprintf(w, "Status: %s\n", result.Summary())
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if result.State == types.StateFailed {
		return
	}
	fmt.Fprintln(w)

	if len(result.Strategies) > 0 {
		FormatStrategies(result.Strategies, w)
		fmt.Fprintln(w)
	}

	if len(result.Candidates) == 0 {
		fmt.Fprintln(w, "No patents found.")
	} else {
		fmt.Fprintf(w, "%-4s  %-14s  %-50s  %-20s  %-10s  %-8s  %s\n",
			"Rank", "Patent", "Title", "Assignee", "Published", "Found by", "Score")
		fmt.Fprintln(w, strings.Repeat("-", 124))
		for i, r := range result.Candidates {
			fmt.Fprintf(w, "%-4d  %-14s  %-50s  %-20s  %-10s  %-8s  %d\n",
				i+1, r.CanonicalID, truncate(r.Title, 50), truncate(r.Assignee, 20),
				formatDate(r), joinInts(r.SourceStrategies), r.Score)
		}
		fmt.Fprintf(w, "\n%d patents", len(result.Candidates))
		if c := result.Coverage; c != nil && c.Duplicates > 0 {
			fmt.Fprintf(w, " (%d duplicates removed, %d found by more than one strategy)", c.Duplicates, c.Corroborated)
		}
		fmt.Fprintln(w)
	}

	if result.Report != nil {
		fmt.Fprintln(w)
		formatAnalysis(*result.Report, w)
	}
}

// FormatStrategies writes the planned strategies as a numbered list.
func FormatStrategies(strategies []types.SearchStrategy, w io.Writer) {
	fmt.Fprintln(w, "Search strategies:")
	for _, s := range strategies {
		fmt.Fprintf(w, "  %d. [%s] %s\n", s.ID, s.Label, s.Query)
		if s.Rationale != "" {
			fmt.Fprintf(w, "     %s\n", s.Rationale)
		}
	}
}

func formatAnalysis(r types.AnalysisReport, w io.Writer) {
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  %s\n", r.Summary)

	assessed := false
	for _, a := range r.Assessments {
		if a.Verdict == types.VerdictUnassessed {
			continue
		}
		if !assessed {
			fmt.Fprintln(w, "\nAssessments:")
			assessed = true
		}
		fmt.Fprintf(w, "  %s  %s\n", a.CanonicalID, a.Verdict)
		if a.Overlap != "" {
			fmt.Fprintf(w, "    overlap: %s\n", a.Overlap)
		}
		if a.Differences != "" {
			fmt.Fprintf(w, "    differences: %s\n", a.Differences)
		}
	}

	writeList(w, "Novelty gaps", r.NoveltyGaps)
	fmt.Fprintf(w, "\nRecommendation:\n  %s\n", r.Recommendation)
	writeList(w, "Further research", r.FurtherResearch)
	if r.ApplicationStrategy != "" {
		fmt.Fprintf(w, "\nApplication strategy:\n  %s\n", r.ApplicationStrategy)
	}
}

func writeList(w io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
