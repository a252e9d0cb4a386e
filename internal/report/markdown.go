// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

// Markdown renders result as a standalone Markdown report.
func Markdown(result types.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Patent Search Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", result.RunID)
	if !result.StartedAt.IsZero() {
		fmt.Fprintf(&b, "- Date: %s\n", result.StartedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "- Status: %s\n\n", result.Summary())

	fmt.Fprintf(&b, "## Invention\n\n%s\n\n", result.Description)

	if len(result.Concepts) > 0 {
		parts := make([]string, len(result.Concepts))
		for i, c := range result.Concepts {
			parts[i] = string(c)
		}
		fmt.Fprintf(&b, "**Key concepts:** %s\n\n", strings.Join(parts, ", "))
	}

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(result.Strategies) > 0 {
		buildStrategies(&b, result)
	}
	if result.State == types.StateFailed {
		return b.String()
	}
	buildCandidates(&b, result)
	if result.Report != nil {
		buildAnalysis(&b, *result.Report)
	}
	return b.String()
}

// HTML renders the Markdown report as a minimal HTML page.
func HTML(result types.RunResult) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(Markdown(result)), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>Patent Search Report</title>" +
		"<style>body{font-family:sans-serif;max-width:1000px;margin:0 auto;padding:1rem;} " +
		"table{border-collapse:collapse;width:100%;font-size:0.85rem;} " +
		"th,td{border:1px solid #ccc;padding:0.3rem 0.45rem;text-align:left;vertical-align:top;}</style>" +
		"</head><body>" + content.String() + "</body></html>", nil
}

func buildStrategies(b *strings.Builder, result types.RunResult) {
	b.WriteString("## Search Strategies\n\n")
	b.WriteString("| # | Label | Query | Outcome |\n|---|---|---|---|\n")
	for _, s := range result.Strategies {
		outcome := ""
		if o, ok := result.Outcomes[s.ID]; ok {
			outcome = string(o.Kind)
			if o.Succeeded() {
				outcome = fmt.Sprintf("%s (%d hits)", o.Kind, len(o.Records))
			}
		}
		fmt.Fprintf(b, "| %d | %s | %s | %s |\n", s.ID, s.Label, cell(s.Query), outcome)
	}
	b.WriteString("\n")
}

func buildCandidates(b *strings.Builder, result types.RunResult) {
	b.WriteString("## Ranked Candidates\n\n")
	if len(result.Candidates) == 0 {
		b.WriteString("No patents found.\n\n")
		return
	}
	b.WriteString("| Rank | Patent | Title | Assignee | Published | Strategies | Score |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for i, r := range result.Candidates {
		id := r.CanonicalID
		if r.Link != "" {
			id = fmt.Sprintf("[%s](%s)", r.CanonicalID, r.Link)
		}
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s | %d |\n",
			i+1, id, cell(r.Title), cell(r.Assignee), formatDate(r), joinInts(r.SourceStrategies), r.Score)
	}
	b.WriteString("\n")

	if c := result.Coverage; c != nil {
		b.WriteString("### Coverage\n\n")
		fmt.Fprintf(b, "- Records retrieved: %d\n", c.Records)
		fmt.Fprintf(b, "- Unique patents: %d\n", c.Unique)
		fmt.Fprintf(b, "- Duplicates removed: %d\n", c.Duplicates)
		fmt.Fprintf(b, "- Found by more than one strategy: %d\n", c.Corroborated)
		ids := make([]int, 0, len(c.PerStrategy))
		for id := range c.PerStrategy {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			fmt.Fprintf(b, "- Strategy %d: %d records\n", id, c.PerStrategy[id])
		}
		b.WriteString("\n")
	}
}

func buildAnalysis(b *strings.Builder, r types.AnalysisReport) {
	b.WriteString("## Novelty Analysis\n\n")
	if r.Placeholder {
		b.WriteString("**Analysis unavailable.** The candidates above were not assessed.\n\n")
	}
	fmt.Fprintf(b, "%s\n\n", r.Summary)

	var assessed []types.PatentAssessment
	for _, a := range r.Assessments {
		if a.Verdict != types.VerdictUnassessed {
			assessed = append(assessed, a)
		}
	}
	if len(assessed) > 0 {
		b.WriteString("### Assessments\n\n")
		b.WriteString("| Patent | Verdict | Overlap | Differences |\n|---|---|---|---|\n")
		for _, a := range assessed {
			fmt.Fprintf(b, "| %s | `%s` | %s | %s |\n", a.CanonicalID, a.Verdict, cell(a.Overlap), cell(a.Differences))
		}
		b.WriteString("\n")
	}

	bulletSection(b, "Novelty Gaps", r.NoveltyGaps)
	fmt.Fprintf(b, "### Recommendation\n\n%s\n\n", r.Recommendation)
	bulletSection(b, "Further Research", r.FurtherResearch)
	if r.ApplicationStrategy != "" {
		fmt.Fprintf(b, "### Application Strategy\n\n%s\n\n", r.ApplicationStrategy)
	}
}

func bulletSection(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// cell makes s safe inside a Markdown table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
