// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

func sampleResult() types.RunResult {
	published := time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC)
	strategies := []types.SearchStrategy{
		{ID: 1, Label: types.LabelBroad, Query: "smart water bottle", Rationale: "covers the product"},
		{ID: 2, Label: types.LabelSpecific, Query: "bluetooth hydration sensor"},
		{ID: 3, Label: types.LabelAlternative, Query: "fluid intake monitor"},
	}
	candidates := types.RankedCandidateSet{
		{CanonicalID: "US123456", Title: "Smart | bottle", Link: "https://patents.google.com/patent/US123456", Assignee: "Hydro Corp", PublicationDate: &published, SourceStrategies: []int{1, 2}, Score: 200},
		{CanonicalID: "US777777", Title: "Reminder lid", SourceStrategies: []int{1}, Score: 100},
	}
	return types.RunResult{
		RunID:       "run-1",
		Description: "IoT water bottle with Bluetooth hydration tracking",
		Concepts:    []types.Concept{"water bottle", "hydration tracking"},
		Strategies:  strategies,
		Outcomes: map[int]types.StrategyOutcome{
			1: types.Success(strategies[0], make([]types.PatentRecord, 2), 1),
			2: types.Success(strategies[1], make([]types.PatentRecord, 1), 1),
			3: types.Failure(strategies[2], "permanent", "HTTP 400", 1),
		},
		Status:     types.PartialSuccess,
		State:      types.StateDone,
		Candidates: candidates,
		Coverage:   &types.MergeStats{Records: 3, Unique: 2, Duplicates: 1, Corroborated: 1, PerStrategy: map[int]int{1: 2, 2: 1}},
		Report: &types.AnalysisReport{
			Summary: "One close patent.",
			Assessments: []types.PatentAssessment{
				{CanonicalID: "US123456", Verdict: types.VerdictHighOverlap, Overlap: "sensor bottle", Differences: "no app"},
				{CanonicalID: "US777777", Verdict: types.VerdictUnassessed},
			},
			NoveltyGaps:         []string{"app integration"},
			Recommendation:      "Focus claims on the app.",
			FurtherResearch:     []string{"search CPC A47G"},
			ApplicationStrategy: "File a provisional.",
		},
		Dropped:   []types.DroppedStrategy{{ID: 3, Label: "alternative", Query: "fluid intake monitor", Reason: "failure: HTTP 400"}},
		Warnings:  []string{`strategy 3 (alternative) "fluid intake monitor" dropped: failure: HTTP 400`},
		StartedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatNameTable,
		"table":    FormatNameTable,
		"JSON":     FormatNameJSON,
		"yml":      FormatNameYAML,
		"md":       FormatNameMarkdown,
		"markdown": FormatNameMarkdown,
		"html":     FormatNameHTML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(sampleResult(), &buf)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Status: partial success: 2 of 3 strategies used\n"))
	assert.Contains(t, out, "warning: strategy 3 (alternative)")
	assert.Contains(t, out, "1. [broad] smart water bottle")
	assert.Contains(t, out, "covers the product")
	assert.Contains(t, out, "US123456")
	assert.Contains(t, out, "2021-05-04")
	assert.Contains(t, out, "1,2")
	assert.Contains(t, out, "2 patents (1 duplicates removed, 1 found by more than one strategy)")
	assert.Contains(t, out, "US123456  high_overlap")
	assert.NotContains(t, out, "unassessed")
	assert.Contains(t, out, "Novelty gaps:\n  - app integration")
	assert.Contains(t, out, "Application strategy:\n  File a provisional.")
}

func TestFormatTable_Failed(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(types.RunResult{State: types.StateFailed, Error: "copilot.search: all 3 search strategies failed"}, &buf)
	assert.Equal(t, "Status: failed: copilot.search: all 3 search strategies failed\n", buf.String())
}

func TestFormatTable_NoCandidates(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(types.RunResult{State: types.StateDone, Status: types.AllSucceeded}, &buf)
	assert.Contains(t, buf.String(), "No patents found.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate(strings.Repeat("é", 12), 10))
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(sampleResult(), &buf))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, "partial_success", got["status"])
	assert.NotContains(t, got, "outcomes")
	candidates := got["candidates"].([]any)
	require.Len(t, candidates, 2)
	assert.Equal(t, "US123456", candidates[0].(map[string]any)["canonical_id"])
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatYAML(sampleResult(), &buf))

	var got struct {
		RunID      string `yaml:"run_id"`
		Candidates []struct {
			CanonicalID string `yaml:"canonical_id"`
		} `yaml:"candidates"`
		Report struct {
			Recommendation string `yaml:"recommendation"`
		} `yaml:"report"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	require.Len(t, got.Candidates, 2)
	assert.Equal(t, "US777777", got.Candidates[1].CanonicalID)
	assert.Equal(t, "Focus claims on the app.", got.Report.Recommendation)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResult())

	assert.True(t, strings.HasPrefix(md, "# Patent Search Report\n"))
	assert.Contains(t, md, "- Status: partial success: 2 of 3 strategies used")
	assert.Contains(t, md, "**Key concepts:** water bottle, hydration tracking")
	assert.Contains(t, md, "| 1 | broad | smart water bottle | success (2 hits) |")
	assert.Contains(t, md, "| 3 | alternative | fluid intake monitor | failure |")
	assert.Contains(t, md, "| 1 | [US123456](https://patents.google.com/patent/US123456) | Smart \\| bottle | Hydro Corp | 2021-05-04 | 1,2 | 200 |")
	assert.Contains(t, md, "- Duplicates removed: 1")
	assert.Contains(t, md, "- Strategy 1: 2 records")
	assert.Contains(t, md, "| US123456 | `high_overlap` | sensor bottle | no app |")
	assert.NotContains(t, md, "US777777 | `unassessed`")
	assert.Contains(t, md, "### Novelty Gaps\n\n- app integration")
	assert.Contains(t, md, "### Application Strategy\n\nFile a provisional.")
}

func TestMarkdown_Placeholder(t *testing.T) {
	result := sampleResult()
	result.Report = &types.AnalysisReport{Summary: "unavailable", Recommendation: "review", Placeholder: true}
	assert.Contains(t, Markdown(result), "**Analysis unavailable.**")
}

func TestHTML(t *testing.T) {
	html, err := HTML(sampleResult())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<h1>Patent Search Report</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, `<a href="https://patents.google.com/patent/US123456">US123456</a>`)
}

func TestWrite(t *testing.T) {
	for _, f := range []Format{FormatNameTable, FormatNameJSON, FormatNameYAML, FormatNameMarkdown, FormatNameHTML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, f, sampleResult()))
			assert.Contains(t, buf.String(), "US123456")
		})
	}
}
