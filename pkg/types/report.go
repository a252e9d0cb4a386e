// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Assessment verdicts used by the analysis step.
const (
	VerdictHighOverlap = "high_overlap"
	VerdictPartial     = "partial_overlap"
	VerdictLowOverlap  = "low_overlap"
	VerdictUnassessed  = "unassessed"
)

// PatentAssessment is the analysis of one candidate patent against the
// invention.
type PatentAssessment struct {
	CanonicalID string `json:"canonical_id" yaml:"canonical_id"`

	// Verdict is high_overlap, partial_overlap, low_overlap, or unassessed.
	Verdict string `json:"verdict" yaml:"verdict"`

	// Overlap describes the features the patent shares with the invention.
	Overlap string `json:"overlap" yaml:"overlap"`

	// Differences describes what the invention adds beyond the patent.
	Differences string `json:"differences" yaml:"differences"`
}

// AnalysisReport is the novelty assessment of an invention against its
// ranked candidates.
type AnalysisReport struct {
	Summary string `json:"summary" yaml:"summary"`

	// Assessments are ordered to match the ranked candidate set.
	Assessments []PatentAssessment `json:"assessments" yaml:"assessments"`

	NoveltyGaps         []string `json:"novelty_gaps" yaml:"novelty_gaps"`
	Recommendation      string   `json:"recommendation" yaml:"recommendation"`
	FurtherResearch     []string `json:"further_research,omitempty" yaml:"further_research,omitempty"`
	ApplicationStrategy string   `json:"application_strategy,omitempty" yaml:"application_strategy,omitempty"`

	// Placeholder is set when analysis failed and the report was built
	// from the ranked candidates alone.
	Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// RunState is a stage of the orchestration state machine.
type RunState string

const (
	StateInit       RunState = "init"
	StateExtracting RunState = "extracting"
	StatePlanning   RunState = "planning"
	StateSearching  RunState = "searching"
	StateMerging    RunState = "merging"
	StateAnalyzing  RunState = "analyzing"
	StateDone       RunState = "done"
	StateFailed     RunState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s RunState) Terminal() bool { return s == StateDone || s == StateFailed }

// DroppedStrategy records a strategy that contributed nothing to the merge.
type DroppedStrategy struct {
	ID     int    `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Query  string `json:"query" yaml:"query"`
	Reason string `json:"reason" yaml:"reason"`
}

// RunResult is the complete record of one copilot run.
type RunResult struct {
	RunID       string    `json:"run_id" yaml:"run_id"`
	Description string    `json:"description" yaml:"description"`
	Concepts    []Concept `json:"concepts" yaml:"concepts"`

	Strategies []SearchStrategy `json:"strategies" yaml:"strategies"`
	// Planned counts the strategies the planner produced, including any
	// dropped before searching for having a blank query.
	Planned    int                     `json:"planned,omitempty" yaml:"planned,omitempty"`
	Outcomes   map[int]StrategyOutcome `json:"-" yaml:"-"`
	Status     SearchStatus            `json:"status,omitempty" yaml:"status,omitempty"`
	State      RunState                `json:"state" yaml:"state"`
	Candidates RankedCandidateSet      `json:"candidates" yaml:"candidates"`
	Coverage   *MergeStats             `json:"coverage,omitempty" yaml:"coverage,omitempty"`
	Report     *AnalysisReport         `json:"report,omitempty" yaml:"report,omitempty"`
	Dropped    []DroppedStrategy       `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Warnings   []string                `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Error is the message of the error that moved the run to Failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	StagesExecuted []RunState `json:"stages_executed" yaml:"stages_executed"`
	StartedAt      time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt    time.Time  `json:"completed_at" yaml:"completed_at"`
	DurationMS     int64      `json:"duration_ms" yaml:"duration_ms"`
}

// Summary renders the run status line shown to the user.
func (r RunResult) Summary() string {
	if r.State == StateFailed {
		if r.Error == "" {
			return "failed"
		}
		return "failed: " + r.Error
	}
	planned := max(r.Planned, len(r.Strategies))
	used := len(r.Strategies) - len(r.Dropped)
	switch r.Status {
	case PartialSuccess, AllSucceeded:
		if used < planned {
			noun := "strategies"
			if planned > len(r.Strategies) {
				noun = "planned strategies"
			}
			return fmt.Sprintf("partial success: %d of %d %s used", used, planned, noun)
		}
		if r.Report != nil && r.Report.Placeholder {
			return "complete success (analysis unavailable)"
		}
		return "complete success"
	}
	return string(r.State)
}
