// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the patent-copilot
// pipeline: search strategies, per-strategy outcomes, merged patent records,
// analysis reports, run results, and configuration.
package types

import "strings"

// Concept is a short technical term extracted from an invention description.
type Concept string

// StrategyLabel names the angle a search strategy takes on the invention.
type StrategyLabel string

const (
	LabelBroad       StrategyLabel = "broad"
	LabelSpecific    StrategyLabel = "specific"
	LabelAlternative StrategyLabel = "alternative"
)

// ParseStrategyLabel maps free-form label text to a StrategyLabel. It reports
// false for labels outside the broad/specific/alternative set.
func ParseStrategyLabel(s string) (StrategyLabel, bool) {
	switch StrategyLabel(strings.ToLower(strings.TrimSpace(s))) {
	case LabelBroad:
		return LabelBroad, true
	case LabelSpecific:
		return LabelSpecific, true
	case LabelAlternative:
		return LabelAlternative, true
	}
	return "", false
}

// SearchStrategy is one phrasing of a patent query derived from the
// invention's concepts.
type SearchStrategy struct {
	// ID is the strategy's ordinal and the key of its outcome.
	ID int `json:"id" yaml:"id"`

	// Label is broad, specific, or alternative.
	Label StrategyLabel `json:"label" yaml:"label"`

	// Query is the text sent to the patent search provider.
	Query string `json:"query" yaml:"query"`

	// Priority is the generation order. Lower values were generated first
	// and win ranking tie-breaks.
	Priority int `json:"priority" yaml:"priority"`

	// Rationale explains which aspect of the invention the strategy targets.
	Rationale string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// RawHit is a single search result exactly as a provider returned it.
type RawHit struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Snippet  string `json:"snippet" yaml:"snippet"`
	Link     string `json:"link" yaml:"link"`
	Assignee string `json:"assignee" yaml:"assignee"`
	Inventor string `json:"inventor,omitempty" yaml:"inventor,omitempty"`
	Date     string `json:"date" yaml:"date"`
}

// OutcomeKind tags a StrategyOutcome.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
	OutcomeTimeout OutcomeKind = "timeout"
)

// StrategyOutcome is the terminal result of executing one strategy.
type StrategyOutcome struct {
	Strategy SearchStrategy `json:"strategy" yaml:"strategy"`
	Kind     OutcomeKind    `json:"kind" yaml:"kind"`

	// Records holds the normalized hits of a successful strategy, in
	// provider order.
	Records []PatentRecord `json:"records,omitempty" yaml:"records,omitempty"`

	// ErrorKind and Message describe a Failure or Timeout.
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`

	// Attempts counts provider calls made, retries included.
	Attempts int `json:"attempts" yaml:"attempts"`
}

// Success builds a successful outcome.
func Success(s SearchStrategy, records []PatentRecord, attempts int) StrategyOutcome {
	return StrategyOutcome{Strategy: s, Kind: OutcomeSuccess, Records: records, Attempts: attempts}
}

// Failure builds a failed outcome.
func Failure(s SearchStrategy, errorKind, message string, attempts int) StrategyOutcome {
	return StrategyOutcome{Strategy: s, Kind: OutcomeFailure, ErrorKind: errorKind, Message: message, Attempts: attempts}
}

// Timeout builds a timed-out outcome.
func Timeout(s SearchStrategy, message string, attempts int) StrategyOutcome {
	return StrategyOutcome{Strategy: s, Kind: OutcomeTimeout, ErrorKind: "timeout", Message: message, Attempts: attempts}
}

// Succeeded reports whether the outcome carries records.
func (o StrategyOutcome) Succeeded() bool { return o.Kind == OutcomeSuccess }

// SearchStatus summarizes a fan-out over all strategies.
type SearchStatus string

const (
	AllSucceeded   SearchStatus = "all_succeeded"
	PartialSuccess SearchStatus = "partial_success"
	AllFailed      SearchStatus = "all_failed"
)
