// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PatentRecord is a normalized patent hit. Records from different strategies
// that share a CanonicalID describe the same patent.
type PatentRecord struct {
	// CanonicalID is the provider's patent number uppercased with whitespace
	// and punctuation removed (e.g. "US123456").
	CanonicalID string `json:"canonical_id" yaml:"canonical_id"`

	Title    string `json:"title" yaml:"title"`
	Snippet  string `json:"snippet" yaml:"snippet"`
	Link     string `json:"link" yaml:"link"`
	Assignee string `json:"assignee" yaml:"assignee"`
	Inventor string `json:"inventor,omitempty" yaml:"inventor,omitempty"`

	// PublicationDate is nil when the provider gave no parseable date.
	PublicationDate *time.Time `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// SourceStrategies lists, in ascending order, the IDs of every strategy
	// that surfaced this patent.
	SourceStrategies []int `json:"source_strategies" yaml:"source_strategies"`

	// Score is the relevance score assigned during ranking.
	Score int `json:"score" yaml:"score"`
}

// Corroboration returns the number of distinct strategies that found the patent.
func (r PatentRecord) Corroboration() int { return len(r.SourceStrategies) }

// RankedCandidateSet is the merged, deduplicated, ordered search output.
type RankedCandidateSet []PatentRecord

// IDs returns the canonical IDs in rank order.
func (s RankedCandidateSet) IDs() []string {
	ids := make([]string, len(s))
	for i, r := range s {
		ids[i] = r.CanonicalID
	}
	return ids
}

// MergeStats describes how the ranking engine folded per-strategy records
// into the candidate set.
type MergeStats struct {
	// Records is the number of records read from successful outcomes.
	Records int `json:"records" yaml:"records"`

	// Unique is the number of distinct patents after deduplication.
	Unique int `json:"unique" yaml:"unique"`

	// Duplicates is Records minus Unique.
	Duplicates int `json:"duplicates" yaml:"duplicates"`

	// Corroborated counts patents surfaced by more than one strategy.
	Corroborated int `json:"corroborated" yaml:"corroborated"`

	// PerStrategy maps a successful strategy's ID to the records it returned.
	PerStrategy map[int]int `json:"per_strategy" yaml:"per_strategy"`
}
