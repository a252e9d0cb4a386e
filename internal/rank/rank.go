// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank merges per-strategy search outcomes into one deduplicated,
// deterministically ordered candidate list.
package rank

import (
	"slices"
	"sort"
	"strings"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

// CorroborationWeight is the score contributed by each distinct strategy
// that surfaced a patent.
const CorroborationWeight = 100

// Score computes the relevance of a merged record found by sources distinct
// strategies whose earliest priority is minPriority. The priority penalty is
// held below CorroborationWeight so corroboration always dominates.
func Score(sources, minPriority int) int {
	penalty := min(max(minPriority, 0), CorroborationWeight-1)
	return sources*CorroborationWeight - penalty
}

// Stats describes how a merge folded its inputs.
type Stats = types.MergeStats

// Merge deduplicates the records of every successful outcome by canonical ID
// and orders them by descending score, then ascending canonical ID. It is a
// pure function of outcomes.
func Merge(outcomes map[int]types.StrategyOutcome) types.RankedCandidateSet {
	ranked, _ := MergeWithStats(outcomes)
	return ranked
}

// MergeWithStats is Merge plus a summary of the folding it performed.
func MergeWithStats(outcomes map[int]types.StrategyOutcome) (types.RankedCandidateSet, Stats) {
	stats := Stats{PerStrategy: map[int]int{}}

	type source struct {
		id       int
		priority int
	}
	var order []source
	for id, o := range outcomes {
		if o.Succeeded() {
			order = append(order, source{id: id, priority: o.Strategy.Priority})
		}
	}
	// Priority order, not completion order, decides which occurrence of a
	// patent supplies its fields.
	sort.Slice(order, func(i, j int) bool {
		if order[i].priority != order[j].priority {
			return order[i].priority < order[j].priority
		}
		return order[i].id < order[j].id
	})

	type entry struct {
		record      types.PatentRecord
		minPriority int
	}
	merged := make(map[string]*entry)
	var seen []string

	for _, src := range order {
		records := outcomes[src.id].Records
		stats.PerStrategy[src.id] = len(records)
		for _, rec := range records {
			key := strings.TrimSpace(rec.CanonicalID)
			if key == "" {
				continue
			}
			stats.Records++

			if e, ok := merged[key]; ok {
				if !slices.Contains(e.record.SourceStrategies, src.id) {
					e.record.SourceStrategies = append(e.record.SourceStrategies, src.id)
				}
				e.minPriority = min(e.minPriority, src.priority)
				continue
			}

			first := rec
			first.CanonicalID = key
			first.SourceStrategies = []int{src.id}
			merged[key] = &entry{record: first, minPriority: src.priority}
			seen = append(seen, key)
		}
	}

	ranked := make(types.RankedCandidateSet, 0, len(seen))
	for _, key := range seen {
		e := merged[key]
		slices.Sort(e.record.SourceStrategies)
		e.record.Score = Score(len(e.record.SourceStrategies), e.minPriority)
		if len(e.record.SourceStrategies) > 1 {
			stats.Corroborated++
		}
		ranked = append(ranked, e.record)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].CanonicalID < ranked[j].CanonicalID
	})

	stats.Unique = len(ranked)
	stats.Duplicates = stats.Records - stats.Unique
	return ranked, stats
}
