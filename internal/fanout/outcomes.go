// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fanout

import (
	"sync"

	"github.com/pdiddy/patent-copilot/pkg/types"
)

// outcomeStore is a write-once map from strategy ID to outcome. After seal
// every write is ignored, so workers that finish past the search budget
// cannot change what the controller already returned.
type outcomeStore struct {
	mu     sync.Mutex
	m      map[int]types.StrategyOutcome
	sealed bool
}

func newOutcomeStore(n int) *outcomeStore {
	return &outcomeStore{m: make(map[int]types.StrategyOutcome, n)}
}

// put records o for id and reports whether it was stored.
func (s *outcomeStore) put(id int, o types.StrategyOutcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return false
	}
	if _, ok := s.m[id]; ok {
		return false
	}
	s.m[id] = o
	return true
}

// seal stops further writes and returns a copy of the stored outcomes.
func (s *outcomeStore) seal() map[int]types.StrategyOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
	out := make(map[int]types.StrategyOutcome, len(s.m))
	for id, o := range s.m {
		out[id] = o
	}
	return out
}

// Classify derives the search status from the outcomes. An empty map is
// AllFailed.
func Classify(outcomes map[int]types.StrategyOutcome) types.SearchStatus {
	succeeded := 0
	for _, o := range outcomes {
		if o.Succeeded() {
			succeeded++
		}
	}
	switch {
	case len(outcomes) > 0 && succeeded == len(outcomes):
		return types.AllSucceeded
	case succeeded > 0:
		return types.PartialSuccess
	}
	return types.AllFailed
}
