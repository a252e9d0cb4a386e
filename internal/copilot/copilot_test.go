// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package copilot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/executor"
	"github.com/pdiddy/patent-copilot/internal/httputil"
	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// fakePlanner implements all three AI capabilities with canned answers.
type fakePlanner struct {
	concepts    []types.Concept
	conceptErr  error
	strategies  []types.SearchStrategy
	strategyErr error
	report      types.AnalysisReport
	analyzeErr  error

	mu          sync.Mutex
	calls       []string
	gotConcepts []types.Concept
	analyzed    types.RankedCandidateSet
}

func (f *fakePlanner) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePlanner) ExtractConcepts(_ context.Context, _ string) ([]types.Concept, error) {
	f.record("extract")
	return f.concepts, f.conceptErr
}

func (f *fakePlanner) GenerateStrategies(_ context.Context, concepts []types.Concept) ([]types.SearchStrategy, error) {
	f.record("plan")
	f.gotConcepts = concepts
	return f.strategies, f.strategyErr
}

func (f *fakePlanner) Analyze(_ context.Context, _ string, candidates types.RankedCandidateSet) (types.AnalysisReport, error) {
	f.record("analyze")
	f.analyzed = candidates
	return f.report, f.analyzeErr
}

// funcExecutor runs each strategy through fn.
type funcExecutor func(s types.SearchStrategy) types.StrategyOutcome

func (fn funcExecutor) Execute(_ context.Context, s types.SearchStrategy, _ int, _ time.Time) types.StrategyOutcome {
	return fn(s)
}

// queryProvider returns fixed hits per query.
type queryProvider struct {
	hits map[string][]types.RawHit
	errs map[string]error
}

func (p *queryProvider) Name() string { return "fake" }

func (p *queryProvider) Search(_ context.Context, query string, _ int) ([]types.RawHit, error) {
	if err := p.errs[query]; err != nil {
		return nil, err
	}
	return p.hits[query], nil
}

func threeStrategies() []types.SearchStrategy {
	return []types.SearchStrategy{
		{ID: 1, Label: types.LabelBroad, Query: "smart water bottle", Priority: 0},
		{ID: 2, Label: types.LabelSpecific, Query: "bluetooth hydration sensor bottle", Priority: 1},
		{ID: 3, Label: types.LabelAlternative, Query: "fluid intake monitoring container", Priority: 2},
	}
}

func hits(ids ...string) []types.RawHit {
	out := make([]types.RawHit, len(ids))
	for i, id := range ids {
		out[i] = types.RawHit{ID: id, Title: "Patent " + id, Link: "https://patents.google.com/patent/" + id}
	}
	return out
}

func record(id string) types.PatentRecord {
	return types.PatentRecord{CanonicalID: id, Title: "Patent " + id}
}

func newCopilot(p *fakePlanner, exec funcExecutor) *Copilot {
	return New(p, p, p, exec, WithLogger(logging.Discard()))
}

func succeedAll(s types.SearchStrategy) types.StrategyOutcome {
	return types.Success(s, []types.PatentRecord{record(fmt.Sprintf("US%d", 1000+s.ID))}, 1)
}

func TestRun_WaterBottleEndToEnd(t *testing.T) {
	provider := &queryProvider{hits: map[string][]types.RawHit{
		"smart water bottle":                hits("US111111", "US123456", "US222222", "US333333"),
		"bluetooth hydration sensor bottle": hits("US444444", "US123456", "US555555"),
		"fluid intake monitoring container": hits("US666666", "US777777"),
	}}
	planner := &fakePlanner{
		concepts:   []types.Concept{"water bottle", "Bluetooth", "hydration tracking"},
		strategies: threeStrategies(),
		report: types.AnalysisReport{
			Summary:        "One corroborated patent.",
			Recommendation: "Proceed.",
			Assessments: []types.PatentAssessment{
				{CanonicalID: "US123456", Verdict: types.VerdictHighOverlap},
			},
		},
	}
	exec := executor.New(provider, executor.WithLogger(logging.Discard()))
	c := New(planner, planner, planner, exec, WithLogger(logging.Discard()))

	var states []types.RunState
	result, err := c.RunWithProgress(context.Background(), "IoT water bottle with Bluetooth hydration tracking", Options{}, func(s types.RunState, _ string) {
		states = append(states, s)
	})
	require.NoError(t, err)

	assert.Equal(t, types.StateDone, result.State)
	assert.Equal(t, types.AllSucceeded, result.Status)
	assert.Equal(t, "complete success", result.Summary())
	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Dropped)

	require.Len(t, result.Candidates, 8)
	first := result.Candidates[0]
	assert.Equal(t, "US123456", first.CanonicalID)
	assert.Equal(t, []int{1, 2}, first.SourceStrategies)
	assert.Equal(t, 200, first.Score)

	require.NotNil(t, result.Coverage)
	assert.Equal(t, 9, result.Coverage.Records)
	assert.Equal(t, 8, result.Coverage.Unique)
	assert.Equal(t, 1, result.Coverage.Duplicates)

	assert.Len(t, planner.analyzed, 8)
	require.NotNil(t, result.Report)
	require.Len(t, result.Report.Assessments, 8)
	assert.Equal(t, types.VerdictHighOverlap, result.Report.Assessments[0].Verdict)
	assert.Equal(t, types.VerdictUnassessed, result.Report.Assessments[1].Verdict)

	want := []types.RunState{
		types.StateExtracting, types.StatePlanning, types.StateSearching,
		types.StateMerging, types.StateAnalyzing, types.StateDone,
	}
	assert.Equal(t, want, states)
	assert.Equal(t, append([]types.RunState{types.StateInit}, want...), result.StagesExecuted)
	assert.False(t, result.CompletedAt.Before(result.StartedAt))
}

func TestRun_EmptyDescription(t *testing.T) {
	planner := &fakePlanner{}
	result, err := newCopilot(planner, succeedAll).Run(context.Background(), " \n\t ", Options{})

	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	assert.Empty(t, planner.calls)
	assert.Equal(t, types.StateFailed, result.State)
	assert.Equal(t, []types.RunState{types.StateInit, types.StateFailed}, result.StagesExecuted)
	assert.Contains(t, result.Summary(), "failed: ")
}

func TestRun_ExtractionErrorIsFatal(t *testing.T) {
	planner := &fakePlanner{conceptErr: errs.Configuration("ai.gemini", "Gemini API key not found")}
	result, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{})

	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
	assert.Equal(t, []string{"extract"}, planner.calls)
	assert.Equal(t, types.StateFailed, result.State)
	assert.Contains(t, result.Error, "API key not found")
}

func TestRun_NoConceptsIsFatal(t *testing.T) {
	planner := &fakePlanner{concepts: []types.Concept{" ", ""}}
	result, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{})

	require.Error(t, err)
	assert.Equal(t, []string{"extract"}, planner.calls)
	assert.Equal(t, types.StateFailed, result.State)
}

func TestRun_ConceptsAreDeduplicated(t *testing.T) {
	planner := &fakePlanner{
		concepts:   []types.Concept{"Bottle", " bottle ", "sensor", "BOTTLE"},
		strategies: threeStrategies(),
	}
	result, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{})

	require.NoError(t, err)
	assert.Equal(t, []types.Concept{"Bottle", "sensor"}, planner.gotConcepts)
	assert.Equal(t, planner.gotConcepts, result.Concepts)
}

func TestRun_PlanningErrorIsFatal(t *testing.T) {
	planner := &fakePlanner{concepts: []types.Concept{"bottle"}, strategyErr: errors.New("model unavailable")}
	result, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{})

	require.Error(t, err)
	assert.Equal(t, []string{"extract", "plan"}, planner.calls)
	assert.Equal(t, types.StateFailed, result.State)
	assert.Equal(t, types.StatePlanning, result.StagesExecuted[len(result.StagesExecuted)-2])
}

func TestRun_EmptyStrategiesIsFatal(t *testing.T) {
	planner := &fakePlanner{concepts: []types.Concept{"bottle"}}
	_, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{})

	require.Error(t, err)
	assert.Equal(t, []string{"extract", "plan"}, planner.calls)
}

func TestRun_DuplicateStrategyIDsAreFatal(t *testing.T) {
	strategies := threeStrategies()
	strategies[2].ID = 1
	planner := &fakePlanner{concepts: []types.Concept{"bottle"}, strategies: strategies}
	_, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate strategy id 1")
}

func TestRun_BlankQueryStrategyDropped(t *testing.T) {
	strategies := threeStrategies()
	strategies[1].Query = "  "
	planner := &fakePlanner{concepts: []types.Concept{"bottle"}, strategies: strategies}

	var (
		mu       sync.Mutex
		searched []int
	)
	exec := funcExecutor(func(s types.SearchStrategy) types.StrategyOutcome {
		mu.Lock()
		searched = append(searched, s.ID)
		mu.Unlock()
		return succeedAll(s)
	})
	result, err := newCopilot(planner, exec).Run(context.Background(), "bottle", Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{1, 3}, searched)
	assert.Len(t, result.Strategies, 2)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "strategy 2")
	assert.Equal(t, types.AllSucceeded, result.Status)
	assert.Equal(t, 3, result.Planned)
	assert.Equal(t, "partial success: 2 of 3 planned strategies used", result.Summary())
}

func TestRun_PartialSuccess(t *testing.T) {
	planner := &fakePlanner{
		concepts:   []types.Concept{"bottle"},
		strategies: threeStrategies(),
		report:     types.AnalysisReport{Summary: "s", Recommendation: "r"},
	}
	exec := funcExecutor(func(s types.SearchStrategy) types.StrategyOutcome {
		if s.ID == 2 {
			return types.Failure(s, errs.KindPermanent.String(), "serpapi.search: HTTP 400: bad query", 1)
		}
		return succeedAll(s)
	})

	result, err := newCopilot(planner, exec).Run(context.Background(), "bottle", Options{})
	require.NoError(t, err)

	assert.Equal(t, types.StateDone, result.State)
	assert.Equal(t, types.PartialSuccess, result.Status)
	assert.Len(t, result.Candidates, 2)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, 2, result.Dropped[0].ID)
	assert.Contains(t, result.Dropped[0].Reason, "HTTP 400")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "strategy 2 (specific)")
	assert.Equal(t, "partial success: 2 of 3 strategies used", result.Summary())
}

func TestRun_AllFailedIsTotalFailure(t *testing.T) {
	planner := &fakePlanner{concepts: []types.Concept{"bottle"}, strategies: threeStrategies()}
	exec := funcExecutor(func(s types.SearchStrategy) types.StrategyOutcome {
		if s.ID == 3 {
			return types.Timeout(s, "search deadline exceeded", 3)
		}
		return types.Failure(s, errs.KindTransient.String(), "retries exhausted", 3)
	})

	result, err := newCopilot(planner, exec).Run(context.Background(), "bottle", Options{})
	require.Error(t, err)

	assert.Equal(t, errs.KindTotalFailure, errs.KindOf(err))
	assert.Equal(t, types.AllFailed, result.Status)
	assert.Equal(t, types.StateFailed, result.State)
	assert.Nil(t, result.Candidates)
	assert.Nil(t, result.Report)
	assert.Len(t, result.Dropped, 3)
	assert.NotContains(t, planner.calls, "analyze")
}

func TestRun_AnalysisFailureDegrades(t *testing.T) {
	planner := &fakePlanner{
		concepts:   []types.Concept{"bottle"},
		strategies: threeStrategies(),
		analyzeErr: errs.Wrap(errs.KindTransient, "ai.gemini", errors.New("503 overloaded")),
	}

	result, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{})
	require.NoError(t, err)

	assert.Equal(t, types.StateDone, result.State)
	assert.Len(t, result.Candidates, 3)
	require.NotNil(t, result.Report)
	assert.True(t, result.Report.Placeholder)
	require.Len(t, result.Report.Assessments, 3)
	for _, a := range result.Report.Assessments {
		assert.Equal(t, types.VerdictUnassessed, a.Verdict)
	}
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "analysis unavailable")
	assert.Equal(t, "complete success (analysis unavailable)", result.Summary())
}

func TestRun_AssessmentsFollowCandidateOrder(t *testing.T) {
	planner := &fakePlanner{
		concepts:   []types.Concept{"bottle"},
		strategies: threeStrategies(),
		report: types.AnalysisReport{
			Summary:        "s",
			Recommendation: "r",
			Assessments: []types.PatentAssessment{
				{CanonicalID: "US1003", Verdict: types.VerdictLowOverlap},
				{CanonicalID: "US9999", Verdict: types.VerdictHighOverlap},
				{CanonicalID: "US1001", Verdict: types.VerdictPartial},
			},
		},
	}

	result, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{})
	require.NoError(t, err)

	require.Equal(t, []string{"US1001", "US1002", "US1003"}, result.Candidates.IDs())
	got := result.Report.Assessments
	require.Len(t, got, 3)
	assert.Equal(t, types.PatentAssessment{CanonicalID: "US1001", Verdict: types.VerdictPartial}, got[0])
	assert.Equal(t, types.PatentAssessment{CanonicalID: "US1002", Verdict: types.VerdictUnassessed}, got[1])
	assert.Equal(t, types.PatentAssessment{CanonicalID: "US1003", Verdict: types.VerdictLowOverlap}, got[2])
}

func TestRun_MaxCandidatesLimitsAnalysis(t *testing.T) {
	planner := &fakePlanner{
		concepts:   []types.Concept{"bottle"},
		strategies: threeStrategies(),
		report:     types.AnalysisReport{Summary: "s", Recommendation: "r"},
	}

	result, err := newCopilot(planner, succeedAll).Run(context.Background(), "bottle", Options{MaxCandidates: 2})
	require.NoError(t, err)

	assert.Len(t, result.Candidates, 3)
	assert.Equal(t, []string{"US1001", "US1002"}, planner.analyzed.IDs())
	assert.Len(t, result.Report.Assessments, 2)
}

func TestRun_SearchBudgetTimesOutSlowStrategies(t *testing.T) {
	planner := &fakePlanner{
		concepts:   []types.Concept{"bottle"},
		strategies: threeStrategies(),
		report:     types.AnalysisReport{Summary: "s", Recommendation: "r"},
	}
	release := make(chan struct{})
	defer close(release)
	exec := funcExecutor(func(s types.SearchStrategy) types.StrategyOutcome {
		if s.ID == 3 {
			<-release
		}
		return succeedAll(s)
	})

	result, err := newCopilot(planner, exec).Run(context.Background(), "bottle", Options{SearchBudget: 50 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, types.PartialSuccess, result.Status)
	require.Len(t, result.Dropped, 1)
	assert.Equal(t, 3, result.Dropped[0].ID)
	assert.Contains(t, result.Dropped[0].Reason, "timeout")
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, 10, o.ResultsPerStrategy)
	assert.Equal(t, 3, o.MaxConcurrency)
	assert.Equal(t, 60*time.Second, o.SearchBudget)
	assert.Equal(t, DefaultMaxCandidates, o.MaxCandidates)
}

func TestIllegalTransitionPanics(t *testing.T) {
	r := newRun("bottle", nil, logging.Discard())
	assert.Panics(t, func() { r.enter(types.StateSearching, "") })

	r.enter(types.StateFailed, "")
	assert.Panics(t, func() { r.enter(types.StateFailed, "") })
}
