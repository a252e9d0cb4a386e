// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package copilot drives one patent search run through its stages:
// concept extraction, strategy planning, concurrent search, merge, and
// novelty analysis.
package copilot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/fanout"
	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/internal/rank"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

// ConceptExtractor turns an invention description into technical concepts.
type ConceptExtractor interface {
	ExtractConcepts(ctx context.Context, description string) ([]types.Concept, error)
}

// StrategyGenerator turns concepts into an ordered set of search strategies.
type StrategyGenerator interface {
	GenerateStrategies(ctx context.Context, concepts []types.Concept) ([]types.SearchStrategy, error)
}

// AnalysisSynthesizer assesses ranked candidates against the invention.
type AnalysisSynthesizer interface {
	Analyze(ctx context.Context, description string, candidates types.RankedCandidateSet) (types.AnalysisReport, error)
}

const DefaultMaxCandidates = 30

// Options bound one run. Zero values select the defaults.
type Options struct {
	ResultsPerStrategy int
	MaxConcurrency     int
	SearchBudget       time.Duration

	// MaxCandidates caps how many ranked candidates are sent to analysis.
	// The full ranked list is always returned.
	MaxCandidates int
}

func (o Options) withDefaults() Options {
	if o.ResultsPerStrategy <= 0 {
		o.ResultsPerStrategy = fanout.DefaultResultsPerStrategy
	}
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = fanout.DefaultMaxConcurrency
	}
	if o.SearchBudget <= 0 {
		o.SearchBudget = fanout.DefaultBudget
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	return o
}

// Copilot wires the capabilities a run needs.
type Copilot struct {
	extractor   ConceptExtractor
	generator   StrategyGenerator
	synthesizer AnalysisSynthesizer
	executor    fanout.StrategyExecutor
	logger      *slog.Logger
}

// Option configures a Copilot.
type Option func(*Copilot)

// WithLogger sets the logger. Without it the logger carried by the run's
// context is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *Copilot) { c.logger = l }
}

// New returns a Copilot. The planner arguments are usually the same
// *ai.Planner.
func New(extractor ConceptExtractor, generator StrategyGenerator, synthesizer AnalysisSynthesizer, executor fanout.StrategyExecutor, opts ...Option) *Copilot {
	c := &Copilot{
		extractor:   extractor,
		generator:   generator,
		synthesizer: synthesizer,
		executor:    executor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes a full run without progress reporting.
func (c *Copilot) Run(ctx context.Context, description string, opts Options) (types.RunResult, error) {
	return c.RunWithProgress(ctx, description, opts, nil)
}

// RunWithProgress executes a full run, calling progress on each state
// transition. The returned RunResult is populated even when err is non-nil.
// Only a failed search (every strategy failed) or a failed extraction or
// planning stage returns an error; analysis failures degrade to a
// placeholder report.
func (c *Copilot) RunWithProgress(ctx context.Context, description string, opts Options, progress ProgressFn) (types.RunResult, error) {
	opts = opts.withDefaults()
	logger := c.logger
	if logger == nil {
		logger = logging.From(ctx)
	}
	description = strings.TrimSpace(description)
	r := newRun(description, progress, logger)
	ctx = logging.With(ctx, r.logger)

	if description == "" {
		return r.fail(errs.Validation("copilot.run", "invention description is empty"))
	}
	r.logger.Info("run started", "chars", len(description))

	r.enter(types.StateExtracting, "Extracting key technical concepts...")
	concepts, err := c.extractor.ExtractConcepts(ctx, description)
	if err != nil {
		return r.fail(fmt.Errorf("extracting concepts: %w", err))
	}
	concepts = dedupeConcepts(concepts)
	if len(concepts) == 0 {
		return r.fail(&errs.Error{Kind: errs.KindPermanent, Op: "copilot.extract", Message: "no concepts extracted from the description"})
	}
	r.result.Concepts = concepts
	r.logger.Info("concepts extracted", "count", len(concepts))

	r.enter(types.StatePlanning, "Generating search strategies...")
	strategies, err := c.generator.GenerateStrategies(ctx, concepts)
	if err != nil {
		return r.fail(fmt.Errorf("generating strategies: %w", err))
	}
	r.result.Planned = len(strategies)
	strategies, err = r.checkStrategies(strategies)
	if err != nil {
		return r.fail(err)
	}
	r.result.Strategies = strategies
	r.logger.Info("strategies planned", "count", len(strategies))

	r.enter(types.StateSearching, fmt.Sprintf("Running %d search strategies...", len(strategies)))
	controller := fanout.New(c.executor, fanout.Options{
		MaxConcurrency:     opts.MaxConcurrency,
		Budget:             opts.SearchBudget,
		ResultsPerStrategy: opts.ResultsPerStrategy,
	}, r.logger)
	outcomes, status := controller.Run(ctx, strategies)
	r.result.Outcomes = outcomes
	r.result.Status = status
	r.noteDropped(strategies, outcomes)
	if status == types.AllFailed {
		return r.fail(errs.TotalFailure("copilot.search", "all %d search strategies failed", len(strategies)))
	}

	r.enter(types.StateMerging, "Merging and ranking results...")
	candidates, stats := rank.MergeWithStats(outcomes)
	r.result.Candidates = candidates
	r.result.Coverage = &stats
	r.logger.Info("results merged", "unique", stats.Unique, "duplicates", stats.Duplicates, "corroborated", stats.Corroborated)

	r.enter(types.StateAnalyzing, "Analyzing novelty...")
	shortlist := candidates
	if len(shortlist) > opts.MaxCandidates {
		shortlist = shortlist[:opts.MaxCandidates]
	}
	report, err := c.synthesizer.Analyze(ctx, description, shortlist)
	if err != nil {
		r.warn("analysis unavailable: %v", err)
		placeholder := placeholderReport(shortlist)
		r.result.Report = &placeholder
	} else {
		report.Assessments = alignAssessments(report.Assessments, shortlist)
		r.result.Report = &report
	}

	return r.done()
}

// checkStrategies drops strategies with blank queries and rejects duplicate
// IDs, which would collide in the outcome map.
func (r *run) checkStrategies(strategies []types.SearchStrategy) ([]types.SearchStrategy, error) {
	seen := make(map[int]bool, len(strategies))
	kept := make([]types.SearchStrategy, 0, len(strategies))
	for _, s := range strategies {
		if seen[s.ID] {
			return nil, &errs.Error{Kind: errs.KindPermanent, Op: "copilot.plan", Message: fmt.Sprintf("duplicate strategy id %d", s.ID)}
		}
		seen[s.ID] = true
		if strings.TrimSpace(s.Query) == "" {
			r.warn("strategy %d (%s) dropped: empty query", s.ID, s.Label)
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return nil, &errs.Error{Kind: errs.KindPermanent, Op: "copilot.plan", Message: "no search strategies generated"}
	}
	return kept, nil
}

// noteDropped records every strategy that did not succeed, in strategy order.
func (r *run) noteDropped(strategies []types.SearchStrategy, outcomes map[int]types.StrategyOutcome) {
	for _, s := range strategies {
		o := outcomes[s.ID]
		if o.Succeeded() {
			continue
		}
		reason := string(o.Kind)
		if o.Message != "" {
			reason += ": " + o.Message
		}
		r.result.Dropped = append(r.result.Dropped, types.DroppedStrategy{
			ID:     s.ID,
			Label:  string(s.Label),
			Query:  s.Query,
			Reason: reason,
		})
		r.warn("strategy %d (%s) %q dropped: %s", s.ID, s.Label, s.Query, reason)
	}
}

func dedupeConcepts(concepts []types.Concept) []types.Concept {
	seen := make(map[string]bool, len(concepts))
	out := make([]types.Concept, 0, len(concepts))
	for _, c := range concepts {
		trimmed := strings.TrimSpace(string(c))
		key := strings.ToLower(trimmed)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, types.Concept(trimmed))
	}
	return out
}

// alignAssessments orders assessments to match candidates. Assessments for
// unknown IDs are dropped and skipped candidates are marked unassessed.
func alignAssessments(assessments []types.PatentAssessment, candidates types.RankedCandidateSet) []types.PatentAssessment {
	byID := make(map[string]types.PatentAssessment, len(assessments))
	for _, a := range assessments {
		if _, dup := byID[a.CanonicalID]; !dup {
			byID[a.CanonicalID] = a
		}
	}
	out := make([]types.PatentAssessment, 0, len(candidates))
	for _, c := range candidates {
		a, ok := byID[c.CanonicalID]
		if !ok {
			a = types.PatentAssessment{CanonicalID: c.CanonicalID, Verdict: types.VerdictUnassessed}
		}
		out = append(out, a)
	}
	return out
}

func placeholderReport(candidates types.RankedCandidateSet) types.AnalysisReport {
	report := types.AnalysisReport{
		Summary:        fmt.Sprintf("Novelty analysis was unavailable. %d ranked candidates are listed without assessment.", len(candidates)),
		Recommendation: "Review the ranked candidates manually or rerun the analysis.",
		Placeholder:    true,
	}
	for _, c := range candidates {
		report.Assessments = append(report.Assessments, types.PatentAssessment{
			CanonicalID: c.CanonicalID,
			Verdict:     types.VerdictUnassessed,
		})
	}
	return report
}
