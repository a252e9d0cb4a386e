// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/httputil"
	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

const (
	// DefaultMaxAttempts bounds calls per stage, counting both transport
	// retries and re-requests for malformed JSON.
	DefaultMaxAttempts = 3

	maxStrategies = 6
)

// Planner extracts concepts, generates search strategies, and synthesizes
// the novelty analysis through a Caller.
type Planner struct {
	caller      Caller
	maxAttempts int
	logger      *slog.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithMaxAttempts sets the number of calls made per stage.
func WithMaxAttempts(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithLogger sets the planner's logger.
func WithLogger(l *slog.Logger) PlannerOption {
	return func(p *Planner) { p.logger = l }
}

// NewPlanner returns a Planner backed by caller.
func NewPlanner(caller Caller, opts ...PlannerOption) *Planner {
	p := &Planner{caller: caller, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ModelName reports the model behind the planner.
func (p *Planner) ModelName() string { return p.caller.ModelName() }

type conceptResponse struct {
	Concepts []string `json:"concepts"`
}

// ExtractConcepts asks the model for the invention's key technical concepts.
func (p *Planner) ExtractConcepts(ctx context.Context, description string) ([]types.Concept, error) {
	if strings.TrimSpace(description) == "" {
		return nil, errs.Validation("ai.concepts", "invention description is empty")
	}
	prompt, err := renderConceptPrompt(description)
	if err != nil {
		return nil, err
	}

	resp, err := generate(ctx, p, "concepts", prompt, func(r *conceptResponse) error {
		for _, c := range r.Concepts {
			if strings.TrimSpace(c) != "" {
				return nil
			}
		}
		return errors.New(`"concepts" must contain at least one non-empty string`)
	})
	if err != nil {
		return nil, err
	}

	concepts := make([]types.Concept, 0, len(resp.Concepts))
	for _, c := range resp.Concepts {
		if c = strings.TrimSpace(c); c != "" {
			concepts = append(concepts, types.Concept(c))
		}
	}
	return concepts, nil
}

type strategyResponse struct {
	Strategies []struct {
		Label     string `json:"label"`
		Query     string `json:"query"`
		Rationale string `json:"rationale"`
	} `json:"strategies"`
}

// GenerateStrategies asks the model for search strategies covering the
// concepts. Strategies are numbered from 1 in the order the model listed
// them, and that order is also their priority.
func (p *Planner) GenerateStrategies(ctx context.Context, concepts []types.Concept) ([]types.SearchStrategy, error) {
	if len(concepts) == 0 {
		return nil, errs.Validation("ai.strategies", "no concepts to plan from")
	}
	prompt, err := renderStrategyPrompt(concepts)
	if err != nil {
		return nil, err
	}

	resp, err := generate(ctx, p, "strategies", prompt, func(r *strategyResponse) error {
		if len(r.Strategies) == 0 {
			return errors.New(`"strategies" must not be empty`)
		}
		if len(r.Strategies) > maxStrategies {
			return fmt.Errorf("at most %d strategies are allowed, got %d", maxStrategies, len(r.Strategies))
		}
		for i, s := range r.Strategies {
			if _, ok := types.ParseStrategyLabel(s.Label); !ok {
				return fmt.Errorf("strategy %d has label %q, want broad, specific, or alternative", i+1, s.Label)
			}
			if strings.TrimSpace(s.Query) == "" {
				return fmt.Errorf("strategy %d has an empty query", i+1)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	strategies := make([]types.SearchStrategy, len(resp.Strategies))
	for i, s := range resp.Strategies {
		label, _ := types.ParseStrategyLabel(s.Label)
		strategies[i] = types.SearchStrategy{
			ID:        i + 1,
			Label:     label,
			Query:     strings.Join(strings.Fields(s.Query), " "),
			Priority:  i,
			Rationale: strings.TrimSpace(s.Rationale),
		}
	}
	return strategies, nil
}

type analysisResponse struct {
	Summary     string `json:"summary"`
	Assessments []struct {
		CanonicalID string `json:"canonical_id"`
		Verdict     string `json:"verdict"`
		Overlap     string `json:"overlap"`
		Differences string `json:"differences"`
	} `json:"assessments"`
	NoveltyGaps         []string `json:"novelty_gaps"`
	Recommendation      string   `json:"recommendation"`
	FurtherResearch     []string `json:"further_research"`
	ApplicationStrategy string   `json:"application_strategy"`
}

var verdicts = map[string]bool{
	types.VerdictHighOverlap: true,
	types.VerdictPartial:     true,
	types.VerdictLowOverlap:  true,
}

// Analyze asks the model to assess the ranked candidates against the
// invention. Assessments come back in the model's order; callers align them
// with the candidate list.
func (p *Planner) Analyze(ctx context.Context, description string, candidates types.RankedCandidateSet) (types.AnalysisReport, error) {
	prompt, err := renderAnalysisPrompt(description, candidates)
	if err != nil {
		return types.AnalysisReport{}, err
	}

	resp, err := generate(ctx, p, "analysis", prompt, func(r *analysisResponse) error {
		if strings.TrimSpace(r.Summary) == "" {
			return errors.New(`"summary" must not be empty`)
		}
		if strings.TrimSpace(r.Recommendation) == "" {
			return errors.New(`"recommendation" must not be empty`)
		}
		for _, a := range r.Assessments {
			if !verdicts[strings.ToLower(strings.TrimSpace(a.Verdict))] {
				return fmt.Errorf("assessment for %q has verdict %q, want high_overlap, partial_overlap, or low_overlap", a.CanonicalID, a.Verdict)
			}
		}
		return nil
	})
	if err != nil {
		return types.AnalysisReport{}, err
	}

	report := types.AnalysisReport{
		Summary:             strings.TrimSpace(resp.Summary),
		NoveltyGaps:         nonEmpty(resp.NoveltyGaps),
		Recommendation:      strings.TrimSpace(resp.Recommendation),
		FurtherResearch:     nonEmpty(resp.FurtherResearch),
		ApplicationStrategy: strings.TrimSpace(resp.ApplicationStrategy),
	}
	for _, a := range resp.Assessments {
		report.Assessments = append(report.Assessments, types.PatentAssessment{
			CanonicalID: strings.TrimSpace(a.CanonicalID),
			Verdict:     strings.ToLower(strings.TrimSpace(a.Verdict)),
			Overlap:     strings.TrimSpace(a.Overlap),
			Differences: strings.TrimSpace(a.Differences),
		})
	}
	return report, nil
}

// generate calls the model until it returns JSON that decodes into T and
// passes validate. Transient transport errors are retried with backoff;
// malformed or invalid answers are re-requested with corrective feedback.
func generate[T any](ctx context.Context, p *Planner, stage, prompt string, validate func(*T) error) (T, error) {
	log := p.logger
	if log == nil {
		log = logging.From(ctx)
	}
	log = log.With("stage", stage, "model", p.caller.ModelName())
	op := "ai." + stage

	var zero T
	var lastErr error
	feedback := ""
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		fullPrompt := prompt
		if feedback != "" {
			fullPrompt += "\n\n" + feedback
		}

		raw, err := p.caller.GenerateJSON(ctx, systemPrompt, fullPrompt)
		if err != nil {
			if errs.KindOf(err) == errs.KindUnknown {
				err = errs.Wrap(errs.KindPermanent, op, err)
			}
			if !errs.IsTransient(err) || attempt == p.maxAttempts {
				return zero, err
			}
			lastErr = err
			delay := httputil.RetryDelay(attempt-1, errs.RetryAfter(err))
			log.Warn("model call failed, retrying", "attempt", attempt, "error", err, "delay", delay)
			if serr := httputil.Sleep(ctx, delay); serr != nil {
				return zero, errs.Wrap(errs.KindTransient, op, serr)
			}
			continue
		}

		clean := stripCodeFences(raw)
		if clean == "" {
			lastErr = errors.New("empty response")
			feedback = "Your previous response was empty. Return valid JSON only."
			log.Warn("empty model response", "attempt", attempt)
			continue
		}

		var out T
		if err := json.Unmarshal([]byte(clean), &out); err != nil {
			lastErr = fmt.Errorf("decoding response: %w", err)
			feedback = "Your previous response was not valid JSON. Return valid JSON only."
			log.Warn("model response is not valid JSON", "attempt", attempt, "error", err)
			continue
		}
		if err := validate(&out); err != nil {
			lastErr = err
			feedback = fmt.Sprintf("Your response failed validation: %s. Fix and return valid JSON only.", err)
			log.Warn("model response failed validation", "attempt", attempt, "error", err)
			continue
		}

		log.Debug("model response accepted", "attempt", attempt, "chars", len(clean))
		return out, nil
	}

	return zero, &errs.Error{
		Kind:    errs.KindPermanent,
		Op:      op,
		Message: fmt.Sprintf("no usable response after %d attempts: %v", p.maxAttempts, lastErr),
		Err:     lastErr,
	}
}

func nonEmpty(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
