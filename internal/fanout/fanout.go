// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fanout executes search strategies concurrently under a
// concurrency cap and a wall-clock budget.
package fanout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

// StrategyExecutor runs one strategy to a terminal outcome. Implementations
// should return promptly once ctx is done.
type StrategyExecutor interface {
	Execute(ctx context.Context, strategy types.SearchStrategy, limit int, deadline time.Time) types.StrategyOutcome
}

const (
	DefaultMaxConcurrency     = 3
	DefaultBudget             = 60 * time.Second
	DefaultResultsPerStrategy = 10
)

// Options bound a fan-out run. Zero values select the defaults.
type Options struct {
	MaxConcurrency     int
	Budget             time.Duration
	ResultsPerStrategy int
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	if o.Budget <= 0 {
		o.Budget = DefaultBudget
	}
	if o.ResultsPerStrategy <= 0 {
		o.ResultsPerStrategy = DefaultResultsPerStrategy
	}
	return o
}

// Controller dispatches strategies to a StrategyExecutor.
type Controller struct {
	exec   StrategyExecutor
	opts   Options
	logger *slog.Logger
}

// New returns a Controller. A nil logger selects the one carried by the
// context passed to Run.
func New(exec StrategyExecutor, opts Options, logger *slog.Logger) *Controller {
	return &Controller{exec: exec, opts: opts.withDefaults(), logger: logger}
}

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

// Run executes every strategy with at most MaxConcurrency in flight and
// returns one outcome per strategy ID along with the overall status.
// Strategies still running or not yet started when the budget expires are
// recorded as Timeout. Run returns once every strategy has an outcome.
func (c *Controller) Run(ctx context.Context, strategies []types.SearchStrategy) (map[int]types.StrategyOutcome, types.SearchStatus) {
	log := c.logger
	if log == nil {
		log = logging.From(ctx)
	}
	if len(strategies) == 0 {
		return map[int]types.StrategyOutcome{}, types.AllFailed
	}

	deadline := time.Now().Add(c.opts.Budget)
	runCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	store := newOutcomeStore(len(strategies))

	pool, err := ants.NewPool(c.opts.MaxConcurrency)
	if err != nil {
		log.Error("creating worker pool", "error", err)
		for _, s := range strategies {
			store.put(s.ID, types.Failure(s, errs.KindUnknown.String(), fmt.Sprintf("creating worker pool: %v", err), 0))
		}
		outcomes := store.seal()
		return outcomes, Classify(outcomes)
	}
	defer pool.Release()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for _, s := range strategies {
			if runCtx.Err() != nil {
				break
			}
			wg.Add(1)
			task := func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Error("strategy executor panicked", "strategy", s.ID, "panic", r)
						store.put(s.ID, types.Failure(s, errs.KindUnknown.String(), fmt.Sprintf("executor panic: %v", r), 0))
					}
				}()
				log.Debug("strategy dispatched", "strategy", s.ID, "query", s.Query)
				o := c.exec.Execute(runCtx, s, c.opts.ResultsPerStrategy, deadline)
				if !store.put(s.ID, o) {
					log.Debug("late or duplicate outcome ignored", "strategy", s.ID, "kind", string(o.Kind))
				}
			}
			if err := pool.Submit(task); err != nil {
				wg.Done()
				store.put(s.ID, types.Failure(s, errs.KindUnknown.String(), fmt.Sprintf("dispatching strategy: %v", err), 0))
			}
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-runCtx.Done():
		log.Warn("search budget exhausted", "budget", c.opts.Budget, "cause", runCtx.Err())
	}

	outcomes := store.seal()
	for _, s := range strategies {
		if _, ok := outcomes[s.ID]; !ok {
			outcomes[s.ID] = types.Timeout(s, "search budget exhausted before the strategy finished", 0)
		}
	}

	status := Classify(outcomes)
	log.Info("search fan-out finished", "strategies", len(strategies), "status", string(status))
	return outcomes, status
}
