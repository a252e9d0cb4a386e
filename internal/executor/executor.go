// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package executor runs a single search strategy against a patent provider
// with bounded retries, and turns whatever happens into a StrategyOutcome.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/internal/httputil"
	"github.com/pdiddy/patent-copilot/internal/logging"
	"github.com/pdiddy/patent-copilot/internal/patent"
	"github.com/pdiddy/patent-copilot/internal/search"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

const (
	DefaultRetries     = 2
	DefaultCallTimeout = 30 * time.Second
)

// Executor calls a search.Provider for one strategy at a time. It is safe
// for concurrent use.
type Executor struct {
	provider    search.Provider
	retries     int
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(e *Executor) {
		if n >= 0 {
			e.retries = n
		}
	}
}

// WithCallTimeout bounds each provider call.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithLogger sets the logger used for retry and normalization messages.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Executor for provider.
func New(provider search.Provider, opts ...Option) *Executor {
	e := &Executor{
		provider:    provider,
		retries:     DefaultRetries,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute searches for strategy.Query and returns its outcome. Transient
// failures (rate limiting, timeouts, 5xx) are retried with exponential
// backoff; anything else fails at once. A zero deadline means only ctx
// bounds the work. Execute never returns an error and never panics: every
// path ends in Success, Failure, or Timeout.
func (e *Executor) Execute(ctx context.Context, strategy types.SearchStrategy, limit int, deadline time.Time) (outcome types.StrategyOutcome) {
	log := e.log(ctx).With("strategy", strategy.ID, "label", string(strategy.Label))
	attempts := 0

	defer func() {
		if r := recover(); r != nil {
			log.Error("provider panicked", "panic", r)
			outcome = types.Failure(strategy, errs.KindUnknown.String(), fmt.Sprintf("provider panic: %v", r), attempts)
		}
	}()

	if limit <= 0 {
		limit = search.DefaultLimit
	}
	if !deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if ctx.Err() != nil {
			return timeout(strategy, ctx.Err(), attempts)
		}

		attempts++
		hits, err := e.call(ctx, strategy.Query, limit)
		if err == nil {
			records, dropped := patent.NormalizeAll(hits, strategy.ID)
			if dropped > 0 {
				log.Warn("dropped hits without a patent number", "dropped", dropped)
			}
			if len(records) > limit {
				log.Debug("provider returned more hits than requested", "hits", len(records), "limit", limit)
				records = records[:limit]
			}
			log.Debug("strategy succeeded", "hits", len(records), "attempts", attempts)
			return types.Success(strategy, records, attempts)
		}
		lastErr = err

		if ctx.Err() != nil {
			return timeout(strategy, err, attempts)
		}
		if !errs.IsTransient(err) {
			log.Warn("strategy failed", "error", err, "attempts", attempts)
			return types.Failure(strategy, errs.KindOf(err).String(), err.Error(), attempts)
		}
		if attempt == e.retries {
			break
		}

		delay := httputil.RetryDelay(attempt, errs.RetryAfter(err))
		log.Info("transient search failure, retrying", "error", err, "attempt", attempts, "max_attempts", e.retries+1, "delay", delay)
		if err := httputil.Sleep(ctx, delay); err != nil {
			return timeout(strategy, lastErr, attempts)
		}
	}

	if errs.IsTimeout(lastErr) {
		return timeout(strategy, lastErr, attempts)
	}
	log.Warn("strategy failed after retries", "error", lastErr, "attempts", attempts)
	return types.Failure(strategy, errs.KindTransient.String(),
		fmt.Sprintf("retries exhausted after %d attempts: %v", attempts, lastErr), attempts)
}

func (e *Executor) call(ctx context.Context, query string, limit int) ([]types.RawHit, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	return e.provider.Search(callCtx, query, limit)
}

func (e *Executor) log(ctx context.Context) *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.From(ctx)
}

func timeout(strategy types.SearchStrategy, cause error, attempts int) types.StrategyOutcome {
	msg := "search deadline exceeded"
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return types.Timeout(strategy, msg, attempts)
}
