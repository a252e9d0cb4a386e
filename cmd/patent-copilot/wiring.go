// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pdiddy/patent-copilot/internal/ai"
	"github.com/pdiddy/patent-copilot/internal/executor"
	"github.com/pdiddy/patent-copilot/internal/search"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

func newExecutor(cfg types.CopilotConfig, logger *slog.Logger) (*executor.Executor, error) {
	key := loadedSecrets.Lookup(search.SecretName(cfg.Search.Provider))
	provider, err := search.New(cfg.Search, key, &http.Client{})
	if err != nil {
		return nil, err
	}
	logger.Debug("search provider ready", "provider", provider.Name())
	return executor.New(provider,
		executor.WithRetries(cfg.Search.Retries),
		executor.WithCallTimeout(cfg.Search.CallTimeout),
		executor.WithLogger(logger),
	), nil
}

func newPlanner(ctx context.Context, cfg types.CopilotConfig, logger *slog.Logger) (*ai.Planner, error) {
	key := loadedSecrets.Lookup(ai.SecretName(cfg.AI.Backend))
	caller, err := ai.NewCaller(ctx, cfg.AI, key)
	if err != nil {
		return nil, err
	}
	logger.Debug("AI backend ready", "backend", cfg.AI.Backend, "model", caller.ModelName())
	return ai.NewPlanner(caller, ai.WithMaxAttempts(cfg.AI.MaxAttempts), ai.WithLogger(logger)), nil
}
