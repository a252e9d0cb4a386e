// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ai implements concept extraction, search strategy generation, and
// novelty analysis on top of a generative AI model that answers in JSON.
package ai

import (
	"context"
	"strings"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

// Caller sends one system prompt and one user prompt to a model and returns
// the raw text of its answer.
type Caller interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
	ModelName() string
}

// NewCaller builds the Caller for cfg.Backend. A missing API key is a
// configuration error.
func NewCaller(ctx context.Context, cfg types.AIConfig, apiKey string) (Caller, error) {
	apiKey = strings.TrimSpace(apiKey)
	switch cfg.Backend {
	case types.BackendGemini, "":
		return NewGeminiCaller(ctx, apiKey, cfg.Model, cfg.Temperature)
	case types.BackendAnthropic:
		return NewAnthropicCaller(apiKey, cfg.Model, cfg.Temperature)
	}
	return nil, errs.Configuration("ai.new", "unknown AI backend %q (want gemini or anthropic)", cfg.Backend)
}

// SecretName returns the .secrets file name holding the key for backend.
func SecretName(backend types.AIBackend) string {
	if backend == types.BackendAnthropic {
		return "anthropic-api-key"
	}
	return "gemini-api-key"
}

// stripCodeFences removes a surrounding Markdown code fence, with or without
// a language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
			s = strings.TrimPrefix(s, "json")
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}
