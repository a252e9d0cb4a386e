// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search adapts external patent databases to a single Provider
// interface used by the strategy executor.
package search

import (
	"context"
	"net/http"
	"strings"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

// Provider looks up patents matching a free-text query. Implementations
// return hits in the provider's own relevance order and report failures as
// *errs.Error so callers can tell transient from permanent problems.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.RawHit, error)
}

// DefaultLimit is the number of hits requested when the caller passes a
// non-positive limit.
const DefaultLimit = 10

// New builds the provider selected by cfg.Provider, wrapped in a shared rate
// limiter when cfg.RateLimitPerMinute is positive. A missing API key is a
// configuration error.
func New(cfg types.SearchConfig, apiKey string, client *http.Client) (Provider, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.CallTimeout}
	}
	apiKey = strings.TrimSpace(apiKey)

	var p Provider
	switch cfg.Provider {
	case types.ProviderSerpAPI, "":
		if apiKey == "" {
			return nil, errs.Configuration("search.new", "SerpAPI key not found: set SERPAPI_API_KEY or write .secrets/serpapi-api-key")
		}
		p = &SerpAPIProvider{Client: client, APIKey: apiKey, UserAgent: cfg.UserAgent}
	case types.ProviderPatentsView:
		if apiKey == "" {
			return nil, errs.Configuration("search.new", "PatentsView key not found: set PATENTSVIEW_API_KEY or write .secrets/patentsview-api-key")
		}
		p = &PatentsViewProvider{Client: client, APIKey: apiKey, UserAgent: cfg.UserAgent}
	default:
		return nil, errs.Configuration("search.new", "unknown search provider %q (want serpapi or patentsview)", cfg.Provider)
	}

	if cfg.RateLimitPerMinute > 0 {
		p = RateLimited(p, cfg.RateLimitPerMinute)
	}
	return p, nil
}

// SecretName returns the .secrets file name holding the key for provider.
func SecretName(provider types.ProviderName) string {
	if provider == types.ProviderPatentsView {
		return "patentsview-api-key"
	}
	return "serpapi-api-key"
}

func clampLimit(limit, max int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > max {
		limit = max
	}
	return limit
}
