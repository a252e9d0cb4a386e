// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/patent-copilot/internal/errs"
	"github.com/pdiddy/patent-copilot/pkg/types"
)

type rateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

// RateLimited wraps p so that all callers together make at most perMinute
// requests per minute. Callers block until a token is available or their
// context ends. A non-positive perMinute disables limiting and returns p.
func RateLimited(p Provider, perMinute int) Provider {
	if perMinute <= 0 {
		return p
	}
	burst := max(perMinute/20, 1)
	return &rateLimited{
		next:    p,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

func (r *rateLimited) Name() string { return r.next.Name() }

func (r *rateLimited) Search(ctx context.Context, query string, limit int) ([]types.RawHit, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, errs.FromTransport(r.Name(), ctx.Err())
		}
		// The wait would outlast the context deadline.
		return nil, errs.FromTransport(r.Name(), fmt.Errorf("rate limit wait: %w", context.DeadlineExceeded))
	}
	return r.next.Search(ctx, query, limit)
}
