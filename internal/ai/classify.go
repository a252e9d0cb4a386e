// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/pdiddy/patent-copilot/internal/errs"
)

// classify maps an SDK error onto the errs taxonomy. Rate limiting,
// timeouts, network errors, and 5xx responses are transient; other API
// errors and unrecognized failures are permanent.
func classify(op, provider string, err error) error {
	if err == nil {
		return nil
	}

	kind := errs.KindPermanent
	status := 0

	var (
		anthropicErr *anthropic.Error
		geminiErr    genai.APIError
		geminiErrPtr *genai.APIError
		netErr       net.Error
	)
	switch {
	case errors.Is(err, context.Canceled):
		kind = errs.KindPermanent
	case errs.IsTimeout(err):
		kind = errs.KindTransient
	case errors.As(err, &anthropicErr):
		status = anthropicErr.StatusCode
		kind = statusKind(status)
	case errors.As(err, &geminiErr):
		status = geminiErr.Code
		kind = statusKind(status)
	case errors.As(err, &geminiErrPtr):
		status = geminiErrPtr.Code
		kind = statusKind(status)
	case errors.As(err, &netErr):
		kind = errs.KindTransient
	}

	return &errs.Error{
		Kind:       kind,
		Op:         op,
		Provider:   provider,
		StatusCode: status,
		Err:        goerr.Wrap(err, "model call failed", goerr.V("provider", provider)),
	}
}

func statusKind(status int) errs.Kind {
	if status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500 {
		return errs.KindTransient
	}
	return errs.KindPermanent
}
