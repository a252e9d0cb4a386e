// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/pdiddy/patent-copilot/internal/errs"
)

type netTimeout struct{}

func (netTimeout) Error() string   { return "i/o timeout" }
func (netTimeout) Timeout() bool   { return true }
func (netTimeout) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		want       errs.Kind
		wantStatus int
	}{
		{"gemini 503", genai.APIError{Code: 503}, errs.KindTransient, 503},
		{"gemini 429 pointer", &genai.APIError{Code: 429}, errs.KindTransient, 429},
		{"gemini 400", genai.APIError{Code: 400}, errs.KindPermanent, 400},
		{"wrapped gemini 500", fmt.Errorf("call: %w", genai.APIError{Code: 500}), errs.KindTransient, 500},
		{"deadline", context.DeadlineExceeded, errs.KindTransient, 0},
		{"cancelled", context.Canceled, errs.KindPermanent, 0},
		{"net timeout", netTimeout{}, errs.KindTransient, 0},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, errs.KindTransient, 0},
		{"unknown", errors.New("boom"), errs.KindPermanent, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("ai.test", "test", tt.err)
			require.Error(t, err)
			assert.Equal(t, tt.want, errs.KindOf(err))

			var e *errs.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.wantStatus, e.StatusCode)
			assert.Equal(t, "test", e.Provider)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, classify("ai.test", "test", nil))
}

func TestStatusKind(t *testing.T) {
	assert.Equal(t, errs.KindTransient, statusKind(408))
	assert.Equal(t, errs.KindTransient, statusKind(502))
	assert.Equal(t, errs.KindPermanent, statusKind(401))
}
