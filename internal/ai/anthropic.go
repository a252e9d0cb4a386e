// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"

	"github.com/pdiddy/patent-copilot/internal/errs"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5-20250929"

const anthropicMaxTokens = 4096

// AnthropicMessager is the subset of the Anthropic client used here.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicCaller calls Claude through the Anthropic Messages API.
type AnthropicCaller struct {
	messages    AnthropicMessager
	model       string
	temperature float64
}

// NewAnthropicCaller returns a Caller for Claude.
func NewAnthropicCaller(apiKey, model string, temperature float64) (*AnthropicCaller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errs.Configuration("ai.anthropic", "Anthropic API key not found: set ANTHROPIC_API_KEY or write .secrets/anthropic-api-key")
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return newAnthropicCaller(&c.Messages, model, temperature), nil
}

func newAnthropicCaller(messages AnthropicMessager, model string, temperature float64) *AnthropicCaller {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicCaller{messages: messages, model: model, temperature: temperature}
}

// ModelName returns the configured model identifier.
func (a *AnthropicCaller) ModelName() string { return a.model }

// GenerateJSON sends the prompts and concatenates the text blocks of the reply.
func (a *AnthropicCaller) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(a.temperature),
	})
	if err != nil {
		return "", classify("ai.anthropic", "anthropic", err)
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errs.Wrap(errs.KindTransient, "ai.anthropic", goerr.New("no text in response", goerr.V("model", a.model)))
	}
	return sb.String(), nil
}
