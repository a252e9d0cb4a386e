// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/pdiddy/patent-copilot/internal/errs"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiModels is the subset of the genai client used here.
type GeminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiCaller calls Gemini through the Gemini API backend.
type GeminiCaller struct {
	models      GeminiModels
	model       string
	temperature float64
}

// NewGeminiCaller returns a Caller for Gemini.
func NewGeminiCaller(ctx context.Context, apiKey, model string, temperature float64) (*GeminiCaller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errs.Configuration("ai.gemini", "Gemini API key not found: set GEMINI_API_KEY or write .secrets/gemini-api-key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindConfiguration, "ai.gemini", goerr.Wrap(err, "failed to create genai client"))
	}
	return newGeminiCaller(client.Models, model, temperature), nil
}

func newGeminiCaller(models GeminiModels, model string, temperature float64) *GeminiCaller {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiCaller{models: models, model: model, temperature: temperature}
}

// ModelName returns the configured model identifier.
func (g *GeminiCaller) ModelName() string { return g.model }

// GenerateJSON sends the prompts and returns the text of the first candidate.
func (g *GeminiCaller) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, ""),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(float32(g.temperature)),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", classify("ai.gemini", "gemini", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errs.Wrap(errs.KindTransient, "ai.gemini", goerr.New("invalid response structure from gemini", goerr.V("model", g.model)))
	}
	return resp.Text(), nil
}
