// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProviderName identifies the patent search backend.
type ProviderName string

const (
	ProviderSerpAPI     ProviderName = "serpapi"
	ProviderPatentsView ProviderName = "patentsview"
)

// AIBackend identifies the generative AI service used for concept
// extraction, strategy generation, and analysis.
type AIBackend string

const (
	BackendGemini    AIBackend = "gemini"
	BackendAnthropic AIBackend = "anthropic"
)

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	// Provider selects the patent search backend (default serpapi).
	Provider ProviderName `json:"provider" yaml:"provider" mapstructure:"provider"`

	// ResultsPerStrategy is the number of hits requested per strategy (default 10).
	ResultsPerStrategy int `json:"results_per_strategy" yaml:"results_per_strategy" mapstructure:"results_per_strategy"`

	// MaxConcurrency caps the number of strategies in flight (default 3).
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency" mapstructure:"max_concurrency"`

	// Budget is the wall-clock limit for the whole search stage (default 60s).
	Budget time.Duration `json:"budget" yaml:"budget" mapstructure:"budget"`

	// Retries is the number of retries for transient provider failures (default 2).
	Retries int `json:"retries" yaml:"retries" mapstructure:"retries"`

	// CallTimeout bounds a single provider call (default 30s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout" mapstructure:"call_timeout"`

	// RateLimitPerMinute is the provider request budget shared by all
	// strategies (default 60). Zero disables limiting.
	RateLimitPerMinute int `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"`

	// UserAgent is sent with provider HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// AIConfig holds settings for the generative AI backend.
type AIConfig struct {
	// Backend selects gemini or anthropic (default gemini).
	Backend AIBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the model identifier. Empty selects the backend default.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxCandidates caps how many ranked patents are sent for analysis (default 30).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates" mapstructure:"max_candidates"`

	// MaxAttempts is the number of tries for a well-formed JSON answer (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// CopilotConfig groups all configuration for a patent-copilot run.
type CopilotConfig struct {
	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	AI     AIConfig     `json:"ai" yaml:"ai" mapstructure:"ai"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() CopilotConfig {
	return CopilotConfig{
		Search: SearchConfig{
			Provider:           ProviderSerpAPI,
			ResultsPerStrategy: 10,
			MaxConcurrency:     3,
			Budget:             60 * time.Second,
			Retries:            2,
			CallTimeout:        30 * time.Second,
			RateLimitPerMinute: 60,
			UserAgent:          "patent-copilot/0.1",
		},
		AI: AIConfig{
			Backend:       BackendGemini,
			Temperature:   0.3,
			MaxCandidates: 30,
			MaxAttempts:   3,
		},
		Log: LogConfig{Level: "info"},
	}
}
