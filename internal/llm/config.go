package llm

import (
	"fmt"
	"time"
)

// Provider identifies a chat completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
	ProviderGemini Provider = "gemini"
)

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderOpenAI, ProviderOllama, ProviderGemini}

// Config holds all configuration for the LLM subsystem.
type Config struct {
	Provider    Provider
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64
	TimeoutMs   int
	LogCalls    bool
}

// DefaultConfig returns the defaults for provider. Unknown providers get the
// OpenAI defaults and fail Validate.
func DefaultConfig(provider Provider) Config {
	cfg := Config{
		Provider:    provider,
		Temperature: 0.7,
		TimeoutMs:   120000,
	}
	switch provider {
	case ProviderOllama:
		cfg.Endpoint = "http://localhost:11434"
		cfg.Model = "llama3.2"
	case ProviderGemini:
		cfg.Model = "gemini-2.0-flash"
	default:
		cfg.Endpoint = "https://api.openai.com/v1"
		cfg.Model = "gpt-4o-mini"
	}
	return cfg
}

// RequiresAPIKey reports whether the provider is a hosted service.
func (c Config) RequiresAPIKey() bool {
	return c.Provider == ProviderOpenAI || c.Provider == ProviderGemini
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Validate checks the provider name and credential.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderOllama, ProviderGemini:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.RequiresAPIKey() && c.APIKey == "" {
		return fmt.Errorf("%w for %s", ErrMissingAPIKey, c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("llm: model is required for %s", c.Provider)
	}
	return nil
}
