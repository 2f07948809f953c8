package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_PerProvider(t *testing.T) {
	openai := DefaultConfig(ProviderOpenAI)
	assert.Equal(t, "gpt-4o-mini", openai.Model)
	assert.Equal(t, 0.7, openai.Temperature)
	assert.True(t, openai.RequiresAPIKey())

	ollama := DefaultConfig(ProviderOllama)
	assert.Equal(t, "http://localhost:11434", ollama.Endpoint)
	assert.False(t, ollama.RequiresAPIKey())

	gemini := DefaultConfig(ProviderGemini)
	assert.Equal(t, "gemini-2.0-flash", gemini.Model)
	assert.True(t, gemini.RequiresAPIKey())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig(ProviderOpenAI)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)

	cfg.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate())

	assert.NoError(t, DefaultConfig(ProviderOllama).Validate())

	bad := DefaultConfig("fluent")
	bad.APIKey = "x"
	assert.ErrorIs(t, bad.Validate(), ErrUnknownProvider)
}

func TestConfig_Timeout(t *testing.T) {
	cfg := DefaultConfig(ProviderOllama)
	cfg.TimeoutMs = 1500
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())
}
