package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFactory_CreateProvider(t *testing.T) {
	logger := zap.NewNop()

	t.Run("mock", func(t *testing.T) {
		p, err := NewFactory(Config{Provider: "mock"}, logger).CreateProvider()
		require.NoError(t, err)
		assert.IsType(t, &MockProvider{}, p)
	})

	t.Run("empty provider defaults to mock", func(t *testing.T) {
		p, err := NewFactory(Config{}, logger).CreateProvider()
		require.NoError(t, err)
		assert.IsType(t, &MockProvider{}, p)
	})

	t.Run("unrecognized provider falls back to mock", func(t *testing.T) {
		p, err := NewFactory(Config{Provider: "chatbot9000"}, logger).CreateProvider()
		require.NoError(t, err)
		assert.IsType(t, &MockProvider{}, p)
	})

	t.Run("live defaults to ollama backend", func(t *testing.T) {
		cfg := Config{Provider: "live", OllamaURL: "http://localhost:11434"}
		p, err := NewFactory(cfg, logger).CreateProvider()
		require.NoError(t, err)
		assert.IsType(t, &OllamaProvider{}, p)
		assert.Equal(t, "Ollama (llama3)", p.Name())
	})

	t.Run("ollama requires a URL", func(t *testing.T) {
		cfg := Config{Provider: "live", Backend: "ollama"}
		_, err := NewFactory(cfg, logger).CreateProvider()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ollama URL not configured")
	})

	t.Run("openai requires a key", func(t *testing.T) {
		cfg := Config{Provider: "live", Backend: "openai"}
		_, err := NewFactory(cfg, logger).CreateProvider()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key not configured")
	})

	t.Run("openai", func(t *testing.T) {
		cfg := Config{Provider: "live", Backend: "openai", OpenAIAPIKey: "k"}
		p, err := NewFactory(cfg, logger).CreateProvider()
		require.NoError(t, err)
		assert.Equal(t, "OpenAI (gpt-4o)", p.Name())
	})

	t.Run("anthropic accepts claude alias", func(t *testing.T) {
		cfg := Config{Provider: "live", Backend: "claude", AnthropicAPIKey: "k", AnthropicModel: "claude-3-opus-20240229"}
		p, err := NewFactory(cfg, logger).CreateProvider()
		require.NoError(t, err)
		assert.Equal(t, "Anthropic (claude-3-opus-20240229)", p.Name())
	})

	t.Run("gemini requires a key", func(t *testing.T) {
		cfg := Config{Provider: "live", Backend: "gemini"}
		_, err := NewFactory(cfg, logger).CreateProvider()
		require.Error(t, err)
	})

	t.Run("unknown backend lists the supported set", func(t *testing.T) {
		cfg := Config{Provider: "live", Backend: "watson"}
		_, err := NewFactory(cfg, logger).CreateProvider()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend: watson")
		assert.Contains(t, err.Error(), "supported: ollama, openai, anthropic, gemini, bedrock")
	})
}
