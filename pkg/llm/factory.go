package llm

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// defaultRequestTimeout bounds live backend calls when none is configured
const defaultRequestTimeout = 60 * time.Second

// Factory creates feedback providers based on configuration
type Factory struct {
	config Config
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config Config, logger *zap.Logger) *Factory {
	return &Factory{config: config, logger: logger}
}

// CreateProvider creates the configured feedback provider. "mock" (or an
// empty provider) builds the deterministic mock; "live" selects an
// inference backend; anything else logs a warning and falls back to mock.
func (f *Factory) CreateProvider() (Provider, error) {
	switch f.config.Provider {
	case "mock", "":
		f.logger.Info("Using mock feedback provider")
		return NewMockProvider(), nil

	case "live":
		return f.createBackend()

	default:
		f.logger.Warn("Unknown provider, falling back to mock",
			zap.String("provider", f.config.Provider))
		return NewMockProvider(), nil
	}
}

// createBackend creates the configured live inference backend
func (f *Factory) createBackend() (Provider, error) {
	if f.config.RequestTimeout <= 0 {
		f.config.RequestTimeout = defaultRequestTimeout
	}

	switch f.config.Backend {
	case "ollama", "":
		if f.config.OllamaURL == "" {
			return nil, fmt.Errorf("ollama URL not configured")
		}
		if f.config.OllamaModel == "" {
			f.config.OllamaModel = "llama3" // Default model
		}
		f.logger.Info("Using Ollama backend",
			zap.String("model", f.config.OllamaModel),
			zap.String("url", f.config.OllamaURL))
		return NewOllamaProvider(f.config.OllamaURL, f.config.OllamaModel, f.config.OllamaOptions, f.config.RequestTimeout), nil

	case "openai":
		if f.config.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openAI API key not configured")
		}
		if f.config.OpenAIModel == "" {
			f.config.OpenAIModel = "gpt-4o" // Default model
		}
		f.logger.Info("Using OpenAI backend", zap.String("model", f.config.OpenAIModel))
		return NewOpenAIProvider(f.config.OpenAIAPIKey, f.config.OpenAIModel, f.config.RequestTimeout), nil

	case "anthropic", "claude":
		if f.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic API key not configured")
		}
		if f.config.AnthropicModel == "" {
			f.config.AnthropicModel = "claude-3-5-sonnet-20241022" // Default model
		}
		f.logger.Info("Using Anthropic backend", zap.String("model", f.config.AnthropicModel))
		return NewAnthropicProvider(f.config.AnthropicAPIKey, f.config.AnthropicModel, f.config.RequestTimeout), nil

	case "gemini", "google":
		if f.config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		if f.config.GeminiModel == "" {
			f.config.GeminiModel = "gemini-1.5-flash" // Default model
		}
		f.logger.Info("Using Gemini backend", zap.String("model", f.config.GeminiModel))
		return NewGeminiProvider(f.config.GeminiAPIKey, f.config.GeminiModel, f.config.RequestTimeout)

	case "bedrock", "aws":
		if f.config.BedrockRegion == "" {
			f.config.BedrockRegion = "us-east-1" // Default region
		}
		if f.config.BedrockModel == "" {
			f.config.BedrockModel = "anthropic.claude-3-5-sonnet-20241022-v2:0" // Default model
		}
		f.logger.Info("Using AWS Bedrock backend",
			zap.String("model", f.config.BedrockModel),
			zap.String("region", f.config.BedrockRegion))
		return NewBedrockProvider(f.config.BedrockRegion, f.config.BedrockModel, f.config.RequestTimeout)

	default:
		return nil, fmt.Errorf("unknown backend: %s (supported: ollama, openai, anthropic, gemini, bedrock)", f.config.Backend)
	}
}
