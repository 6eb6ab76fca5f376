package llm

import (
	"context"
	"time"
)

const (
	// maxResponseBytes caps how much of a backend response body is decoded.
	maxResponseBytes = 1 << 20

	// errorBodyBytes caps how much of an error body is echoed into messages.
	errorBodyBytes = 4 << 10
)

// withRequestTimeout bounds ctx when a per-call timeout is configured. The
// returned cancel must always be called. SDK-backed providers use this where
// the raw HTTP providers rely on http.Client timeouts instead.
func withRequestTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Provider defines the interface for feedback providers (mock, Ollama,
// OpenAI, Claude, Gemini, Bedrock)
type Provider interface {
	// GenerateFeedback sends the prompt to the provider and returns the
	// full response text. Exactly one outbound call per invocation for
	// live backends; no retries.
	GenerateFeedback(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name (for logging)
	Name() string
}

// Config holds common configuration for feedback providers
type Config struct {
	Provider string // "mock" or "live"
	Backend  string // "ollama", "openai", "anthropic", "gemini", "bedrock"

	// Per-call timeout applied to live backends
	RequestTimeout time.Duration

	// Ollama-specific
	OllamaURL     string
	OllamaModel   string
	OllamaOptions map[string]interface{} // passed through as generation options, e.g. temperature

	// OpenAI-specific
	OpenAIAPIKey string
	OpenAIModel  string // e.g., "gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"

	// Anthropic-specific
	AnthropicAPIKey string
	AnthropicModel  string // e.g., "claude-3-5-sonnet-20241022", "claude-3-opus-20240229"

	// Gemini-specific
	GeminiAPIKey string
	GeminiModel  string // e.g., "gemini-1.5-flash", "gemini-1.5-pro"

	// AWS Bedrock-specific
	BedrockRegion string // e.g., "us-east-1", "us-west-2"
	BedrockModel  string // e.g., "anthropic.claude-3-5-sonnet-20241022-v2:0", "amazon.titan-text-express-v1"
}
