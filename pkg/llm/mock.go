package llm

import (
	"context"
	"fmt"
)

// MockProvider returns deterministic feedback without any network calls.
// Used for demos and tests, and as the fallback when no provider is
// configured.
type MockProvider struct{}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "Mock"
}

// GenerateFeedback returns a fixed template embedding the prompt verbatim
func (p *MockProvider) GenerateFeedback(ctx context.Context, prompt string) (string, error) {
	return fmt.Sprintf("Mock feedback for: %s. The submission is well organized and the intent is clear, but the error paths need more attention before this is production ready.", prompt), nil
}
