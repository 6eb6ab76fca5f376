package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// anthropicMaxTokens bounds the response length for feedback generation
const anthropicMaxTokens = 4096

// AnthropicProvider implements the Provider interface for Anthropic's Claude models
type AnthropicProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(apiKey, model string, timeout time.Duration) *AnthropicProvider {
	if model == "" {
		model = "claude-3-5-sonnet-20241022" // Default to Claude 3.5 Sonnet
	}
	return &AnthropicProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.anthropic.com",
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return fmt.Sprintf("Anthropic (%s)", p.model)
}

// Anthropic API structures
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
	Stream    bool               `json:"stream"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	ID      string                  `json:"id"`
	Type    string                  `json:"type"`
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

// GenerateFeedback sends the prompt to Anthropic's messages endpoint
func (p *AnthropicProvider) GenerateFeedback(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model: p.model,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: anthropicMaxTokens,
		Stream:    false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &InferenceError{Backend: "anthropic", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyBytes))
		return "", &InferenceError{Backend: "anthropic", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var anthropicResp anthropicResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&anthropicResp); err != nil {
		return "", &InferenceError{Backend: "anthropic", Message: "failed to decode response", Err: err}
	}

	if len(anthropicResp.Content) == 0 {
		return "", &InferenceError{Backend: "anthropic", Message: "no content returned"}
	}

	text := strings.TrimSpace(anthropicResp.Content[0].Text)
	if text == "" {
		return "", &InferenceError{Backend: "anthropic", Message: "empty response text"}
	}

	return text, nil
}
