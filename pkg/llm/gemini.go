package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider implements the Provider interface for Google's Gemini models
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Default model
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return fmt.Sprintf("Gemini (%s)", p.model)
}

// GenerateFeedback sends the prompt to Gemini and concatenates the text parts
func (p *GeminiProvider) GenerateFeedback(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withRequestTimeout(ctx, p.timeout)
	defer cancel()

	model := p.client.GenerativeModel(p.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return "", &InferenceError{Backend: "gemini", StatusCode: gerr.Code, Message: gerr.Message}
		}
		return "", &InferenceError{Backend: "gemini", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &InferenceError{Backend: "gemini", Message: "no candidates returned"}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", &InferenceError{Backend: "gemini", Message: "empty response text"}
	}

	return text, nil
}
