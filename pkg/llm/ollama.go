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

// OllamaProvider implements the Provider interface for Ollama (self-hosted LLMs)
type OllamaProvider struct {
	baseURL string
	model   string
	options map[string]interface{}
	client  *http.Client
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(baseURL, model string, options map[string]interface{}, timeout time.Duration) *OllamaProvider {
	if model == "" {
		model = "llama3" // Default model
	}
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		options: options,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return fmt.Sprintf("Ollama (%s)", p.model)
}

// Ollama API structures
type ollamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// GenerateFeedback sends the prompt to Ollama's generate endpoint and
// returns the full, non-streamed response text
func (p *OllamaProvider) GenerateFeedback(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:   p.model,
		Prompt:  prompt,
		Stream:  false,
		Options: p.options,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &InferenceError{Backend: "ollama", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyBytes))
		return "", &InferenceError{Backend: "ollama", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var ollamaResp ollamaGenerateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&ollamaResp); err != nil {
		return "", &InferenceError{Backend: "ollama", Message: "failed to decode response", Err: err}
	}

	if ollamaResp.Error != "" {
		return "", &InferenceError{Backend: "ollama", Message: ollamaResp.Error}
	}

	text := strings.TrimSpace(ollamaResp.Response)
	if text == "" {
		return "", &InferenceError{Backend: "ollama", Message: "empty response text"}
	}

	return text, nil
}
