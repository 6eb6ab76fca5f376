package orchestrator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/critiqlabs/critiq/pkg/feedback"
	"github.com/critiqlabs/critiq/pkg/llm"
	"github.com/critiqlabs/critiq/pkg/types"
)

// placeholderFeedback is the canned text returned instead of an error when
// placeholder degradation is enabled. Responses built from it always carry
// Degraded=true so callers can tell it apart from genuine analysis.
const placeholderFeedback = "Score: 6/10. The analysis backend is temporarily unavailable and this is a generic placeholder response. Resubmit the request to receive real feedback."

// InvalidPromptError reports a prompt that is empty or whitespace-only
// after trimming. Raised before any provider call, never wrapped.
type InvalidPromptError struct {
	Reason string
}

func (e *InvalidPromptError) Error() string {
	return "invalid prompt: " + e.Reason
}

// Service validates prompts, obtains raw feedback text from the configured
// provider, and optionally parses it into a structured record. Stateless
// between calls; safe for concurrent use.
type Service struct {
	provider           llm.Provider
	logger             *zap.Logger
	placeholderOnError bool
}

// New creates a feedback orchestration service. placeholderOnError selects
// the degradation behavior on provider failure: false propagates the error,
// true substitutes the canned placeholder and marks the response degraded.
func New(provider llm.Provider, logger *zap.Logger, placeholderOnError bool) *Service {
	return &Service{
		provider:           provider,
		logger:             logger,
		placeholderOnError: placeholderOnError,
	}
}

// GenerateFeedback runs one provider call for the request prompt and
// returns the raw feedback text.
func (s *Service) GenerateFeedback(ctx context.Context, req types.FeedbackRequest) (*types.FeedbackResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, &InvalidPromptError{Reason: "prompt must be a non-empty string"}
	}

	text, err := s.provider.GenerateFeedback(ctx, prompt)
	if err != nil {
		if s.placeholderOnError {
			s.logger.Warn("Provider call failed, returning placeholder feedback",
				zap.String("provider", s.provider.Name()),
				zap.Error(err))
			return &types.FeedbackResponse{Feedback: placeholderFeedback, Degraded: true}, nil
		}
		return nil, err
	}

	s.logger.Debug("Generated feedback",
		zap.String("provider", s.provider.Name()),
		zap.Int("chars", len(text)))

	return &types.FeedbackResponse{Feedback: text}, nil
}

// GenerateStructuredFeedback wraps the prompt in the structured-format
// instruction template, runs the base path, and parses the raw text into a
// structured record. Provider failures propagate unchanged; a degraded base
// response is parsed like any other text and keeps its degraded mark.
func (s *Service) GenerateStructuredFeedback(ctx context.Context, req types.FeedbackRequest) (*types.StructuredFeedbackResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, &InvalidPromptError{Reason: "prompt must be a non-empty string"}
	}

	base, err := s.GenerateFeedback(ctx, types.FeedbackRequest{Prompt: llm.BuildStructuredPrompt(prompt)})
	if err != nil {
		return nil, err
	}

	return &types.StructuredFeedbackResponse{
		Feedback:   base.Feedback,
		Structured: feedback.ParseStructuredFeedback(base.Feedback),
		Degraded:   base.Degraded,
	}, nil
}

// Provider exposes the configured provider's display name
func (s *Service) Provider() string {
	return s.provider.Name()
}
