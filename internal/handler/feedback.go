package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/critiqlabs/critiq/internal/orchestrator"
	"github.com/critiqlabs/critiq/pkg/history"
	"github.com/critiqlabs/critiq/pkg/llm"
	"github.com/critiqlabs/critiq/pkg/types"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// FeedbackHandler handles feedback generation requests
type FeedbackHandler struct {
	service *orchestrator.Service
	history *history.Store // nil when history is disabled
	logger  *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(service *orchestrator.Service, store *history.Store, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		history: store,
		logger:  logger,
	}
}

// HandleFeedback handles POST /api/v1/feedback
func (h *FeedbackHandler) HandleFeedback(c *gin.Context) {
	var req types.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON object with a string prompt field")
		return
	}

	start := time.Now()
	resp, err := h.service.GenerateFeedback(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.record(history.Entry{
		Degraded:    resp.Degraded,
		PromptChars: len(req.Prompt),
	}, start)

	c.JSON(http.StatusOK, resp)
}

// HandleStructuredFeedback handles POST /api/v1/feedback/structured
func (h *FeedbackHandler) HandleStructuredFeedback(c *gin.Context) {
	var req types.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", "request body must be a JSON object with a string prompt field")
		return
	}

	start := time.Now()
	resp, err := h.service.GenerateStructuredFeedback(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	score := resp.Structured.Score
	confidence := resp.Structured.Confidence
	h.record(history.Entry{
		Structured:  true,
		Degraded:    resp.Degraded,
		PromptChars: len(req.Prompt),
		Score:       &score,
		Confidence:  &confidence,
		Summary:     resp.Structured.Summary,
	}, start)

	c.JSON(http.StatusOK, resp)
}

// HandleHistory handles GET /api/v1/history. Only routed when a history
// store is configured.
func (h *FeedbackHandler) HandleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(c, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	entries, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read history", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to read history")
		return
	}

	stats, err := h.history.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read history stats", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "failed to read history")
		return
	}

	if entries == nil {
		entries = []*history.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"stats":   stats,
	})
}

// HandleHealth handles health check requests
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// HistoryEnabled reports whether a history store is attached
func (h *FeedbackHandler) HistoryEnabled() bool {
	return h.history != nil
}

func (h *FeedbackHandler) record(entry history.Entry, start time.Time) {
	if h.history == nil {
		return
	}
	entry.Provider = h.service.Provider()
	entry.DurationMS = time.Since(start).Milliseconds()
	h.history.RecordAsync(entry)
}

// writeServiceError maps orchestration errors onto the error envelope.
// Unknown errors get a generic message; the detail only goes to the log.
func (h *FeedbackHandler) writeServiceError(c *gin.Context, err error) {
	var promptErr *orchestrator.InvalidPromptError
	var inferErr *llm.InferenceError

	switch {
	case errors.As(err, &promptErr):
		writeError(c, http.StatusBadRequest, "invalid_prompt", promptErr.Error())
	case errors.As(err, &inferErr):
		h.logger.Error("Inference failed",
			zap.String("backend", inferErr.Backend),
			zap.Error(err))
		writeError(c, http.StatusBadGateway, "inference_failed", inferErr.Error())
	default:
		h.logger.Error("Feedback generation failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal_error", "feedback generation failed")
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
