package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/critiqlabs/critiq/internal/config"
	"github.com/critiqlabs/critiq/internal/handler"
	"github.com/critiqlabs/critiq/internal/metrics"
	"github.com/critiqlabs/critiq/internal/orchestrator"
	"github.com/critiqlabs/critiq/pkg/llm"
)

func newTestServer(cfg *config.Config) *Server {
	service := orchestrator.New(llm.NewMockProvider(), zap.NewNop(), false)
	feedbackHandler := handler.NewFeedbackHandler(service, nil, zap.NewNop())
	return New(cfg, feedbackHandler, metrics.NewCollector(), zap.NewNop())
}

func TestServerRoutes(t *testing.T) {
	t.Run("feedback through the full stack", func(t *testing.T) {
		s := newTestServer(config.Default())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader(`{"prompt": "review this"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Mock feedback for: review this")
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("structured feedback route is registered", func(t *testing.T) {
		s := newTestServer(config.Default())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback/structured", strings.NewReader(`{"prompt": "review this"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"structured"`)
	})

	t.Run("history route absent without a store", func(t *testing.T) {
		s := newTestServer(config.Default())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("metrics endpoint reports traffic", func(t *testing.T) {
		s := newTestServer(config.Default())

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			s.Router().ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var snap struct {
			TotalRequests int64            `json:"total_requests"`
			ByRoute       map[string]int64 `json:"requests_by_route"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		assert.Equal(t, int64(2), snap.TotalRequests)
		assert.Equal(t, int64(2), snap.ByRoute["/health"])
	})
}

func TestServerRateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit.RequestsPerMinute = 2
	s := newTestServer(cfg)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback", strings.NewReader(`{"prompt": "x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusOK, post().Code)

	w := post()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Health stays reachable while the API group is throttled.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	hw := httptest.NewRecorder()
	s.Router().ServeHTTP(hw, req)
	assert.Equal(t, http.StatusOK, hw.Code)
}

func TestServerCORS(t *testing.T) {
	s := newTestServer(config.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
