package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProvider_GenerateFeedback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got openAIRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": "Solid work overall."}},
				},
			})
		}))
		defer srv.Close()

		p := NewOpenAIProvider("test-key", "gpt-4o", 5*time.Second)
		p.baseURL = srv.URL

		text, err := p.GenerateFeedback(context.Background(), "review this")

		require.NoError(t, err)
		assert.Equal(t, "Solid work overall.", text)
		assert.Equal(t, "gpt-4o", got.Model)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, "user", got.Messages[0].Role)
		assert.Equal(t, "review this", got.Messages[0].Content)
		assert.False(t, got.Stream)
	})

	t.Run("non-200 status carries the code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"bad key"}}`))
		}))
		defer srv.Close()

		p := NewOpenAIProvider("bad", "gpt-4o", 5*time.Second)
		p.baseURL = srv.URL

		_, err := p.GenerateFeedback(context.Background(), "x")

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.Equal(t, "openai", infErr.Backend)
		assert.Equal(t, http.StatusUnauthorized, infErr.StatusCode)
		assert.Contains(t, err.Error(), "openai inference failed")
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}))
		defer srv.Close()

		p := NewOpenAIProvider("key", "gpt-4o", 5*time.Second)
		p.baseURL = srv.URL

		_, err := p.GenerateFeedback(context.Background(), "x")

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.Contains(t, infErr.Message, "no choices")
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"content": "  "}},
				},
			})
		}))
		defer srv.Close()

		p := NewOpenAIProvider("key", "gpt-4o", 5*time.Second)
		p.baseURL = srv.URL

		_, err := p.GenerateFeedback(context.Background(), "x")

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.Contains(t, infErr.Message, "empty response")
	})
}

func TestOpenAIProvider_Name(t *testing.T) {
	p := NewOpenAIProvider("key", "", time.Second)
	assert.Equal(t, "OpenAI (gpt-4o)", p.Name())
}
