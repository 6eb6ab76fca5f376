package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_GenerateFeedback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got ollamaGenerateRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/generate", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			json.NewEncoder(w).Encode(map[string]interface{}{
				"response": "  The code looks solid.  ",
				"done":     true,
			})
		}))
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "llama3", nil, 5*time.Second)
		text, err := p.GenerateFeedback(context.Background(), "review this")

		require.NoError(t, err)
		assert.Equal(t, "The code looks solid.", text)
		assert.Equal(t, "llama3", got.Model)
		assert.Equal(t, "review this", got.Prompt)
		assert.False(t, got.Stream)
	})

	t.Run("options are passed through", func(t *testing.T) {
		var got map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			json.NewEncoder(w).Encode(map[string]interface{}{"response": "ok", "done": true})
		}))
		defer srv.Close()

		opts := map[string]interface{}{"temperature": 0.2}
		p := NewOllamaProvider(srv.URL, "llama3", opts, 5*time.Second)
		_, err := p.GenerateFeedback(context.Background(), "x")

		require.NoError(t, err)
		require.Contains(t, got, "options")
		assert.Equal(t, map[string]interface{}{"temperature": 0.2}, got["options"])
	})

	t.Run("non-200 status carries the code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "llama3", nil, 5*time.Second)
		_, err := p.GenerateFeedback(context.Background(), "x")

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.Equal(t, "ollama", infErr.Backend)
		assert.Equal(t, http.StatusServiceUnavailable, infErr.StatusCode)
		assert.Contains(t, err.Error(), "ollama inference failed")
		assert.Contains(t, err.Error(), "model not loaded")
	})

	t.Run("error field in body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"error": "model 'nope' not found"})
		}))
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "llama3", nil, 5*time.Second)
		_, err := p.GenerateFeedback(context.Background(), "x")

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.Contains(t, infErr.Message, "model 'nope' not found")
	})

	t.Run("blank response text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"response": "   ", "done": true})
		}))
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "llama3", nil, 5*time.Second)
		_, err := p.GenerateFeedback(context.Background(), "x")

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.Contains(t, infErr.Message, "empty response")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		p := NewOllamaProvider(srv.URL, "llama3", nil, 5*time.Second)
		_, err := p.GenerateFeedback(context.Background(), "x")

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.NotNil(t, infErr.Unwrap())
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		p := NewOllamaProvider(srv.URL, "llama3", nil, time.Second)
		_, err := p.GenerateFeedback(context.Background(), "x")

		var infErr *InferenceError
		require.ErrorAs(t, err, &infErr)
		assert.Equal(t, 0, infErr.StatusCode)
	})

	t.Run("canceled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"response": "ok", "done": true})
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := NewOllamaProvider(srv.URL, "llama3", nil, time.Second)
		_, err := p.GenerateFeedback(ctx, "x")

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestOllamaProvider_Name(t *testing.T) {
	p := NewOllamaProvider("http://localhost:11434", "llama3", nil, time.Second)
	assert.Equal(t, "Ollama (llama3)", p.Name())

	// Model defaults when empty
	p = NewOllamaProvider("http://localhost:11434", "", nil, time.Second)
	assert.Equal(t, "Ollama (llama3)", p.Name())
}
