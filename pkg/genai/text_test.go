package genai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumigen/lumigen/pkg/genai"
)

func newTextServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": reply}},
				},
			})
		}
	}))
}

func newTextClient(srv *httptest.Server) *genai.TextClient {
	return genai.NewTextClient(genai.TextConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
}

func TestGenerateText(t *testing.T) {
	t.Parallel()

	t.Run("successful reply", func(t *testing.T) {
		t.Parallel()

		srv := newTextServer(t, "HOOK: stop scrolling", http.StatusOK)
		defer srv.Close()

		got, err := newTextClient(srv).GenerateText(context.Background(), "you are a script writer", "write a hook")
		require.NoError(t, err)
		assert.Equal(t, "HOOK: stop scrolling", got)
	})

	t.Run("empty prompt rejected locally", func(t *testing.T) {
		t.Parallel()

		srv := newTextServer(t, "", http.StatusOK)
		defer srv.Close()

		_, err := newTextClient(srv).GenerateText(context.Background(), "sys", "   ")
		assert.ErrorIs(t, err, genai.ErrEmptyPrompt)
	})

	t.Run("non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := newTextServer(t, "", http.StatusTooManyRequests)
		defer srv.Close()

		_, err := newTextClient(srv).GenerateText(context.Background(), "sys", "prompt")
		assert.ErrorIs(t, err, genai.ErrRequestFailed)
	})

	t.Run("empty choices", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer srv.Close()

		_, err := newTextClient(srv).GenerateText(context.Background(), "sys", "prompt")
		assert.ErrorIs(t, err, genai.ErrInvalidResponse)
	})
}

func TestGenerateJSON(t *testing.T) {
	t.Parallel()

	type out struct {
		Titles []string `json:"titles"`
	}

	t.Run("bare json", func(t *testing.T) {
		t.Parallel()

		srv := newTextServer(t, `{"titles":["a","b"]}`, http.StatusOK)
		defer srv.Close()

		var v out
		require.NoError(t, newTextClient(srv).GenerateJSON(context.Background(), "sys", "prompt", &v))
		assert.Equal(t, []string{"a", "b"}, v.Titles)
	})

	t.Run("fenced json stripped", func(t *testing.T) {
		t.Parallel()

		srv := newTextServer(t, "```json\n{\"titles\":[\"a\"]}\n```", http.StatusOK)
		defer srv.Close()

		var v out
		require.NoError(t, newTextClient(srv).GenerateJSON(context.Background(), "sys", "prompt", &v))
		assert.Equal(t, []string{"a"}, v.Titles)
	})

	t.Run("non-json reply", func(t *testing.T) {
		t.Parallel()

		srv := newTextServer(t, "sorry, I can't do that", http.StatusOK)
		defer srv.Close()

		var v out
		err := newTextClient(srv).GenerateJSON(context.Background(), "sys", "prompt", &v)
		assert.ErrorIs(t, err, genai.ErrInvalidResponse)
	})
}
