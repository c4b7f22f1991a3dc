package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-4o"}, nil)
}

func chatResponse(content, finishReason string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{{
			"finish_reason": finishReason,
			"message":       map[string]any{"content": content},
		}},
	}
}

func TestComplete_HappyPath(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(chatResponse("  {\"a\":1}  ", "stop"))
	})

	got, err := c.Complete(context.Background(), "analise isto")

	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got, "content is trimmed")
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o", gotBody["model"])

	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1, "the whole prompt travels as one user message")
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "analise isto", msg["content"])
}

func TestComplete_ContentFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse("", "content_filter"))
	})

	_, err := c.Complete(context.Background(), "p")

	assert.ErrorIs(t, err, common.ErrUpstreamRejected)
}

func TestComplete_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := c.Complete(context.Background(), "p")

	assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
}

func TestComplete_NoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := c.Complete(context.Background(), "p")

	assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
}
