package unit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge-backend/internal/generation"
)

func newProvider(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func chatBody(content string, tokens int, model string) map[string]any {
	return map[string]any{
		"model": model,
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"total_tokens": tokens},
	}
}

func TestCompletionClient_Success(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq map[string]any

	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(chatBody(`{"ok":true}`, 137, "gpt-4o-mini"))
	})

	c := generation.NewCompletionClient(srv.URL, "sk-test", "gpt-4o-mini", 5*time.Second, 100)
	res, err := c.Complete(context.Background(), "system text", "user text", generation.Options{Temperature: 0.7, MaxTokens: 2500})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, `{"ok":true}`, res.Text)
	assert.Equal(t, 137, res.TokensUsed)
	assert.Equal(t, "gpt-4o-mini", res.Model)
	assert.Positive(t, res.Latency)

	msgs, ok := gotReq["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user text", msgs[1].(map[string]any)["content"])
}

func TestCompletionClient_AuthFailure(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c := generation.NewCompletionClient(srv.URL, "bad-key", "m", 5*time.Second, 100)
	res, err := c.Complete(context.Background(), "s", "u", generation.Options{})
	require.ErrorIs(t, err, generation.ErrProviderAuth)
	require.NotNil(t, res)
	assert.Positive(t, res.Latency)
}

func TestCompletionClient_RateLimited(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	c := generation.NewCompletionClient(srv.URL, "k", "m", 5*time.Second, 100)
	_, err := c.Complete(context.Background(), "s", "u", generation.Options{})
	require.ErrorIs(t, err, generation.ErrProviderRateLimited)
}

func TestCompletionClient_ServerError(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	c := generation.NewCompletionClient(srv.URL, "k", "m", 5*time.Second, 100)
	_, err := c.Complete(context.Background(), "s", "u", generation.Options{})
	require.ErrorIs(t, err, generation.ErrProviderBadResponse)
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestCompletionClient_MalformedBody(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	c := generation.NewCompletionClient(srv.URL, "k", "m", 5*time.Second, 100)
	_, err := c.Complete(context.Background(), "s", "u", generation.Options{})
	require.ErrorIs(t, err, generation.ErrProviderBadResponse)
}

func TestCompletionClient_EmptyChoices(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	c := generation.NewCompletionClient(srv.URL, "k", "m", 5*time.Second, 100)
	_, err := c.Complete(context.Background(), "s", "u", generation.Options{})
	require.ErrorIs(t, err, generation.ErrProviderBadResponse)
}

func TestCompletionClient_InBodyError(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded", "type": "server_error"},
		})
	})

	c := generation.NewCompletionClient(srv.URL, "k", "m", 5*time.Second, 100)
	_, err := c.Complete(context.Background(), "s", "u", generation.Options{})
	require.ErrorIs(t, err, generation.ErrProviderBadResponse)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestCompletionClient_FallsBackToConfiguredModel(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatBody("hi", 1, ""))
	})

	c := generation.NewCompletionClient(srv.URL, "k", "configured-model", 5*time.Second, 100)
	res, err := c.Complete(context.Background(), "s", "u", generation.Options{})
	require.NoError(t, err)
	assert.Equal(t, "configured-model", res.Model)
}
