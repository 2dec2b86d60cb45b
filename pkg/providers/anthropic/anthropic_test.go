package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/chainkit/pkg/chats/message"
	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/providers/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *anthropic.Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := anthropic.New(modeladapter.Config{
		BaseURL:     srv.URL,
		APIKey:      "test-key",
		Model:       "claude-3-haiku",
		MaxTokens:   150,
		Temperature: 0.5,
	})
	require.NoError(t, err)

	return a
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Errorf("failed to unmarshal body: %v", err)
	}

	return req
}

func TestNew_Validation(t *testing.T) {
	_, err := anthropic.New(modeladapter.Config{APIKey: "k", Model: "m", MaxTokens: 1, Temperature: 1.5})
	require.ErrorIs(t, err, modeladapter.ErrConfiguration)

	a, err := anthropic.New(modeladapter.Config{APIKey: "k", Model: "m", MaxTokens: 1})
	require.NoError(t, err)
	assert.Equal(t, anthropic.DefaultBaseURL, a.BaseURL)
	assert.Equal(t, anthropic.APIVersion, a.Headers["anthropic-version"])
}

func TestComplete_SystemLiftedAndTurnsMerged(t *testing.T) {
	a := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropic.APIVersion, r.Header.Get("anthropic-version"))
		assert.Empty(t, r.Header.Get("Authorization"))

		req := readBody(t, r)
		assert.Equal(t, "claude-3-haiku", req["model"])
		assert.Equal(t, "You are X.\n\nBe brief.", req["system"])
		assert.InDelta(t, 0.5, req["temperature"], 1e-9)

		msgs, _ := req["messages"].([]any)
		if !assert.Len(t, msgs, 2) {
			return
		}

		first, _ := msgs[0].(map[string]any)
		assert.Equal(t, "user", first["role"])
		blocks, _ := first["content"].([]any)
		assert.Len(t, blocks, 2)

		w.Header().Set("anthropic-ratelimit-requests-remaining", "3")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "claude-3-haiku-20240307",
			"content": []map[string]any{
				{"type": "text", "text": "Hello "},
				{"type": "text", "text": "world"},
			},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 12, "output_tokens": 4},
		})
	})

	resp, err := a.Complete(context.Background(), []message.Message{
		message.System("You are X."),
		message.System("Be brief."),
		message.User("Hi"),
		message.User("there"),
		message.Assistant("ok"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", resp.Text())
	assert.Equal(t, "end_turn", resp.Raw.FinishReason)
	assert.Equal(t, 16, resp.Raw.Usage.Total())
	require.NotNil(t, resp.Raw.RateLimit)
	assert.Equal(t, 3, resp.Raw.RateLimit.RemainingRequests)
}

func TestComplete_NoTextBlocks(t *testing.T) {
	a := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{}, "stop_reason": "max_tokens"})
	})

	resp, err := modeladapter.CompleteText(context.Background(), a, "Hi")
	require.NoError(t, err)
	assert.False(t, resp.HasContent())
}

func TestComplete_Overloaded(t *testing.T) {
	a := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(529)
	})

	_, err := modeladapter.CompleteText(context.Background(), a, "Hi")

	var rerr *modeladapter.RemoteCallError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, modeladapter.CodeServer, rerr.Code)
	assert.True(t, rerr.Retryable())
	assert.Equal(t, "anthropic", rerr.Provider)
}
