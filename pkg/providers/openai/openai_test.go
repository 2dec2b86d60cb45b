package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/germanamz/chainkit/pkg/chats/message"
	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/providers/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *openai.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := openai.New(modeladapter.Config{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		Model:     "gpt-3.5-turbo",
		MaxTokens: 150,
	})
	require.NoError(t, err)

	return srv, a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func TestNew_Defaults(t *testing.T) {
	a, err := openai.New(modeladapter.Config{APIKey: "k", Model: "gpt-3.5-turbo", MaxTokens: 150})
	require.NoError(t, err)

	assert.Equal(t, openai.DefaultBaseURL, a.BaseURL)
	assert.Equal(t, "openai", a.Provider)
	assert.Equal(t, modeladapter.Auth{Key: "k"}, a.Auth)
}

func TestNew_MissingKeyFailsFast(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer srv.Close()

	_, err := openai.New(modeladapter.Config{BaseURL: srv.URL, Model: "gpt-3.5-turbo", MaxTokens: 150})

	require.ErrorIs(t, err, modeladapter.ErrConfiguration)
	assert.False(t, called)
}

func TestNew_TemperatureBound(t *testing.T) {
	_, err := openai.New(modeladapter.Config{APIKey: "k", Model: "m", MaxTokens: 1, Temperature: 2})
	require.NoError(t, err)

	_, err = openai.New(modeladapter.Config{APIKey: "k", Model: "m", MaxTokens: 1, Temperature: 2.1})
	require.ErrorIs(t, err, modeladapter.ErrConfiguration)
}

func TestComplete_SimpleText(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := readBody(t, r)

		assert.Equal(t, "gpt-3.5-turbo", req["model"])
		assert.InDelta(t, 150, req["max_tokens"], 0)
		assert.InDelta(t, 0, req["temperature"], 0)

		msgs, ok := req["messages"].([]any)
		assert.True(t, ok)
		assert.Len(t, msgs, 2) // system + user

		first, _ := msgs[0].(map[string]any)
		assert.Equal(t, "system", first["role"])
		assert.Equal(t, "You are helpful.", first["content"])

		w.Header().Set("x-ratelimit-remaining-requests", "42")
		writeJSON(t, w, map[string]any{
			"model": "gpt-3.5-turbo-0125",
			"choices": []map[string]any{
				{
					"message":       map[string]any{"role": "assistant", "content": "Hello there!"},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     10,
				"completion_tokens": 5,
			},
		})
	})

	resp, err := adapter.Complete(context.Background(), []message.Message{
		message.System("You are helpful."),
		message.User("Hi"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello there!", resp.Text())
	assert.Equal(t, "stop", resp.Raw.FinishReason)
	assert.Equal(t, "gpt-3.5-turbo-0125", resp.Raw.Model)
	assert.Equal(t, "openai", resp.Raw.Provider)
	assert.Equal(t, 10, resp.Raw.Usage.InputTokens)
	assert.Equal(t, 5, resp.Raw.Usage.OutputTokens)
	require.NotNil(t, resp.Raw.RateLimit)
	assert.Equal(t, 42, resp.Raw.RateLimit.RemainingRequests)
	assert.Contains(t, string(resp.Raw.Body), "Hello there!")
}

func TestComplete_NullContent(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": nil}, "finish_reason": "length"},
			},
		})
	})

	resp, err := modeladapter.CompleteText(context.Background(), adapter, "Hi")
	require.NoError(t, err)
	assert.False(t, resp.HasContent())
	assert.Equal(t, "length", resp.Raw.FinishReason)
}

func TestComplete_NoChoices(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"choices": []any{}})
	})

	resp, err := modeladapter.CompleteText(context.Background(), adapter, "Hi")
	require.NoError(t, err)
	assert.False(t, resp.HasContent())
}

func TestComplete_Unauthorized(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key"}}`))
	})

	_, err := modeladapter.CompleteText(context.Background(), adapter, "Hi")

	var rerr *modeladapter.RemoteCallError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, modeladapter.CodeAuth, rerr.Code)
	assert.Equal(t, "openai", rerr.Provider)
}

func TestComplete_MalformedMessagesNotSent(t *testing.T) {
	called := false
	_, adapter := newTestServer(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := adapter.Complete(context.Background(), []message.Message{message.User("a"), message.System("b")})

	var rerr *modeladapter.RemoteCallError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, modeladapter.CodeBadRequest, rerr.Code)
	assert.False(t, called)
}

func TestComplete_IdenticalRequestShape(t *testing.T) {
	var bodies []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bodies = append(bodies, readBody(t, r))
		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "x"}}},
		})
	}))
	defer srv.Close()

	cfg := modeladapter.Config{BaseURL: srv.URL, APIKey: "k", Model: "gpt-3.5-turbo", MaxTokens: 150}
	msgs := []message.Message{message.System("s"), message.User("u")}

	for range 2 {
		a, err := openai.New(cfg)
		require.NoError(t, err)
		_, err = a.Complete(context.Background(), msgs)
		require.NoError(t, err)
	}

	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
}
