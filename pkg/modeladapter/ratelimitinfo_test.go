package modeladapter_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func TestParseAnthropicRateLimitHeaders_AllHeaders(t *testing.T) {
	reset := testNow.Add(30 * time.Second)

	h := http.Header{}
	h.Set("anthropic-ratelimit-requests-remaining", "5")
	h.Set("anthropic-ratelimit-tokens-remaining", "1000")
	h.Set("anthropic-ratelimit-requests-reset", reset.Format(time.RFC3339))
	h.Set("anthropic-ratelimit-tokens-reset", reset.Format(time.RFC3339))

	info := modeladapter.ParseAnthropicRateLimitHeaders(h, testNow)
	require.NotNil(t, info)
	assert.Equal(t, 5, info.RemainingRequests)
	assert.Equal(t, 1000, info.RemainingTokens)
	assert.Equal(t, reset, info.RequestsReset)
	assert.Equal(t, reset, info.TokensReset)
	assert.False(t, info.Exhausted())
}

func TestParseOpenAIRateLimitHeaders_DurationReset(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-remaining-requests", "0")
	h.Set("x-ratelimit-reset-requests", "1m30s")

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, testNow)
	require.NotNil(t, info)
	assert.Equal(t, 0, info.RemainingRequests)
	assert.Equal(t, -1, info.RemainingTokens)
	assert.Equal(t, testNow.Add(90*time.Second), info.RequestsReset)
	assert.True(t, info.TokensReset.IsZero())
	assert.True(t, info.Exhausted())
}

func TestParseRateLimitHeaders_NoHeaders(t *testing.T) {
	assert.Nil(t, modeladapter.ParseOpenAIRateLimitHeaders(http.Header{}, testNow))
	assert.Nil(t, modeladapter.ParseAnthropicRateLimitHeaders(http.Header{}, testNow))
}

func TestParseRateLimitHeaders_GarbageReset(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-remaining-tokens", "12")
	h.Set("x-ratelimit-reset-tokens", "soon")

	info := modeladapter.ParseOpenAIRateLimitHeaders(h, testNow)
	require.NotNil(t, info)
	assert.Equal(t, 12, info.RemainingTokens)
	assert.True(t, info.TokensReset.IsZero())
}

func TestRateLimitInfo_ExhaustedNil(t *testing.T) {
	var info *modeladapter.RateLimitInfo
	assert.False(t, info.Exhausted())
}
