package modeladapter

import (
	"net/http"
	"strconv"
	"time"
)

// RateLimitInfo is a snapshot of the provider's rate limit state, taken from
// the headers of a single response.
type RateLimitInfo struct {
	RemainingRequests int
	RemainingTokens   int
	RequestsReset     time.Time
	TokensReset       time.Time
}

// Exhausted reports whether either the request or the token budget reached zero.
func (i *RateLimitInfo) Exhausted() bool {
	return i != nil && (i.RemainingRequests == 0 || i.RemainingTokens == 0)
}

// RateLimitHeaderParser extracts rate limit info from HTTP response headers.
// It receives the current time so callers can control the clock in tests.
type RateLimitHeaderParser func(h http.Header, now time.Time) *RateLimitInfo

// RateLimitHeaders names the four headers a provider uses to report its
// remaining budget and reset times.
type RateLimitHeaders struct {
	RemainingRequests string
	RemainingTokens   string
	RequestsReset     string
	TokensReset       string
}

// OpenAIRateLimitHeaders is the header scheme of OpenAI-compatible APIs.
var OpenAIRateLimitHeaders = RateLimitHeaders{
	RemainingRequests: "x-ratelimit-remaining-requests",
	RemainingTokens:   "x-ratelimit-remaining-tokens",
	RequestsReset:     "x-ratelimit-reset-requests",
	TokensReset:       "x-ratelimit-reset-tokens",
}

// AnthropicRateLimitHeaders is the header scheme of the Anthropic API.
var AnthropicRateLimitHeaders = RateLimitHeaders{
	RemainingRequests: "anthropic-ratelimit-requests-remaining",
	RemainingTokens:   "anthropic-ratelimit-tokens-remaining",
	RequestsReset:     "anthropic-ratelimit-requests-reset",
	TokensReset:       "anthropic-ratelimit-tokens-reset",
}

// Parse reads the scheme's headers from h. It returns nil when neither
// remaining-count header is present. Counts that fail to parse are reported
// as -1 so they are not mistaken for an exhausted budget.
func (s RateLimitHeaders) Parse(h http.Header, now time.Time) *RateLimitInfo {
	reqRemaining := h.Get(s.RemainingRequests)
	tokRemaining := h.Get(s.RemainingTokens)

	if reqRemaining == "" && tokRemaining == "" {
		return nil
	}

	return &RateLimitInfo{
		RemainingRequests: parseCount(reqRemaining),
		RemainingTokens:   parseCount(tokRemaining),
		RequestsReset:     parseResetTime(h.Get(s.RequestsReset), now),
		TokensReset:       parseResetTime(h.Get(s.TokensReset), now),
	}
}

// ParseOpenAIRateLimitHeaders parses OpenAI-compatible rate limit headers.
func ParseOpenAIRateLimitHeaders(h http.Header, now time.Time) *RateLimitInfo {
	return OpenAIRateLimitHeaders.Parse(h, now)
}

// ParseAnthropicRateLimitHeaders parses Anthropic rate limit headers.
func ParseAnthropicRateLimitHeaders(h http.Header, now time.Time) *RateLimitInfo {
	return AnthropicRateLimitHeaders.Parse(h, now)
}

func parseCount(val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		return -1
	}
	return n
}

// parseResetTime accepts RFC3339 or a Go duration string ("6s", "1m30s")
// relative to now.
func parseResetTime(val string, now time.Time) time.Time {
	if val == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t
	}
	if d, err := time.ParseDuration(val); err == nil {
		return now.Add(d)
	}
	return time.Time{}
}
