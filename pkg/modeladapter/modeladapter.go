package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/germanamz/chainkit/pkg/chats/message"
	"github.com/germanamz/chainkit/pkg/chats/role"
	"github.com/germanamz/chainkit/pkg/modeladapter/usage"
)

// Completer sends a message sequence to an LLM and returns its reply.
// Every call is an independent remote round trip; nothing is cached.
type Completer interface {
	Complete(ctx context.Context, msgs []message.Message) (Response, error)
}

// CompleteText wraps text as a single user message and sends it through c.
func CompleteText(ctx context.Context, c Completer, text string) (Response, error) {
	return c.Complete(ctx, []message.Message{message.User(text)})
}

// Response is the reply of a single completion call.
// Content is nil when the provider returned no text.
type Response struct {
	Content *string
	Raw     Raw
}

// Raw carries provider metadata that the rest of the pipeline passes through
// without interpreting.
type Raw struct {
	Provider     string
	Model        string
	FinishReason string
	Usage        usage.TokenCount
	RateLimit    *RateLimitInfo
	Body         json.RawMessage
}

// NewResponse creates a Response with the given content.
func NewResponse(content string, raw Raw) Response {
	return Response{Content: &content, Raw: raw}
}

// HasContent reports whether the provider returned text.
func (r Response) HasContent() bool { return r.Content != nil }

// Text returns the content, or an empty string when absent.
func (r Response) Text() string {
	if r.Content == nil {
		return ""
	}
	return *r.Content
}

// Message returns the reply as an assistant message.
func (r Response) Message() message.Message {
	return message.New(role.Assistant, r.Text())
}

// Auth holds authentication settings for an LLM provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// ModelAdapter holds shared, read-only settings for provider implementations.
// Embed it in concrete provider structs to get HTTP helpers, auth and custom
// headers. It keeps no per-call state, so one adapter may serve concurrent
// calls.
type ModelAdapter struct {
	Provider     string                // Provider name used in errors (e.g. "openai").
	Name         string                // Model identifier (e.g. "gpt-4").
	Temperature  float64               // Sampling temperature.
	MaxTokens    int                   // Maximum tokens in the response.
	Auth         Auth                  // Authentication settings.
	BaseURL      string                // API base URL (no trailing slash).
	Client       *http.Client          // HTTP client; falls back to http.DefaultClient.
	Headers      map[string]string     // Extra headers applied to every request.
	HeaderParser RateLimitHeaderParser // Optional parser for rate limit response headers.
}

// New creates a ModelAdapter from a validated Config and provider auth settings.
func New(provider string, cfg Config, auth Auth) ModelAdapter {
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return ModelAdapter{
		Provider:    provider,
		Name:        cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Auth:        auth,
		BaseURL:     cfg.BaseURL,
		Client:      cfg.Client,
		Headers:     headers,
	}
}

// Complete is a stub that returns an error. Concrete providers that embed
// ModelAdapter should define their own Complete method to shadow this one.
func (a *ModelAdapter) Complete(_ context.Context, _ []message.Message) (Response, error) {
	return Response{}, errors.New("adapter: Complete not implemented")
}

func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return http.DefaultClient
}

// NewRequest builds an *http.Request with the base URL, auth, and custom
// headers already applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	if a.Auth.Key != "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		scheme := a.Auth.Scheme
		if scheme == "" && header == "Authorization" {
			scheme = "Bearer"
		}
		if scheme != "" {
			value = scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// CheckMessages rejects sequences no provider would accept: an empty list,
// unknown roles, or system messages after conversation turns. The failure is a
// *RemoteCallError with CodeBadRequest so callers see a single error type for
// malformed requests.
func (a *ModelAdapter) CheckMessages(msgs []message.Message) error {
	if len(msgs) == 0 {
		return a.remoteErr(CodeBadRequest, 0, errors.New("no messages"))
	}
	if err := message.Validate(msgs); err != nil {
		return a.remoteErr(CodeBadRequest, 0, err)
	}
	return nil
}

// Reply is what PostJSON returns alongside the decoded body.
type Reply struct {
	Body      json.RawMessage
	RateLimit *RateLimitInfo
}

// PostJSON marshals payload as JSON, sends a POST to the given path,
// checks for a 2xx status, and unmarshals the response body into dest.
// Every failure is a *RemoteCallError.
func (a *ModelAdapter) PostJSON(ctx context.Context, path string, payload any, dest any) (Reply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Reply{}, a.remoteErr(CodeBadRequest, 0, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return Reply{}, a.remoteErr(CodeBadRequest, 0, fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Do(req)
	if err != nil {
		code := CodeNetwork
		if ctx.Err() != nil {
			code = CodeCanceled
		}
		return Reply{}, a.remoteErr(code, 0, fmt.Errorf("do request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, a.remoteErr(CodeNetwork, resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := &RemoteCallError{
			Provider:   a.Provider,
			Code:       codeForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
		if rerr.Code == CodeRateLimited || rerr.Code == CodeServer {
			rerr.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return Reply{}, rerr
	}

	reply := Reply{Body: json.RawMessage(respBody)}
	if a.HeaderParser != nil {
		reply.RateLimit = a.HeaderParser(resp.Header, time.Now())
	}

	if dest == nil {
		return reply, nil
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return Reply{}, a.remoteErr(CodeDecode, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	return reply, nil
}

func (a *ModelAdapter) remoteErr(code Code, status int, err error) *RemoteCallError {
	return &RemoteCallError{Provider: a.Provider, Code: code, StatusCode: status, Err: err}
}
