// Package openai provides a Completer implementation for the OpenAI Chat Completions API.
package openai

import (
	"context"

	"github.com/germanamz/chainkit/pkg/chats/message"
	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/modeladapter/usage"
)

const (
	// DefaultBaseURL is used when Config.BaseURL is empty.
	DefaultBaseURL = "https://api.openai.com"
	// MaxTemperature is the upper bound accepted by the API.
	MaxTemperature = 2.0

	completionsPath = "/v1/chat/completions"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the OpenAI Chat Completions API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New validates cfg and creates an Adapter. A missing API key, model, or an
// out-of-range temperature or token limit fails here with a
// *modeladapter.ConfigurationError, before any request is made.
func New(cfg modeladapter.Config) (*Adapter, error) {
	cfg = cfg.WithDefaultBaseURL(DefaultBaseURL)
	if err := cfg.Validate(MaxTemperature); err != nil {
		return nil, err
	}

	a := &Adapter{
		ModelAdapter: modeladapter.New("openai", cfg, modeladapter.Auth{Key: cfg.APIKey}),
	}
	a.HeaderParser = modeladapter.ParseOpenAIRateLimitHeaders

	return a, nil
}

// Complete sends msgs to the Chat Completions API and returns the first choice.
func (a *Adapter) Complete(ctx context.Context, msgs []message.Message) (modeladapter.Response, error) {
	if err := a.CheckMessages(msgs); err != nil {
		return modeladapter.Response{}, err
	}

	req := a.buildRequest(msgs)

	var resp apiResponse
	reply, err := a.PostJSON(ctx, completionsPath, req, &resp)
	if err != nil {
		return modeladapter.Response{}, err
	}

	raw := modeladapter.Raw{
		Provider: a.Provider,
		Model:    resp.Model,
		Usage: usage.TokenCount{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		RateLimit: reply.RateLimit,
		Body:      reply.Body,
	}

	if len(resp.Choices) == 0 {
		return modeladapter.Response{Raw: raw}, nil
	}

	choice := resp.Choices[0]
	raw.FinishReason = choice.FinishReason

	return modeladapter.Response{Content: choice.Message.Content, Raw: raw}, nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

type apiResponse struct {
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

func (a *Adapter) buildRequest(msgs []message.Message) apiRequest {
	req := apiRequest{
		Model:       a.Name,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
		Messages:    make([]apiMessage, len(msgs)),
	}

	for i, m := range msgs {
		req.Messages[i] = apiMessage{Role: m.Role.String(), Content: m.Content}
	}

	return req
}
