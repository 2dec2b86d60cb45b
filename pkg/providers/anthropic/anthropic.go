// Package anthropic provides a Completer implementation for the Anthropic Messages API.
package anthropic

import (
	"context"
	"strings"

	"github.com/germanamz/chainkit/pkg/chats/message"
	"github.com/germanamz/chainkit/pkg/chats/role"
	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/modeladapter/usage"
)

const (
	// DefaultBaseURL is used when Config.BaseURL is empty.
	DefaultBaseURL = "https://api.anthropic.com"
	// MaxTemperature is the upper bound accepted by the API.
	MaxTemperature = 1.0
	// APIVersion is sent in the anthropic-version header.
	APIVersion = "2023-06-01"

	messagesPath = "/v1/messages"
)

var _ modeladapter.Completer = (*Adapter)(nil)

// Adapter implements modeladapter.Completer for the Anthropic Messages API.
type Adapter struct {
	modeladapter.ModelAdapter
}

// New validates cfg and creates an Adapter.
func New(cfg modeladapter.Config) (*Adapter, error) {
	cfg = cfg.WithDefaultBaseURL(DefaultBaseURL)
	if err := cfg.Validate(MaxTemperature); err != nil {
		return nil, err
	}

	a := &Adapter{
		ModelAdapter: modeladapter.New("anthropic", cfg, modeladapter.Auth{
			Key:    cfg.APIKey,
			Header: "x-api-key",
		}),
	}
	if _, ok := a.Headers["anthropic-version"]; !ok {
		a.Headers["anthropic-version"] = APIVersion
	}
	a.HeaderParser = modeladapter.ParseAnthropicRateLimitHeaders

	return a, nil
}

// Complete sends msgs to the Messages API. System messages are joined into the
// top-level system field; consecutive turns with the same role are merged.
func (a *Adapter) Complete(ctx context.Context, msgs []message.Message) (modeladapter.Response, error) {
	if err := a.CheckMessages(msgs); err != nil {
		return modeladapter.Response{}, err
	}

	req := a.buildRequest(msgs)

	var resp apiResponse
	reply, err := a.PostJSON(ctx, messagesPath, req, &resp)
	if err != nil {
		return modeladapter.Response{}, err
	}

	out := modeladapter.Response{
		Raw: modeladapter.Raw{
			Provider:     a.Provider,
			Model:        resp.Model,
			FinishReason: resp.StopReason,
			Usage: usage.TokenCount{
				InputTokens:  resp.Usage.InputTokens,
				OutputTokens: resp.Usage.OutputTokens,
			},
			RateLimit: reply.RateLimit,
			Body:      reply.Body,
		},
	}

	var texts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	if len(texts) > 0 {
		text := strings.Join(texts, "")
		out.Content = &text
	}

	return out, nil
}

// --- request types ---

type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	System      string       `json:"system,omitempty"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// --- response types ---

type apiResponse struct {
	Model      string       `json:"model"`
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
	Usage      apiUsage     `json:"usage"`
}

type apiUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (a *Adapter) buildRequest(msgs []message.Message) apiRequest {
	req := apiRequest{
		Model:       a.Name,
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}

	var system []string
	for _, m := range msgs {
		if m.Role == role.System {
			system = append(system, m.Content)
			continue
		}

		block := apiContent{Type: "text", Text: m.Content}
		r := m.Role.String()

		// Merge into the last message if it has the same role.
		if n := len(req.Messages); n > 0 && req.Messages[n-1].Role == r {
			req.Messages[n-1].Content = append(req.Messages[n-1].Content, block)
			continue
		}

		req.Messages = append(req.Messages, apiMessage{Role: r, Content: []apiContent{block}})
	}
	req.System = strings.Join(system, "\n\n")

	return req
}
