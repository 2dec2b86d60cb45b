package postgen

import (
	"context"

	"github.com/germanamz/chainkit/pkg/chain"
	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/prompt"
)

const (
	systemPrompt = "You are Post generator AI assistant. provide 200 characters post based on user's input for particular social media"
	userPrompt   = "post type is {type} and details {postBrief}"
)

// Generator turns a Request into post text. It keeps no chain state; the
// template and chain are built on every call.
type Generator struct {
	Model       modeladapter.Completer
	Middlewares []chain.Middleware
}

// Generate validates req, runs template → model and returns the response
// content. Errors are returned as produced by the chain.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	c, err := g.chain()
	if err != nil {
		return "", err
	}

	resp, err := c.InvokeResponse(ctx, map[string]string{
		"type":      req.Platform.String(),
		"postBrief": req.Brief,
	})
	if err != nil {
		return "", err
	}

	return resp.Text(), nil
}

func (g *Generator) chain() (*chain.Chain, error) {
	tmpl, err := prompt.New(prompt.SystemPart(systemPrompt), prompt.UserPart(userPrompt))
	if err != nil {
		return nil, err
	}

	c, err := chain.New(chain.PromptStage(tmpl), chain.ModelStage(g.Model))
	if err != nil {
		return nil, err
	}

	return c.Named("postgen").With(g.Middlewares...), nil
}
