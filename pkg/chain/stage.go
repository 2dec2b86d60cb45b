package chain

import (
	"context"

	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/parser"
	"github.com/germanamz/chainkit/pkg/prompt"
)

// Stage is one step of a Chain with a fixed input and output kind.
// Run receives a Value of kind In and must return a Value of kind Out.
type Stage interface {
	Name() string
	In() Kind
	Out() Kind
	Run(ctx context.Context, in Value) (Value, error)
}

// RunFunc is the signature of Stage.Run.
type RunFunc func(ctx context.Context, in Value) (Value, error)

type funcStage struct {
	name    string
	in, out Kind
	run     RunFunc
}

func (s funcStage) Name() string { return s.name }
func (s funcStage) In() Kind     { return s.in }
func (s funcStage) Out() Kind    { return s.out }

func (s funcStage) Run(ctx context.Context, in Value) (Value, error) {
	return s.run(ctx, in)
}

// NewStage creates a Stage from a function and its declared kinds.
func NewStage(name string, in, out Kind, run RunFunc) Stage {
	return funcStage{name: name, in: in, out: out, run: run}
}

// PromptStage renders a template from the chain's input variables.
func PromptStage(t *prompt.Template) Stage {
	return NewStage("prompt", KindVariables, KindPrompt, func(_ context.Context, in Value) (Value, error) {
		vars, _ := in.Variables()

		msgs, err := t.Render(vars)
		if err != nil {
			return Value{}, err
		}

		return PromptValue(msgs), nil
	})
}

// ModelStage sends the rendered prompt to c. This is the only stage that
// blocks on a remote call.
func ModelStage(c modeladapter.Completer) Stage {
	return NewStage("model", KindPrompt, KindResponse, func(ctx context.Context, in Value) (Value, error) {
		msgs, _ := in.Prompt()

		resp, err := c.Complete(ctx, msgs)
		if err != nil {
			return Value{}, err
		}

		return ResponseValue(resp), nil
	})
}

// ParseStage turns the model response into text using p.
func ParseStage(p parser.Parser) Stage {
	return NewStage("parse", KindResponse, KindText, func(_ context.Context, in Value) (Value, error) {
		resp, _ := in.Response()

		text, err := p.Parse(resp)
		if err != nil {
			return Value{}, err
		}

		return TextValue(text), nil
	})
}
