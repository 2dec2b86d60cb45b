// Package chain composes prompt, model and parser stages into a single
// invocable pipeline.
//
// A Chain is built once and is immutable afterwards:
//
//	c, err := chain.New(
//		chain.PromptStage(tmpl),
//		chain.ModelStage(model),
//		chain.ParseStage(parser.String{}),
//	)
//	text, err := c.InvokeText(ctx, map[string]string{"input": "what is LangSmith?"})
//
// Stages run strictly in order; the first error stops the chain and is
// returned to the caller as-is.
package chain

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/germanamz/chainkit/pkg/modeladapter"
)

// ErrComposition matches every *CompositionError via errors.Is.
var ErrComposition = errors.New("chain: invalid composition")

// CompositionError reports stages whose kinds do not line up, either while
// building a chain or when a stage returns a Value of the wrong kind.
type CompositionError struct {
	Index  int    // Stage position, -1 when not tied to one stage.
	Stage  string // Stage name, if any.
	Reason string
}

func (e *CompositionError) Error() string {
	if e.Index < 0 {
		return "chain: " + e.Reason
	}
	return fmt.Sprintf("chain: stage %d (%s): %s", e.Index, e.Stage, e.Reason)
}

// Is makes errors.Is(err, ErrComposition) report true.
func (e *CompositionError) Is(target error) bool { return target == ErrComposition }

// Middleware wraps a Stage, returning a Stage with the same name and kinds
// and added behaviour.
type Middleware func(next Stage) Stage

// Chain is an ordered, validated list of stages. It holds no per-call state
// and may be invoked concurrently.
type Chain struct {
	name        string
	stages      []Stage
	middlewares []Middleware
	wrapped     []Stage
}

// New validates stages and builds a Chain. The first stage must accept
// KindVariables and each stage's output kind must equal the next stage's
// input kind.
func New(stages ...Stage) (*Chain, error) {
	if err := validate(stages); err != nil {
		return nil, err
	}

	c := &Chain{name: "chain", stages: slices.Clone(stages)}
	c.wrap()

	return c, nil
}

// Must is like New but panics on error.
func Must(stages ...Stage) *Chain {
	c, err := New(stages...)
	if err != nil {
		panic(err)
	}
	return c
}

func validate(stages []Stage) error {
	if len(stages) == 0 {
		return &CompositionError{Index: -1, Reason: "no stages"}
	}

	for i, s := range stages {
		if s == nil {
			return &CompositionError{Index: i, Stage: "<nil>", Reason: "stage is nil"}
		}

		if i == 0 {
			if s.In() != KindVariables {
				return &CompositionError{
					Index:  0,
					Stage:  s.Name(),
					Reason: fmt.Sprintf("first stage must accept %s, accepts %s", KindVariables, s.In()),
				}
			}
			continue
		}

		prev := stages[i-1]
		if prev.Out() != s.In() {
			return &CompositionError{
				Index:  i,
				Stage:  s.Name(),
				Reason: fmt.Sprintf("accepts %s but %s emits %s", s.In(), prev.Name(), prev.Out()),
			}
		}
	}

	return nil
}

// wrap applies middlewares to every stage. The first middleware is the
// outermost.
func (c *Chain) wrap() {
	c.wrapped = make([]Stage, len(c.stages))
	for i, s := range c.stages {
		for j := len(c.middlewares) - 1; j >= 0; j-- {
			s = c.middlewares[j](s)
		}
		c.wrapped[i] = s
	}
}

func (c *Chain) clone() *Chain {
	return &Chain{
		name:        c.name,
		stages:      slices.Clone(c.stages),
		middlewares: slices.Clone(c.middlewares),
	}
}

// Pipe returns a new chain with next appended. c is left unchanged.
func (c *Chain) Pipe(next Stage) (*Chain, error) {
	stages := append(slices.Clone(c.stages), next)
	if err := validate(stages); err != nil {
		return nil, err
	}

	out := c.clone()
	out.stages = stages
	out.wrap()

	return out, nil
}

// With returns a new chain whose stages are wrapped by mws in addition to
// any middlewares already applied.
func (c *Chain) With(mws ...Middleware) *Chain {
	out := c.clone()
	out.middlewares = append(out.middlewares, mws...)
	out.wrap()

	return out
}

// Named returns a copy of the chain with the given name, used in logs and
// metrics.
func (c *Chain) Named(name string) *Chain {
	out := c.clone()
	out.name = name
	out.wrap()

	return out
}

// Name returns the chain name.
func (c *Chain) Name() string { return c.name }

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// Out returns the output kind of the last stage.
func (c *Chain) Out() Kind { return c.stages[len(c.stages)-1].Out() }

// Invoke runs every stage in order, feeding each stage's output to the next.
// The first stage receives vars. On failure the stage's error is returned
// unchanged and later stages do not run.
func (c *Chain) Invoke(ctx context.Context, vars map[string]string) (Value, error) {
	if RunID(ctx) == "" {
		ctx = WithRunID(ctx, uuid.NewString())
	}
	ctx = withChainName(ctx, c.name)

	v := VariablesValue(vars)
	for i, s := range c.wrapped {
		out, err := s.Run(ctx, v)
		if err != nil {
			return Value{}, err
		}

		if out.Kind() != s.Out() {
			return Value{}, &CompositionError{
				Index:  i,
				Stage:  s.Name(),
				Reason: fmt.Sprintf("declared output %s but returned %s", s.Out(), out.Kind()),
			}
		}

		v = out
	}

	return v, nil
}

// InvokeResponse runs a chain that ends in a model stage.
func (c *Chain) InvokeResponse(ctx context.Context, vars map[string]string) (modeladapter.Response, error) {
	if c.Out() != KindResponse {
		return modeladapter.Response{}, &CompositionError{Index: -1, Reason: "chain emits " + c.Out().String() + ", not response"}
	}

	v, err := c.Invoke(ctx, vars)
	if err != nil {
		return modeladapter.Response{}, err
	}

	resp, _ := v.Response()
	return resp, nil
}

// InvokeText runs a chain that ends in a parse stage.
func (c *Chain) InvokeText(ctx context.Context, vars map[string]string) (string, error) {
	if c.Out() != KindText {
		return "", &CompositionError{Index: -1, Reason: "chain emits " + c.Out().String() + ", not text"}
	}

	v, err := c.Invoke(ctx, vars)
	if err != nil {
		return "", err
	}

	text, _ := v.Text()
	return text, nil
}

type ctxKey int

const (
	runIDKey ctxKey = iota
	chainNameKey
)

// WithRunID returns a context carrying id as the invocation's run id.
// Invoke generates one when the context has none.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID returns the run id of the current invocation, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

func withChainName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, chainNameKey, name)
}

// ChainName returns the name of the chain running the current stage, or "".
func ChainName(ctx context.Context) string {
	name, _ := ctx.Value(chainNameKey).(string)
	return name
}
