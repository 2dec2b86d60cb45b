package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/germanamz/chainkit/pkg/metrics"
	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/parser"
	"github.com/germanamz/chainkit/pkg/prompt"
)

// wrapStage keeps the name and kinds of s and replaces its Run.
func wrapStage(s Stage, run RunFunc) Stage {
	return funcStage{name: s.Name(), in: s.In(), out: s.Out(), run: run}
}

// --- Logger middleware ---

// Logger returns a Middleware that logs stage start, duration, and error.
// Errors are logged and returned unchanged.
func Logger(log *slog.Logger) Middleware {
	return func(next Stage) Stage {
		return wrapStage(next, func(ctx context.Context, in Value) (Value, error) {
			attrs := []any{
				"chain", ChainName(ctx),
				"stage", next.Name(),
				"run_id", RunID(ctx),
			}

			log.DebugContext(ctx, "stage started", attrs...)

			start := time.Now()

			out, err := next.Run(ctx, in)

			attrs = append(attrs, "duration", time.Since(start))

			if err != nil {
				log.ErrorContext(ctx, "stage failed", append(attrs, "error", err)...)
			} else {
				log.DebugContext(ctx, "stage finished", attrs...)
			}

			return out, err
		})
	}
}

// --- Recovery middleware ---

// PanicError is returned by the Recovery middleware when a stage panics.
type PanicError struct {
	Stage string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("chain: stage %q panicked: %v", e.Stage, e.Value)
}

// Recovery returns a Middleware that catches panics and converts them to a
// *PanicError.
func Recovery() Middleware {
	return func(next Stage) Stage {
		return wrapStage(next, func(ctx context.Context, in Value) (out Value, err error) {
			defer func() {
				if r := recover(); r != nil {
					out = Value{}
					err = &PanicError{Stage: next.Name(), Value: r}
				}
			}()

			return next.Run(ctx, in)
		})
	}
}

// --- Metrics middleware ---

// Metrics returns a Middleware that records stage duration, status and
// error type into c.
func Metrics(c metrics.Collector) Middleware {
	return func(next Stage) Stage {
		return wrapStage(next, func(ctx context.Context, in Value) (Value, error) {
			start := time.Now()

			out, err := next.Run(ctx, in)

			status := "ok"
			if err != nil {
				status = "error"
				c.RecordError(ctx, ChainName(ctx), next.Name(), ErrorType(err))
			}
			c.RecordStage(ctx, ChainName(ctx), next.Name(), status, time.Since(start))

			return out, err
		})
	}
}

// ErrorType classifies err into a short label for metrics and logs.
func ErrorType(err error) string {
	var (
		rerr *modeladapter.RemoteCallError
		perr *PanicError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, prompt.ErrMissingVariable):
		return "missing_variable"
	case errors.As(err, &rerr):
		return "remote_call_" + string(rerr.Code)
	case errors.Is(err, parser.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrComposition):
		return "composition"
	case errors.As(err, &perr):
		return "panic"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "other"
}
