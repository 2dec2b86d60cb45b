// Package providers builds Completers by provider kind.
//
// Concrete adapters live in sub-packages:
//   - [github.com/germanamz/chainkit/pkg/providers/openai]: OpenAI Chat Completions API
//   - [github.com/germanamz/chainkit/pkg/providers/anthropic]: Anthropic Messages API
package providers

import (
	"fmt"
	"slices"
	"sync"

	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/providers/anthropic"
	"github.com/germanamz/chainkit/pkg/providers/openai"
)

// Factory creates a Completer from a Config. It must validate the config and
// return a *modeladapter.ConfigurationError for bad settings.
type Factory func(cfg modeladapter.Config) (modeladapter.Completer, error)

var (
	factoryMu sync.RWMutex
	factories = map[string]Factory{
		"openai":    newOpenAI,
		"anthropic": newAnthropic,
	}
)

// Register registers a factory under kind, replacing any existing one.
func Register(kind string, factory Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	factories[kind] = factory
}

// Kinds returns the registered provider kinds in sorted order.
func Kinds() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	return kinds
}

// New creates a Completer of the given kind.
func New(kind string, cfg modeladapter.Config) (modeladapter.Completer, error) {
	factoryMu.RLock()
	f, ok := factories[kind]
	factoryMu.RUnlock()

	if !ok {
		return nil, &modeladapter.ConfigurationError{Field: "provider", Reason: fmt.Sprintf("unknown kind %q", kind)}
	}

	return f(cfg)
}

func newOpenAI(cfg modeladapter.Config) (modeladapter.Completer, error) {
	return openai.New(cfg)
}

func newAnthropic(cfg modeladapter.Config) (modeladapter.Completer, error) {
	return anthropic.New(cfg)
}
