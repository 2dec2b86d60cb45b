// Package modeladapter defines the interface and types for LLM completion adapters.
//
// It contains:
//   - [Completer] interface, [Response] and the embeddable [ModelAdapter] base struct with HTTP helpers, auth, and custom headers
//   - [Config] with eager validation that fails with a [ConfigurationError]
//   - [RemoteCallError], the single error type for failed provider round trips
//   - [github.com/germanamz/chainkit/pkg/modeladapter/usage]: per-call token counts
//
// Model configuration (name, temperature, max tokens) is inlined directly on
// the ModelAdapter struct. This package contains no provider-specific code; concrete
// adapters live in separate packages that import modeladapter. Retries are
// never attempted here; callers decide based on [RemoteCallError.Retryable].
package modeladapter
