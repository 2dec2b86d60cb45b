// Package chats provides a provider-agnostic data model for LLM chat interactions.
//
// It is organized into sub-packages:
//   - [github.com/germanamz/chainkit/pkg/chats/role]: conversation roles (system, user, assistant)
//   - [github.com/germanamz/chainkit/pkg/chats/message]: immutable role-tagged messages
//   - [github.com/germanamz/chainkit/pkg/chats/chat]: mutable conversation history
//
// No provider or API code is included; chats is a foundation layer
// that adapters can build on.
package chats
