// Package message defines the Message type used in LLM conversations.
package message

import (
	"errors"
	"fmt"

	"github.com/germanamz/chainkit/pkg/chats/role"
)

// ErrInvalidSequence is returned by Validate when a message sequence breaks
// role or ordering rules.
var ErrInvalidSequence = errors.New("message: invalid sequence")

// Message is a single role-tagged unit of a conversation.
// It is a value type; once constructed it is never mutated.
type Message struct {
	Role    role.Role
	Content string
}

// New creates a message with the given role and content.
func New(r role.Role, content string) Message {
	return Message{Role: r, Content: content}
}

// System creates a system message.
func System(content string) Message { return New(role.System, content) }

// User creates a user message.
func User(content string) Message { return New(role.User, content) }

// Assistant creates an assistant message.
func Assistant(content string) Message { return New(role.Assistant, content) }

// String formats the message as "role: content".
func (m Message) String() string {
	return m.Role.String() + ": " + m.Content
}

// Validate checks that every message has a known role and that system
// messages only appear before the first non-system message.
func Validate(msgs []Message) error {
	seenOther := false
	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidSequence, i, m.Role)
		}

		if m.Role != role.System {
			seenOther = true
			continue
		}

		if seenOther {
			return fmt.Errorf("%w: system message %d follows a non-system message", ErrInvalidSequence, i)
		}
	}

	return nil
}

// Clone returns a copy of msgs that does not share the backing array.
func Clone(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}

	cp := make([]Message, len(msgs))
	copy(cp, msgs)
	return cp
}
