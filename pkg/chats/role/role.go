// Package role defines the sender roles used in LLM conversations.
package role

// Role represents the sender of a message in a conversation.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case System, User, Assistant:
		return true
	}
	return false
}

// String returns the underlying string value of the role.
func (r Role) String() string {
	return string(r)
}

// Parse converts s into a Role. The bool is false for unknown roles.
// "human" and "ai" are accepted as aliases for User and Assistant.
func Parse(s string) (Role, bool) {
	switch s {
	case "human":
		return User, true
	case "ai":
		return Assistant, true
	}

	r := Role(s)
	return r, r.Valid()
}
