// Package prompt renders role-tagged message templates into concrete
// message sequences by substituting named {variable} placeholders.
package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/germanamz/chainkit/pkg/chats/message"
	"github.com/germanamz/chainkit/pkg/chats/role"
)

// ErrMissingVariable matches every *MissingVariableError via errors.Is.
var ErrMissingVariable = errors.New("prompt: missing variable")

// ErrInvalidTemplate is returned when a template cannot be constructed.
var ErrInvalidTemplate = errors.New("prompt: invalid template")

// placeholderRe matches {name} tokens. Braces around anything that is not an
// identifier are left as literal text.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// MissingVariableError reports the placeholders that had no value at render time.
type MissingVariableError struct {
	Names []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("prompt: missing variable(s): %s", strings.Join(e.Names, ", "))
}

// Is makes errors.Is(err, ErrMissingVariable) report true.
func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// Part is a single (role, template text) pair of a Template.
type Part struct {
	Role role.Role
	Text string
}

// SystemPart creates a system part from template text.
func SystemPart(text string) Part { return Part{Role: role.System, Text: text} }

// UserPart creates a user part from template text.
func UserPart(text string) Part { return Part{Role: role.User, Text: text} }

// AssistantPart creates an assistant part from template text.
func AssistantPart(text string) Part { return Part{Role: role.Assistant, Text: text} }

// Template is an ordered list of parts plus the set of variables they
// reference. A Template is immutable and safe for concurrent use.
type Template struct {
	parts []Part
	vars  []string
}

// New creates a Template from parts. Every part must carry a known role and
// system parts must precede all other parts.
func New(parts ...Part) (*Template, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no parts", ErrInvalidTemplate)
	}

	seen := map[string]struct{}{}
	seenOther := false

	for i, p := range parts {
		if !p.Role.Valid() {
			return nil, fmt.Errorf("%w: part %d has unknown role %q", ErrInvalidTemplate, i, p.Role)
		}

		if p.Role == role.System && seenOther {
			return nil, fmt.Errorf("%w: system part %d follows a non-system part", ErrInvalidTemplate, i)
		}
		if p.Role != role.System {
			seenOther = true
		}

		for _, m := range placeholderRe.FindAllStringSubmatch(p.Text, -1) {
			seen[m[1]] = struct{}{}
		}
	}

	vars := make([]string, 0, len(seen))
	for name := range seen {
		vars = append(vars, name)
	}
	slices.Sort(vars)

	return &Template{parts: slices.Clone(parts), vars: vars}, nil
}

// MustNew is like New but panics on error. Intended for package-level templates.
func MustNew(parts ...Part) *Template {
	t, err := New(parts...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromMessages creates a Template from (role, text) pairs, e.g.
//
//	prompt.FromMessages(
//		[2]string{"system", "You are a world class technical documentation writer."},
//		[2]string{"user", "Question is {input}"},
//	)
//
// Role names are parsed with role.Parse, so "human" and "ai" are accepted.
func FromMessages(pairs ...[2]string) (*Template, error) {
	parts := make([]Part, len(pairs))
	for i, p := range pairs {
		r, ok := role.Parse(p[0])
		if !ok {
			return nil, fmt.Errorf("%w: part %d has unknown role %q", ErrInvalidTemplate, i, p[0])
		}
		parts[i] = Part{Role: r, Text: p[1]}
	}

	return New(parts...)
}

// Parts returns a copy of the template's parts.
func (t *Template) Parts() []Part {
	return slices.Clone(t.parts)
}

// Variables returns the sorted, de-duplicated placeholder names referenced by
// the template.
func (t *Template) Variables() []string {
	return slices.Clone(t.vars)
}

// Render substitutes vars into every part and returns the resulting messages.
// Extra keys are ignored. If any referenced variable is missing, Render
// returns a *MissingVariableError and no messages.
func (t *Template) Render(vars map[string]string) ([]message.Message, error) {
	var missing []string
	for _, name := range t.vars {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingVariableError{Names: missing}
	}

	msgs := make([]message.Message, len(t.parts))
	for i, p := range t.parts {
		text := placeholderRe.ReplaceAllStringFunc(p.Text, func(tok string) string {
			return vars[tok[1:len(tok)-1]]
		})
		msgs[i] = message.New(p.Role, text)
	}

	return msgs, nil
}
