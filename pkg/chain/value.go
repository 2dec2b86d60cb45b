package chain

import (
	"maps"

	"github.com/germanamz/chainkit/pkg/chats/message"
	"github.com/germanamz/chainkit/pkg/modeladapter"
)

// Kind identifies the payload carried by a Value and is used to check that
// adjacent stages agree on their contract.
type Kind uint8

const (
	KindInvalid   Kind = iota
	KindVariables      // map[string]string, the caller's input
	KindPrompt         // []message.Message, a rendered prompt
	KindResponse       // modeladapter.Response, a model reply
	KindText           // string, parsed output
)

func (k Kind) String() string {
	switch k {
	case KindVariables:
		return "variables"
	case KindPrompt:
		return "prompt"
	case KindResponse:
		return "response"
	case KindText:
		return "text"
	}
	return "invalid"
}

// Value is the tagged variant passed between stages. Exactly one payload is
// set, selected by Kind. The zero Value has KindInvalid.
type Value struct {
	kind   Kind
	vars   map[string]string
	prompt []message.Message
	resp   modeladapter.Response
	text   string
}

// VariablesValue wraps a copy of vars.
func VariablesValue(vars map[string]string) Value {
	cp := maps.Clone(vars)
	if cp == nil {
		cp = map[string]string{}
	}
	return Value{kind: KindVariables, vars: cp}
}

// PromptValue wraps a copy of msgs.
func PromptValue(msgs []message.Message) Value {
	return Value{kind: KindPrompt, prompt: message.Clone(msgs)}
}

// ResponseValue wraps a model response.
func ResponseValue(resp modeladapter.Response) Value {
	return Value{kind: KindResponse, resp: resp}
}

// TextValue wraps a string.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind returns the payload kind.
func (v Value) Kind() Kind { return v.kind }

// Variables returns a copy of the variables payload.
func (v Value) Variables() (map[string]string, bool) {
	if v.kind != KindVariables {
		return nil, false
	}
	return maps.Clone(v.vars), true
}

// Prompt returns a copy of the prompt payload.
func (v Value) Prompt() ([]message.Message, bool) {
	if v.kind != KindPrompt {
		return nil, false
	}
	return message.Clone(v.prompt), true
}

// Response returns the response payload.
func (v Value) Response() (modeladapter.Response, bool) {
	if v.kind != KindResponse {
		return modeladapter.Response{}, false
	}
	return v.resp, true
}

// Text returns the text payload.
func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}
