// Package parser extracts plain values from model responses.
package parser

import (
	"errors"
	"strings"

	"github.com/germanamz/chainkit/pkg/modeladapter"
)

// ErrEmptyResponse is returned when a response carries no content.
var ErrEmptyResponse = errors.New("parser: empty response")

// Parser turns a model response into a string.
type Parser interface {
	Parse(resp modeladapter.Response) (string, error)
}

// Func adapts a plain function to the Parser interface.
type Func func(resp modeladapter.Response) (string, error)

// Parse calls the underlying function.
func (f Func) Parse(resp modeladapter.Response) (string, error) { return f(resp) }

// String returns the response content unchanged. An empty string is valid
// content; only absent content is an error.
type String struct{}

var _ Parser = String{}

// Parse implements Parser.
func (String) Parse(resp modeladapter.Response) (string, error) {
	if !resp.HasContent() {
		return "", ErrEmptyResponse
	}
	return resp.Text(), nil
}

// Trimmed is like String but strips surrounding whitespace.
type Trimmed struct{}

var _ Parser = Trimmed{}

// Parse implements Parser.
func (Trimmed) Parse(resp modeladapter.Response) (string, error) {
	s, err := String{}.Parse(resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
