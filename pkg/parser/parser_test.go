package parser_test

import (
	"testing"

	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_Content(t *testing.T) {
	got, err := parser.String{}.Parse(modeladapter.NewResponse("hello", modeladapter.Raw{}))

	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestString_EmptyStringIsContent(t *testing.T) {
	got, err := parser.String{}.Parse(modeladapter.NewResponse("", modeladapter.Raw{}))

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestString_AbsentContent(t *testing.T) {
	_, err := parser.String{}.Parse(modeladapter.Response{})

	require.ErrorIs(t, err, parser.ErrEmptyResponse)
}

func TestTrimmed(t *testing.T) {
	got, err := parser.Trimmed{}.Parse(modeladapter.NewResponse("\n  hi there \n", modeladapter.Raw{}))
	require.NoError(t, err)
	assert.Equal(t, "hi there", got)

	_, err = parser.Trimmed{}.Parse(modeladapter.Response{})
	require.ErrorIs(t, err, parser.ErrEmptyResponse)
}

func TestFunc(t *testing.T) {
	p := parser.Func(func(resp modeladapter.Response) (string, error) {
		return resp.Raw.Model, nil
	})

	got, err := p.Parse(modeladapter.Response{Raw: modeladapter.Raw{Model: "m"}})
	require.NoError(t, err)
	assert.Equal(t, "m", got)
}
