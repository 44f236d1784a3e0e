package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonlint/internal/parser"
)

func TestTranslate_MissingToken(t *testing.T) {
	src := "[1,2"
	errs := []*parser.ParseError{
		{Start: 4, End: 4, Reason: parser.ReasonMissingToken, Token: "]"},
	}

	diags := Translate(src, errs)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, `Missing token: "]"`, d.Message)
	assert.Equal(t, CodeSyntax, d.Code)
	assert.Equal(t, Span{Start: 4, End: 4}, d.Span)
	assert.Equal(t, `missing "]"`, d.Label)
}

func TestTranslate_UnexpectedToken(t *testing.T) {
	src := "123e"
	errs := []*parser.ParseError{
		{Start: 3, End: 4, Reason: parser.ReasonUnexpectedToken, Token: "e"},
	}

	diags := Translate(src, errs)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, `Unexpected token: "e"`, d.Message)
	assert.Equal(t, Span{Start: 3, End: 4}, d.Span)
	assert.Equal(t, `unexpected "e"`, d.Label)
}

func TestTranslate_EmptyFailedNode(t *testing.T) {
	src := `"\uD800"`
	errs := []*parser.ParseError{
		{Start: 0, End: 8, Reason: parser.ReasonFailedNode},
	}

	diags := Translate(src, errs)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, "Failed to parse node", d.Message)
	assert.Equal(t, Span{Start: 0, End: 8}, d.Span)
	assert.Equal(t, "failed", d.Label)
}

func TestTranslate_FailedNodeWithChildren(t *testing.T) {
	// A FailedNode with children contributes nothing itself; its children
	// are flattened in stored order.
	src := `{"a":}`
	errs := []*parser.ParseError{
		{
			Start:  0,
			End:    6,
			Reason: parser.ReasonFailedNode,
			Children: []*parser.ParseError{
				{Start: 5, End: 6, Reason: parser.ReasonUnexpectedToken, Token: "}"},
			},
		},
	}

	diags := Translate(src, errs)
	require.Len(t, diags, 1)
	assert.Equal(t, `Unexpected token: "}"`, diags[0].Message)
	assert.Equal(t, Span{Start: 5, End: 6}, diags[0].Span)
}

func TestTranslate_PreOrder(t *testing.T) {
	src := "0123456789"
	errs := []*parser.ParseError{
		{
			Start:  0,
			End:    9,
			Reason: parser.ReasonFailedNode,
			Children: []*parser.ParseError{
				{Start: 1, End: 2, Reason: parser.ReasonUnexpectedToken, Token: "a"},
				{
					Start:  3,
					End:    8,
					Reason: parser.ReasonFailedNode,
					Children: []*parser.ParseError{
						{Start: 4, End: 4, Reason: parser.ReasonMissingToken, Token: ":"},
					},
				},
				{Start: 8, End: 8, Reason: parser.ReasonMissingToken, Token: "}"},
			},
		},
		{Start: 9, End: 10, Reason: parser.ReasonUnexpectedToken, Token: "x"},
	}

	diags := Translate(src, errs)
	require.Len(t, diags, 4)
	assert.Equal(t, `Unexpected token: "a"`, diags[0].Message)
	assert.Equal(t, `Missing token: ":"`, diags[1].Message)
	assert.Equal(t, `Missing token: "}"`, diags[2].Message)
	assert.Equal(t, `Unexpected token: "x"`, diags[3].Message)
}

func TestTranslate_ClampsSpans(t *testing.T) {
	src := "[]"
	errs := []*parser.ParseError{
		{Start: -1, End: 99, Reason: parser.ReasonFailedNode},
	}

	diags := Translate(src, errs)
	require.Len(t, diags, 1)
	assert.Equal(t, Span{Start: 0, End: 2}, diags[0].Span)
}

func TestTranslate_EndToEnd(t *testing.T) {
	// Real parser output for the error-locality example: exactly one
	// diagnostic, anchored immediately after the colon.
	src := `{"a":}`
	_, errs := parser.Parse(src)
	require.NotEmpty(t, errs)

	diags := Translate(src, errs)
	require.Len(t, diags, 1)
	assert.Equal(t, `Unexpected token: "}"`, diags[0].Message)
	assert.Equal(t, Span{Start: 5, End: 6}, diags[0].Span)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "S000", diags[0].Code)
}

func TestTranslate_NoErrors(t *testing.T) {
	assert.Empty(t, Translate("{}", nil))
}
