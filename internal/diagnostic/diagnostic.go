// Package diagnostic flattens parse error trees into user-facing records.
// It produces structured data only; rendering (color, terminal layout) is
// the consumer's job.
package diagnostic

import (
	"fmt"

	"github.com/mcncl/jsonlint/internal/parser"
)

// Severity classifies a diagnostic. Parsing only ever produces errors, but
// the field keeps the record shape stable for consumers that also report
// warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code identifies the diagnostic class. Syntax errors all share one code.
const CodeSyntax = "S000"

// Span is a half-open byte range into the original source.
type Span struct {
	Start int
	End   int
}

// Diagnostic is one flattened, renderable error record.
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string
	Span     Span
	// Label is the short text attached to the span marker, as opposed to
	// Message which stands alone above it.
	Label string
}

// Translate flattens every error tree into diagnostics, pre-order. A
// MissingToken or UnexpectedToken node yields exactly one record. A
// FailedNode with children yields nothing itself and recurses into the
// children in stored order; with no children it yields one generic record
// over its own span.
func Translate(src string, errs []*parser.ParseError) []Diagnostic {
	var out []Diagnostic
	for _, e := range errs {
		out = translate(src, e, out)
	}
	return out
}

func translate(src string, e *parser.ParseError, out []Diagnostic) []Diagnostic {
	span := clamp(src, e.Start, e.End)
	switch e.Reason {
	case parser.ReasonMissingToken:
		out = append(out, Diagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Missing token: %q", e.Token),
			Code:     CodeSyntax,
			Span:     span,
			Label:    fmt.Sprintf("missing %q", e.Token),
		})
	case parser.ReasonUnexpectedToken:
		out = append(out, Diagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("Unexpected token: %q", e.Token),
			Code:     CodeSyntax,
			Span:     span,
			Label:    fmt.Sprintf("unexpected %q", e.Token),
		})
	case parser.ReasonFailedNode:
		if len(e.Children) == 0 {
			out = append(out, Diagnostic{
				Severity: SeverityError,
				Message:  "Failed to parse node",
				Code:     CodeSyntax,
				Span:     span,
				Label:    "failed",
			})
			return out
		}
		for _, c := range e.Children {
			out = translate(src, c, out)
		}
	}
	return out
}

// clamp keeps a span inside [0, len(src)] with Start <= End, so a record is
// always safe to slice with even if a producer misbehaves.
func clamp(src string, start, end int) Span {
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if end < start {
		end = start
	}
	return Span{Start: start, End: end}
}
