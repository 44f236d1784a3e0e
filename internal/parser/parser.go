// Package parser turns JSON source text into an ast.Value tree, or into a
// tree of ParseErrors whose byte spans point back into the source.
//
// The grammar is recognized by recursive descent over an explicit byte
// cursor. Whitespace may appear between any two tokens. Parsing is a pure
// function of the input: no state is shared between calls and the same text
// always produces structurally identical results.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/jsonlint/internal/ast"
	"github.com/mcncl/jsonlint/internal/escape"
)

// Reason classifies a ParseError node.
type Reason int

const (
	// ReasonMissingToken means a specific fixed terminal was expected at
	// the span and not found.
	ReasonMissingToken Reason = iota
	// ReasonUnexpectedToken means the text at the span does not start any
	// production that was valid there.
	ReasonUnexpectedToken
	// ReasonFailedNode means a larger production failed because of its
	// children; with no children it is an opaque failure at its own span.
	ReasonFailedNode
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonMissingToken:
		return "missing token"
	case ReasonUnexpectedToken:
		return "unexpected token"
	case ReasonFailedNode:
		return "failed node"
	}
	return "unknown"
}

// ParseError is one node of a parse failure tree. Start and End are byte
// offsets into the original source, half-open, with Start <= End and both
// within [0, len(source)]. A node owns its Children outright; the tree has
// no cycles and no back-references.
type ParseError struct {
	Start  int
	End    int
	Reason Reason

	// Token is the expected terminal for ReasonMissingToken and the found
	// text for ReasonUnexpectedToken. Unused for ReasonFailedNode.
	Token string

	// Children holds the sub-failures of a ReasonFailedNode.
	Children []*ParseError
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Reason {
	case ReasonMissingToken:
		return fmt.Sprintf("%d..%d: missing token %q", e.Start, e.End, e.Token)
	case ReasonUnexpectedToken:
		return fmt.Sprintf("%d..%d: unexpected token %q", e.Start, e.End, e.Token)
	default:
		return fmt.Sprintf("%d..%d: failed to parse node", e.Start, e.End)
	}
}

// Options selects grammar variants.
type Options struct {
	// AllowUndefined accepts the literal "undefined" as a value, producing
	// ast.Undefined. Off, "undefined" is an unexpected token like any
	// other non-JSON word.
	AllowUndefined bool
}

// DefaultOptions returns the options used by Parse.
func DefaultOptions() Options {
	return Options{AllowUndefined: true}
}

// Parse parses src with DefaultOptions.
func Parse(src string) (ast.Value, []*ParseError) {
	return ParseWithOptions(src, DefaultOptions())
}

// ParseWithOptions parses a single JSON value from src. On success the
// returned error slice is nil; on failure the value is nil and the slice
// holds at least one root error tree. The two outcomes are mutually
// exclusive: a failed parse never returns a partial value.
func ParseWithOptions(src string, opts Options) (ast.Value, []*ParseError) {
	p := &parser{src: src, opts: opts}
	v, err := p.parseValue()
	if err != nil {
		return nil, []*ParseError{err}
	}
	p.skipWhitespace()
	if p.pos < len(p.src) {
		// A complete value followed by anything but whitespace fails the
		// whole parse; the value is discarded.
		tok, end := p.peekToken()
		return nil, []*ParseError{{Start: p.pos, End: end, Reason: ReasonUnexpectedToken, Token: tok}}
	}
	return v, nil
}

type parser struct {
	src  string
	pos  int
	opts Options
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

// peekToken returns the found-text for an unexpected-token report: a run of
// word characters when the cursor sits on one, otherwise the single rune at
// the cursor. It does not advance the cursor.
func (p *parser) peekToken() (tok string, end int) {
	if p.pos >= len(p.src) {
		return "", p.pos
	}
	end = p.pos
	for end < len(p.src) && isWordByte(p.src[end]) {
		end++
	}
	if end > p.pos {
		return p.src[p.pos:end], end
	}
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	return p.src[p.pos : p.pos+size], p.pos + size
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func (p *parser) missing(token string, at int) *ParseError {
	return &ParseError{Start: at, End: at, Reason: ReasonMissingToken, Token: token}
}

func (p *parser) unexpectedHere() *ParseError {
	tok, end := p.peekToken()
	return &ParseError{Start: p.pos, End: end, Reason: ReasonUnexpectedToken, Token: tok}
}

// failed wraps a sub-failure in a FailedNode spanning from the start of the
// enclosing production to the end of the inner error. The inner span is
// preserved untouched.
func failed(start int, child *ParseError) *ParseError {
	return &ParseError{Start: start, End: child.End, Reason: ReasonFailedNode, Children: []*ParseError{child}}
}

// opaque is a FailedNode with no children: a non-decomposable failure over
// the given span.
func opaque(start, end int) *ParseError {
	return &ParseError{Start: start, End: end, Reason: ReasonFailedNode}
}

func (p *parser) parseValue() (ast.Value, *ParseError) {
	p.skipWhitespace()
	if p.pos >= len(p.src) {
		return nil, p.missing("value", p.pos)
	}
	switch c := p.src[p.pos]; {
	case c == 'n':
		return p.parseKeyword("null", ast.Null{})
	case c == 't':
		return p.parseKeyword("true", ast.Bool(true))
	case c == 'f':
		return p.parseKeyword("false", ast.Bool(false))
	case c == 'u' && p.opts.AllowUndefined:
		return p.parseKeyword("undefined", ast.Undefined{})
	case c == '"':
		return p.parseString()
	case c >= '0' && c <= '9':
		return p.parseNumber()
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseObject()
	default:
		return nil, p.unexpectedHere()
	}
}

// parseKeyword consumes word exactly. A longer run of word characters (for
// example "nullx") is reported whole as the unexpected token.
func (p *parser) parseKeyword(word string, v ast.Value) (ast.Value, *ParseError) {
	tok, end := p.peekToken()
	if tok != word {
		return nil, &ParseError{Start: p.pos, End: end, Reason: ReasonUnexpectedToken, Token: tok}
	}
	p.pos = end
	return v, nil
}

// parseString consumes a quoted string literal and decodes its escapes. A
// body whose escapes fail to decode turns the whole literal into an opaque
// FailedNode; an unterminated literal is a missing closing quote at the end
// of the input.
func (p *parser) parseString() (ast.Value, *ParseError) {
	start := p.pos
	i := p.pos + 1
	for i < len(p.src) {
		switch p.src[i] {
		case '\\':
			i += 2
		case '"':
			body := p.src[p.pos+1 : i]
			decoded, err := escape.Decode(body)
			if err != nil {
				return nil, opaque(start, i+1)
			}
			p.pos = i + 1
			return ast.String(decoded), nil
		default:
			i++
		}
	}
	return nil, p.missing(`"`, len(p.src))
}

// parseNumber consumes the longest valid number prefix: digits, an optional
// fraction, and an exponent only when at least one digit follows the
// marker. For "123e" the number is "123" and the trailing "e" is left for
// the surrounding grammar to reject.
func (p *parser) parseNumber() (ast.Value, *ParseError) {
	start := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		j := p.pos + 1
		for j < len(p.src) && isDigit(p.src[j]) {
			j++
		}
		if j > p.pos+1 {
			p.pos = j
		}
	}
	text := p.src[start:p.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, opaque(start, p.pos)
	}
	return ast.Number(f), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseArray consumes '[' value (',' value)* ']'. The element list may be
// empty; a separator before the closing bracket is not allowed.
func (p *parser) parseArray() (ast.Value, *ParseError) {
	start := p.pos
	p.pos++
	p.skipWhitespace()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
		return ast.Array{}, nil
	}
	arr := ast.Array{}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, failed(start, err)
		}
		arr = append(arr, v)
		p.skipWhitespace()
		if p.pos >= len(p.src) {
			return nil, failed(start, p.missing("]", p.pos))
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, failed(start, p.unexpectedHere())
		}
	}
}

// parseObject consumes '{' property (',' property)* '}', with the same
// delimiter rules as parseArray. Duplicate property names are kept as
// separate members in source order.
func (p *parser) parseObject() (ast.Value, *ParseError) {
	start := p.pos
	p.pos++
	p.skipWhitespace()
	if p.pos < len(p.src) && p.src[p.pos] == '}' {
		p.pos++
		return ast.Object{}, nil
	}
	obj := ast.Object{}
	for {
		m, err := p.parseMember()
		if err != nil {
			return nil, failed(start, err)
		}
		obj = append(obj, m)
		p.skipWhitespace()
		if p.pos >= len(p.src) {
			return nil, failed(start, p.missing("}", p.pos))
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, failed(start, p.unexpectedHere())
		}
	}
}

// parseMember consumes one string ':' value property. Failures propagate
// without an extra wrapper; the enclosing object adds the FailedNode.
func (p *parser) parseMember() (ast.Member, *ParseError) {
	p.skipWhitespace()
	if p.pos >= len(p.src) {
		return ast.Member{}, p.missing(`"`, p.pos)
	}
	if p.src[p.pos] != '"' {
		return ast.Member{}, p.unexpectedHere()
	}
	name, err := p.parseString()
	if err != nil {
		return ast.Member{}, err
	}
	p.skipWhitespace()
	if p.pos >= len(p.src) || p.src[p.pos] != ':' {
		return ast.Member{}, p.missing(":", p.pos)
	}
	p.pos++
	v, err := p.parseValue()
	if err != nil {
		return ast.Member{}, err
	}
	return ast.Member{Name: string(name.(ast.String)), Value: v}, nil
}

// Summary returns a compact single-line rendering of an error tree, used by
// debug output.
func Summary(errs []*ParseError) string {
	var b strings.Builder
	var walk func(e *ParseError)
	walk = func(e *ParseError) {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Error())
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, e := range errs {
		walk(e)
	}
	return b.String()
}
