// Package escape decodes the backslash escapes of a JSON string body.
//
// Decoding works over UTF-16 code units: every character, escaped or
// literal, is appended to a code-unit buffer, and the buffer is reassembled
// into text at the end. That is what lets a \uXXXX surrogate pair written as
// two separate escapes combine into one supplementary-plane code point.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

var (
	// ErrUnfinishedEscape reports an escape sequence that was introduced
	// but not completed before the end of the input.
	ErrUnfinishedEscape = errors.New("unfinished escape sequence")

	// ErrInvalidUnicode reports a UTF-16 code-unit sequence that could not
	// be reassembled into text, such as an unpaired surrogate.
	ErrInvalidUnicode = errors.New("invalid unicode escape")
)

// Decode converts the interior of a quoted string literal (quotes already
// stripped) into its decoded text.
//
// Simple escapes map to their usual characters; \uXXXX contributes one
// UTF-16 code unit. An escape left incomplete at the end of the input fails
// with ErrUnfinishedEscape; a code-unit sequence with unpaired surrogates
// fails with ErrInvalidUnicode. An escaped character outside the standard
// set passes through unchanged.
func Decode(body string) (string, error) {
	var units []uint16
	pending := false // a backslash was seen, the next character completes it
	unicodeMode := false
	var encoded uint16
	hexSeen := 0

	for _, r := range body {
		switch {
		case unicodeMode:
			d, ok := hexDigit(r)
			if !ok {
				return "", fmt.Errorf("%w: expected hex digit, found %q", ErrUnfinishedEscape, r)
			}
			encoded = encoded*16 + d
			hexSeen++
			if hexSeen == 4 {
				units = append(units, encoded)
				unicodeMode = false
			}

		case pending:
			pending = false
			if r == 'u' {
				unicodeMode = true
				encoded = 0
				hexSeen = 0
				continue
			}
			units = utf16.AppendRune(units, simpleEscape(r))

		case r == '\\':
			pending = true

		default:
			units = utf16.AppendRune(units, r)
		}
	}

	if pending || unicodeMode {
		return "", ErrUnfinishedEscape
	}

	return assemble(units)
}

// simpleEscape maps the character following a backslash to the character it
// denotes. Unknown escapes decode to the character itself.
func simpleEscape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case '\'', '"', '\\', '/':
		return r
	default:
		return r
	}
}

func hexDigit(r rune) (uint16, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint16(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint16(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint16(r-'A') + 10, true
	}
	return 0, false
}

// assemble validates surrogate pairing and decodes the code units. The
// validation is explicit because utf16.Decode substitutes U+FFFD for broken
// pairs instead of failing.
func assemble(units []uint16) (string, error) {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF:
			// High surrogate: the next unit must be its low half.
			if i+1 >= len(units) {
				return "", fmt.Errorf("%w: unpaired high surrogate %04X", ErrInvalidUnicode, u)
			}
			next := units[i+1]
			if next < 0xDC00 || next > 0xDFFF {
				return "", fmt.Errorf("%w: high surrogate %04X followed by %04X", ErrInvalidUnicode, u, next)
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return "", fmt.Errorf("%w: unpaired low surrogate %04X", ErrInvalidUnicode, u)
		}
	}
	return string(utf16.Decode(units)), nil
}
