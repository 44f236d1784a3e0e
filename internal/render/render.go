// Package render turns diagnostics into human-readable terminal output,
// anchored to the source line that produced them. It is a consumer of the
// structured records from internal/diagnostic; nothing in the parser core
// depends on it.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/mcncl/jsonlint/internal/diagnostic"
)

// ColorMode controls whether output is colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Renderer writes diagnostics with source context.
type Renderer struct {
	// Filename is the name shown in location anchors; "<stdin>" is a
	// reasonable value for piped input.
	Filename string
	// Max caps the number of diagnostics written; 0 means no cap.
	Max int

	severity *color.Color
	message  *color.Color
	gutter   *color.Color
	marker   *color.Color
}

// New returns a Renderer for the given file name and color mode.
func New(filename string, mode ColorMode) *Renderer {
	r := &Renderer{
		Filename: filename,
		severity: color.New(color.FgRed, color.Bold),
		message:  color.New(color.Bold),
		gutter:   color.New(color.FgBlue),
		marker:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{r.severity, r.message, r.gutter, r.marker} {
		switch mode {
		case ColorAlways:
			c.EnableColor()
		case ColorNever:
			c.DisableColor()
		}
	}
	return r
}

// Render writes every diagnostic to w, each with its location anchor, the
// source line it falls on, and a caret marker under the span.
func (r *Renderer) Render(w io.Writer, src string, diags []diagnostic.Diagnostic) {
	idx := NewLineIndex(src)
	n := len(diags)
	if r.Max > 0 && n > r.Max {
		n = r.Max
	}
	for i := 0; i < n; i++ {
		r.renderOne(w, idx, diags[i])
	}
	if n < len(diags) {
		fmt.Fprintf(w, "... and %d more\n", len(diags)-n)
	}
}

func (r *Renderer) renderOne(w io.Writer, idx *LineIndex, d diagnostic.Diagnostic) {
	line, col := idx.Position(d.Span.Start)
	head := r.severity.Sprintf("%s[%s]", d.Severity, d.Code)
	fmt.Fprintf(w, "%s: %s\n", head, r.message.Sprint(d.Message))
	fmt.Fprintf(w, "%s %s:%d:%d\n", r.gutter.Sprint(" -->"), r.Filename, line, col)

	text := idx.LineText(line)
	num := fmt.Sprintf("%d", line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, "%s\n", r.gutter.Sprintf("%s |", pad))
	fmt.Fprintf(w, "%s %s\n", r.gutter.Sprintf("%s |", num), text)

	// The caret row lines up in runes with the text above. A zero-width
	// span (a missing token) still gets one caret.
	width := idx.runeWidth(d.Span.Start, d.Span.End, line)
	if width < 1 {
		width = 1
	}
	indent := strings.Repeat(" ", col-1)
	carets := r.marker.Sprint(strings.Repeat("^", width))
	fmt.Fprintf(w, "%s %s%s %s\n", r.gutter.Sprintf("%s |", pad), indent, carets, r.marker.Sprint(d.Label))
}

// LineIndex maps byte offsets in one source text to 1-based line and column
// numbers. Columns count runes, so a multi-byte character occupies a single
// column.
type LineIndex struct {
	src string
	// starts[i] is the byte offset of the first byte of line i+1.
	starts []int
}

// NewLineIndex scans src once and records where each line begins.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{src: src, starts: starts}
}

// Position returns the 1-based line and rune column of a byte offset. An
// offset at or past the end of the source maps to the position just after
// the last character.
func (ix *LineIndex) Position(offset int) (line, col int) {
	if offset > len(ix.src) {
		offset = len(ix.src)
	}
	if offset < 0 {
		offset = 0
	}
	line = sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset })
	start := ix.starts[line-1]
	return line, utf8.RuneCountInString(ix.src[start:offset]) + 1
}

// LineText returns the text of a 1-based line without its line terminator.
func (ix *LineIndex) LineText(line int) string {
	return ix.src[ix.starts[line-1]:ix.lineEnd(line)]
}

// lineEnd returns the byte offset just past the last character of a 1-based
// line, excluding the newline and any carriage return before it.
func (ix *LineIndex) lineEnd(line int) int {
	if line >= len(ix.starts) {
		return len(ix.src)
	}
	end := ix.starts[line] - 1
	if end > ix.starts[line-1] && ix.src[end-1] == '\r' {
		end--
	}
	return end
}

// runeWidth counts the runes covered by [start, end), cut off at the end of
// the span's first line.
func (ix *LineIndex) runeWidth(start, end, line int) int {
	if le := ix.lineEnd(line); end > le {
		end = le
	}
	if end <= start {
		return 0
	}
	return utf8.RuneCountInString(ix.src[start:end])
}
