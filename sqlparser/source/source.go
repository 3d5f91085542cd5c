// Package source provides byte-offset spans into query text and the
// offset-to-line/column mapping used for diagnostics.
//
// A Span is a half-open byte interval [Start, End) relative to the UTF-8
// input. Spans are the only positional currency in the parser: tokens and
// errors carry them, AST nodes do not (structural equality ignores
// position, so position never belongs on a node).
package source

import (
	"fmt"
	"strings"
)

// Span is a half-open byte interval [Start, End) in the original input.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewSpan returns the span [start, end).
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Text returns the slice of src covered by the span, clamped to src bounds.
func (s Span) Text(src string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start >= end {
		return ""
	}
	return src[start:end]
}

// String renders the span as "[start,end)".
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Position is a 1-based line and column pair derived from a byte offset.
// Column counts bytes from the start of the line, matching how editors
// address ASCII-dominated query text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PositionAt computes the Position of byte offset off within src.
// Offsets past the end of src clamp to the final position.
func PositionAt(src string, off int) Position {
	if off < 0 {
		off = 0
	}
	if off > len(src) {
		off = len(src)
	}
	line := 1 + strings.Count(src[:off], "\n")
	lastNL := strings.LastIndex(src[:off], "\n")
	return Position{Line: line, Column: off - lastNL}
}

// StartPosition computes the position of the span's first byte.
func (s Span) StartPosition(src string) Position {
	return PositionAt(src, s.Start)
}

// Snippet renders the source line containing the span's start with a
// caret marker underneath, for terminal diagnostics:
//
//	SELECT FROM t
//	       ^^^^
//
// The marker covers the span where it fits on the line and collapses to
// a single caret for empty spans (such as end-of-input errors).
func Snippet(src string, span Span) string {
	start := span.Start
	if start < 0 {
		start = 0
	}
	if start > len(src) {
		start = len(src)
	}

	lineStart := strings.LastIndex(src[:start], "\n") + 1
	lineEnd := len(src)
	if nl := strings.Index(src[lineStart:], "\n"); nl >= 0 {
		lineEnd = lineStart + nl
	}
	line := src[lineStart:lineEnd]

	width := span.Len()
	if start+width > lineEnd {
		width = lineEnd - start
	}
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", start-lineStart))
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}
