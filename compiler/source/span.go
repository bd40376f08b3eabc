// Package source defines the position information threaded through every
// stage of the pipeline: tokens, AST nodes, and diagnostics all carry a
// Span so a failure can be pinned to the exact source text that caused it.
package source

import "fmt"

// Span is a closed source interval, 1-indexed on both line and column, plus
// the file it came from. Spans are never synthesized for inner nodes
// without at least one real source token backing them.
type Span struct {
	File       string
	StartLine  int
	StartCol   int
	EndLine    int
	EndCol     int
}

// Join returns the smallest span covering both a and b. Either side may be
// the zero Span, in which case the other side wins.
func (a Span) Join(b Span) Span {
	if a == (Span{}) {
		return b
	}
	if b == (Span{}) {
		return a
	}

	j := a
	j.File = a.File

	if b.StartLine < a.StartLine || (b.StartLine == a.StartLine && b.StartCol < a.StartCol) {
		j.StartLine, j.StartCol = b.StartLine, b.StartCol
	}

	if b.EndLine > a.EndLine || (b.EndLine == a.EndLine && b.EndCol > a.EndCol) {
		j.EndLine, j.EndCol = b.EndLine, b.EndCol
	}

	return j
}

func (s Span) String() string {
	if s.StartLine == s.EndLine && s.StartCol == s.EndCol {
		return fmt.Sprintf("%s:%d:%d", s.File, s.StartLine, s.StartCol)
	}

	return fmt.Sprintf("%s:%d:%d-%d:%d", s.File, s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}
