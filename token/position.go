package token

import "fmt"

// Position is a 1-indexed line/column location in source text.
type Position struct {
	Line   uint32
	Column uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers the exact character range a token (or a spanned AST node)
// occupies in the source. Start is inclusive, End is exclusive.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
