package parser

import (
	"fmt"

	"lumen/token"
)

// ParseError is a syntax error raised while building the AST: "Expected X
// got Y", "unexpected token: Y", or "Invalid assignment target" per
// spec.md §7. The parser is fatal-on-first-bad-token; it does not resync.
type ParseError struct {
	Message string
	Span    token.Span
}

func newParseError(span token.Span, format string, args ...any) ParseError {
	return ParseError{Message: fmt.Sprintf(format, args...), Span: span}
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Span.Start, e.Message)
}
