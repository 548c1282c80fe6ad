package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordsCoverSpecKeywordSet(t *testing.T) {
	want := []string{
		"and", "class", "else", "false", "for", "fun", "if", "nil",
		"or", "print", "return", "super", "this", "true", "var", "while",
	}
	for _, lexeme := range want {
		_, ok := Keywords[lexeme]
		assert.Truef(t, ok, "expected %q to be a keyword", lexeme)
	}
	assert.Len(t, Keywords, len(want))
}

func TestTokenIsIgnoresPayload(t *testing.T) {
	a := NewLiteral(IDENTIFIER, "foo", nil, Span{})
	b := NewLiteral(IDENTIFIER, "bar", nil, Span{})
	assert.True(t, a.Is(IDENTIFIER))
	assert.True(t, b.Is(IDENTIFIER))
	assert.Equal(t, a.Type, b.Type)
}

func TestNewLiteralCarriesLiteralValue(t *testing.T) {
	tok := NewLiteral(NUMBER, "1.5", 1.5, Span{})
	assert.Equal(t, 1.5, tok.Literal)
	assert.Equal(t, "1.5", tok.Lexeme)
}
