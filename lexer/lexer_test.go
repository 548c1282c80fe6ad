package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/token"
)

func kinds(tokens []token.Token) []token.Type {
	out := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestScanOperators(t *testing.T) {
	tokens, err := New("== = ==").Scan()
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.EQUAL_EQUAL, token.EQUAL, token.EQUAL_EQUAL, token.EOF,
	}, kinds(tokens))
}

func TestScanPunctuationAndTwoCharOperators(t *testing.T) {
	tokens, err := New("(){}**;+!=<=").Scan()
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.STAR, token.STAR, token.SEMICOLON, token.PLUS,
		token.BANG_EQUAL, token.LESS_EQUAL, token.EOF,
	}, kinds(tokens))
}

func TestTrailingDotNumber(t *testing.T) {
	tokens, err := New("99.").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, token.NUMBER, tokens[0].Type)
	assert.Equal(t, 99.0, tokens[0].Literal)
	assert.Equal(t, token.DOT, tokens[1].Type)
	assert.Equal(t, token.EOF, tokens[2].Type)
}

func TestFloatLiteral(t *testing.T) {
	tokens, err := New("12.34").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, 12.34, tokens[0].Literal)
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	tokens, err := New("var x2 = fun").Scan()
	require.NoError(t, err)
	assert.Equal(t, []token.Type{
		token.VAR, token.IDENTIFIER, token.EQUAL, token.FUN, token.EOF,
	}, kinds(tokens))
	assert.Equal(t, "x2", tokens[1].Literal)
}

func TestStringLiteralAllowsEmbeddedNewline(t *testing.T) {
	tokens, err := New("\"a\nb\"").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, token.STRING, tokens[0].Type)
	assert.Equal(t, "a\nb", tokens[0].Literal)
}

func TestUnterminatedStringIsFatal(t *testing.T) {
	_, err := New(`"unterminated`).Scan()
	require.Error(t, err)
	var lexErr LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestLineCommentIsDiscarded(t *testing.T) {
	tokens, err := New("1 // comment\n2").Scan()
	require.NoError(t, err)
	assert.Equal(t, []token.Type{token.NUMBER, token.NUMBER, token.EOF}, kinds(tokens))
}

func TestUnexpectedCharacterIsFatal(t *testing.T) {
	_, err := New("@").Scan()
	require.Error(t, err)
	var lexErr LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestSpansCoverExactCharacterRange(t *testing.T) {
	tokens, err := New("foo").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	span := tokens[0].Span
	assert.Equal(t, token.Position{Line: 1, Column: 1}, span.Start)
	assert.Equal(t, token.Position{Line: 1, Column: 4}, span.End)
}

func TestLineCounterIncrementsOnNewline(t *testing.T) {
	tokens, err := New("1\n2").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, uint32(1), tokens[0].Span.Start.Line)
	assert.Equal(t, uint32(2), tokens[1].Span.Start.Line)
}
