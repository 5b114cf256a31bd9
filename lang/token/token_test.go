package token_test

import (
	"testing"

	"github.com/mna/bryony/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  token.Token
		want string
	}{
		{token.ILLEGAL, "illegal token"},
		{token.EOF, "end of file"},
		{token.NEWLINE, "newline"},
		{token.IDENT, "identifier"},
		{token.NUMBER, "number literal"},
		{token.STRING, "string literal"},
		{token.OP, "operator"},
		{token.LPAREN, "("},
		{token.LBRACE, "{"},
		{token.IF, "if"},
		{token.PROC, "proc"},
		{token.YIELD, "yield"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.tok.String())
	}
}

func TestTokenGoString(t *testing.T) {
	assert.Equal(t, "'('", token.LPAREN.GoString())
	assert.Equal(t, "if", token.IF.GoString())
}

func TestLookupKw(t *testing.T) {
	cases := []struct {
		lit  string
		want token.Token
	}{
		{"if", token.IF},
		{"elif", token.ELIF},
		{"proc", token.PROC},
		{"iterator", token.ITERATOR},
		{"yield", token.YIELD},
		{"var", token.VAR},
		{"let", token.LET},
		{"notakeyword", token.IDENT},
		{"", token.IDENT},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, token.LookupKw(c.lit), c.lit)
	}
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, token.IF.IsKeyword())
	assert.True(t, token.YIELD.IsKeyword())
	assert.False(t, token.IDENT.IsKeyword())
	assert.False(t, token.EOF.IsKeyword())
	assert.False(t, token.LPAREN.IsKeyword())
}

func TestHasLiteral(t *testing.T) {
	assert.True(t, token.IDENT.HasLiteral())
	assert.True(t, token.NUMBER.HasLiteral())
	assert.True(t, token.STRING.HasLiteral())
	assert.True(t, token.OP.HasLiteral())
	assert.False(t, token.LET.HasLiteral())
	assert.False(t, token.LPAREN.HasLiteral())
	assert.False(t, token.EOF.HasLiteral())
}

func TestPosString(t *testing.T) {
	p := token.Pos{File: "foo.bry", Line: 3, Col: 7}
	require.Equal(t, "foo.bry(3, 7)", p.String())
}

func TestPosUnknown(t *testing.T) {
	assert.True(t, token.Pos{}.Unknown())
	assert.True(t, token.Pos{File: "x", Line: 0, Col: 4}.Unknown())
	assert.False(t, token.Pos{File: "x", Line: 1, Col: 1}.Unknown())
}

func TestOperatorPrecedence(t *testing.T) {
	cases := []struct {
		lexeme string
		prec   int
		left   bool
	}{
		{"^", 10, false},
		{"*", 9, true},
		{"/", 9, true},
		{"%", 9, true},
		{"+", 8, true},
		{"-", 8, true},
		{"&", 7, true},
		{"..", 6, true},
		{"...", 6, true},
		{"==", 5, true},
		{"!=", 5, true},
		{"<", 5, true},
		{"<=", 5, true},
		{">", 5, true},
		{">=", 5, true},
		{"is", 5, true},
		{"in", 5, true},
		{"&&", 4, true},
		{"||", 3, true},
		{"@", 2, true},
		{":", 2, true},
		{"?", 2, true},
		{"+=", 1, true},
		{"-=", 1, true},
		{"*=", 1, true},
		{"->", 0, true},
		{"=>", 0, true},
		{"~>", 0, true},
	}
	for _, c := range cases {
		op := token.OperatorPrecedence(c.lexeme)
		assert.Equal(t, c.prec, op.Precedence, c.lexeme)
		assert.Equal(t, c.left, op.LeftAssoc, c.lexeme)
		assert.Equal(t, c.lexeme, op.Lexeme, c.lexeme)
	}
}

func TestIsReservedLexeme(t *testing.T) {
	assert.True(t, token.IsReservedLexeme("."))
	assert.True(t, token.IsReservedLexeme("="))
	assert.True(t, token.IsReservedLexeme(":"))
	assert.True(t, token.IsReservedLexeme("::"))
	assert.False(t, token.IsReservedLexeme("+"))
	assert.False(t, token.IsReservedLexeme(".."))
}
