package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/queryguard/pkg/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `SELECT "name", count(*) FROM orders WHERE id >= 10;`

	expected := []struct {
		typ token.TokenType
		lit string
	}{
		{token.SELECT, "SELECT"},
		{token.IDENT, "name"},
		{token.COMMA, ","},
		{token.IDENT, "count"},
		{token.LPAREN, "("},
		{token.STAR, "*"},
		{token.RPAREN, ")"},
		{token.FROM, "FROM"},
		{token.IDENT, "orders"},
		{token.WHERE, "WHERE"},
		{token.IDENT, "id"},
		{token.GE, ">="},
		{token.NUMBER, "10"},
		{token.SEMI, ";"},
		{token.EOF, ""},
	}

	toks := Tokenize(input)
	require.Len(t, toks, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp.typ, toks[i].Type, "token %d type", i)
		assert.Equal(t, exp.lit, toks[i].Literal, "token %d literal", i)
	}
}

func TestLexerQuotedIdentifier(t *testing.T) {
	toks := Tokenize(`SELECT "dateTime" FROM t`)

	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.IDENT, toks[1].Type)
	assert.Equal(t, "dateTime", toks[1].Literal)
	assert.True(t, toks[1].Quoted)
}

func TestLexerQuotedIdentifierEscape(t *testing.T) {
	toks := Tokenize(`"col""name"`)
	assert.Equal(t, `col"name`, toks[0].Literal)
}

func TestLexerStringLiteral(t *testing.T) {
	toks := Tokenize(`SELECT 'it''s here'`)

	assert.Equal(t, token.STRING, toks[1].Type)
	assert.Equal(t, "it's here", toks[1].Literal)
}

func TestLexerCastOperator(t *testing.T) {
	toks := Tokenize(`"dateTime"::timestamp`)

	require.Len(t, toks, 4)
	assert.Equal(t, token.DCOLON, toks[1].Type)
	assert.Equal(t, token.IDENT, toks[2].Type)
	assert.Equal(t, "timestamp", toks[2].Literal)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"1e10", "1e10"},
		{"2.5e-3", "2.5e-3"},
	}

	for _, tt := range tests {
		toks := Tokenize(tt.input)
		assert.Equal(t, token.NUMBER, toks[0].Type, tt.input)
		assert.Equal(t, tt.want, toks[0].Literal, tt.input)
	}
}

func TestLexerCollectsComments(t *testing.T) {
	lx := NewLexer("SELECT 1 -- trailing\n/* block */ FROM t")
	for {
		if lx.NextToken().Type == token.EOF {
			break
		}
	}

	require.Len(t, lx.Comments, 2)
	assert.Equal(t, token.LineComment, lx.Comments[0].Kind)
	assert.Equal(t, "-- trailing", lx.Comments[0].Text)
	assert.Equal(t, token.BlockComment, lx.Comments[1].Kind)
	assert.Equal(t, "/* block */", lx.Comments[1].Text)
}

func TestLexerKeywordCaseInsensitive(t *testing.T) {
	toks := Tokenize("select From jOiN")
	assert.Equal(t, token.SELECT, toks[0].Type)
	assert.Equal(t, token.FROM, toks[1].Type)
	assert.Equal(t, token.JOIN, toks[2].Type)
}

func TestLexerIllegalCharacter(t *testing.T) {
	toks := Tokenize("SELECT @")
	assert.Equal(t, token.ILLEGAL, toks[1].Type)
}

func TestLexerPositions(t *testing.T) {
	toks := Tokenize("SELECT\n  id")

	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 2, toks[1].Pos.Line)
	assert.Equal(t, 3, toks[1].Pos.Column)
}
