package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifierWithAlias(t *testing.T) {
	stmt, err := Parse("SELECT * FROM orders o")
	require.NoError(t, err)

	var found *Identifier
	for _, n := range stmt.Nodes {
		if ident, ok := n.(*Identifier); ok && ident.Name == "orders" {
			found = ident
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "o", found.Alias)
	assert.Equal(t, "orders", found.RealName())
}

func TestParseDottedName(t *testing.T) {
	stmt, err := Parse("SELECT * FROM public.Orders")
	require.NoError(t, err)

	var found *Identifier
	for _, n := range stmt.Nodes {
		if ident, ok := n.(*Identifier); ok && ident.Qualified == "public.orders" {
			found = ident
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "orders", found.Name)
}

func TestParseFunctionCallIsOpaque(t *testing.T) {
	stmt, err := Parse(`SELECT EXTRACT(DOW FROM "dateTime"::timestamp) FROM orders`)
	require.NoError(t, err)

	var fn *FuncCall
	for _, n := range stmt.Nodes {
		if f, ok := n.(*FuncCall); ok {
			fn = f
		}
	}
	require.NotNil(t, fn)
	assert.Equal(t, "extract", fn.Name)
	assert.True(t, fn.Opaque())
}

func TestParseSubqueryWithAlias(t *testing.T) {
	stmt, err := Parse("SELECT * FROM (SELECT * FROM orders) AS o")
	require.NoError(t, err)

	var found *Identifier
	for _, n := range stmt.Nodes {
		if ident, ok := n.(*Identifier); ok && ident.Inner != nil {
			found = ident
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "o", found.Alias)
	assert.Empty(t, found.RealName())
	assert.True(t, found.Inner.IsSubquery())
	assert.False(t, found.Inner.Opaque())
}

func TestParseBareParensAreOpaque(t *testing.T) {
	stmt, err := Parse("SELECT (1 + 2) FROM orders")
	require.NoError(t, err)

	var grp *Group
	for _, n := range stmt.Nodes {
		if g, ok := n.(*Group); ok {
			grp = g
		}
	}
	require.NotNil(t, grp)
	assert.False(t, grp.IsSubquery())
	assert.True(t, grp.Opaque())
}

func TestParseCommaListAfterFrom(t *testing.T) {
	stmt, err := Parse("SELECT * FROM a, b c, d")
	require.NoError(t, err)

	var list *IdentifierList
	for _, n := range stmt.Nodes {
		if l, ok := n.(*IdentifierList); ok {
			list = l
		}
	}
	require.NotNil(t, list)
	require.Len(t, list.Items, 3)
	assert.Equal(t, "a", list.Items[0].Name)
	assert.Equal(t, "b", list.Items[1].Name)
	assert.Equal(t, "c", list.Items[1].Alias)
	assert.Equal(t, "d", list.Items[2].Name)
}

func TestParseUnbalancedParens(t *testing.T) {
	_, err := Parse("SELECT * FROM (SELECT * FROM orders")
	require.Error(t, err)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)

	_, err = Parse("SELECT 1)")
	assert.Error(t, err)
}

func TestParseIllegalCharacter(t *testing.T) {
	_, err := Parse("SELECT @@@")
	require.Error(t, err)
	var lerr *LexError
	assert.ErrorAs(t, err, &lerr)
}

func TestParseCollectsComments(t *testing.T) {
	stmt, err := Parse("SELECT 1 -- note")
	require.NoError(t, err)
	require.Len(t, stmt.Comments, 1)
	assert.Equal(t, "-- note", stmt.Comments[0].Text)
}

func TestParseWithGroupIsSubquery(t *testing.T) {
	stmt, err := Parse("SELECT * FROM (WITH t AS (SELECT 1) SELECT * FROM t) x")
	require.NoError(t, err)

	var found *Identifier
	for _, n := range stmt.Nodes {
		if ident, ok := n.(*Identifier); ok && ident.Inner != nil {
			found = ident
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.Inner.IsSubquery())
}
