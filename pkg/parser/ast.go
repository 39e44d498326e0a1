package parser

import (
	"strings"

	"github.com/veldt-labs/queryguard/pkg/token"
)

// TokenType is an alias for token.TokenType.
type TokenType = token.TokenType

// Token is an alias for token.Token.
type Token = token.Token

// Position is an alias for token.Position.
type Position = token.Position

// Node is a single node in the grouped token tree.
//
// Opaque reports whether a tree walk looking for table references must treat
// the node as a leaf. Function calls and bare parenthesized expressions are
// opaque: the FROM inside EXTRACT(DOW FROM col) is not a table clause.
// This is the single skip-vs-descend predicate for all visitors.
type Node interface {
	Opaque() bool
	Pos() Position
}

// TokenNode wraps a single ungrouped token (keyword, operator, or literal).
type TokenNode struct {
	Tok Token
}

// Opaque implements Node. Plain tokens have no children to descend into.
func (n *TokenNode) Opaque() bool { return false }

// Pos implements Node.
func (n *TokenNode) Pos() Position { return n.Tok.Pos }

// Is reports whether the wrapped token has one of the given types.
func (n *TokenNode) Is(types ...TokenType) bool {
	for _, t := range types {
		if n.Tok.Type == t {
			return true
		}
	}
	return false
}

// Identifier is a table-like reference: a (possibly dotted) name or a
// parenthesized subquery, with an optional alias.
type Identifier struct {
	Name      string // lowercase unquoted last path segment; empty when Inner != nil
	Qualified string // full dotted path, lowercase (e.g. "public.orders")
	Alias     string // lowercase alias, empty if none
	Inner     *Group // set when the aliased thing is a parenthesized group
	pos       Position
}

// Opaque implements Node. Identifiers themselves are traversable; whether the
// walk enters Inner is decided by the Group's own opacity.
func (n *Identifier) Opaque() bool { return false }

// Pos implements Node.
func (n *Identifier) Pos() Position { return n.pos }

// RealName returns the alias-stripped name the identifier refers to.
// For a plain table reference this is its own name; for an aliased
// subquery it is empty.
func (n *Identifier) RealName() string { return n.Name }

// IdentifierList is a comma-separated sequence of identifiers, as appears
// after FROM in "FROM a, b c, d".
type IdentifierList struct {
	Items []*Identifier
	pos   Position
}

// Opaque implements Node.
func (n *IdentifierList) Opaque() bool { return false }

// Pos implements Node.
func (n *IdentifierList) Pos() Position { return n.pos }

// FuncCall is a function invocation: an identifier directly followed by a
// parenthesized argument list.
type FuncCall struct {
	Name string // lowercase function name
	Args *Group // argument group, never descended into by table extraction
	pos  Position
}

// Opaque implements Node. Keywords inside argument lists (EXTRACT(x FROM y))
// never introduce table references.
func (n *FuncCall) Opaque() bool { return true }

// Pos implements Node.
func (n *FuncCall) Pos() Position { return n.pos }

// Group is a parenthesized token group.
type Group struct {
	Nodes []Node
	pos   Position
}

// Pos implements Node.
func (g *Group) Pos() Position { return g.pos }

// IsSubquery reports whether the group holds a SELECT (or WITH ... SELECT)
// statement rather than a bare expression.
func (g *Group) IsSubquery() bool {
	for _, n := range g.Nodes {
		tn, ok := n.(*TokenNode)
		if !ok {
			return false
		}
		switch tn.Tok.Type {
		case token.SELECT, token.WITH:
			return true
		default:
			return false
		}
	}
	return false
}

// Opaque implements Node. Subquery groups are traversed; bare parenthesized
// expressions used as scalar arguments are not.
func (g *Group) Opaque() bool { return !g.IsSubquery() }

// Statement is the root of a grouped token tree.
type Statement struct {
	Nodes    []Node
	Comments []*token.Comment
}

// Opaque implements Node.
func (s *Statement) Opaque() bool { return false }

// Pos implements Node.
func (s *Statement) Pos() Position {
	if len(s.Nodes) > 0 {
		return s.Nodes[0].Pos()
	}
	return Position{}
}

// normalizeName lowercases an identifier part. Quoted identifiers keep their
// characters but are still case-folded so membership checks are uniform.
func normalizeName(literal string) string {
	return strings.ToLower(literal)
}
