// Package parser provides SQL tokenization and a grouped token tree used for
// table reference extraction and query safety validation.
//
// The parser does not build a full AST. It groups a flat token stream into
// the node shapes the validator cares about: keywords, identifiers with
// aliases, function calls, and parenthesized groups. Function calls and bare
// parenthesized expressions are opaque leaves (see Node.Opaque).
package parser

import (
	"strings"

	"github.com/veldt-labs/queryguard/pkg/token"
)

// Parse tokenizes and groups a SQL statement.
// It returns a *LexError for unscannable input and a *ParseError for
// unbalanced parentheses.
func Parse(input string) (*Statement, error) {
	lx := NewLexer(input)
	var toks []Token
	for {
		tok := lx.NextToken()
		if tok.Type == token.ILLEGAL {
			return nil, &LexError{Pos: tok.Pos, Message: "illegal character '" + tok.Literal + "'"}
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	g := &grouper{toks: toks}
	nodes, err := g.group(false)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Nodes:    structure(nodes),
		Comments: lx.Comments,
	}, nil
}

// grouper folds parenthesized token runs into Group nodes.
type grouper struct {
	toks []Token
	pos  int
}

func (g *grouper) next() Token {
	tok := g.toks[g.pos]
	if tok.Type != token.EOF {
		g.pos++
	}
	return tok
}

// group collects nodes until EOF, or until the matching RPAREN when
// insideParen is true.
func (g *grouper) group(insideParen bool) ([]Node, error) {
	var nodes []Node
	for {
		tok := g.next()
		switch tok.Type {
		case token.EOF:
			if insideParen {
				return nil, &ParseError{Pos: tok.Pos, Message: "unexpected end of input, expected )"}
			}
			return nodes, nil
		case token.LPAREN:
			inner, err := g.group(true)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &Group{Nodes: inner, pos: tok.Pos})
		case token.RPAREN:
			if !insideParen {
				return nil, &ParseError{Pos: tok.Pos, Message: "unexpected token )"}
			}
			return nodes, nil
		default:
			nodes = append(nodes, &TokenNode{Tok: tok})
		}
	}
}

// structure rewrites a flat node slice into identifiers, function calls, and
// identifier lists. Groups are structured recursively.
func structure(nodes []Node) []Node {
	nodes = buildIdentifiers(nodes)
	nodes = mergeIdentifierLists(nodes)
	return nodes
}

// buildIdentifiers merges IDENT (DOT IDENT)* runs into Identifier nodes,
// converts identifier+group pairs into FuncCall nodes, and attaches aliases.
func buildIdentifiers(nodes []Node) []Node {
	var out []Node
	i := 0
	for i < len(nodes) {
		switch n := nodes[i].(type) {
		case *TokenNode:
			if n.Tok.Type == token.IDENT {
				ident, consumed := readDottedName(nodes[i:])
				i += consumed

				// Identifier directly followed by a group is a function call.
				if i < len(nodes) {
					if grp, ok := nodes[i].(*Group); ok {
						out = append(out, &FuncCall{
							Name: ident.Qualified,
							Args: &Group{Nodes: structure(grp.Nodes), pos: grp.pos},
							pos:  ident.pos,
						})
						i++
						continue
					}
				}

				alias, consumed := readAlias(nodes[i:])
				ident.Alias = alias
				i += consumed
				out = append(out, ident)
				continue
			}
			out = append(out, n)
			i++

		case *Group:
			grp := &Group{Nodes: structure(n.Nodes), pos: n.pos}
			alias, consumed := readAlias(nodes[i+1:])
			if alias != "" {
				out = append(out, &Identifier{
					Alias: alias,
					Inner: grp,
					pos:   grp.pos,
				})
				i += 1 + consumed
				continue
			}
			out = append(out, grp)
			i++

		default:
			out = append(out, nodes[i])
			i++
		}
	}
	return out
}

// readDottedName reads IDENT (DOT IDENT)* starting at nodes[0], which must be
// an IDENT token node. It returns the identifier and the number of nodes
// consumed.
func readDottedName(nodes []Node) (*Identifier, int) {
	first := nodes[0].(*TokenNode)
	parts := []string{normalizeName(first.Tok.Literal)}
	consumed := 1

	for consumed+1 < len(nodes) {
		dot, ok := nodes[consumed].(*TokenNode)
		if !ok || dot.Tok.Type != token.DOT {
			break
		}
		part, ok := nodes[consumed+1].(*TokenNode)
		if !ok || part.Tok.Type != token.IDENT {
			break
		}
		parts = append(parts, normalizeName(part.Tok.Literal))
		consumed += 2
	}

	return &Identifier{
		Name:      parts[len(parts)-1],
		Qualified: strings.Join(parts, "."),
		pos:       first.Tok.Pos,
	}, consumed
}

// readAlias reads an optional [AS] IDENT alias from the start of nodes.
// It returns the lowercase alias (empty if none) and the nodes consumed.
func readAlias(nodes []Node) (string, int) {
	i := 0
	if i < len(nodes) {
		if tn, ok := nodes[i].(*TokenNode); ok && tn.Tok.Type == token.AS {
			i++
		}
	}
	if i < len(nodes) {
		if tn, ok := nodes[i].(*TokenNode); ok && tn.Tok.Type == token.IDENT {
			return normalizeName(tn.Tok.Literal), i + 1
		}
	}
	// A CTE's "AS (" has no plain identifier after AS; leave the tokens
	// in place for later passes.
	return "", 0
}

// mergeIdentifierLists folds Identifier (COMMA Identifier)+ runs into a
// single IdentifierList node.
func mergeIdentifierLists(nodes []Node) []Node {
	var out []Node
	i := 0
	for i < len(nodes) {
		ident, ok := nodes[i].(*Identifier)
		if !ok {
			out = append(out, nodes[i])
			i++
			continue
		}

		items := []*Identifier{ident}
		j := i + 1
		for j+1 < len(nodes) {
			comma, ok := nodes[j].(*TokenNode)
			if !ok || comma.Tok.Type != token.COMMA {
				break
			}
			next, ok := nodes[j+1].(*Identifier)
			if !ok {
				break
			}
			items = append(items, next)
			j += 2
		}

		if len(items) > 1 {
			out = append(out, &IdentifierList{Items: items, pos: ident.pos})
			i = j
			continue
		}
		out = append(out, ident)
		i++
	}
	return out
}
