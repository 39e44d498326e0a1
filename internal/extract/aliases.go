package extract

import (
	"github.com/veldt-labs/queryguard/pkg/parser"
	"github.com/veldt-labs/queryguard/pkg/token"
)

// SelectAliases returns the aliases defined in the statement's SELECT
// clauses (SELECT expr AS name, ...). The feedback classifier uses these to
// tell "alias referenced in WHERE" apart from a genuinely missing column.
func SelectAliases(stmt *parser.Statement) map[string]struct{} {
	aliases := make(map[string]struct{})
	collectSelectAliases(stmt.Nodes, aliases)
	return aliases
}

func collectSelectAliases(nodes []parser.Node, aliases map[string]struct{}) {
	inSelect := false
	prevAS := false

	record := func(ident *parser.Identifier) {
		if !inSelect {
			return
		}
		if ident.Alias != "" {
			aliases[ident.Alias] = struct{}{}
		} else if prevAS && ident.Name != "" {
			// "expr AS name" where expr did not end in an identifier
			// (function call, CASE, parenthesized expression).
			aliases[ident.Name] = struct{}{}
		}
	}

	for _, node := range nodes {
		switch n := node.(type) {
		case *parser.TokenNode:
			switch n.Tok.Type {
			case token.SELECT:
				inSelect = true
			case token.FROM, token.WHERE, token.GROUP, token.ORDER, token.HAVING, token.LIMIT:
				inSelect = false
			}
			prevAS = n.Tok.Type == token.AS
			continue

		case *parser.Identifier:
			record(n)
			if n.Inner != nil && n.Inner.IsSubquery() {
				collectSelectAliases(n.Inner.Nodes, aliases)
			}

		case *parser.IdentifierList:
			for _, item := range n.Items {
				record(item)
				if item.Inner != nil && item.Inner.IsSubquery() {
					collectSelectAliases(item.Inner.Nodes, aliases)
				}
			}

		case *parser.Group:
			if n.IsSubquery() {
				collectSelectAliases(n.Nodes, aliases)
			}
		}
		prevAS = false
	}
}
