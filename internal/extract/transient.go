package extract

import (
	"strings"

	"github.com/veldt-labs/queryguard/pkg/parser"
	"github.com/veldt-labs/queryguard/pkg/token"
)

// TransientNames returns the names a query introduces itself: CTE names and
// subquery aliases, lowercase-normalized. These are never schema tables and
// are subtracted from the extractor's output before membership checking.
func TransientNames(sql string, stmt *parser.Statement) map[string]struct{} {
	names := CTENames(sql)
	for alias := range SubqueryAliases(stmt) {
		names[alias] = struct{}{}
	}
	return names
}

// CTENames scans the raw token stream for identifiers immediately followed
// by "AS (". This intentionally also catches non-CTE constructs shaped like
// "f(...) AS x(id)"; treating such names as transient is the conservative
// choice since they are never real schema tables either.
func CTENames(sql string) map[string]struct{} {
	names := make(map[string]struct{})

	toks := parser.Tokenize(sql)
	for i := 0; i+2 < len(toks); i++ {
		if toks[i].Type == token.IDENT &&
			toks[i+1].Type == token.AS &&
			toks[i+2].Type == token.LPAREN {
			names[strings.ToLower(toks[i].Literal)] = struct{}{}
		}
	}
	return names
}

// SubqueryAliases walks the tree for identifiers that carry an alias and
// whose real name is empty, i.e. the aliased thing is a parenthesized
// subquery rather than a plain table name. The alias is recorded, not the
// inner query.
func SubqueryAliases(stmt *parser.Statement) map[string]struct{} {
	aliases := make(map[string]struct{})
	collectAliases(stmt.Nodes, aliases)
	return aliases
}

func collectAliases(nodes []parser.Node, aliases map[string]struct{}) {
	for _, node := range nodes {
		if node.Opaque() {
			continue
		}

		switch n := node.(type) {
		case *parser.Identifier:
			collectIdentAlias(n, aliases)
		case *parser.IdentifierList:
			for _, item := range n.Items {
				collectIdentAlias(item, aliases)
			}
		case *parser.Group:
			collectAliases(n.Nodes, aliases)
		}
	}
}

func collectIdentAlias(ident *parser.Identifier, aliases map[string]struct{}) {
	if ident.Alias != "" && ident.RealName() == "" {
		aliases[ident.Alias] = struct{}{}
	}
	if ident.Inner != nil && !ident.Inner.Opaque() {
		collectAliases(ident.Inner.Nodes, aliases)
	}
}
