package extract

import (
	"sort"

	"github.com/veldt-labs/queryguard/pkg/parser"
	"github.com/veldt-labs/queryguard/pkg/token"
)

// SourceClass classifies where in the statement a table reference was found.
type SourceClass int

// Source position classes.
const (
	// TopLevel marks a reference in the outermost FROM/JOIN clause.
	TopLevel SourceClass = iota
	// Nested marks a reference found inside a parenthesized subquery.
	Nested
)

// String returns the class name for display.
func (c SourceClass) String() string {
	if c == Nested {
		return "nested"
	}
	return "top-level"
}

// Ref is a single extracted table reference.
type Ref struct {
	Name  string // lowercase, unquoted, alias stripped
	Class SourceClass
}

// Tables extracts the referenced table names from a grouped statement,
// deduplicated and sorted by name.
func Tables(stmt *parser.Statement) []Ref {
	e := &extractor{refs: make(map[string]SourceClass)}
	e.walk(stmt.Nodes, 0)
	return e.result()
}

// TableNames is Tables reduced to a name set.
func TableNames(stmt *parser.Statement) map[string]struct{} {
	set := make(map[string]struct{})
	for _, ref := range Tables(stmt) {
		set[ref.Name] = struct{}{}
	}
	return set
}

type extractor struct {
	refs map[string]SourceClass
}

func (e *extractor) record(name string, depth int) {
	if name == "" {
		return
	}
	class := TopLevel
	if depth > 0 {
		class = Nested
	}
	// First sighting wins so a top-level reference is not downgraded.
	if _, seen := e.refs[name]; !seen {
		e.refs[name] = class
	}
}

// walk scans one nesting level with the expecting-table flag, recursing into
// subquery groups. Opaque nodes (function calls, bare parenthesized
// expressions) are skipped without descending.
func (e *extractor) walk(nodes []parser.Node, depth int) {
	expecting := false

	for _, node := range nodes {
		if node.Opaque() {
			continue
		}

		switch n := node.(type) {
		case *parser.TokenNode:
			switch n.Tok.Type {
			case token.FROM, token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL, token.CROSS:
				expecting = true
			case token.OUTER, token.ON, token.USING:
				expecting = false
			}

		case *parser.Identifier:
			if expecting {
				e.record(n.RealName(), depth)
				expecting = false
			}
			e.descend(n, depth)

		case *parser.IdentifierList:
			if expecting {
				for _, item := range n.Items {
					e.record(item.RealName(), depth)
				}
				expecting = false
			}
			for _, item := range n.Items {
				e.descend(item, depth)
			}

		case *parser.Group:
			e.walk(n.Nodes, depth+1)
		}
	}
}

// descend enters an identifier's inner subquery, if it has one.
func (e *extractor) descend(ident *parser.Identifier, depth int) {
	if ident.Inner != nil && !ident.Inner.Opaque() {
		e.walk(ident.Inner.Nodes, depth+1)
	}
}

func (e *extractor) result() []Ref {
	names := make([]string, 0, len(e.refs))
	for name := range e.refs {
		names = append(names, name)
	}
	sort.Strings(names)

	refs := make([]Ref, 0, len(names))
	for _, name := range names {
		refs = append(refs, Ref{Name: name, Class: e.refs[name]})
	}
	return refs
}
