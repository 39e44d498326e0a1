// Package validate decides whether an LLM-generated SQL statement is safe to
// hand to the execution engine.
//
// Checks run in a fixed order and the first failure wins. The textual checks
// (forbidden keywords, statement count, comments) are cheap and must never be
// bypassed by a parse error, so they run before any tree walking.
package validate

import (
	"strings"

	"github.com/veldt-labs/queryguard/internal/extract"
	"github.com/veldt-labs/queryguard/pkg/parser"
)

// forbiddenKeywords are rejected as standalone words anywhere in the query.
// Kept as plain data so the set can change without touching control flow.
var forbiddenKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER",
	"TRUNCATE", "CREATE", "GRANT", "REVOKE", "EXECUTE", "EXEC",
}

// Validate checks a candidate query against the allow-list of schema tables.
// It is pure and deterministic: the same text and allow-list always produce
// the same outcome, and concurrent calls for independent queries are safe.
func Validate(query string, allowed map[string]struct{}) Outcome {
	// 1. Forbidden keywords, word-boundary match, case-insensitive.
	if kw, found := findForbiddenKeyword(query); found {
		return Reject(KindForbiddenKeyword, kw)
	}

	// 2. Multiple statements. One trailing separator is tolerated.
	stripped := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(query), ";"))
	if strings.Contains(stripped, ";") {
		return Reject(KindMultipleStatements, "")
	}

	// 3. Comments anywhere in the text.
	if strings.Contains(query, "--") || strings.Contains(query, "/*") {
		return Reject(KindCommentsPresent, "")
	}

	// 4. Referenced tables must all be in the allow-list, after removing the
	// names the query introduces itself (CTEs, subquery aliases).
	stmt, err := parser.Parse(query)
	if err != nil {
		// 5. Tokenization failed on otherwise textually-safe input.
		return Reject(KindParseFailure, err.Error())
	}

	referenced := extract.TableNames(stmt)
	transient := extract.TransientNames(query, stmt)

	unknown := make(map[string]struct{})
	for name := range referenced {
		if _, ok := transient[name]; ok {
			continue
		}
		if _, ok := allowed[name]; !ok {
			unknown[name] = struct{}{}
		}
	}
	if len(unknown) > 0 {
		return RejectUnknownTables(unknown)
	}

	return Accept()
}

// findForbiddenKeyword reports the first forbidden keyword appearing as a
// standalone word in the query.
func findForbiddenKeyword(query string) (string, bool) {
	upper := strings.ToUpper(query)
	for _, kw := range forbiddenKeywords {
		idx := 0
		for {
			i := strings.Index(upper[idx:], kw)
			if i < 0 {
				break
			}
			start := idx + i
			end := start + len(kw)
			if isWordBoundary(upper, start-1) && isWordBoundary(upper, end) {
				return kw, true
			}
			idx = end
		}
	}
	return "", false
}

// isWordBoundary reports whether the byte at i (or the string edge) does not
// continue an identifier.
func isWordBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	ch := s[i]
	isWord := ch == '_' ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= '0' && ch <= '9')
	return !isWord
}

// AllowedSet builds a lowercase allow-list set from table names.
func AllowedSet(tables []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}
