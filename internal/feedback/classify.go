// Package feedback turns validation rejections and database error messages
// into targeted guidance for the next SQL generation attempt.
//
// Classification is a priority-ordered list of (predicate, kind) pairs
// evaluated in fixed order; the first match wins and later checks are not
// evaluated. The list is plain data so new patterns can be added without
// touching control flow.
package feedback

import (
	"regexp"
	"strings"
)

// ErrorKind classifies a failure message.
type ErrorKind int

// Error kinds, in classification priority order.
const (
	// KindUnknownTables matches the validator's unknown-table rejection.
	KindUnknownTables ErrorKind = iota
	// KindMultipleStatements matches the multiple-statement rejection.
	KindMultipleStatements
	// KindComments matches the comment rejection.
	KindComments
	// KindForbiddenKeyword matches the forbidden-keyword rejection.
	KindForbiddenKeyword
	// KindColumnNotFound matches database column-does-not-exist errors.
	KindColumnNotFound
	// KindDivisionByZero matches database division-by-zero errors.
	KindDivisionByZero
	// KindDatetimeFormat matches datetime parsing/format errors.
	KindDatetimeFormat
	// KindGeneric is the catch-all for everything else.
	KindGeneric
)

// classifier pairs a predicate with the kind it detects.
type classifier struct {
	kind  ErrorKind
	match func(msg string) bool
}

// classifiers is evaluated in order; first match wins.
var classifiers = []classifier{
	{KindUnknownTables, func(m string) bool {
		return strings.Contains(m, "Unknown tables in query")
	}},
	{KindMultipleStatements, func(m string) bool {
		return strings.Contains(m, "Multiple SQL statements not allowed")
	}},
	{KindComments, func(m string) bool {
		return strings.Contains(m, "SQL comments not allowed")
	}},
	{KindForbiddenKeyword, func(m string) bool {
		return strings.Contains(m, "Forbidden SQL keyword")
	}},
	{KindColumnNotFound, func(m string) bool {
		lower := strings.ToLower(m)
		return strings.Contains(lower, "column") && strings.Contains(lower, "does not exist")
	}},
	{KindDivisionByZero, func(m string) bool {
		return strings.Contains(strings.ToLower(m), "division by zero")
	}},
	{KindDatetimeFormat, func(m string) bool {
		lower := strings.ToLower(m)
		return strings.Contains(lower, "datetime") && strings.Contains(lower, "format")
	}},
}

// Classify maps a failure message to its error kind.
func Classify(msg string) ErrorKind {
	for _, c := range classifiers {
		if c.match(msg) {
			return c.kind
		}
	}
	return KindGeneric
}

// Options tunes the heuristics used when building feedback.
type Options struct {
	// AliasNameMax is the maximum length at which an unknown table name is
	// guessed to be a subquery alias the generator forgot to wrap in a CTE.
	// This is a heuristic, not a proof: it misfires on legitimately short
	// table names. Zero means the default of 2.
	AliasNameMax int
}

// aliasNameMax returns the configured or default threshold.
func (o Options) aliasNameMax() int {
	if o.AliasNameMax > 0 {
		return o.AliasNameMax
	}
	return 2
}

// Context carries query-specific facts the templates need.
type Context struct {
	// AllowedTables is the schema allow-list, used to spell out exact names.
	AllowedTables []string
	// SelectAliases holds the aliases defined in the failing query's SELECT
	// clause, used to split alias misuse from a genuinely missing column.
	SelectAliases map[string]struct{}
}

var (
	unknownTablesRe = regexp.MustCompile(`Unknown tables in query: \[([^\]]*)\]`)
	forbiddenKwRe   = regexp.MustCompile(`Forbidden SQL keyword: (\w+)`)
	columnRe        = regexp.MustCompile(`column "([^"]+)" does not exist`)
)

// ForError analyzes a failure message and returns the targeted feedback to
// append to the next generation prompt.
func ForError(msg string, ctx Context, opts Options) string {
	switch Classify(msg) {
	case KindUnknownTables:
		invalid := parseUnknownTables(msg)
		if len(invalid) == 0 {
			return Parsing(msg)
		}
		likelyAlias := false
		for _, name := range invalid {
			if len(name) <= opts.aliasNameMax() {
				likelyAlias = true
				break
			}
		}
		return UnknownTables(invalid, ctx.AllowedTables, likelyAlias)

	case KindMultipleStatements:
		return MultipleStatements()

	case KindComments:
		return Comments()

	case KindForbiddenKeyword:
		kw := "CREATE"
		if m := forbiddenKwRe.FindStringSubmatch(msg); m != nil {
			kw = m[1]
		}
		return ForbiddenKeyword(kw)

	case KindColumnNotFound:
		if m := columnRe.FindStringSubmatch(msg); m != nil {
			column := m[1]
			if _, ok := ctx.SelectAliases[strings.ToLower(column)]; ok {
				return AliasReference(column)
			}
			return ColumnNotFound(column)
		}
		return ColumnNotFound("")

	case KindDivisionByZero:
		return DivisionByZero()

	case KindDatetimeFormat:
		return DatetimeFormat()

	default:
		return Parsing(msg)
	}
}

// parseUnknownTables pulls the table names out of the validator's
// unknown-table message.
func parseUnknownTables(msg string) []string {
	m := unknownTablesRe.FindStringSubmatch(msg)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil
	}
	parts := strings.Split(m[1], ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}
