package validate

import (
	"fmt"
	"sort"
	"strings"
)

// RejectionKind enumerates why a candidate query was rejected.
type RejectionKind int

// Rejection kinds, in check order.
const (
	// KindNone is the zero value for accepted outcomes.
	KindNone RejectionKind = iota
	// KindForbiddenKeyword marks a write/DDL keyword in the query text.
	KindForbiddenKeyword
	// KindMultipleStatements marks more than one statement.
	KindMultipleStatements
	// KindCommentsPresent marks a line or block comment in the query text.
	KindCommentsPresent
	// KindUnknownTables marks referenced tables missing from the allow-list.
	KindUnknownTables
	// KindParseFailure marks SQL the tokenizer could not process.
	KindParseFailure
)

// String returns the stable name of the rejection kind.
func (k RejectionKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindForbiddenKeyword:
		return "forbidden_keyword"
	case KindMultipleStatements:
		return "multiple_statements"
	case KindCommentsPresent:
		return "comments_present"
	case KindUnknownTables:
		return "unknown_tables"
	case KindParseFailure:
		return "parse_failure"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a validation pass.
type Outcome struct {
	Accepted bool
	Kind     RejectionKind
	Detail   string   // keyword name, parse error text, or empty
	Tables   []string // unknown table names, sorted (KindUnknownTables only)
}

// Accept returns the accepted outcome.
func Accept() Outcome {
	return Outcome{Accepted: true}
}

// Reject returns a rejected outcome of the given kind.
func Reject(kind RejectionKind, detail string) Outcome {
	return Outcome{Kind: kind, Detail: detail}
}

// RejectUnknownTables returns a rejection carrying the unknown table names.
func RejectUnknownTables(names map[string]struct{}) Outcome {
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return Outcome{Kind: KindUnknownTables, Tables: sorted}
}

// Failed reports whether the outcome is a rejection.
func (o Outcome) Failed() bool { return !o.Accepted }

// Message returns the human-readable rejection message. The phrasings are
// stable: the feedback classifier matches on them.
func (o Outcome) Message() string {
	switch o.Kind {
	case KindNone:
		return ""
	case KindForbiddenKeyword:
		return fmt.Sprintf("Forbidden SQL keyword: %s", o.Detail)
	case KindMultipleStatements:
		return "Multiple SQL statements not allowed"
	case KindCommentsPresent:
		return "SQL comments not allowed"
	case KindUnknownTables:
		return fmt.Sprintf("Unknown tables in query: [%s]", strings.Join(o.Tables, ", "))
	case KindParseFailure:
		return fmt.Sprintf("SQL parsing failed: %s", o.Detail)
	default:
		return "validation failed"
	}
}
