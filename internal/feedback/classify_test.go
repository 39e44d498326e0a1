package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want ErrorKind
	}{
		{
			name: "unknown tables",
			msg:  "Unknown tables in query: [ord]",
			want: KindUnknownTables,
		},
		{
			name: "multiple statements",
			msg:  "Multiple SQL statements not allowed",
			want: KindMultipleStatements,
		},
		{
			name: "comments",
			msg:  "SQL comments not allowed",
			want: KindComments,
		},
		{
			name: "forbidden keyword",
			msg:  "Forbidden SQL keyword: DROP",
			want: KindForbiddenKeyword,
		},
		{
			name: "column not found",
			msg:  `column "revenue" does not exist`,
			want: KindColumnNotFound,
		},
		{
			name: "division by zero",
			msg:  "ERROR: division by zero",
			want: KindDivisionByZero,
		},
		{
			name: "datetime format",
			msg:  "invalid datetime format: could not parse",
			want: KindDatetimeFormat,
		},
		{
			name: "anything else",
			msg:  "syntax error at or near FROM",
			want: KindGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.msg))
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// A message matching several patterns classifies by priority order.
	msg := `Unknown tables in query: [x] and column "y" does not exist`
	assert.Equal(t, KindUnknownTables, Classify(msg))
}

func TestForErrorUnknownTablesSpellsOutAllowed(t *testing.T) {
	ctx := Context{AllowedTables: []string{"orders", "customers"}}

	fb := ForError("Unknown tables in query: [transactions_summary]", ctx, Options{})
	assert.Contains(t, fb, "transactions_summary")
	assert.Contains(t, fb, `"orders"`)
	assert.Contains(t, fb, `"customers"`)
	assert.NotContains(t, fb, "CTE (WITH clause) instead of a subquery")
}

func TestForErrorShortNameSteeredToCTE(t *testing.T) {
	ctx := Context{AllowedTables: []string{"orders"}}

	fb := ForError("Unknown tables in query: [t1]", ctx, Options{})
	assert.Contains(t, fb, "ALWAYS use a CTE")
	assert.Contains(t, fb, "t1")
}

func TestForErrorAliasNameMaxConfigurable(t *testing.T) {
	ctx := Context{AllowedTables: []string{"orders"}}

	// With the threshold raised, a four-letter name counts as an alias.
	fb := ForError("Unknown tables in query: [summ]", ctx, Options{AliasNameMax: 4})
	assert.Contains(t, fb, "ALWAYS use a CTE")

	// With the default threshold of 2 it does not.
	fb = ForError("Unknown tables in query: [summ]", ctx, Options{})
	assert.Contains(t, fb, "DO NOT EXIST")
}

func TestForErrorColumnSplitsAliasFromMissing(t *testing.T) {
	withAlias := Context{SelectAliases: map[string]struct{}{"revenue": {}}}
	fb := ForError(`column "revenue" does not exist`, withAlias, Options{})
	assert.Contains(t, fb, "ALIAS")

	fb = ForError(`column "revenue" does not exist`, Context{}, Options{})
	assert.Contains(t, fb, "non-existent column")
}

func TestForErrorForbiddenKeyword(t *testing.T) {
	fb := ForError("Forbidden SQL keyword: DELETE", Context{}, Options{})
	assert.Contains(t, fb, "DELETE")
	assert.Contains(t, fb, "read-only")

	// CREATE has a dedicated CTE-replacement message.
	fb = ForError("Forbidden SQL keyword: CREATE", Context{}, Options{})
	assert.Contains(t, fb, "CREATE TEMP TABLE")
}

func TestForErrorGenericFallsBackToParsing(t *testing.T) {
	fb := ForError("syntax error at line 3", Context{}, Options{})
	assert.Contains(t, fb, "syntax error at line 3")
}

func TestGenericRetryEscalatesOnLastAttempt(t *testing.T) {
	early := GenericRetry(0, 3)
	last := GenericRetry(2, 3)
	assert.NotEqual(t, early, last)
	assert.Contains(t, last, "FINAL ATTEMPT")
}

func TestParseUnknownTables(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseUnknownTables("Unknown tables in query: [a, b]"))
	assert.Nil(t, parseUnknownTables("Unknown tables in query: []"))
	assert.Nil(t, parseUnknownTables("something else"))
}
