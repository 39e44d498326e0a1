package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/queryguard/pkg/parser"
)

func parse(t *testing.T, sql string) *parser.Statement {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err)
	return stmt
}

func names(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}

func TestTablesSimple(t *testing.T) {
	refs := Tables(parse(t, "SELECT * FROM orders"))
	assert.Equal(t, []string{"orders"}, names(refs))
	assert.Equal(t, TopLevel, refs[0].Class)
}

func TestTablesJoins(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "inner join",
			sql:  "SELECT * FROM orders o INNER JOIN customers c ON o.customer_id = c.id",
			want: []string{"customers", "orders"},
		},
		{
			name: "left outer join",
			sql:  "SELECT * FROM orders LEFT OUTER JOIN customers ON orders.customer_id = customers.id",
			want: []string{"customers", "orders"},
		},
		{
			name: "cross join",
			sql:  "SELECT * FROM a CROSS JOIN b",
			want: []string{"a", "b"},
		},
		{
			name: "join using",
			sql:  "SELECT * FROM orders JOIN customers USING (customer_id)",
			want: []string{"customers", "orders"},
		},
		{
			name: "comma list",
			sql:  "SELECT * FROM a, b c, d",
			want: []string{"a", "b", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Tables(parse(t, tt.sql))))
		})
	}
}

func TestTablesAliasStripped(t *testing.T) {
	refs := Tables(parse(t, "SELECT * FROM Orders AS o JOIN customers c ON o.id = c.id"))
	assert.Equal(t, []string{"customers", "orders"}, names(refs))
}

func TestTablesOnClauseNotRecorded(t *testing.T) {
	// Identifiers after ON are column references, not tables.
	refs := Tables(parse(t, "SELECT * FROM a JOIN b ON x = y"))
	assert.Equal(t, []string{"a", "b"}, names(refs))
}

func TestTablesFunctionArgsIgnored(t *testing.T) {
	// The FROM inside EXTRACT is part of the function syntax, not a clause.
	refs := Tables(parse(t, `SELECT EXTRACT(DOW FROM "dateTime"::timestamp) AS dow FROM orders`))
	assert.Equal(t, []string{"orders"}, names(refs))
}

func TestTablesSubqueryClassifiedNested(t *testing.T) {
	refs := Tables(parse(t, "SELECT * FROM (SELECT * FROM orders) AS o"))
	require.Len(t, refs, 1)
	assert.Equal(t, "orders", refs[0].Name)
	assert.Equal(t, Nested, refs[0].Class)
}

func TestTablesNestedSubqueries(t *testing.T) {
	sql := `SELECT * FROM (SELECT * FROM (SELECT * FROM inner_t) AS i JOIN mid_t m ON i.a = m.a) AS o`
	refs := Tables(parse(t, sql))
	assert.Equal(t, []string{"inner_t", "mid_t"}, names(refs))
	for _, r := range refs {
		assert.Equal(t, Nested, r.Class)
	}
}

func TestTablesWhereSubquery(t *testing.T) {
	sql := "SELECT * FROM orders WHERE customer_id IN (SELECT id FROM customers)"
	refs := Tables(parse(t, sql))
	assert.Equal(t, []string{"customers", "orders"}, names(refs))
}

func TestTablesCTE(t *testing.T) {
	sql := "WITH recent AS (SELECT * FROM orders) SELECT * FROM recent"
	refs := Tables(parse(t, sql))
	// Both the real table and the CTE reference are extracted; the
	// transient-name pass is what removes the CTE.
	assert.Equal(t, []string{"orders", "recent"}, names(refs))
}

func TestTablesFirstSightingClassWins(t *testing.T) {
	sql := "SELECT * FROM orders WHERE id IN (SELECT id FROM orders)"
	refs := Tables(parse(t, sql))
	require.Len(t, refs, 1)
	assert.Equal(t, TopLevel, refs[0].Class)
}

func TestTablesDeduplicated(t *testing.T) {
	refs := Tables(parse(t, "SELECT * FROM orders a JOIN orders b ON a.id = b.id"))
	assert.Equal(t, []string{"orders"}, names(refs))
}

func TestTableNamesSet(t *testing.T) {
	set := TableNames(parse(t, "SELECT * FROM orders JOIN customers ON orders.id = customers.id"))
	assert.Contains(t, set, "orders")
	assert.Contains(t, set, "customers")
	assert.Len(t, set, 2)
}
