package feedback

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownTables builds feedback for an unknown-table rejection. Short
// invalid names are treated as subquery aliases and steered toward CTEs;
// longer names get the exact allow-list spelled out.
func UnknownTables(invalid, allowed []string, likelyAlias bool) string {
	invalidStr := strings.Join(invalid, ", ")

	if likelyAlias {
		example := "sub"
		if len(invalid) > 0 {
			example = invalid[0]
		}
		return fmt.Sprintf(`
**CRITICAL FIX REQUIRED:**
Your previous attempt used a subquery with alias [%s], which caused a validation error.

ALWAYS use a CTE (WITH clause) instead of a subquery in the FROM clause.

Example:
WITH ranked AS (
    SELECT *, RANK() OVER (PARTITION BY "category" ORDER BY "value" DESC) AS rank
    FROM data_table
)
SELECT * FROM ranked WHERE rank = 1

Do NOT use: FROM (SELECT ...) AS %s
`, invalidStr, example)
	}

	quoted := make([]string, 0, len(allowed))
	for _, t := range allowed {
		quoted = append(quoted, fmt.Sprintf("%q", t))
	}
	sort.Strings(quoted)

	return fmt.Sprintf(`
**CRITICAL FIX REQUIRED:**
Your previous attempt used invalid table(s): [%s]

These tables DO NOT EXIST in the schema.

Use ONLY these exact table names: %s

Rules:
- Do NOT abbreviate table names
- Do NOT invent new table names
- Do NOT use aliases without defining them as CTEs first
- Copy table names EXACTLY as shown above
`, invalidStr, strings.Join(quoted, ", "))
}

// MultipleStatements builds feedback for a multiple-statement rejection.
func MultipleStatements() string {
	return `
**CRITICAL FIX REQUIRED:**
Your previous attempt had multiple SQL statements (separated by semicolons).

Generate EXACTLY ONE query. Use a CTE (WITH clause) for multi-step logic:

Example:
WITH totals AS (
    SELECT "entity_id", SUM("amount") AS total
    FROM transactions
    GROUP BY "entity_id"
)
SELECT e."name", t.total
FROM entities e
JOIN totals t ON e."id" = t."entity_id"
`
}

// Comments builds feedback for a comment rejection.
func Comments() string {
	return `
**CRITICAL FIX REQUIRED:**
Your previous attempt had SQL comments (-- or /* */).

Remove ALL comments. Return ONLY the SQL query with no explanations,
inside <sql></sql> tags.
`
}

// ForbiddenKeyword builds feedback for a forbidden-keyword rejection.
// CREATE gets its own message because CREATE TEMP TABLE is the common case
// and has a direct CTE replacement.
func ForbiddenKeyword(keyword string) string {
	if keyword == "CREATE" {
		return `
**CRITICAL FIX REQUIRED:**
Your previous attempt used CREATE TEMP TABLE.

Use a CTE (WITH clause) instead:

WITH temp AS (
    SELECT "item_id", COUNT(*) AS record_count
    FROM transactions
    GROUP BY "item_id"
)
SELECT * FROM temp WHERE record_count > 10

CTEs are temporary and cleaned up automatically after the query.
`
	}

	return fmt.Sprintf(`
**CRITICAL FIX REQUIRED:**
Your previous attempt used forbidden keyword: %s

This system only allows SELECT queries (read-only). Do not DROP, DELETE,
UPDATE, INSERT, CREATE, or ALTER anything.

Generate a SELECT query that retrieves the requested information without
modifying data.
`, keyword)
}

// ColumnNotFound builds feedback for a missing-column execution error.
func ColumnNotFound(column string) string {
	columnInfo := ""
	if column != "" {
		columnInfo = fmt.Sprintf(" %q", column)
	}
	return fmt.Sprintf(`
**CRITICAL FIX REQUIRED:**
Your previous attempt referenced a non-existent column%s.

Column name rules:
1. Unquoted names are folded to lowercase; quote mixed-case names.
2. ALWAYS use double quotes for exact matching: t."customerName"
3. Quoted names are CASE-SENSITIVE.
4. Check the schema for exact column names and quote them correctly.
`, columnInfo)
}

// AliasReference builds feedback for a column error that is really a SELECT
// alias referenced in the same query level.
func AliasReference(column string) string {
	return fmt.Sprintf(`
**Fix: Alias Reference Error (%q does not exist)**
- You defined %q as an ALIAS in the SELECT clause (... AS %s).
- An alias cannot be used in the same SELECT or WHERE clause.
- Solution: wrap the calculation in a CTE first.
- Example:
  WITH stats AS (SELECT a+b AS my_alias FROM tbl)
  SELECT * FROM stats WHERE my_alias > 10
`, column, column, column)
}

// DivisionByZero builds feedback for a division-by-zero execution error.
func DivisionByZero() string {
	return `
**Fix: Division by Zero Error**
- You are dividing by a value that is ZERO (often STDDEV, SUM, or COUNT).
- Use NULLIF(column, 0) to handle division by zero safely.
- Example: col_a / NULLIF(col_b, 0) returns NULL instead of an error.
`
}

// DatetimeFormat builds feedback for a datetime format execution error.
func DatetimeFormat() string {
	return `
**Fix: Datetime Format Error**
- The timestamp column is TEXT and may contain ISO formats.
- Your format string failed; use direct casting instead: "dateTime"::timestamp
- ISO formats are handled automatically when casting.
`
}

// Parsing builds the generic catch-all feedback.
func Parsing(errMsg string) string {
	return fmt.Sprintf(`
**CRITICAL FIX REQUIRED:**
Your previous attempt had a SQL error: %s

Steps to fix:
1. Review the error message carefully.
2. Ensure mixed-case column names are double-quoted: t."columnName"
3. Verify JOIN conditions are correct.
4. Make sure GROUP BY includes all non-aggregated SELECT columns.
`, errMsg)
}

// GenericRetry nudges the generator as the retry budget runs out.
func GenericRetry(retryCount, maxRetries int) string {
	if retryCount >= maxRetries-1 {
		return fmt.Sprintf(`
**FINAL ATTEMPT (Retry %d/%d):**
This is your last chance to generate a valid SQL query.

1. Use ONLY exact table names from the schema.
2. Quote ALL column names with double quotes: "columnName"
3. Use CTEs instead of subqueries.
4. Generate exactly ONE SELECT query.
5. Do NOT include comments or explanations.

If uncertain, prefer a simpler query you are confident will work.
`, retryCount, maxRetries)
	}

	return fmt.Sprintf(`
**RETRY ATTEMPT %d/%d:**
Your previous SQL query failed validation.

Carefully read the error message above and fix the specific issue mentioned.
`, retryCount, maxRetries)
}
