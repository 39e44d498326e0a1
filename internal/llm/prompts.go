package llm

import "fmt"

// SQLPrompt builds the full SQL generation prompt. The model is asked to
// reason first and then emit the query inside <sql> tags.
func SQLPrompt(schemaInfo, question string) string {
	return fmt.Sprintf(`You are an expert PostgreSQL query generator. Analyze the question carefully before generating SQL.

<database_schema>
%s
</database_schema>

<user_question>
%s
</user_question>

<instructions>
Before writing the query, think through:
1. Which tables from the schema contain the data needed?
2. What foreign key relationships connect these tables?
3. What columns should be selected, filtered, or aggregated?
4. Is this a simple query or does it need CTEs or window functions?

CRITICAL RULES:
1. Use EXACT table names from the schema. Never abbreviate or invent.
2. Table aliases are allowed. Use short aliases for readability.
3. Quote ALL column names: t."columnName".
4. Single query only. No semicolons, no comments (-- or /* */), no temp tables.
5. Prefer CTEs over nested subqueries.
6. If date/time columns are stored as TEXT, cast with ::timestamp.
7. Prevent zero division: x / NULLIF(y, 0).
8. Do NOT reference a SELECT alias at the same level it is defined.
</instructions>

<output_format>
First, write your reasoning inside <reasoning> tags. Then provide ONLY the SQL query inside <sql> tags.
</output_format>

Now generate your response following the format above:
`, schemaInfo, question)
}

// RawDataPrompt builds the fallback prompt. Instead of asking for analytical
// SQL it asks for a plain SELECT fetching the raw rows the question needs.
func RawDataPrompt(schemaInfo, question string) string {
	return fmt.Sprintf(`You are an expert PostgreSQL query generator. The analytical query could not be produced, so fetch the raw data instead.

<database_schema>
%s
</database_schema>

<user_question>
%s
</user_question>

TASK: Generate a SIMPLE SELECT query to fetch the RAW DATA needed to answer the question.

CRITICAL RULES:
1. DO NOT perform statistical calculations (no AVG, STDDEV, percentiles).
2. DO NOT use window functions.
3. DO NOT use date functions (no EXTRACT, TO_DATE, DATE_TRUNC).
4. Just SELECT the relevant columns AS-IS from the appropriate table(s).
5. You MAY use JOINs if multiple tables are needed.
6. You MAY use WHERE to filter irrelevant data.

Return ONLY the SQL query inside <sql> tags. NO explanations, NO markdown:
`, schemaInfo, question)
}

// RetryPrompt appends validation feedback to a prior prompt so the model can
// correct its previous attempt.
func RetryPrompt(basePrompt, previousSQL, feedback string) string {
	return fmt.Sprintf(`%s

Your previous attempt was rejected.

<previous_sql>
%s
</previous_sql>

<feedback>
%s
</feedback>

Fix the query. Return ONLY valid SQL inside <sql></sql> tags.
`, basePrompt, previousSQL, feedback)
}
