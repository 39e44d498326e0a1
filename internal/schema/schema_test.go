package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `{
	"tables": {
		"Orders": {
			"pk": "id",
			"fks": [{"col": "customer_id", "ref_table": "customers", "ref_col": "id"}],
			"columns": [
				{"name": "id", "type": "BIGINT"},
				{"name": "customer_id", "type": "BIGINT"},
				{"name": "amount", "type": "NUMERIC"}
			]
		},
		"customers": {
			"pk": "id",
			"columns": [{"name": "id", "type": "BIGINT"}]
		}
	},
	"llm_prompt": "pre-rendered schema text"
}`

func TestParse(t *testing.T) {
	sp, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	assert.Equal(t, []string{"Orders", "customers"}, sp.TableNames())
	assert.Equal(t, "pre-rendered schema text", sp.PromptText())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"tables": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tables")
}

func TestAllowedTablesLowercased(t *testing.T) {
	sp, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	allowed := sp.AllowedTables()
	assert.Contains(t, allowed, "orders")
	assert.Contains(t, allowed, "customers")
	assert.Len(t, allowed, 2)
}

func TestPromptTextRenderedWhenMissing(t *testing.T) {
	sp, err := Parse([]byte(`{
		"tables": {
			"orders": {
				"pk": "id",
				"fks": [{"col": "customer_id", "ref_table": "customers", "ref_col": "id"}],
				"columns": [{"name": "id", "type": "BIGINT"}]
			}
		}
	}`))
	require.NoError(t, err)

	text := sp.PromptText()
	assert.Contains(t, text, `Table "orders"`)
	assert.Contains(t, text, `Primary Key: "id"`)
	assert.Contains(t, text, `"customer_id" -> "customers"("id")`)
	assert.Contains(t, text, `"id" (BIGINT)`)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSchema), 0o644))

	sp, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, sp.TableNames(), 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
