package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt-labs/queryguard/internal/adapter"
)

func sampleResult() *adapter.Result {
	return &adapter.Result{
		Columns: []string{"region", "total"},
		Rows: []map[string]any{
			{"region": "north", "total": int64(120)},
			{"region": "south, east", "total": nil},
		},
	}
}

func TestRenderResultTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, sampleResult(), "table"))

	out := buf.String()
	assert.Contains(t, out, "north")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
}

func TestRenderResultEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, &adapter.Result{Columns: []string{"a"}}, "table"))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestRenderResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, sampleResult(), "json"))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "north", rows[0]["region"])
}

func TestRenderResultCSVEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, sampleResult(), "csv"))

	out := buf.String()
	assert.Contains(t, out, "region,total")
	assert.Contains(t, out, `"south, east"`)
}

func TestRenderResultMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, sampleResult(), "md"))

	out := buf.String()
	assert.Contains(t, out, "| region | total |")
	assert.Contains(t, out, "| --- | --- |")
}
