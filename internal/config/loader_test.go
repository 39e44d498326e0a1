package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultSchemaPath, cfg.SchemaPath)
	assert.Equal(t, DefaultModel, cfg.Agent.Model)
	assert.Equal(t, DefaultMaxRetries, cfg.Agent.MaxRetries)
	assert.Equal(t, DefaultAliasNameMax, cfg.Agent.AliasNameMax)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
schema_path: data/schema.json
target:
  type: postgres
  host: db.internal
  database: sales
  username: reader
agent:
  max_retries: 5
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "data/schema.json", cfg.SchemaPath)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "db.internal", cfg.Target.Host)
	assert.Equal(t, 5432, cfg.Target.Port) // default applied
	assert.Equal(t, 5, cfg.Agent.MaxRetries)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
target:
  type: duckdb
  path: warehouse.db
`)
	t.Setenv("QUERYGUARD_TARGET__PATH", "other.db")
	t.Setenv("QUERYGUARD_AGENT__MAX_RETRIES", "7")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", cfg.Target.Type)
	assert.Equal(t, "other.db", cfg.Target.Path)
	assert.Equal(t, 7, cfg.Agent.MaxRetries)
}

func TestLoadFlagOverridesAll(t *testing.T) {
	path := writeConfig(t, `
schema_path: from-file.json
target:
  type: duckdb
`)
	t.Setenv("QUERYGUARD_SCHEMA_PATH", "from-env.json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("schema", "", "")
	flags.Int("max-retries", 0, "")
	require.NoError(t, flags.Parse([]string{"--schema", "from-flag.json", "--max-retries", "1"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.json", cfg.SchemaPath)
	assert.Equal(t, 1, cfg.Agent.MaxRetries)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())

	cfg.Target.Type = "oracle"
	assert.Error(t, cfg.Validate())

	cfg.Target.Type = "duckdb"
	assert.NoError(t, cfg.Validate())
}
