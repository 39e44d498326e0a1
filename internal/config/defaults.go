package config

// Default configuration values.
const (
	DefaultOutput       = "table"
	DefaultSchemaPath   = "schema.json"
	DefaultModel        = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens    = 2000
	DefaultMaxRetries   = 3
	DefaultAliasNameMax = 2
)

// ApplyDefaults fills in zero-valued fields after unmarshaling.
func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.SchemaPath == "" {
		c.SchemaPath = DefaultSchemaPath
	}
	if c.Agent.Model == "" {
		c.Agent.Model = DefaultModel
	}
	if c.Agent.MaxTokens == 0 {
		c.Agent.MaxTokens = DefaultMaxTokens
	}
	if c.Agent.MaxRetries == 0 {
		c.Agent.MaxRetries = DefaultMaxRetries
	}
	if c.Agent.AliasNameMax == 0 {
		c.Agent.AliasNameMax = DefaultAliasNameMax
	}
	if c.Target.Type == "postgres" && c.Target.Port == 0 {
		c.Target.Port = 5432
	}
}
