// Package config provides configuration loading for queryguard. Values are
// layered: defaults, then the YAML config file, then QUERYGUARD_ environment
// variables, then command-line flags.
package config

import (
	"fmt"

	"github.com/veldt-labs/queryguard/internal/adapter"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres, duckdb

	// File-based databases (DuckDB)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}

// ToAdapterConfig converts the target section into the adapter package's
// connection config.
func (t TargetConfig) ToAdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     t.Type,
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.Username,
		Password: t.Password,
		Options:  t.Options,
	}
}

// AgentConfig holds generation and retry settings.
type AgentConfig struct {
	Model        string `koanf:"model"`
	APIKey       string `koanf:"api_key"`
	MaxTokens    int    `koanf:"max_tokens"`
	MaxRetries   int    `koanf:"max_retries"`
	AliasNameMax int    `koanf:"alias_name_max"`
}

// Config is the full application configuration.
type Config struct {
	Verbose    bool         `koanf:"verbose"`
	Output     string       `koanf:"output"` // table, json, csv, markdown
	SchemaPath string       `koanf:"schema_path"`
	Target     TargetConfig `koanf:"target"`
	Agent      AgentConfig  `koanf:"agent"`
}

// Validate checks the parts of the configuration every command needs.
func (c *Config) Validate() error {
	if c.Target.Type == "" {
		return fmt.Errorf("target type is required")
	}
	registered := false
	for _, name := range adapter.List() {
		if name == c.Target.Type {
			registered = true
			break
		}
	}
	if !registered {
		return fmt.Errorf("unknown target type %q (available: %v)", c.Target.Type, adapter.List())
	}
	return nil
}
