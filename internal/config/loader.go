package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "queryguard.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "queryguard.yml"

// EnvPrefix is the prefix for environment variable overrides.
// QUERYGUARD_VERBOSE sets verbose; nested keys use a double underscore,
// e.g. QUERYGUARD_TARGET__HOST sets target.host.
const EnvPrefix = "QUERYGUARD_"

// Load builds the configuration from defaults, an optional YAML file,
// environment variables, and explicitly set flags, in that priority order.
// If cfgFile is empty, queryguard.yaml is searched in the working directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose":              false,
		"output":               DefaultOutput,
		"schema_path":          DefaultSchemaPath,
		"agent.model":          DefaultModel,
		"agent.max_tokens":     DefaultMaxTokens,
		"agent.max_retries":    DefaultMaxRetries,
		"agent.alias_name_max": DefaultAliasNameMax,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if wd, err := os.Getwd(); err == nil {
			cfgFile = findConfigFile(wd)
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (highest priority, only when explicitly set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// --schema maps to schema_path, --model to agent.model
			switch key {
			case "schema":
				key = "schema_path"
			case "model":
				key = "agent.model"
			case "max_retries":
				key = "agent.max_retries"
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}

// envKey maps QUERYGUARD_TARGET__HOST to target.host.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// findConfigFile looks for queryguard.yaml or queryguard.yml in dir.
// Returns empty string if neither exists.
func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
