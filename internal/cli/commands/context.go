package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/queryguard/internal/config"
)

type configKey struct{}
type loggerKey struct{}

// WithDeps stores the loaded config and logger in the command context.
// The root command calls this in its PersistentPreRunE.
func WithDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// ConfigFrom returns the config stored in the command context.
func ConfigFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}

// LoggerFrom returns the logger stored in the command context.
func LoggerFrom(cmd *cobra.Command) *slog.Logger {
	if logger, ok := cmd.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}
