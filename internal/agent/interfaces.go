package agent

import (
	"context"

	"github.com/veldt-labs/queryguard/internal/adapter"
)

// Generator produces a SQL candidate from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Executor runs a validated query against the target database.
type Executor interface {
	Query(ctx context.Context, sql string) (*adapter.Result, error)
}
