// Package llm generates SQL from natural language questions using the
// Anthropic Messages API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

const defaultMaxTokens = 2000

// ErrNoSQL is returned when the model response contains no <sql> block.
var ErrNoSQL = errors.New("response contains no SQL")

var sqlTagRe = regexp.MustCompile(`(?is)<sql>(.*?)</sql>`)

// Generator produces SQL candidates via the Anthropic API. It implements
// the agent's generation interface.
type Generator struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	logger    *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithMaxTokens overrides the default response token limit.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// NewGenerator creates a Generator with the given API key.
// If logger is nil, a discard logger is used.
func NewGenerator(apiKey string, logger *slog.Logger, opts ...Option) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Generator{
		client:    anthropic.NewClient(apiKey),
		model:     DefaultModel,
		maxTokens: defaultMaxTokens,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends the prompt to the model and extracts the SQL from the
// response.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("requesting SQL generation",
		slog.String("model", g.model),
		slog.Int("prompt_len", len(prompt)))

	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	text := responseText(resp)
	sql, err := ExtractSQL(text)
	if err != nil {
		g.logger.Warn("model response had no SQL block", slog.Int("response_len", len(text)))
		return "", err
	}

	g.logger.Debug("generated SQL", slog.Int("sql_len", len(sql)))
	return sql, nil
}

// ExtractSQL pulls the query out of <sql></sql> tags. As a last resort a
// bare response that looks like a SELECT is accepted as-is.
func ExtractSQL(text string) (string, error) {
	if m := sqlTagRe.FindStringSubmatch(text); m != nil {
		sql := strings.TrimSpace(m[1])
		if sql != "" {
			return sql, nil
		}
	}

	trimmed := strings.TrimSpace(text)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH") {
		return trimmed, nil
	}

	return "", ErrNoSQL
}

func responseText(resp anthropic.MessagesResponse) string {
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			b.WriteString(*block.Text)
		}
	}
	return b.String()
}
