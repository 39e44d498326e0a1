package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/queryguard/internal/adapter"
	"github.com/veldt-labs/queryguard/internal/agent"
	"github.com/veldt-labs/queryguard/internal/feedback"
	"github.com/veldt-labs/queryguard/internal/llm"
	"github.com/veldt-labs/queryguard/internal/schema"
)

// AskOptions holds options for the ask command.
type AskOptions struct {
	Format  string
	ShowSQL bool
}

// NewAskCommand creates the ask command.
func NewAskCommand() *cobra.Command {
	opts := &AskOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a natural language question with a database query",
		Long: `Generate SQL for a natural language question, validate it against the
safety rules, and execute it against the configured target database.

Rejected queries are retried with targeted feedback. After the retry budget
is exhausted the agent falls back once to a simple raw-data query.

When invoked without arguments, enters interactive mode.`,
		Example: `  # Ask a single question
  queryguard ask "total revenue per region last month"

  # Show the generated SQL alongside the results
  queryguard ask --show-sql "top 10 customers by order count"

  # Interactive mode
  queryguard ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().BoolVar(&opts.ShowSQL, "show-sql", false, "Print the generated SQL before the results")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string, opts *AskOptions) error {
	cfg := ConfigFrom(cmd)
	logger := LoggerFrom(cmd)

	if opts.Format == "" {
		opts.Format = cfg.Output
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	sp, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	apiKey := cfg.Agent.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set agent.api_key or ANTHROPIC_API_KEY")
	}

	gen := llm.NewGenerator(apiKey, logger,
		llm.WithModel(cfg.Agent.Model),
		llm.WithMaxTokens(cfg.Agent.MaxTokens))

	db, err := adapter.New(cfg.Target.ToAdapterConfig(), logger)
	if err != nil {
		return err
	}
	if err := db.Connect(cmd.Context(), cfg.Target.ToAdapterConfig()); err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner := agent.NewRunner(gen, db, sp, logger,
		agent.WithMaxRetries(cfg.Agent.MaxRetries),
		agent.WithFeedbackOptions(feedback.Options{AliasNameMax: cfg.Agent.AliasNameMax}))

	if len(args) == 0 {
		return runAskREPL(cmd, runner, opts)
	}
	return askOnce(cmd, runner, strings.Join(args, " "), opts)
}

func askOnce(cmd *cobra.Command, runner *agent.Runner, question string, opts *AskOptions) error {
	res, err := runner.Run(cmd.Context(), question)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.ShowSQL {
		_, _ = fmt.Fprintln(w, res.SQL)
		_, _ = fmt.Fprintln(w)
	}
	if res.FallbackUsed {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Note: answered with a raw-data fallback query")
	}
	return RenderResult(w, res.Data, opts.Format)
}
