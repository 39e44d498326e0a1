// Package agent orchestrates the question-to-result loop: generate SQL,
// validate it against the schema allow-list, execute it, and on failure
// retry with targeted feedback or fall back to a raw-data query.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/veldt-labs/queryguard/internal/adapter"
	"github.com/veldt-labs/queryguard/internal/extract"
	"github.com/veldt-labs/queryguard/internal/feedback"
	"github.com/veldt-labs/queryguard/internal/llm"
	"github.com/veldt-labs/queryguard/internal/route"
	"github.com/veldt-labs/queryguard/internal/schema"
	"github.com/veldt-labs/queryguard/internal/validate"
	"github.com/veldt-labs/queryguard/pkg/parser"
)

// DefaultMaxRetries matches the routing default.
const DefaultMaxRetries = 3

// Runner drives a single question through generation, validation,
// execution and routing.
type Runner struct {
	generator    Generator
	executor     Executor
	schema       *schema.Provider
	maxRetries   int
	feedbackOpts feedback.Options
	logger       *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMaxRetries overrides the retry budget.
func WithMaxRetries(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.maxRetries = n
		}
	}
}

// WithFeedbackOptions overrides the feedback heuristics.
func WithFeedbackOptions(opts feedback.Options) RunnerOption {
	return func(r *Runner) { r.feedbackOpts = opts }
}

// NewRunner creates a Runner. If logger is nil, a discard logger is used.
func NewRunner(gen Generator, exec Executor, sp *schema.Provider, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{
		generator:  gen,
		executor:   exec,
		schema:     sp,
		maxRetries: DefaultMaxRetries,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of a successful run.
type Result struct {
	RunID        string
	Question     string
	SQL          string
	Data         *adapter.Result
	Attempts     int
	FallbackUsed bool
}

// attemptOutcome adapts attempt failures to the routing outcome interface.
type attemptOutcome struct{ failed bool }

func (o attemptOutcome) Failed() bool { return o.failed }

// Run answers a natural language question. It terminates after at most
// 2*maxRetries+2 attempts regardless of model behavior.
func (r *Runner) Run(ctx context.Context, question string) (*Result, error) {
	question, err := ValidateQuestion(question)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.logger.With(slog.String("run_id", runID))
	logger.Info("starting run", slog.String("question", question))

	schemaInfo := r.schema.PromptText()
	allowed := r.schema.AllowedTables()
	state := route.NewAttemptState()

	var (
		fallbackMode bool
		lastSQL      string
		lastFeedback string
		lastErr      string
		attempts     int
	)

	maxAttempts := 2*r.maxRetries + 2
	for attempts = 1; attempts <= maxAttempts; attempts++ {
		prompt := r.buildPrompt(schemaInfo, question, fallbackMode, lastSQL, lastFeedback)

		sql, genErr := r.generator.Generate(ctx, prompt)
		if genErr != nil {
			logger.Warn("generation failed", slog.String("error", genErr.Error()))
			lastErr = genErr.Error()
			switch route.Decide(state, attemptOutcome{failed: true}, r.maxRetries) {
			case route.Retry:
				state.RecordFailure(lastErr)
				lastFeedback = feedback.GenericRetry(state.RetryCount, r.maxRetries)
				continue
			case route.Fallback:
				r.enterFallback(logger, state, &fallbackMode, &lastSQL, &lastFeedback)
				continue
			default:
				return nil, fmt.Errorf("giving up after %d attempts: %s", attempts, lastErr)
			}
		}
		lastSQL = sql

		outcome := validate.Validate(sql, allowed)
		if outcome.Accepted {
			data, execErr := r.executor.Query(ctx, sql)
			if execErr == nil {
				logger.Info("run succeeded",
					slog.Int("attempts", attempts),
					slog.Bool("fallback", fallbackMode))
				return &Result{
					RunID:        runID,
					Question:     question,
					SQL:          sql,
					Data:         data,
					Attempts:     attempts,
					FallbackUsed: fallbackMode,
				}, nil
			}
			lastErr = execErr.Error()
			logger.Warn("execution failed", slog.String("error", lastErr))
		} else {
			lastErr = outcome.Message()
			logger.Warn("validation rejected query",
				slog.String("kind", outcome.Kind.String()),
				slog.String("detail", lastErr))
		}

		switch route.Decide(state, attemptOutcome{failed: true}, r.maxRetries) {
		case route.Retry:
			state.RecordFailure(lastErr)
			lastFeedback = feedback.ForError(lastErr, r.feedbackContext(sql), r.feedbackOpts)
		case route.Fallback:
			r.enterFallback(logger, state, &fallbackMode, &lastSQL, &lastFeedback)
		default:
			return nil, fmt.Errorf("giving up after %d attempts: %s", attempts, lastErr)
		}
	}

	return nil, fmt.Errorf("giving up after %d attempts: %s", attempts-1, lastErr)
}

func (r *Runner) buildPrompt(schemaInfo, question string, fallbackMode bool, lastSQL, lastFeedback string) string {
	var base string
	if fallbackMode {
		base = llm.RawDataPrompt(schemaInfo, question)
	} else {
		base = llm.SQLPrompt(schemaInfo, question)
	}
	if lastSQL != "" && lastFeedback != "" {
		return llm.RetryPrompt(base, lastSQL, lastFeedback)
	}
	return base
}

func (r *Runner) enterFallback(logger *slog.Logger, state *route.AttemptState, fallbackMode *bool, lastSQL, lastFeedback *string) {
	logger.Info("switching to raw data fallback")
	state.EnterFallback()
	*fallbackMode = true
	*lastSQL = ""
	*lastFeedback = ""
}

// feedbackContext gathers the query-specific facts the feedback templates
// need. Alias extraction is best-effort since the query may not parse.
func (r *Runner) feedbackContext(sql string) feedback.Context {
	ctx := feedback.Context{AllowedTables: r.schema.TableNames()}
	if stmt, err := parser.Parse(sql); err == nil {
		ctx.SelectAliases = extract.SelectAliases(stmt)
	}
	return ctx
}
