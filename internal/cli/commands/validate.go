package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/queryguard/internal/extract"
	"github.com/veldt-labs/queryguard/internal/schema"
	"github.com/veldt-labs/queryguard/internal/validate"
	"github.com/veldt-labs/queryguard/pkg/parser"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Input string
	JSON  bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [SQL]",
		Short: "Check a SQL query against the safety rules",
		Long: `Validate a SQL query without executing it.

The query is checked against the schema allow-list and the safety rules:
forbidden keywords, multiple statements, comments, and unknown tables.
The command exits non-zero when the query is rejected.`,
		Example: `  # Validate a query directly
  queryguard validate "SELECT * FROM orders"

  # Read the query from a file
  queryguard validate --input query.sql

  # Read the query from stdin
  cat query.sql | queryguard validate --input -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQLArg(cmd, args, opts.Input)
			if err != nil {
				return err
			}
			return runValidate(cmd, sql, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file (- for stdin)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the verdict as JSON")

	return cmd
}

// validateVerdict is the JSON shape of a validation result.
type validateVerdict struct {
	Accepted bool     `json:"accepted"`
	Kind     string   `json:"kind,omitempty"`
	Message  string   `json:"message,omitempty"`
	Tables   []string `json:"tables,omitempty"`
}

func runValidate(cmd *cobra.Command, sql string, opts *ValidateOptions) error {
	cfg := ConfigFrom(cmd)
	logger := LoggerFrom(cmd)

	sp, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}

	outcome := validate.Validate(sql, sp.AllowedTables())
	if opts.JSON {
		return writeVerdictJSON(cmd, sql, outcome)
	}
	if outcome.Accepted {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "OK")
		if stmt, perr := parser.Parse(sql); perr == nil {
			if names := referencedNames(stmt); len(names) > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Tables: %s\n", strings.Join(names, ", "))
			}
		}
		return nil
	}

	logger.Debug("query rejected", "kind", outcome.Kind.String())
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "REJECTED (%s)\n", outcome.Kind)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), outcome.Message())
	return fmt.Errorf("query rejected")
}

func writeVerdictJSON(cmd *cobra.Command, sql string, outcome validate.Outcome) error {
	v := validateVerdict{Accepted: outcome.Accepted}
	if outcome.Accepted {
		if stmt, perr := parser.Parse(sql); perr == nil {
			v.Tables = referencedNames(stmt)
		}
	} else {
		v.Kind = outcome.Kind.String()
		v.Message = outcome.Message()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if !outcome.Accepted {
		return fmt.Errorf("query rejected")
	}
	return nil
}

func referencedNames(stmt *parser.Statement) []string {
	refs := extract.Tables(stmt)
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return names
}

// readSQLArg resolves the SQL text from a positional argument, a file,
// or stdin when input is "-".
func readSQLArg(cmd *cobra.Command, args []string, input string) (string, error) {
	if input == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("provide a SQL query as an argument or via --input")
	}
	return strings.Join(args, " "), nil
}
