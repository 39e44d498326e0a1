package commands

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/veldt-labs/queryguard/internal/extract"
	"github.com/veldt-labs/queryguard/pkg/parser"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "tables [SQL]",
		Short: "Show the table references in a SQL query",
		Long: `Parse a SQL query and list every table it reads from.

Each reference is classified as top-level or nested (inside a subquery),
and CTE names and subquery aliases are reported separately since they do
not need to exist in the schema.`,
		Example: `  queryguard tables "SELECT * FROM orders o JOIN customers c ON o.customer_id = c.id"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQLArg(cmd, args, input)
			if err != nil {
				return err
			}
			return runTables(cmd, sql)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runTables(cmd *cobra.Command, sql string) error {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	refs := extract.Tables(stmt)
	transient := extract.TransientNames(sql, stmt)

	w := cmd.OutOrStdout()
	if len(refs) == 0 {
		_, _ = fmt.Fprintln(w, "(no table references)")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Table", "Source", "Transient"})
		for _, ref := range refs {
			_, isTransient := transient[ref.Name]
			t.AppendRow(table.Row{ref.Name, ref.Class, yesNo(isTransient)})
		}
		t.Render()
	}

	extra := transientOnly(refs, transient)
	if len(extra) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Transient names not referenced as tables:")
		for _, name := range extra {
			_, _ = fmt.Fprintf(w, "  %s\n", name)
		}
	}

	return nil
}

// transientOnly returns transient names never used as a table source,
// sorted for stable output.
func transientOnly(refs []extract.Ref, transient map[string]struct{}) []string {
	used := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		used[ref.Name] = struct{}{}
	}
	var extra []string
	for name := range transient {
		if _, ok := used[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return extra
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
