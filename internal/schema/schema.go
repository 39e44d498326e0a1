// Package schema loads the pre-generated schema description consumed by the
// SQL generator and the safety validator.
//
// The schema file is produced by an external discovery pipeline. It is read
// once at process start and treated as read-only afterwards; the provider is
// constructed explicitly and injected wherever the allow-list is needed.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Column describes one column of a schema table.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ForeignKey describes a relationship between two tables.
type ForeignKey struct {
	Column    string `json:"col"`
	RefTable  string `json:"ref_table"`
	RefColumn string `json:"ref_col"`
}

// Table describes one schema table.
type Table struct {
	PrimaryKey  string       `json:"pk"`
	ForeignKeys []ForeignKey `json:"fks"`
	Columns     []Column     `json:"columns"`
}

// Info is the on-disk schema file shape.
type Info struct {
	Tables    map[string]Table `json:"tables"`
	LLMPrompt string           `json:"llm_prompt"`
}

// Provider exposes the allow-list and the generator-facing schema text.
type Provider struct {
	info Info
}

// Load reads and parses a schema info file.
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Provider from raw schema JSON.
func Parse(data []byte) (*Provider, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}
	if len(info.Tables) == 0 {
		return nil, fmt.Errorf("schema file defines no tables")
	}
	return &Provider{info: info}, nil
}

// AllowedTables returns the case-normalized allow-list set.
func (p *Provider) AllowedTables() map[string]struct{} {
	set := make(map[string]struct{}, len(p.info.Tables))
	for name := range p.info.Tables {
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}

// TableNames returns the schema table names, sorted.
func (p *Provider) TableNames() []string {
	names := make([]string, 0, len(p.info.Tables))
	for name := range p.info.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PromptText returns the LLM-ready schema description. If the file carried
// no pre-rendered text, one is generated from the table definitions.
func (p *Provider) PromptText() string {
	if p.info.LLMPrompt != "" {
		return p.info.LLMPrompt
	}
	return p.renderPrompt()
}

// renderPrompt builds a plain schema description for the generator prompt.
func (p *Provider) renderPrompt() string {
	var b strings.Builder
	for i, name := range p.TableNames() {
		tbl := p.info.Tables[name]
		fmt.Fprintf(&b, "%d. Table %q\n", i+1, name)
		if tbl.PrimaryKey != "" {
			fmt.Fprintf(&b, "   - Primary Key: %q\n", tbl.PrimaryKey)
		}
		if len(tbl.ForeignKeys) > 0 {
			b.WriteString("   - Foreign Keys:\n")
			for _, fk := range tbl.ForeignKeys {
				fmt.Fprintf(&b, "     - %q -> %q(%q)\n", fk.Column, fk.RefTable, fk.RefColumn)
			}
		}
		if len(tbl.Columns) > 0 {
			b.WriteString("   - Columns:\n")
			for _, col := range tbl.Columns {
				fmt.Fprintf(&b, "     - %q (%s)\n", col.Name, col.Type)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
