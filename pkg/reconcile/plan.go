// Package reconcile computes and applies additive changes that bring a live
// table in line with a declared target. Structures already present are
// skipped, structures never declared are left alone, and nothing is ever
// dropped or altered in place.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/astrolab/starschema/pkg/schema"
)

// Plan lists the structures missing from the live table, in the order they
// will be applied: columns, then indexes, then the trigger. The trigger
// function is ensured whenever the target declares a trigger, even when the
// binding itself already exists, so it is carried separately and not counted
// as a change.
type Plan struct {
	Table    string          `json:"table" yaml:"table"`
	Columns  []schema.Column `json:"columns,omitempty" yaml:"columns,omitempty"`
	Indexes  []schema.Index  `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Function *schema.Trigger `json:"function,omitempty" yaml:"function,omitempty"`
	Trigger  *schema.Trigger `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Summary  PlanSummary     `json:"summary" yaml:"summary"`
}

// PlanSummary provides summary statistics for a plan.
type PlanSummary struct {
	ColumnsToAdd    int `json:"columns_to_add" yaml:"columns_to_add"`
	IndexesToCreate int `json:"indexes_to_create" yaml:"indexes_to_create"`
	TriggersToBind  int `json:"triggers_to_bind" yaml:"triggers_to_bind"`
	TotalChanges    int `json:"total_changes" yaml:"total_changes"`
}

// calculateSummary computes the summary for a plan.
func calculateSummary(p *Plan) PlanSummary {
	columns := len(p.Columns)
	indexes := len(p.Indexes)
	triggers := 0
	if p.Trigger != nil {
		triggers = 1
	}

	return PlanSummary{
		ColumnsToAdd:    columns,
		IndexesToCreate: indexes,
		TriggersToBind:  triggers,
		TotalChanges:    columns + indexes + triggers,
	}
}

// HasChanges returns true if the plan contains any changes.
func (p *Plan) HasChanges() bool {
	return p.Summary.TotalChanges > 0
}

// IsEmpty returns true if the plan contains no changes.
func (p *Plan) IsEmpty() bool {
	return p.Summary.TotalChanges == 0
}

// String returns a human-readable summary of the plan.
func (p *Plan) String() string {
	if p.IsEmpty() {
		return "No changes detected"
	}

	var parts []string

	if len(p.Columns) > 0 {
		parts = append(parts, fmt.Sprintf("Columns: %d to add", len(p.Columns)))
	}
	if len(p.Indexes) > 0 {
		parts = append(parts, fmt.Sprintf("Indexes: %d to create", len(p.Indexes)))
	}
	if p.Trigger != nil {
		parts = append(parts, "Triggers: 1 to bind")
	}

	return fmt.Sprintf("Plan for %s: %s (Total: %d changes)",
		p.Table, strings.Join(parts, "; "), p.Summary.TotalChanges)
}

// Print outputs a detailed, human-readable view of the plan.
func (p *Plan) Print() {
	fmt.Println(p.String())
	fmt.Println(strings.Repeat("─", 80))

	if len(p.Columns) > 0 {
		fmt.Printf("\n➕ Columns to add (%d):\n", len(p.Columns))
		for _, col := range p.Columns {
			fmt.Printf("  • %s\n", describeColumn(col))
		}
	}

	if len(p.Indexes) > 0 {
		fmt.Printf("\n➕ Indexes to create (%d):\n", len(p.Indexes))
		for _, idx := range p.Indexes {
			fmt.Printf("  • %s\n", describeIndex(idx))
		}
	}

	if p.Trigger != nil {
		fmt.Printf("\n➕ Triggers to bind (1):\n")
		fmt.Printf("  • %s\n", describeTrigger(*p.Trigger))
	}
}

// describeColumn renders a column the way it reads in a declaration.
func describeColumn(c schema.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", c.Name, c.Type)
	if c.Default != nil {
		fmt.Fprintf(&b, " default %s", *c.Default)
	}
	if c.NotNull {
		b.WriteString(" not null")
	}
	return b.String()
}

// describeIndex renders an index with its columns and method.
func describeIndex(idx schema.Index) string {
	return fmt.Sprintf("%s on (%s) using %s",
		idx.Name, strings.Join(idx.Columns, ", "), idx.EffectiveMethod())
}

// describeTrigger renders a trigger with its function and stamped column.
func describeTrigger(tr schema.Trigger) string {
	return fmt.Sprintf("%s (%s stamps %s on update)", tr.Name, tr.Function, tr.Column)
}
