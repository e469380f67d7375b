package output

import (
	"fmt"
	"strings"

	"github.com/astrolab/starschema/pkg/catalog"
	"github.com/astrolab/starschema/pkg/reconcile"
	"github.com/astrolab/starschema/pkg/schema"
)

// TargetToTableData converts a declared schema target to table format.
// Columns, indexes, and the trigger share one table keyed by kind.
func TargetToTableData(t *schema.Table) Data {
	rows := make([][]string, 0, len(t.Columns)+len(t.Indexes)+1)

	for _, c := range t.Columns {
		rows = append(rows, []string{"column", c.Name, columnDetails(c)})
	}
	for _, idx := range t.Indexes {
		rows = append(rows, []string{"index", idx.Name, indexDetails(idx)})
	}
	if t.Trigger != nil {
		details := fmt.Sprintf("%s() stamps %s before update", t.Trigger.Function, t.Trigger.Column)
		rows = append(rows, []string{"trigger", t.Trigger.Name, details})
	}

	return Data{
		Headers: []string{"Kind", "Name", "Details"},
		Rows:    rows,
	}
}

// SnapshotToTableData converts a live table snapshot to table format.
func SnapshotToTableData(s *catalog.Snapshot) Data {
	rows := make([][]string, 0, len(s.Columns)+len(s.Indexes)+len(s.Triggers))

	for _, c := range s.Columns {
		details := c.DataType
		if !c.Nullable {
			details += " not null"
		}
		if c.Default != nil {
			details += " default " + *c.Default
		}
		rows = append(rows, []string{"column", c.Name, details})
	}
	for _, idx := range s.Indexes {
		rows = append(rows, []string{"index", idx.Name, collapseWhitespace(idx.Definition)})
	}
	for _, trg := range s.Triggers {
		rows = append(rows, []string{"trigger", trg.Name, collapseWhitespace(trg.Definition)})
	}

	return Data{
		Headers: []string{"Kind", "Name", "Details"},
		Rows:    rows,
	}
}

// PlanToTableData converts the pending changes of a plan to table format.
// The trigger function is listed only when the binding itself is pending,
// since refreshing the function is not a change.
func PlanToTableData(p *reconcile.Plan) Data {
	rows := make([][]string, 0, p.Summary.TotalChanges)

	for _, c := range p.Columns {
		rows = append(rows, []string{"column", c.Name, columnDetails(c)})
	}
	for _, idx := range p.Indexes {
		rows = append(rows, []string{"index", idx.Name, indexDetails(idx)})
	}
	if p.Trigger != nil {
		details := fmt.Sprintf("%s() stamps %s before update", p.Trigger.Function, p.Trigger.Column)
		rows = append(rows, []string{"trigger", p.Trigger.Name, details})
	}

	return Data{
		Headers: []string{"Kind", "Name", "Details"},
		Rows:    rows,
	}
}

// SnapshotCounts summarizes a snapshot for the inspect command footer.
func SnapshotCounts(s *catalog.Snapshot) string {
	return fmt.Sprintf("%d columns, %d indexes, %d triggers",
		len(s.Columns), len(s.Indexes), len(s.Triggers))
}

func columnDetails(c schema.Column) string {
	details := c.Type
	if c.Default != nil {
		details += " default " + *c.Default
	}
	if c.NotNull {
		details += " not null"
	}
	return details
}

func indexDetails(idx schema.Index) string {
	return fmt.Sprintf("%s (%s)", idx.EffectiveMethod(), strings.Join(idx.Columns, ", "))
}

// collapseWhitespace flattens multi-line DDL definitions into one cell.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	joined := strings.Join(fields, " ")
	if len(joined) > 120 {
		joined = joined[:117] + "..."
	}
	return joined
}
