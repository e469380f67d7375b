package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolab/starschema/pkg/catalog"
	"github.com/astrolab/starschema/pkg/reconcile"
	"github.com/astrolab/starschema/pkg/schema"
)

func strPtr(s string) *string { return &s }

func TestTargetToTableData(t *testing.T) {
	target := &schema.Table{
		Name: "astrology_charts",
		Columns: []schema.Column{
			{Name: "sun_sign", Type: "VARCHAR(20)"},
			{Name: "kp_enabled", Type: "BOOLEAN", Default: strPtr("FALSE"), NotNull: true},
		},
		Indexes: []schema.Index{
			{Name: "idx_charts_yogas", Columns: []string{"yogas"}, Method: schema.MethodGIN},
			{Name: "idx_charts_sun", Columns: []string{"sun_sign", "moon_sign"}},
		},
		Trigger: &schema.Trigger{
			Name:     "trg_charts_updated_at",
			Function: "set_updated_at",
			Column:   "updated_at",
		},
	}

	data := TargetToTableData(target)

	assert.Equal(t, []string{"Kind", "Name", "Details"}, data.Headers)
	require.Len(t, data.Rows, 5)

	assert.Equal(t, []string{"column", "sun_sign", "VARCHAR(20)"}, data.Rows[0])
	assert.Equal(t, []string{"column", "kp_enabled", "BOOLEAN default FALSE not null"}, data.Rows[1])
	assert.Equal(t, []string{"index", "idx_charts_yogas", "gin (yogas)"}, data.Rows[2])
	assert.Equal(t, []string{"index", "idx_charts_sun", "btree (sun_sign, moon_sign)"}, data.Rows[3])
	assert.Equal(t, "trigger", data.Rows[4][0])
	assert.Equal(t, "trg_charts_updated_at", data.Rows[4][1])
	assert.Contains(t, data.Rows[4][2], "set_updated_at()")
	assert.Contains(t, data.Rows[4][2], "updated_at")
}

func TestTargetToTableData_NoTrigger(t *testing.T) {
	target := &schema.Table{
		Name:    "charts",
		Columns: []schema.Column{{Name: "id", Type: "BIGINT"}},
	}

	data := TargetToTableData(target)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "column", data.Rows[0][0])
}

func TestSnapshotToTableData(t *testing.T) {
	snap := &catalog.Snapshot{
		Table: "astrology_charts",
		Columns: []catalog.LiveColumn{
			{Name: "id", DataType: "bigint", Nullable: false},
			{Name: "yogas", DataType: "json", Nullable: true, Default: strPtr("'{}'")},
		},
		Indexes: []catalog.LiveIndex{
			{Name: "idx_charts_yogas", Definition: "CREATE INDEX idx_charts_yogas\n  ON astrology_charts\n  USING gin (yogas)"},
		},
		Triggers: []catalog.LiveTrigger{
			{Name: "trg_charts_updated_at", Definition: "CREATE TRIGGER trg_charts_updated_at BEFORE UPDATE ..."},
		},
	}

	data := SnapshotToTableData(snap)

	assert.Equal(t, []string{"Kind", "Name", "Details"}, data.Headers)
	require.Len(t, data.Rows, 4)

	assert.Equal(t, []string{"column", "id", "bigint not null"}, data.Rows[0])
	assert.Equal(t, []string{"column", "yogas", "json default '{}'"}, data.Rows[1])

	// Multi-line DDL collapses to a single cell
	assert.Equal(t, "CREATE INDEX idx_charts_yogas ON astrology_charts USING gin (yogas)", data.Rows[2][2])
	assert.Equal(t, "trigger", data.Rows[3][0])
}

func TestPlanToTableData(t *testing.T) {
	plan := &reconcile.Plan{
		Table: "astrology_charts",
		Columns: []schema.Column{
			{Name: "d9_navamsa_sun", Type: "VARCHAR(20)"},
		},
		Indexes: []schema.Index{
			{Name: "idx_charts_aspects", Columns: []string{"aspects"}, Method: schema.MethodGIN},
		},
		Trigger: &schema.Trigger{
			Name:     "trg_charts_updated_at",
			Function: "set_updated_at",
			Column:   "updated_at",
		},
		Summary: reconcile.PlanSummary{ColumnsToAdd: 1, IndexesToCreate: 1, TriggersToBind: 1, TotalChanges: 3},
	}

	data := PlanToTableData(plan)

	assert.Equal(t, []string{"Kind", "Name", "Details"}, data.Headers)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []string{"column", "d9_navamsa_sun", "VARCHAR(20)"}, data.Rows[0])
	assert.Equal(t, []string{"index", "idx_charts_aspects", "gin (aspects)"}, data.Rows[1])
	assert.Equal(t, "trigger", data.Rows[2][0])
}

func TestPlanToTableData_FunctionRefreshNotListed(t *testing.T) {
	// The function is ensured on every run; only a pending binding is a change
	plan := &reconcile.Plan{
		Table: "astrology_charts",
		Function: &schema.Trigger{
			Name:     "trg_charts_updated_at",
			Function: "set_updated_at",
			Column:   "updated_at",
		},
	}

	data := PlanToTableData(plan)
	assert.Empty(t, data.Rows)
}

func TestSnapshotCounts(t *testing.T) {
	snap := &catalog.Snapshot{
		Table: "astrology_charts",
		Columns: []catalog.LiveColumn{
			{Name: "id", DataType: "bigint"},
			{Name: "sun_sign", DataType: "varchar"},
		},
		Indexes:  []catalog.LiveIndex{{Name: "idx_charts_yogas"}},
		Triggers: nil,
	}

	assert.Equal(t, "2 columns, 1 indexes, 0 triggers", SnapshotCounts(snap))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", collapseWhitespace("a\n  b\t\tc"))
	assert.Equal(t, "", collapseWhitespace("   \n\t "))

	long := strings.Repeat("x", 200)
	got := collapseWhitespace(long)
	assert.Len(t, got, 120)
	assert.True(t, strings.HasSuffix(got, "..."))
}
