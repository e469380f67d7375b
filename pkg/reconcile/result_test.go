package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/schema"
)

func TestResultSummary(t *testing.T) {
	applied := testPlan()

	tests := []struct {
		name   string
		result *Result
		want   string
	}{
		{
			name: "failure",
			result: NewResultBuilder().
				WithError(errors.New("connection refused")).
				Build(),
			want: "Reconciliation failed with 1 errors",
		},
		{
			name: "dry run with changes",
			result: NewResultBuilder().
				WithPlan(testPlan()).
				WithDryRun(true).
				Build(),
			want: "Dry run completed. Plan for astrology_charts: Columns: 2 to add; Indexes: 1 to create; Triggers: 1 to bind (Total: 4 changes)",
		},
		{
			name: "dry run without changes",
			result: NewResultBuilder().
				WithDryRun(true).
				Build(),
			want: "Dry run completed. No changes detected.",
		},
		{
			name: "applied",
			result: NewResultBuilder().
				WithPlan(applied).
				WithApplied(applied).
				Build(),
			want: "Reconciliation successful. Added 2 columns, 1 indexes, 1 triggers.",
		},
		{
			name:   "nothing to do",
			result: NewResultBuilder().Build(),
			want:   "Reconciliation completed. No changes detected.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Summary())
		})
	}
}

func TestResultBuilderTracksErrors(t *testing.T) {
	result := NewResultBuilder().
		WithTable("astrology_charts").
		WithError(errors.New("permission denied for table astrology_charts")).
		Build()

	assert.False(t, result.Success)
	assert.False(t, result.IsSuccess())
	assert.True(t, result.HasErrors())
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, "astrology_charts", result.Metadata.Table)

	// A nil error leaves the result untouched.
	ok := NewResultBuilder().WithError(nil).Build()
	assert.True(t, ok.IsSuccess())
	assert.Empty(t, ok.Errors)
}

func TestResultStructuresAdded(t *testing.T) {
	assert.Equal(t, 0, NewResultBuilder().Build().StructuresAdded())

	applied := &Plan{
		Table:   "astrology_charts",
		Columns: []schema.Column{{Name: "yogas", Type: "jsonb"}},
	}
	applied.Summary = calculateSummary(applied)

	result := NewResultBuilder().WithApplied(applied).Build()
	assert.Equal(t, 1, result.StructuresAdded())
	assert.True(t, result.WasApplied())
}

func TestResultReport(t *testing.T) {
	plan := testPlan()
	result := NewResultBuilder().
		WithTable("astrology_charts").
		WithPlan(plan).
		WithApplied(plan).
		WithWarning("gin index degraded to btree").
		WithStatistics(ResultStatistics{
			ColumnsAdded:    2,
			IndexesCreated:  1,
			TriggersCreated: 1,
		}).
		Build()

	report := result.Report()
	assert.Contains(t, report, "Reconciliation Report")
	assert.Contains(t, report, "Status: ⚠️  Success with Warnings")
	assert.Contains(t, report, "Table: astrology_charts")
	assert.Contains(t, report, "Columns Added: 2")
	assert.Contains(t, report, "Warnings (1):")
	assert.Contains(t, report, "gin index degraded to btree")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "✅ Success", NewResultBuilder().Build().statusString())
	assert.Equal(t, "🔍 Dry Run", NewResultBuilder().WithDryRun(true).Build().statusString())
	assert.Equal(t, "❌ Failed", NewResultBuilder().WithError(errors.New("boom")).Build().statusString())
}
