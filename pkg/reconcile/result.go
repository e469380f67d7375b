package reconcile

import (
	"fmt"
	"time"
)

// Result represents the outcome of a reconciliation run.
type Result struct {
	// Success indicates if the run completed without errors
	Success bool `json:"success" yaml:"success"`

	// Plan contains the changes that were detected
	Plan *Plan `json:"plan,omitempty" yaml:"plan,omitempty"`

	// Applied contains the changes that were actually executed. It trails
	// Plan when a statement failed mid-run, and is nil for dry runs.
	Applied *Plan `json:"applied,omitempty" yaml:"applied,omitempty"`

	// Errors contains any errors that occurred. Error values do not
	// serialize; machine output carries Success and the exit status instead.
	Errors []error `json:"-" yaml:"-"`

	// Warnings contains non-critical issues
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata about the run
	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains metadata about the reconciliation run.
type ResultMetadata struct {
	// StartTime when the run started
	StartTime time.Time `json:"start_time" yaml:"start_time"`

	// EndTime when the run completed
	EndTime time.Time `json:"end_time" yaml:"end_time"`

	// Duration of the run
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Table the run reconciled
	Table string `json:"table" yaml:"table"`

	// DryRun indicates if this was a dry run
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Statistics about the run
	Stats ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics counts what the run did.
type ResultStatistics struct {
	ColumnsAdded      int `json:"columns_added" yaml:"columns_added"`
	IndexesCreated    int `json:"indexes_created" yaml:"indexes_created"`
	TriggersCreated   int `json:"triggers_created" yaml:"triggers_created"`
	FunctionsEnsured  int `json:"functions_ensured" yaml:"functions_ensured"`
	StructuresSkipped int `json:"structures_skipped" yaml:"structures_skipped"`

	// Performance metrics
	PlanTimeMs  int64 `json:"plan_time_ms" yaml:"plan_time_ms"`
	ApplyTimeMs int64 `json:"apply_time_ms" yaml:"apply_time_ms"`
	TotalTimeMs int64 `json:"total_time_ms" yaml:"total_time_ms"`
}

// IsSuccess returns true if the run completed without errors.
func (r *Result) IsSuccess() bool {
	return r.Success && len(r.Errors) == 0
}

// HasErrors returns true if there were errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there were warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasChanges returns true if any changes were detected.
func (r *Result) HasChanges() bool {
	return r.Plan != nil && r.Plan.HasChanges()
}

// WasApplied returns true if changes were applied.
func (r *Result) WasApplied() bool {
	return r.Applied != nil && r.Applied.HasChanges()
}

// StructuresAdded returns the number of structures the run created.
func (r *Result) StructuresAdded() int {
	if r.Applied == nil {
		return 0
	}
	return r.Applied.Summary.TotalChanges
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if !r.Success {
		return fmt.Sprintf("Reconciliation failed with %d errors", len(r.Errors))
	}

	if r.Metadata.DryRun {
		if r.HasChanges() {
			return fmt.Sprintf("Dry run completed. %s", r.Plan.String())
		}
		return "Dry run completed. No changes detected."
	}

	if r.WasApplied() {
		s := r.Applied.Summary
		return fmt.Sprintf("Reconciliation successful. Added %d columns, %d indexes, %d triggers.",
			s.ColumnsToAdd, s.IndexesToCreate, s.TriggersToBind)
	}

	return "Reconciliation completed. No changes detected."
}

// Report generates a detailed report of the run.
func (r *Result) Report() string {
	report := fmt.Sprintf(`
Reconciliation Report
=====================
Status: %s
Table: %s
Duration: %s

`, r.statusString(), r.Metadata.Table, r.Metadata.Duration)

	report += fmt.Sprintf(`Statistics:
-----------
Columns Added: %d
Indexes Created: %d
Triggers Created: %d
Functions Ensured: %d
Structures Skipped: %d

`, r.Metadata.Stats.ColumnsAdded,
		r.Metadata.Stats.IndexesCreated,
		r.Metadata.Stats.TriggersCreated,
		r.Metadata.Stats.FunctionsEnsured,
		r.Metadata.Stats.StructuresSkipped)

	report += fmt.Sprintf(`Performance:
------------
Plan Time: %dms
Apply Time: %dms
Total Time: %dms

`, r.Metadata.Stats.PlanTimeMs,
		r.Metadata.Stats.ApplyTimeMs,
		r.Metadata.Stats.TotalTimeMs)

	if r.HasChanges() {
		report += fmt.Sprintf(`Changes Detected:
-----------------
%s

`, r.Plan.String())
	}

	if r.WasApplied() && r.Applied.Summary != r.Plan.Summary {
		report += fmt.Sprintf(`Changes Applied:
----------------
%s

`, r.Applied.String())
	}

	if r.HasErrors() {
		report += fmt.Sprintf(`Errors (%d):
------------
`, len(r.Errors))
		for i, err := range r.Errors {
			report += fmt.Sprintf("%d. %v\n", i+1, err)
		}
		report += "\n"
	}

	if r.HasWarnings() {
		report += fmt.Sprintf(`Warnings (%d):
--------------
`, len(r.Warnings))
		for i, warning := range r.Warnings {
			report += fmt.Sprintf("%d. %s\n", i+1, warning)
		}
		report += "\n"
	}

	return report
}

// statusString returns a string representation of the status.
func (r *Result) statusString() string {
	if !r.Success {
		return "❌ Failed"
	}
	if r.Metadata.DryRun {
		return "🔍 Dry Run"
	}
	if r.HasWarnings() {
		return "⚠️  Success with Warnings"
	}
	return "✅ Success"
}

// ResultBuilder helps construct Result objects.
type ResultBuilder struct {
	result *Result
}

// NewResultBuilder creates a new ResultBuilder.
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{
		result: &Result{
			Success:  true,
			Errors:   []error{},
			Warnings: []string{},
			Metadata: ResultMetadata{
				StartTime: time.Now(),
			},
		},
	}
}

// WithTable sets the table the run reconciled.
func (b *ResultBuilder) WithTable(table string) *ResultBuilder {
	b.result.Metadata.Table = table
	return b
}

// WithPlan sets the detected changes.
func (b *ResultBuilder) WithPlan(plan *Plan) *ResultBuilder {
	b.result.Plan = plan
	return b
}

// WithApplied sets the applied changes.
func (b *ResultBuilder) WithApplied(applied *Plan) *ResultBuilder {
	b.result.Applied = applied
	return b
}

// WithError adds an error.
func (b *ResultBuilder) WithError(err error) *ResultBuilder {
	if err != nil {
		b.result.Success = false
		b.result.Errors = append(b.result.Errors, err)
	}
	return b
}

// WithWarning adds a warning.
func (b *ResultBuilder) WithWarning(warning string) *ResultBuilder {
	b.result.Warnings = append(b.result.Warnings, warning)
	return b
}

// WithDryRun marks this as a dry run.
func (b *ResultBuilder) WithDryRun(dryRun bool) *ResultBuilder {
	b.result.Metadata.DryRun = dryRun
	return b
}

// WithStatistics sets the result statistics.
func (b *ResultBuilder) WithStatistics(stats ResultStatistics) *ResultBuilder {
	b.result.Metadata.Stats = stats
	return b
}

// Build finalizes and returns the Result.
func (b *ResultBuilder) Build() *Result {
	b.result.Metadata.EndTime = time.Now()
	b.result.Metadata.Duration = b.result.Metadata.EndTime.Sub(b.result.Metadata.StartTime)
	b.result.Metadata.Stats.TotalTimeMs = b.result.Metadata.Duration.Milliseconds()

	return b.result
}
