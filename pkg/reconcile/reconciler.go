package reconcile

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/astrolab/starschema/pkg/catalog"
	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/logging"
	"github.com/astrolab/starschema/pkg/schema"
)

// Reconciler drives a target declaration against a live catalog.
//
// A Reconciler is single-threaded: it holds no locks and assumes it is the
// only writer touching the table's schema while it runs. Callers that share
// a table between processes serialize runs themselves.
type Reconciler interface {
	// Plan reports which declared structures are missing from the live table.
	// Existence checks are scoped to the table; errors from the catalog are
	// returned as-is.
	Plan(ctx context.Context, target *schema.Table) (*Plan, error)

	// Apply executes a plan in order: columns, then indexes, then the trigger
	// function, then the trigger binding. The first failure stops the run and
	// is returned alongside a Result carrying whatever was applied before it.
	Apply(ctx context.Context, target *schema.Table, plan *Plan) (*Result, error)

	// Reconcile plans and applies in one pass.
	Reconcile(ctx context.Context, target *schema.Table) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	catalog catalog.Catalog
	logger  *zerolog.Logger
	dryRun  bool
}

var _ Reconciler = (*reconciler)(nil)

// Option configures a Reconciler.
type Option func(*reconciler) error

// New creates a Reconciler bound to the given catalog.
func New(cat catalog.Catalog, opts ...Option) (Reconciler, error) {
	if cat == nil {
		return nil, errors.NewConfigError("reconciler", "catalog is required", nil)
	}

	r := &reconciler{
		catalog: cat,
		logger:  logging.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Plan checks every declared structure against the live table and collects
// the missing ones. The target is validated first so no statement is ever
// rendered from an unchecked declaration.
func (r *reconciler) Plan(ctx context.Context, target *schema.Table) (*Plan, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	plan := &Plan{Table: target.Name}

	for _, col := range target.Columns {
		exists, err := r.catalog.ColumnExists(ctx, target.Name, col.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			r.logger.Debug().
				Str("table", target.Name).
				Str("column", col.Name).
				Msg("column present, skipping")
			continue
		}
		plan.Columns = append(plan.Columns, col)
	}

	for _, idx := range target.Indexes {
		exists, err := r.catalog.IndexExists(ctx, target.Name, idx.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			r.logger.Debug().
				Str("table", target.Name).
				Str("index", idx.Name).
				Msg("index present, skipping")
			continue
		}
		plan.Indexes = append(plan.Indexes, idx)
	}

	if target.Trigger != nil {
		tr := *target.Trigger
		// The function is created or replaced on every run.
		plan.Function = &tr

		exists, err := r.catalog.TriggerExists(ctx, tr.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			r.logger.Debug().
				Str("table", target.Name).
				Str("trigger", tr.Name).
				Msg("trigger present, skipping")
		} else {
			plan.Trigger = &tr
		}
	}

	plan.Summary = calculateSummary(plan)
	return plan, nil
}

// Apply executes the plan against the catalog. Statement errors are returned
// as the catalog produced them; nothing is retried or rolled back, and a
// re-run picks up where the failed run stopped.
func (r *reconciler) Apply(ctx context.Context, target *schema.Table, plan *Plan) (*Result, error) {
	builder := NewResultBuilder().
		WithTable(target.Name).
		WithPlan(plan).
		WithDryRun(r.dryRun)

	stats := ResultStatistics{
		StructuresSkipped: target.Structures() - plan.Summary.TotalChanges,
	}

	if r.dryRun {
		r.logger.Info().
			Str("table", target.Name).
			Int("changes", plan.Summary.TotalChanges).
			Msg("dry run, nothing applied")
		return builder.WithStatistics(stats).Build(), nil
	}

	applyStart := time.Now()
	applied := &Plan{Table: plan.Table}

	fail := func(err error) (*Result, error) {
		applied.Summary = calculateSummary(applied)
		stats.ApplyTimeMs = time.Since(applyStart).Milliseconds()
		result := builder.
			WithApplied(applied).
			WithStatistics(stats).
			WithError(err).
			Build()
		return result, err
	}

	for _, col := range plan.Columns {
		r.logger.Info().
			Str("table", plan.Table).
			Str("column", col.Name).
			Str("type", col.Type).
			Msg("adding column")
		if err := r.catalog.AddColumn(ctx, plan.Table, col); err != nil {
			return fail(err)
		}
		applied.Columns = append(applied.Columns, col)
		stats.ColumnsAdded++
	}

	for _, idx := range plan.Indexes {
		r.logger.Info().
			Str("table", plan.Table).
			Str("index", idx.Name).
			Str("method", string(idx.EffectiveMethod())).
			Msg("creating index")
		if err := r.catalog.CreateIndex(ctx, plan.Table, idx); err != nil {
			return fail(err)
		}
		applied.Indexes = append(applied.Indexes, idx)
		stats.IndexesCreated++
	}

	if plan.Function != nil {
		r.logger.Info().
			Str("function", plan.Function.Function).
			Msg("ensuring trigger function")
		if err := r.catalog.EnsureTriggerFunction(ctx, *plan.Function); err != nil {
			return fail(err)
		}
		applied.Function = plan.Function
		stats.FunctionsEnsured++
	}

	if plan.Trigger != nil {
		r.logger.Info().
			Str("table", plan.Table).
			Str("trigger", plan.Trigger.Name).
			Msg("binding trigger")
		if err := r.catalog.CreateTrigger(ctx, plan.Table, *plan.Trigger); err != nil {
			return fail(err)
		}
		applied.Trigger = plan.Trigger
		stats.TriggersCreated++
	}

	applied.Summary = calculateSummary(applied)
	stats.ApplyTimeMs = time.Since(applyStart).Milliseconds()

	return builder.
		WithApplied(applied).
		WithStatistics(stats).
		Build(), nil
}

// Reconcile plans and applies in one pass.
func (r *reconciler) Reconcile(ctx context.Context, target *schema.Table) (*Result, error) {
	start := time.Now()

	plan, err := r.Plan(ctx, target)
	if err != nil {
		return nil, err
	}
	planMs := time.Since(start).Milliseconds()

	result, err := r.Apply(ctx, target, plan)
	if result != nil {
		result.Metadata.StartTime = start
		result.Metadata.Duration = result.Metadata.EndTime.Sub(start)
		result.Metadata.Stats.PlanTimeMs = planMs
		result.Metadata.Stats.TotalTimeMs = result.Metadata.Duration.Milliseconds()
	}
	return result, err
}

// Option Functions
// ================

// WithLogger sets the logger used for progress output.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *reconciler) error {
		if logger == nil {
			return errors.NewConfigError("reconciler", "logger cannot be nil", nil)
		}
		r.logger = logger
		return nil
	}
}

// WithDryRun makes Apply report the plan without executing it.
func WithDryRun(dryRun bool) Option {
	return func(r *reconciler) error {
		r.dryRun = dryRun
		return nil
	}
}
