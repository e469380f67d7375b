package reconcile

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolab/starschema"
	"github.com/astrolab/starschema/cmd/application"
	"github.com/astrolab/starschema/internal/cmd/cmdutil"
	"github.com/astrolab/starschema/internal/cmd/globals"
	"github.com/astrolab/starschema/pkg/catalog"
	"github.com/astrolab/starschema/pkg/schema"
)

func chartTarget() *schema.Table {
	return &schema.Table{
		Name: "birth_charts",
		Columns: []schema.Column{
			{Name: "sun_sign", Type: "VARCHAR(20)"},
			{Name: "yogas", Type: "JSON"},
		},
		Indexes: []schema.Index{
			{Name: "idx_birth_charts_yogas", Columns: []string{"yogas"}, Method: schema.MethodGIN},
		},
		Trigger: &schema.Trigger{Name: "trg_birth_charts_updated_at"},
	}
}

func mockApp(t *testing.T, mem *catalog.Memory, format string) *application.Mock {
	t.Helper()
	return &application.Mock{
		ClientFunc: func(ctx context.Context, opts ...starschema.Option) (starschema.Client, error) {
			logger := zerolog.Nop()
			base := []starschema.Option{
				starschema.WithCatalog(mem),
				starschema.WithTarget(chartTarget()),
				starschema.WithLogger(&logger),
			}
			return starschema.New(ctx, append(base, opts...)...)
		},
		OutputFormatFunc: func() string { return format },
	}
}

func runFlags(dryRun, autoApprove bool) *Flags {
	return &Flags{
		Connection:  &cmdutil.ConnectionFlags{},
		DryRun:      dryRun,
		AutoApprove: autoApprove,
	}
}

func TestExecuteReconcile_AutoApprove(t *testing.T) {
	mem := catalog.NewMemory()
	app := mockApp(t, mem, "table")
	logger := zerolog.Nop()

	err := ExecuteReconcile(context.Background(), app, runFlags(false, true), &globals.Flags{Quiet: true}, &logger)
	require.NoError(t, err)

	// Columns land first, then the index, then function and binding
	assert.Equal(t, []string{
		"add column birth_charts.sun_sign",
		"add column birth_charts.yogas",
		"create index birth_charts.idx_birth_charts_yogas",
		"ensure function set_updated_at",
		"create trigger trg_birth_charts_updated_at on birth_charts",
	}, mem.Ops)
}

func TestExecuteReconcile_SecondRunAddsNothing(t *testing.T) {
	mem := catalog.NewMemory()
	app := mockApp(t, mem, "table")
	logger := zerolog.Nop()
	quiet := &globals.Flags{Quiet: true}

	require.NoError(t, ExecuteReconcile(context.Background(), app, runFlags(false, true), quiet, &logger))
	applied := len(mem.Ops)

	// An empty plan returns before the engine runs, so the re-run writes nothing
	require.NoError(t, ExecuteReconcile(context.Background(), app, runFlags(false, true), quiet, &logger))
	assert.Equal(t, applied, len(mem.Ops))
	assert.Equal(t, 2, mem.ColumnCount("birth_charts"))
}

func TestExecuteReconcile_DryRun(t *testing.T) {
	mem := catalog.NewMemory()
	app := mockApp(t, mem, "table")
	logger := zerolog.Nop()

	err := ExecuteReconcile(context.Background(), app, runFlags(true, false), &globals.Flags{Quiet: true}, &logger)
	require.NoError(t, err)

	assert.Empty(t, mem.Ops)
	assert.Zero(t, mem.ColumnCount("birth_charts"))
}

func TestExecuteReconcile_NoChangesSkipsPrompt(t *testing.T) {
	target := chartTarget()
	mem := catalog.NewMemory().
		SeedColumns(target.Name, target.Columns...).
		SeedIndex(target.Name, target.Indexes[0]).
		SeedTrigger(schema.Trigger{Name: "trg_birth_charts_updated_at"})
	app := mockApp(t, mem, "table")
	logger := zerolog.Nop()

	// AutoApprove off: an empty plan returns before any prompt
	err := ExecuteReconcile(context.Background(), app, runFlags(false, false), &globals.Flags{Quiet: true}, &logger)
	require.NoError(t, err)
	assert.Empty(t, mem.Ops)
}

func TestExecuteReconcile_PromptDefaultsToNo(t *testing.T) {
	// Test binaries run with stdin closed, so the confirmation read fails
	// and falls back to "n"
	mem := catalog.NewMemory()
	app := mockApp(t, mem, "table")
	logger := zerolog.Nop()

	err := ExecuteReconcile(context.Background(), app, runFlags(false, false), &globals.Flags{Quiet: true}, &logger)
	require.NoError(t, err)

	assert.Empty(t, mem.Ops)
	assert.Zero(t, mem.ColumnCount("birth_charts"))
}

func TestExecuteReconcile_MachineFormatApplies(t *testing.T) {
	mem := catalog.NewMemory()
	app := mockApp(t, mem, "json")
	logger := zerolog.Nop()

	// json output applies without prompting and prints the result document
	err := ExecuteReconcile(context.Background(), app, runFlags(false, false), &globals.Flags{Quiet: true}, &logger)
	require.NoError(t, err)

	assert.Equal(t, 2, mem.ColumnCount("birth_charts"))
}

func TestExecuteReconcile_ErrorStopsRun(t *testing.T) {
	mem := catalog.NewMemory().FailAfter(2, assert.AnError)
	app := mockApp(t, mem, "table")
	logger := zerolog.Nop()

	err := ExecuteReconcile(context.Background(), app, runFlags(false, true), &globals.Flags{Quiet: true}, &logger)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	// The two completed writes stay in place
	assert.Len(t, mem.Ops, 2)

	// Clearing the fault lets a re-run finish the remainder
	mem.FailAfter(-1, nil)
	require.NoError(t, ExecuteReconcile(context.Background(), app, runFlags(false, true), &globals.Flags{Quiet: true}, &logger))
	assert.Equal(t, 2, mem.ColumnCount("birth_charts"))
}

func TestExecuteReconcile_ClientError(t *testing.T) {
	app := &application.Mock{
		ClientFunc: func(ctx context.Context, opts ...starschema.Option) (starschema.Client, error) {
			return starschema.New(ctx) // no database, no catalog
		},
	}
	logger := zerolog.Nop()

	err := ExecuteReconcile(context.Background(), app, runFlags(false, true), &globals.Flags{Quiet: true}, &logger)
	assert.Error(t, err)
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand(&application.Mock{})

	assert.Equal(t, "reconcile", cmd.Use)
	assert.Equal(t, "core", cmd.GroupID)
	assert.NotNil(t, cmd.Flags().Lookup("dry-run"))
	assert.NotNil(t, cmd.Flags().Lookup("yes"))
	assert.Equal(t, "y", cmd.Flags().Lookup("yes").Shorthand)
	assert.NotNil(t, cmd.Flags().Lookup("database"))
	assert.NotNil(t, cmd.Flags().Lookup("target"))
}
