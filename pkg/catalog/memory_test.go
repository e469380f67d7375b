package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolab/starschema/pkg/catalog"
	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/schema"
)

func TestMemoryExistenceScopedByTable(t *testing.T) {
	ctx := context.Background()
	mem := catalog.NewMemory().
		SeedColumns("astrology_charts", schema.Column{Name: "updated_at", Type: "timestamptz"}).
		SeedIndex("astrology_charts", schema.Index{Name: "idx_charts_yogas", Columns: []string{"yogas"}, Method: schema.MethodGIN})

	ok, err := mem.ColumnExists(ctx, "astrology_charts", "updated_at")
	require.NoError(t, err)
	assert.True(t, ok)

	// Same column name on a different table is a different structure.
	ok, err = mem.ColumnExists(ctx, "transits", "updated_at")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = mem.IndexExists(ctx, "astrology_charts", "idx_charts_yogas")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mem.IndexExists(ctx, "transits", "idx_charts_yogas")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryAddColumn(t *testing.T) {
	ctx := context.Background()
	mem := catalog.NewMemory()

	col := schema.Column{Name: "yogas", Type: "jsonb"}
	require.NoError(t, mem.AddColumn(ctx, "astrology_charts", col))

	ok, err := mem.ColumnExists(ctx, "astrology_charts", "yogas")
	require.NoError(t, err)
	assert.True(t, ok)

	// A second add of the same column fails like a live engine would.
	err = mem.AddColumn(ctx, "astrology_charts", col)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
	assert.Contains(t, err.Error(), "yogas")

	assert.Equal(t, []string{"add column astrology_charts.yogas"}, mem.Ops)
}

func TestMemoryCreateIndexDuplicate(t *testing.T) {
	ctx := context.Background()
	mem := catalog.NewMemory()

	idx := schema.Index{Name: "idx_charts_aspects", Columns: []string{"aspects"}, Method: schema.MethodGIN}
	require.NoError(t, mem.CreateIndex(ctx, "astrology_charts", idx))

	err := mem.CreateIndex(ctx, "astrology_charts", idx)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestMemoryTriggerRequiresFunction(t *testing.T) {
	ctx := context.Background()
	mem := catalog.NewMemory()
	tr := schema.Trigger{
		Name:     "trg_astrology_charts_updated_at",
		Function: "set_updated_at",
		Column:   "updated_at",
	}

	// Binding before the function exists fails, same as Postgres.
	err := mem.CreateTrigger(ctx, "astrology_charts", tr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set_updated_at")

	require.NoError(t, mem.EnsureTriggerFunction(ctx, tr))
	require.NoError(t, mem.CreateTrigger(ctx, "astrology_charts", tr))

	ok, err := mem.TriggerExists(ctx, "trg_astrology_charts_updated_at")
	require.NoError(t, err)
	assert.True(t, ok)

	// The function is replaceable, the trigger binding is not.
	require.NoError(t, mem.EnsureTriggerFunction(ctx, tr))
	err = mem.CreateTrigger(ctx, "astrology_charts", tr)
	require.Error(t, err)
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestMemoryFailAfter(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset by peer")
	mem := catalog.NewMemory().FailAfter(2, boom)

	require.NoError(t, mem.AddColumn(ctx, "astrology_charts", schema.Column{Name: "house_1_longitude", Type: "double precision"}))
	require.NoError(t, mem.AddColumn(ctx, "astrology_charts", schema.Column{Name: "house_1_rasi", Type: "text"}))

	err := mem.AddColumn(ctx, "astrology_charts", schema.Column{Name: "house_1_degrees", Type: "double precision"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	// The failed write left no trace.
	ok, err := mem.ColumnExists(ctx, "astrology_charts", "house_1_degrees")
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing the fault lets the same write succeed.
	mem.FailAfter(-1, nil)
	require.NoError(t, mem.AddColumn(ctx, "astrology_charts", schema.Column{Name: "house_1_degrees", Type: "double precision"}))
	assert.Equal(t, 3, mem.ColumnCount("astrology_charts"))
}

func TestMemorySnapshot(t *testing.T) {
	ctx := context.Background()
	mem := catalog.NewMemory().
		SeedColumns("astrology_charts",
			schema.Column{Name: "updated_at", Type: "timestamptz"},
			schema.Column{Name: "yogas", Type: "jsonb"},
		).
		SeedIndex("astrology_charts", schema.Index{Name: "idx_charts_yogas", Columns: []string{"yogas"}, Method: schema.MethodGIN}).
		SeedTrigger(schema.Trigger{Name: "trg_astrology_charts_updated_at", Function: "set_updated_at", Column: "updated_at"})

	snap, err := mem.Snapshot(ctx, "astrology_charts")
	require.NoError(t, err)

	require.Len(t, snap.Columns, 2)
	assert.Equal(t, "updated_at", snap.Columns[0].Name)
	assert.Equal(t, "yogas", snap.Columns[1].Name)
	assert.True(t, snap.Columns[0].Nullable)

	require.Len(t, snap.Indexes, 1)
	assert.Equal(t, "idx_charts_yogas", snap.Indexes[0].Name)

	require.Len(t, snap.Triggers, 1)
	assert.Equal(t, "trg_astrology_charts_updated_at", snap.Triggers[0].Name)
}
