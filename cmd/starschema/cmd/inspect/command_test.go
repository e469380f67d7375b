package inspect

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
		},
	}
}

func mockApp(t *testing.T, mem *catalog.Memory) *application.Mock {
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
		OutputFormatFunc: func() string { return "json" },
	}
}

func TestExecuteInspect(t *testing.T) {
	mem := catalog.NewMemory().
		SeedColumns("birth_charts",
			schema.Column{Name: "id", Type: "BIGINT", NotNull: true},
			schema.Column{Name: "sun_sign", Type: "VARCHAR(20)"},
		).
		SeedIndex("birth_charts", schema.Index{Name: "idx_birth_charts_sun", Columns: []string{"sun_sign"}})

	flags := &Flags{Connection: &cmdutil.ConnectionFlags{}}
	err := ExecuteInspect(context.Background(), mockApp(t, mem), flags, &globals.Flags{Quiet: true})
	require.NoError(t, err)

	// Inspection never writes
	assert.Empty(t, mem.Ops)
}

func TestExecuteInspect_EmptyTable(t *testing.T) {
	flags := &Flags{Connection: &cmdutil.ConnectionFlags{}}
	err := ExecuteInspect(context.Background(), mockApp(t, catalog.NewMemory()), flags, &globals.Flags{Quiet: true})
	assert.NoError(t, err)
}

func TestExecuteInspect_ClientError(t *testing.T) {
	app := &application.Mock{
		ClientFunc: func(ctx context.Context, opts ...starschema.Option) (starschema.Client, error) {
			return starschema.New(ctx) // no database, no catalog
		},
	}

	flags := &Flags{Connection: &cmdutil.ConnectionFlags{}}
	err := ExecuteInspect(context.Background(), app, flags, &globals.Flags{Quiet: true})
	assert.Error(t, err)
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand(&application.Mock{})

	assert.Equal(t, "inspect", cmd.Use)
	assert.Equal(t, "core", cmd.GroupID)
	assert.NotNil(t, cmd.Flags().Lookup("database"))
	assert.NotNil(t, cmd.Flags().Lookup("target"))
}
