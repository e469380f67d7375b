// Package starschema keeps a live database table in line with a declared
// schema target. A target names one table and the columns, indexes, and
// updated_at trigger it should carry; reconciling adds whatever is missing
// and leaves everything else alone. Nothing is ever dropped, retyped, or
// rewritten, so a target can be reapplied safely at every deploy.
//
// Reconciliation is delta-only and resumable:
//   - structures are checked by name, scoped to the target's table
//   - present structures are skipped, absent ones are created
//   - the trigger function is refreshed on every run, the binding only once
//   - a failed run stops at the first error and a re-run finishes the rest
//
// Example usage:
//
//	// Reconcile the embedded chart target against Postgres
//	client, err := starschema.New(ctx,
//	    starschema.WithDatabase(os.Getenv("DATABASE_URL")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Reconcile(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
//
//	// Or declare your own target
//	client, err = starschema.New(ctx,
//	    starschema.WithDatabase("sqlite://charts.db"),
//	    starschema.WithTargetFile("targets/birth_chart.yaml"),
//	    starschema.WithDryRun(true),
//	)
package starschema

import (
	"context"

	"github.com/astrolab/starschema/pkg/catalog"
	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/reconcile"
	"github.com/astrolab/starschema/pkg/schema"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Reconciler plans and applies the target against the live table.
type Reconciler interface {
	// Plan reports the structures missing from the live table without
	// touching it.
	Plan(ctx context.Context) (*reconcile.Plan, error)

	// Reconcile applies the missing structures and returns what happened.
	Reconcile(ctx context.Context) (*reconcile.Result, error)
}

// Inspector reads the live shape of the target's table.
type Inspector interface {
	Inspect(ctx context.Context) (*catalog.Snapshot, error)
}

// Hooks registers callbacks fired after structures are created.
type Hooks interface {
	OnColumnAdded(ColumnAddedHook)
	OnIndexCreated(IndexCreatedHook)
	OnTriggerCreated(TriggerCreatedHook)
}

// Client reconciles one declared target against one live database.
type Client interface {

	// Reconciler plans and applies the target
	Reconciler

	// Inspector reads the live table
	Inspector

	// Hooks provides access to event callback registration
	Hooks

	// Target returns the declaration the client reconciles.
	Target() *schema.Table

	// Validate re-checks the target declaration.
	Validate() error

	// Close releases the database handle when the client opened it.
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	target  *schema.Table

	catalog     catalog.Catalog
	ownsCatalog bool

	reconciler reconcile.Reconciler
	hooks      *hooks
}

// New creates a Client from the given options. Exactly one target source and
// one database source apply; with no target option the embedded chart target
// is used. The database is dialed here, so a bad connection string fails
// immediately rather than on first use.
func New(ctx context.Context, opts ...Option) (Client, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	target, err := o.resolveTarget()
	if err != nil {
		return nil, err
	}

	cat, owns, err := o.resolveCatalog(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := reconcile.New(cat,
		reconcile.WithLogger(o.logger),
		reconcile.WithDryRun(o.dryRun),
	)
	if err != nil {
		if owns {
			_ = cat.Close()
		}
		return nil, err
	}

	return &client{
		options:     o,
		target:      target,
		catalog:     cat,
		ownsCatalog: owns,
		reconciler:  rec,
		hooks:       newHooks(),
	}, nil
}

// Target returns the declaration the client reconciles.
func (c *client) Target() *schema.Table {
	return c.target
}

// Validate re-checks the target declaration. Targets are validated when the
// client is built, so this only fails after the caller mutates the table
// returned by Target.
func (c *client) Validate() error {
	return c.target.Validate()
}

// Inspect lists the live columns, indexes, and triggers of the target's table.
func (c *client) Inspect(ctx context.Context) (*catalog.Snapshot, error) {
	snap, ok := c.catalog.(catalog.Snapshotter)
	if !ok {
		return nil, errors.NewConfigError("client", "catalog does not support inspection", errors.ErrUnsupported)
	}
	return snap.Snapshot(ctx, c.target.Name)
}

// Close releases the database handle when the client opened it. Catalogs
// passed in through WithCatalog stay open; their owner closes them.
func (c *client) Close() error {
	if !c.ownsCatalog {
		return nil
	}
	return c.catalog.Close()
}
