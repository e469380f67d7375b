package starschema

import (
	"context"

	"github.com/astrolab/starschema/pkg/reconcile"
)

// Plan reports the structures missing from the live table without touching it.
func (c *client) Plan(ctx context.Context) (*reconcile.Plan, error) {
	return c.reconciler.Plan(ctx, c.target)
}

// Reconcile applies the missing structures and fires registered hooks for
// everything that was created. On failure the result carries the applied
// prefix and hooks fire for it; the rest is picked up by the next run.
func (c *client) Reconcile(ctx context.Context) (*reconcile.Result, error) {
	result, err := c.reconciler.Reconcile(ctx, c.target)
	if result != nil && !result.Metadata.DryRun {
		c.hooks.fire(result.Applied)
	}
	return result, err
}
