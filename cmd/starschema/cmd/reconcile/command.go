package reconcile

import (
	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/cmd/application"
	"github.com/astrolab/starschema/internal/cmd/globals"
)

// NewCommand creates the reconcile command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Apply missing schema structures to the live table",
		Long: `Reconcile compares the declared target against the live table and creates
whatever is missing:

1. Columns - added with the declared type, default, and nullability
2. Indexes - created with the declared method (btree, gin)
3. Trigger - the updated_at stamp function and its binding

Existing structures are skipped by name and never dropped, retyped, or
rewritten; row data is not touched. A failed run stops at the first error
and leaves the completed structures in place, so re-running finishes the
remainder.

Concurrent runs against the same table are not coordinated. Serialize them
in the caller (deploy pipeline, migration lock).`,
		Example: `  starschema reconcile                      # Reconcile DATABASE_URL with the embedded target
  starschema reconcile --dry-run            # Preview changes without applying
  starschema reconcile -y                   # Skip the confirmation prompt
  starschema reconcile -t charts.yaml       # Reconcile a target file
  starschema reconcile -d sqlite://dev.db   # Reconcile a SQLite database`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := app.Logger()

			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}

			return ExecuteReconcile(ctx, app, flags, globalFlags, logger)
		},
	}

	// Add reconcile-specific flags
	flags = addReconcileFlags(cmd)

	return cmd
}
