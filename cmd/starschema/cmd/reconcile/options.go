// Package reconcile provides the reconcile command implementation.
package reconcile

import (
	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/internal/cmd/cmdutil"
)

// Flags holds the reconcile command flags.
type Flags struct {
	Connection  *cmdutil.ConnectionFlags
	DryRun      bool
	AutoApprove bool
}

// addReconcileFlags adds reconcile-specific flags to the command.
func addReconcileFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	flags.Connection = cmdutil.AddConnectionFlags(cmd)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Print the plan and exit without touching the database")
	cmd.Flags().BoolVarP(&flags.AutoApprove, "yes", "y", false,
		"Apply changes without asking for confirmation")

	return flags
}
