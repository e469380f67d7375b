// Package inspect provides the inspect command implementation.
package inspect

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/cmd/application"
	"github.com/astrolab/starschema/internal/cmd/cmdutil"
	"github.com/astrolab/starschema/internal/cmd/globals"
	"github.com/astrolab/starschema/internal/cmd/output"
)

// Flags holds the inspect command flags.
type Flags struct {
	Connection *cmdutil.ConnectionFlags
}

// NewCommand creates the inspect command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "inspect",
		GroupID: "core",
		Short:   "List live columns, indexes, and triggers",
		Long: `Inspect reads the live shape of the target's table: every column, index,
and trigger currently present, whether or not the target declares it.
Postgres, SQLite, and the in-memory catalog support inspection.`,
		Example: `  starschema inspect                        # Live shape of the target table
  starschema inspect -d sqlite://dev.db     # Inspect a SQLite database
  starschema inspect -o yaml                # Machine-readable snapshot`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}

			return ExecuteInspect(ctx, app, flags, globalFlags)
		},
	}

	// Add inspect-specific flags
	flags = addInspectFlags(cmd)

	return cmd
}

// addInspectFlags adds inspect-specific flags to the command.
func addInspectFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	flags.Connection = cmdutil.AddConnectionFlags(cmd)

	return flags
}

// ExecuteInspect snapshots the live table and prints it.
func ExecuteInspect(ctx context.Context, app application.Application, flags *Flags, globalFlags *globals.Flags) error {
	opts := flags.Connection.ClientOptions()

	client, err := app.Client(ctx, opts...)
	if err != nil {
		return err
	}
	if len(opts) > 0 {
		// Flag overrides build a dedicated client this command owns
		defer func() { _ = client.Close() }()
	}

	snap, err := client.Inspect(ctx)
	if err != nil {
		return err
	}

	format := output.Format(app.OutputFormat())
	formatter := output.NewFormatter(format)

	// Transform to output format
	var data any
	switch format {
	case output.FormatJSON, output.FormatYAML:
		data = snap
	default:
		data = output.SnapshotToTableData(snap)
	}

	if !globalFlags.Quiet {
		fmt.Fprintf(os.Stderr, "Live shape of %s: %s\n", snap.Table, output.SnapshotCounts(snap))
	}

	return formatter.Format(os.Stdout, data)
}
