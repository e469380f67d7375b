// Package plan provides the plan command implementation.
package plan

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

// Flags holds the plan command flags.
type Flags struct {
	Connection *cmdutil.ConnectionFlags
	Detailed   bool
}

// NewCommand creates the plan command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "plan",
		GroupID: "core",
		Short:   "Show the structures a reconcile would create",
		Long: `Plan compares the declared target against the live table and prints the
delta without applying anything. Structures already present are omitted.

The exit status is zero whether or not changes are pending; read the
output to decide.`,
		Example: `  starschema plan                           # Delta against DATABASE_URL
  starschema plan --detailed                # List every pending structure
  starschema plan -o json                   # Machine-readable plan`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}

			return ExecutePlan(ctx, app, flags, globalFlags)
		},
	}

	// Add plan-specific flags
	flags = addPlanFlags(cmd)

	return cmd
}

// addPlanFlags adds plan-specific flags to the command.
func addPlanFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	flags.Connection = cmdutil.AddConnectionFlags(cmd)
	cmd.Flags().BoolVar(&flags.Detailed, "detailed", false,
		"List each pending structure instead of the summary line")

	return flags
}

// ExecutePlan computes the delta and prints it without applying anything.
func ExecutePlan(ctx context.Context, app application.Application, flags *Flags, globalFlags *globals.Flags) error {
	opts := flags.Connection.ClientOptions()

	client, err := app.Client(ctx, opts...)
	if err != nil {
		return err
	}
	if len(opts) > 0 {
		// Flag overrides build a dedicated client this command owns
		defer func() { _ = client.Close() }()
	}

	plan, err := client.Plan(ctx)
	if err != nil {
		return err
	}

	format := output.Format(app.OutputFormat())
	if format == output.FormatJSON || format == output.FormatYAML {
		formatter := output.NewFormatter(format)
		return formatter.Format(os.Stdout, plan)
	}

	if flags.Detailed && plan.HasChanges() {
		if !globalFlags.Quiet {
			fmt.Fprintf(os.Stderr, "%s\n", plan.String())
		}
		formatter := output.NewFormatter(output.FormatTable)
		return formatter.Format(os.Stdout, output.PlanToTableData(plan))
	}

	fmt.Println(plan.String())
	return nil
}
