package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/cmd/starschema/cmd/completion"
	"github.com/astrolab/starschema/cmd/starschema/cmd/inspect"
	"github.com/astrolab/starschema/cmd/starschema/cmd/plan"
	"github.com/astrolab/starschema/cmd/starschema/cmd/reconcile"
	"github.com/astrolab/starschema/cmd/starschema/cmd/schema"
	"github.com/astrolab/starschema/cmd/starschema/cmd/validate"
)

// CreateReconcileCommand creates the reconcile command with app dependencies.
func (a *App) CreateReconcileCommand() *cobra.Command {
	return reconcile.NewCommand(a)
}

// CreatePlanCommand creates the plan command with app dependencies.
func (a *App) CreatePlanCommand() *cobra.Command {
	return plan.NewCommand(a)
}

// CreateInspectCommand creates the inspect command with app dependencies.
func (a *App) CreateInspectCommand() *cobra.Command {
	return inspect.NewCommand(a)
}

// CreateValidateCommand creates the validate command with app dependencies.
func (a *App) CreateValidateCommand() *cobra.Command {
	return validate.NewCommand(a)
}

// CreateSchemaCommand creates the schema command with app dependencies.
func (a *App) CreateSchemaCommand() *cobra.Command {
	return schema.NewCommand(a)
}

// CreateCompletionCommand creates the shell completion command.
func (a *App) CreateCompletionCommand() *cobra.Command {
	return completion.NewCommand()
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("starschema %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s\n", runtime.Version())
				cmd.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
