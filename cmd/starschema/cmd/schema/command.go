// Package schema provides the schema command implementation.
package schema

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/cmd/application"
	"github.com/astrolab/starschema/internal/cmd/globals"
	"github.com/astrolab/starschema/internal/cmd/output"
	pkgschema "github.com/astrolab/starschema/pkg/schema"
)

// NewCommand creates the schema command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var targetFile string

	cmd := &cobra.Command{
		Use:     "schema",
		GroupID: "info",
		Short:   "Print the configured target declaration",
		Long: `Schema prints the target declaration the other commands reconcile: the
embedded astrology chart target, or the file named by --target or
STARSCHEMA_TARGET. YAML output round-trips as a valid --target file.

No database connection is needed.`,
		Example: `  starschema schema                         # Embedded chart target as a table
  starschema schema -o yaml                 # Export as a target file
  starschema schema -t charts.yaml -o json  # Reprint a target file as JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}

			return ExecuteSchema(app, targetFile, globalFlags)
		},
	}

	cmd.Flags().StringVarP(&targetFile, "target", "t", "",
		"Target schema YAML file (defaults to the embedded chart target)")

	return cmd
}

// ExecuteSchema resolves the target declaration and prints it.
func ExecuteSchema(app application.Application, targetFile string, globalFlags *globals.Flags) error {
	var target *pkgschema.Table
	var err error
	if targetFile != "" {
		target, err = pkgschema.LoadFile(targetFile)
	} else {
		target, err = app.Target()
	}
	if err != nil {
		return err
	}

	format := output.Format(app.OutputFormat())
	switch format {
	case output.FormatJSON:
		return output.NewFormatter(format).Format(os.Stdout, target)
	case output.FormatYAML:
		// Marshal through the schema package so the document round-trips
		// with the conventional target formatting
		data, err := pkgschema.Marshal(target)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		if !globalFlags.Quiet {
			fmt.Fprintf(os.Stderr, "%s: %d structures declared\n", target.Name, target.Structures())
		}
		return output.NewFormatter(output.FormatTable).Format(os.Stdout, output.TargetToTableData(target))
	}
}
