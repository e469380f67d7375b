// Package validate provides the validate command implementation.
package validate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astrolab/starschema/cmd/application"
	"github.com/astrolab/starschema/internal/cmd/globals"
	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/schema"
)

// NewCommand creates the validate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "validate [path]",
		GroupID: "info",
		Short:   "Validate target declaration files",
		Args:    cobra.MaximumNArgs(1),
		Long: `Validate parses target YAML files and reports declaration problems:
missing or invalid identifiers, NOT NULL columns without defaults, gin
indexes over columns that are not declared JSON, duplicate names.

The path may name one file or a directory; a directory is walked and
every *.yaml and *.yml beneath it is checked. With no path the configured
target is validated (the embedded chart target unless --target or
STARSCHEMA_TARGET names a file).

No database connection is needed.`,
		Example: `  starschema validate                       # Validate the configured target
  starschema validate charts.yaml           # Validate one file
  starschema validate ./targets             # Validate every target in a directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			globalFlags, err := globals.Parse(cmd)
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			return ExecuteValidate(app, path, globalFlags)
		},
	}
}

// ExecuteValidate validates the target at path, which may be a file or a
// directory. An empty path validates the app's configured target.
func ExecuteValidate(app application.Application, path string, globalFlags *globals.Flags) error {
	if path == "" {
		target, err := app.Target()
		if err != nil {
			return err
		}
		if !globalFlags.Quiet {
			fmt.Fprintf(os.Stderr, "✅ %s: %d structures declared\n", target.Name, target.Structures())
		}
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.WrapIO("stat", path, err)
	}

	if info.IsDir() {
		return validateDir(path, globalFlags)
	}
	return validateFile(path, globalFlags)
}

// validateDir walks dir and validates every YAML file beneath it,
// stopping at the first invalid one.
func validateDir(dir string, globalFlags *globals.Flags) error {
	var checked int

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAML(path) {
			return nil
		}
		if err := validateFile(path, globalFlags); err != nil {
			return err
		}
		checked++
		return nil
	})
	if err != nil {
		return err
	}

	if checked == 0 {
		return &errors.ValidationError{
			Field:   "path",
			Value:   dir,
			Message: "no *.yaml target files found",
		}
	}

	if !globalFlags.Quiet {
		fmt.Fprintf(os.Stderr, "✅ %d target files valid\n", checked)
	}
	return nil
}

// validateFile parses and validates a single target file.
func validateFile(path string, globalFlags *globals.Flags) error {
	target, err := schema.LoadFile(path)
	if err != nil {
		return err
	}

	if !globalFlags.Quiet {
		fmt.Fprintf(os.Stderr, "✅ %s: table %s, %d structures declared\n", path, target.Name, target.Structures())
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
