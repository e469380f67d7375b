// Package cmdutil provides shared flags and option helpers for starschema commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/astrolab/starschema"
)

// ConnectionFlags holds flags shared by commands that touch the database.
type ConnectionFlags struct {
	Database string
	Target   string
}

// AddConnectionFlags adds database and target flags to a command.
func AddConnectionFlags(cmd *cobra.Command) *ConnectionFlags {
	flags := &ConnectionFlags{}

	cmd.Flags().StringVarP(&flags.Database, "database", "d", "",
		"Database connection string (defaults to DATABASE_URL)")
	cmd.Flags().StringVarP(&flags.Target, "target", "t", "",
		"Target schema YAML file (defaults to the embedded chart target)")

	return flags
}

// ClientOptions converts the flags to client options. Unset flags contribute
// nothing, leaving the app configuration in charge.
func (f *ConnectionFlags) ClientOptions() []starschema.Option {
	var opts []starschema.Option

	if f.Database != "" {
		opts = append(opts, starschema.WithDatabase(f.Database))
	}
	if f.Target != "" {
		opts = append(opts, starschema.WithTargetFile(f.Target))
	}

	return opts
}
