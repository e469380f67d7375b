// Package application provides the application interface for starschema commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Design Principles:
//   - Accept interfaces, return structs (Go proverb)
//   - Define interfaces where they're used, not where they're implemented
//   - Keep interfaces small and focused
//
// Usage in Commands:
//
//	import (
//	    "github.com/astrolab/starschema/cmd/application"
//	)
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            ctx := cmd.Context() // context.Context from cobra
//	            client, err := app.Client(ctx)
//	            if err != nil {
//	                return err
//	            }
//	            // ... use client
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    TargetFunc: func() (*schema.Table, error) {
//	        return testTarget, nil
//	    },
//	    LoggerFunc: func() *zerolog.Logger {
//	        logger := zerolog.Nop()
//	        return &logger
//	    },
//	}
//	cmd := NewCommand(mock)
//	// ... test command behavior
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/astrolab/starschema"
	"github.com/astrolab/starschema/pkg/schema"
)

// Application provides the application interface that commands need.
// The App struct from cmd/starschema/app implements this interface,
// providing dependency injection for commands while maintaining testability.
//
// Commands should accept this interface rather than the concrete App type,
// allowing for easier testing with mock implementations.
type Application interface {
	// Target returns the schema target the application is configured for.
	// With no --target flag or TARGET env this is the embedded chart target.
	Target() (*schema.Table, error)

	// Client returns a starschema client with optional configuration.
	// When called without options, returns the default cached instance
	// (lazy-initialized, thread-safe). When called with options, creates a
	// new instance with custom configuration (no caching). Construction
	// dials the configured database, so a context is required.
	//
	// Examples:
	//   c, err := app.Client(ctx)                   // default instance (cached)
	//   c, err := app.Client(ctx, opt1, opt2)       // custom instance (new)
	Client(ctx context.Context, opts ...starschema.Option) (starschema.Client, error)

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	// Commands that support different output formats should use this.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
