// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

const (
	// Success represents successful completion of an operation.
	// Used for: completed installs, passing validation, applied changes.
	Success = "✓"

	// Error represents failures or missing required configuration.
	// Used for: failed operations, unwritable paths, validation errors.
	Error = "✗"
)
