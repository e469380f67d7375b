// Package constants provides shared constants used throughout the starschema
// codebase. This includes engine limits, timeouts, and file permissions that
// should be consistent across the application.
package constants

import "time"

// Engine limit constants
const (
	// MaxIdentifierLength is the longest identifier Postgres accepts
	// (NAMEDATALEN-1 bytes); longer names are silently truncated by the
	// engine, which breaks existence checks by name.
	MaxIdentifierLength = 63
)

// Timeout constants define the durations used when opening connections
const (
	// DefaultConnectTimeout is the timeout for establishing a database connection
	DefaultConnectTimeout = 10 * time.Second

	// DefaultBusyTimeout is how long the SQLite driver waits on a locked database
	DefaultBusyTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
