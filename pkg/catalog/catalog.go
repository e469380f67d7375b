// Package catalog provides access to a live table's structure: introspection
// of which columns, indexes, and triggers exist, and the additive DDL that
// creates missing ones. The reconciler speaks only to these interfaces, so
// the same plan/apply logic runs against Postgres, SQLite, or the in-memory
// fake used in tests.
//
// Existence checks are scoped to the table name; a same-named column on
// another table is not a match. Trigger existence is checked by trigger name
// in the engine's trigger catalog.
//
// Implementations never issue destructive statements. Engine errors are
// wrapped with the failing operation and object but the original error is
// preserved verbatim and reachable through errors.Unwrap.
package catalog

import (
	"context"
	"strings"

	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/schema"
)

// Reader reports which structures exist in the live schema.
type Reader interface {
	// ColumnExists reports whether the table has a column with this name.
	ColumnExists(ctx context.Context, table, column string) (bool, error)

	// IndexExists reports whether the table is covered by an index with
	// this name.
	IndexExists(ctx context.Context, table, index string) (bool, error)

	// TriggerExists reports whether a trigger with this name exists.
	TriggerExists(ctx context.Context, trigger string) (bool, error)
}

// Writer issues additive DDL against the live schema.
type Writer interface {
	// AddColumn adds the column to the table.
	AddColumn(ctx context.Context, table string, column schema.Column) error

	// CreateIndex creates the index on the table.
	CreateIndex(ctx context.Context, table string, index schema.Index) error

	// EnsureTriggerFunction creates or replaces the trigger function.
	// Engines without standalone trigger functions treat this as a no-op.
	EnsureTriggerFunction(ctx context.Context, trigger schema.Trigger) error

	// CreateTrigger binds the trigger to before-update events on the table.
	CreateTrigger(ctx context.Context, table string, trigger schema.Trigger) error
}

// Catalog combines introspection and additive DDL over one live database.
type Catalog interface {
	Reader
	Writer

	// Close releases the underlying connection.
	Close() error
}

// Snapshotter lists the live structure of a table. Implemented by catalogs
// that can enumerate their metadata; used by inspection commands.
type Snapshotter interface {
	Snapshot(ctx context.Context, table string) (*Snapshot, error)
}

// Snapshot is the observed live structure of one table.
type Snapshot struct {
	Table    string        `json:"table" yaml:"table"`
	Columns  []LiveColumn  `json:"columns" yaml:"columns"`
	Indexes  []LiveIndex   `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Triggers []LiveTrigger `json:"triggers,omitempty" yaml:"triggers,omitempty"`
}

// LiveColumn is one column as reported by the engine's information schema.
type LiveColumn struct {
	Name     string  `json:"name" yaml:"name"`
	DataType string  `json:"type" yaml:"type"`
	Nullable bool    `json:"nullable" yaml:"nullable"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty"`
}

// LiveIndex is one index as reported by the engine.
type LiveIndex struct {
	Name       string `json:"name" yaml:"name"`
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// LiveTrigger is one trigger as reported by the engine.
type LiveTrigger struct {
	Name       string `json:"name" yaml:"name"`
	Definition string `json:"definition,omitempty" yaml:"definition,omitempty"`
}

// Open connects to the database named by dsn and returns the matching
// catalog implementation. Postgres URLs use the postgres:// or
// postgresql:// scheme; anything else is treated as a SQLite database path,
// optionally prefixed with sqlite://.
func Open(ctx context.Context, dsn string) (Catalog, error) {
	switch {
	case dsn == "":
		return nil, errors.ErrNoDatabase
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgres(ctx, dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	default:
		return NewSQLite(ctx, dsn)
	}
}
