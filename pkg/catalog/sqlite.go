package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/astrolab/starschema/pkg/constants"
	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/logging"
	"github.com/astrolab/starschema/pkg/schema"
)

// Compile-time interface checks.
var (
	_ Catalog     = (*SQLite)(nil)
	_ Snapshotter = (*SQLite)(nil)
)

// SQLite is a Catalog backed by a SQLite database file. It exists for the
// simplified single-file deployments; the dialect differs from Postgres in
// two ways. GIN indexes are not available, so gin-method specs degrade to
// ordinary indexes, and there are no standalone trigger functions, so the
// update trigger carries its body inline and EnsureTriggerFunction is a
// no-op.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database file at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewConfigError("catalog", "open sqlite database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", constants.DefaultBusyTimeout.Milliseconds()),
	}
	for _, stmt := range pragmas {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, errors.WrapStatement("pragma", "", "", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapStatement("connect", "", "", err)
	}

	return &SQLite{db: db}, nil
}

// NewSQLiteFromDB wraps an existing handle. The caller keeps ownership;
// Close closes the handle.
func NewSQLiteFromDB(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ColumnExists reports whether the table has a column with this name.
func (s *SQLite) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	const q = `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`

	var n int
	if err := s.db.QueryRowContext(ctx, q, table, column).Scan(&n); err != nil {
		return false, errors.WrapStatement("query", table, column, err)
	}
	return n > 0, nil
}

// IndexExists reports whether the table is covered by an index with this name.
func (s *SQLite) IndexExists(ctx context.Context, table, index string) (bool, error) {
	const q = `SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'index' AND tbl_name = ? AND name = ?`

	var n int
	if err := s.db.QueryRowContext(ctx, q, table, index).Scan(&n); err != nil {
		return false, errors.WrapStatement("query", table, index, err)
	}
	return n > 0, nil
}

// TriggerExists reports whether a trigger with this name exists.
func (s *SQLite) TriggerExists(ctx context.Context, trigger string) (bool, error) {
	const q = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'trigger' AND name = ?`

	var n int
	if err := s.db.QueryRowContext(ctx, q, trigger).Scan(&n); err != nil {
		return false, errors.WrapStatement("query", "", trigger, err)
	}
	return n > 0, nil
}

// AddColumn adds the column to the table.
func (s *SQLite) AddColumn(ctx context.Context, table string, column schema.Column) error {
	logging.Ctx(ctx).Debug().
		Str("table", table).
		Str("column", column.Name).
		Str("type", column.Type).
		Msg("adding column")

	if _, err := s.db.ExecContext(ctx, addColumnSQL(table, column)); err != nil {
		return errors.WrapStatement("add column", table, column.Name, err)
	}
	return nil
}

// CreateIndex creates the index on the table. A gin method spec degrades to
// an ordinary index since SQLite has no generalized inverted indexes.
func (s *SQLite) CreateIndex(ctx context.Context, table string, index schema.Index) error {
	if index.EffectiveMethod() == schema.MethodGIN {
		logging.Ctx(ctx).Warn().
			Str("index", index.Name).
			Msg("gin indexes are unavailable on sqlite, creating a plain index")
	}

	logging.Ctx(ctx).Debug().
		Str("table", table).
		Str("index", index.Name).
		Msg("creating index")

	stmt := fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
		index.Name, table, strings.Join(index.Columns, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return errors.WrapStatement("create index", table, index.Name, err)
	}
	return nil
}

// EnsureTriggerFunction is a no-op: SQLite triggers carry their body inline.
func (s *SQLite) EnsureTriggerFunction(_ context.Context, _ schema.Trigger) error {
	return nil
}

// CreateTrigger installs the update-timestamp trigger. SQLite cannot assign
// to NEW in a BEFORE UPDATE body, so the conventional AFTER UPDATE self-set
// form is used; recursive triggers are off by default, which keeps the
// self-update from re-firing.
func (s *SQLite) CreateTrigger(ctx context.Context, table string, trigger schema.Trigger) error {
	logging.Ctx(ctx).Debug().
		Str("table", table).
		Str("trigger", trigger.Name).
		Msg("creating trigger")

	stmt := fmt.Sprintf(`CREATE TRIGGER %s AFTER UPDATE ON %s
FOR EACH ROW
BEGIN
    UPDATE %s SET %s = datetime('now') WHERE rowid = NEW.rowid;
END`, trigger.Name, table, table, trigger.Column)

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return errors.WrapStatement("create trigger", table, trigger.Name, err)
	}
	return nil
}

// Snapshot lists the live columns, indexes, and triggers of the table.
func (s *SQLite) Snapshot(ctx context.Context, table string) (*Snapshot, error) {
	snap := &Snapshot{Table: table}

	const columnsQ = `SELECT name, type, "notnull", dflt_value
		FROM pragma_table_info(?) ORDER BY cid`

	rows, err := s.db.QueryContext(ctx, columnsQ, table)
	if err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col     LiveColumn
			notNull int
			dflt    sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.DataType, &notNull, &dflt); err != nil {
			return nil, errors.WrapStatement("query", table, "", err)
		}
		col.Nullable = notNull == 0
		if dflt.Valid {
			col.Default = &dflt.String
		}
		snap.Columns = append(snap.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}

	const objectsQ = `SELECT type, name, COALESCE(sql, '') FROM sqlite_master
		WHERE tbl_name = ? AND type IN ('index', 'trigger')
		ORDER BY type, name`

	objRows, err := s.db.QueryContext(ctx, objectsQ, table)
	if err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}
	defer objRows.Close()

	for objRows.Next() {
		var typ, name, def string
		if err := objRows.Scan(&typ, &name, &def); err != nil {
			return nil, errors.WrapStatement("query", table, "", err)
		}
		switch typ {
		case "index":
			snap.Indexes = append(snap.Indexes, LiveIndex{Name: name, Definition: def})
		case "trigger":
			snap.Triggers = append(snap.Triggers, LiveTrigger{Name: name, Definition: def})
		}
	}
	if err := objRows.Err(); err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}

	return snap, nil
}
