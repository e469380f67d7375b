package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/logging"
	"github.com/astrolab/starschema/pkg/schema"
)

// Compile-time interface checks.
var (
	_ Catalog     = (*Postgres)(nil)
	_ Snapshotter = (*Postgres)(nil)
)

// Postgres is a Catalog backed by a Postgres connection pool. Introspection
// reads information_schema and the pg_* system catalogs; DDL is issued as
// plain additive statements.
type Postgres struct {
	pool       *pgxpool.Pool
	schemaName string
	ownsPool   bool
}

// PostgresOption configures a Postgres catalog.
type PostgresOption func(*Postgres) error

// WithSchemaName sets the namespace existence checks and DDL are scoped to.
// Defaults to public.
func WithSchemaName(name string) PostgresOption {
	return func(p *Postgres) error {
		if name == "" {
			return errors.NewConfigError("catalog", "schema name cannot be empty", nil)
		}
		p.schemaName = name
		return nil
	}
}

// NewPostgres connects to the database named by dsn and verifies the
// connection before returning. Connectivity failures surface immediately;
// there is no retry.
func NewPostgres(ctx context.Context, dsn string, opts ...PostgresOption) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.NewConfigError("catalog", "invalid connection string", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.WrapStatement("connect", "", "", err)
	}

	p := &Postgres{pool: pool, schemaName: "public", ownsPool: true}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return p, nil
}

// NewPostgresFromPool wraps an existing pool. The caller keeps ownership;
// Close leaves the pool open.
func NewPostgresFromPool(pool *pgxpool.Pool, opts ...PostgresOption) (*Postgres, error) {
	p := &Postgres{pool: pool, schemaName: "public"}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Close releases the pool if this catalog opened it.
func (p *Postgres) Close() error {
	if p.ownsPool {
		p.pool.Close()
	}
	return nil
}

// ColumnExists reports whether the table has a column with this name.
func (p *Postgres) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2 AND column_name = $3
	)`

	var exists bool
	if err := p.pool.QueryRow(ctx, q, p.schemaName, table, column).Scan(&exists); err != nil {
		return false, errors.WrapStatement("query", table, column, err)
	}
	return exists, nil
}

// IndexExists reports whether the table is covered by an index with this name.
func (p *Postgres) IndexExists(ctx context.Context, table, index string) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM pg_indexes
		WHERE schemaname = $1 AND tablename = $2 AND indexname = $3
	)`

	var exists bool
	if err := p.pool.QueryRow(ctx, q, p.schemaName, table, index).Scan(&exists); err != nil {
		return false, errors.WrapStatement("query", table, index, err)
	}
	return exists, nil
}

// TriggerExists reports whether a trigger with this name exists.
func (p *Postgres) TriggerExists(ctx context.Context, trigger string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = $1)`

	var exists bool
	if err := p.pool.QueryRow(ctx, q, trigger).Scan(&exists); err != nil {
		return false, errors.WrapStatement("query", "", trigger, err)
	}
	return exists, nil
}

// AddColumn adds the column to the table.
func (p *Postgres) AddColumn(ctx context.Context, table string, column schema.Column) error {
	logging.Ctx(ctx).Debug().
		Str("table", table).
		Str("column", column.Name).
		Str("type", column.Type).
		Msg("adding column")

	sql := addColumnSQL(p.qualify(table), column)
	if _, err := p.pool.Exec(ctx, sql); err != nil {
		return errors.WrapStatement("add column", table, column.Name, err)
	}
	return nil
}

// CreateIndex creates the index on the table.
func (p *Postgres) CreateIndex(ctx context.Context, table string, index schema.Index) error {
	logging.Ctx(ctx).Debug().
		Str("table", table).
		Str("index", index.Name).
		Str("method", string(index.EffectiveMethod())).
		Msg("creating index")

	sql := createIndexSQL(p.qualify(table), index)
	if _, err := p.pool.Exec(ctx, sql); err != nil {
		return errors.WrapStatement("create index", table, index.Name, err)
	}
	return nil
}

// EnsureTriggerFunction creates or replaces the timestamp trigger function.
// Replacement is idempotent, so this is safe to run on every pass.
func (p *Postgres) EnsureTriggerFunction(ctx context.Context, trigger schema.Trigger) error {
	logging.Ctx(ctx).Debug().
		Str("function", trigger.Function).
		Msg("ensuring trigger function")

	if _, err := p.pool.Exec(ctx, triggerFunctionSQL(trigger)); err != nil {
		return errors.WrapStatement("create function", "", trigger.Function, err)
	}
	return nil
}

// CreateTrigger binds the trigger function to before-update events.
func (p *Postgres) CreateTrigger(ctx context.Context, table string, trigger schema.Trigger) error {
	logging.Ctx(ctx).Debug().
		Str("table", table).
		Str("trigger", trigger.Name).
		Msg("creating trigger")

	sql := createTriggerSQL(p.qualify(table), trigger)
	if _, err := p.pool.Exec(ctx, sql); err != nil {
		return errors.WrapStatement("create trigger", table, trigger.Name, err)
	}
	return nil
}

// Snapshot lists the live columns, indexes, and triggers of the table.
func (p *Postgres) Snapshot(ctx context.Context, table string) (*Snapshot, error) {
	snap := &Snapshot{Table: table}

	const columnsQ = `SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`

	rows, err := p.pool.Query(ctx, columnsQ, p.schemaName, table)
	if err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			col      LiveColumn
			nullable string
		)
		if err := rows.Scan(&col.Name, &col.DataType, &nullable, &col.Default); err != nil {
			return nil, errors.WrapStatement("query", table, "", err)
		}
		col.Nullable = nullable == "YES"
		snap.Columns = append(snap.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}

	const indexesQ = `SELECT indexname, indexdef FROM pg_indexes
		WHERE schemaname = $1 AND tablename = $2
		ORDER BY indexname`

	idxRows, err := p.pool.Query(ctx, indexesQ, p.schemaName, table)
	if err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}
	defer idxRows.Close()

	for idxRows.Next() {
		var idx LiveIndex
		if err := idxRows.Scan(&idx.Name, &idx.Definition); err != nil {
			return nil, errors.WrapStatement("query", table, "", err)
		}
		snap.Indexes = append(snap.Indexes, idx)
	}
	if err := idxRows.Err(); err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}

	const triggersQ = `SELECT t.tgname, pg_get_triggerdef(t.oid)
		FROM pg_trigger t
		JOIN pg_class c ON c.oid = t.tgrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND NOT t.tgisinternal
		ORDER BY t.tgname`

	trgRows, err := p.pool.Query(ctx, triggersQ, p.schemaName, table)
	if err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}
	defer trgRows.Close()

	for trgRows.Next() {
		var trg LiveTrigger
		if err := trgRows.Scan(&trg.Name, &trg.Definition); err != nil {
			return nil, errors.WrapStatement("query", table, "", err)
		}
		snap.Triggers = append(snap.Triggers, trg)
	}
	if err := trgRows.Err(); err != nil {
		return nil, errors.WrapStatement("query", table, "", err)
	}

	return snap, nil
}

func (p *Postgres) qualify(table string) string {
	return p.schemaName + "." + table
}

// DDL renderers. Identifiers are validated lowercase names (schema.Validate)
// so they are interpolated unquoted, matching how the engine stores them.

func addColumnSQL(table string, c schema.Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN %s %s", table, c.Name, c.Type)
	if c.Default != nil {
		fmt.Fprintf(&b, " DEFAULT %s", *c.Default)
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	return b.String()
}

func createIndexSQL(table string, idx schema.Index) string {
	cols := strings.Join(idx.Columns, ", ")
	if idx.EffectiveMethod() == schema.MethodGIN {
		return fmt.Sprintf("CREATE INDEX %s ON %s USING gin (%s)", idx.Name, table, cols)
	}
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.Name, table, cols)
}

func triggerFunctionSQL(tr schema.Trigger) string {
	return fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s()
RETURNS TRIGGER AS $$
BEGIN
    NEW.%s = now();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql`, tr.Function, tr.Column)
}

func createTriggerSQL(table string, tr schema.Trigger) string {
	return fmt.Sprintf(`CREATE TRIGGER %s
BEFORE UPDATE ON %s
FOR EACH ROW
EXECUTE PROCEDURE %s()`, tr.Name, table, tr.Function)
}
