package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/astrolab/starschema/pkg/errors"
	"github.com/astrolab/starschema/pkg/schema"
)

// Compile-time interface checks.
var (
	_ Catalog     = (*Memory)(nil)
	_ Snapshotter = (*Memory)(nil)
)

// Memory is an in-process Catalog for tests and offline planning. It mimics
// engine behavior where the reconciler can observe it: duplicate additions
// fail, existence checks are scoped by table, and writes after an injected
// fault return the injected error.
type Memory struct {
	mu        sync.RWMutex
	columns   map[string]map[string]schema.Column // table -> column name -> spec
	indexes   map[string]map[string]schema.Index  // table -> index name -> spec
	triggers  map[string]schema.Trigger           // trigger name -> spec
	functions map[string]bool                     // function name -> present

	writes    int
	failAfter int
	failErr   error

	// Ops records every applied write in order, for assertions.
	Ops []string
}

// NewMemory returns an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		columns:   make(map[string]map[string]schema.Column),
		indexes:   make(map[string]map[string]schema.Index),
		triggers:  make(map[string]schema.Trigger),
		functions: make(map[string]bool),
	}
}

// SeedColumns records columns as already present on the table.
func (m *Memory) SeedColumns(table string, cols ...schema.Column) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cols {
		m.table(table)[c.Name] = c
	}
	return m
}

// SeedIndex records an index as already present on the table.
func (m *Memory) SeedIndex(table string, idx schema.Index) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableIndexes(table)[idx.Name] = idx
	return m
}

// SeedTrigger records a trigger as already present.
func (m *Memory) SeedTrigger(trigger schema.Trigger) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers[trigger.Name] = trigger
	return m
}

// FailAfter makes every write past the next n return err, simulating an
// interrupted run. Pass a negative n to clear the fault.
func (m *Memory) FailAfter(n int, err error) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = 0
	m.failAfter = n
	m.failErr = err
	return m
}

// ColumnCount returns the number of live columns on the table.
func (m *Memory) ColumnCount(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.columns[table])
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// ColumnExists reports whether the table has a column with this name.
func (m *Memory) ColumnExists(_ context.Context, table, column string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.columns[table][column]
	return ok, nil
}

// IndexExists reports whether the table is covered by an index with this name.
func (m *Memory) IndexExists(_ context.Context, table, index string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.indexes[table][index]
	return ok, nil
}

// TriggerExists reports whether a trigger with this name exists.
func (m *Memory) TriggerExists(_ context.Context, trigger string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.triggers[trigger]
	return ok, nil
}

// AddColumn adds the column to the table, failing on duplicates the way a
// live engine would.
func (m *Memory) AddColumn(_ context.Context, table string, column schema.Column) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.maybeFail(); err != nil {
		return errors.WrapStatement("add column", table, column.Name, err)
	}
	if _, ok := m.columns[table][column.Name]; ok {
		return errors.NewStatementError("add column", table, column.Name, errors.ErrAlreadyExists)
	}

	m.table(table)[column.Name] = column
	m.Ops = append(m.Ops, fmt.Sprintf("add column %s.%s", table, column.Name))
	return nil
}

// CreateIndex creates the index on the table.
func (m *Memory) CreateIndex(_ context.Context, table string, index schema.Index) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.maybeFail(); err != nil {
		return errors.WrapStatement("create index", table, index.Name, err)
	}
	if _, ok := m.indexes[table][index.Name]; ok {
		return errors.NewStatementError("create index", table, index.Name, errors.ErrAlreadyExists)
	}

	m.tableIndexes(table)[index.Name] = index
	m.Ops = append(m.Ops, fmt.Sprintf("create index %s.%s", table, index.Name))
	return nil
}

// EnsureTriggerFunction records the function, replacing any prior version.
func (m *Memory) EnsureTriggerFunction(_ context.Context, trigger schema.Trigger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.maybeFail(); err != nil {
		return errors.WrapStatement("create function", "", trigger.Function, err)
	}

	m.functions[trigger.Function] = true
	m.Ops = append(m.Ops, fmt.Sprintf("ensure function %s", trigger.Function))
	return nil
}

// CreateTrigger binds the trigger.
func (m *Memory) CreateTrigger(_ context.Context, table string, trigger schema.Trigger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.maybeFail(); err != nil {
		return errors.WrapStatement("create trigger", table, trigger.Name, err)
	}
	if _, ok := m.triggers[trigger.Name]; ok {
		return errors.NewStatementError("create trigger", table, trigger.Name, errors.ErrAlreadyExists)
	}
	if !m.functions[trigger.Function] {
		return errors.NewStatementError("create trigger", table, trigger.Name,
			errors.New("function "+trigger.Function+" does not exist"))
	}

	m.triggers[trigger.Name] = trigger
	m.Ops = append(m.Ops, fmt.Sprintf("create trigger %s on %s", trigger.Name, table))
	return nil
}

// Snapshot lists the recorded structures of the table.
func (m *Memory) Snapshot(_ context.Context, table string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &Snapshot{Table: table}

	names := make([]string, 0, len(m.columns[table]))
	for name := range m.columns[table] {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := m.columns[table][name]
		snap.Columns = append(snap.Columns, LiveColumn{
			Name:     c.Name,
			DataType: c.Type,
			Nullable: !c.NotNull,
			Default:  c.Default,
		})
	}

	idxNames := make([]string, 0, len(m.indexes[table]))
	for name := range m.indexes[table] {
		idxNames = append(idxNames, name)
	}
	sort.Strings(idxNames)
	for _, name := range idxNames {
		snap.Indexes = append(snap.Indexes, LiveIndex{Name: name})
	}

	trgNames := make([]string, 0, len(m.triggers))
	for name := range m.triggers {
		trgNames = append(trgNames, name)
	}
	sort.Strings(trgNames)
	for _, name := range trgNames {
		snap.Triggers = append(snap.Triggers, LiveTrigger{Name: name})
	}

	return snap, nil
}

func (m *Memory) table(name string) map[string]schema.Column {
	if m.columns[name] == nil {
		m.columns[name] = make(map[string]schema.Column)
	}
	return m.columns[name]
}

func (m *Memory) tableIndexes(name string) map[string]schema.Index {
	if m.indexes[name] == nil {
		m.indexes[name] = make(map[string]schema.Index)
	}
	return m.indexes[name]
}

// maybeFail must be called with the write lock held.
func (m *Memory) maybeFail() error {
	if m.failErr != nil && m.failAfter >= 0 && m.writes >= m.failAfter {
		return m.failErr
	}
	m.writes++
	return nil
}
