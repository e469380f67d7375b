// Package schema defines the declarative target shape of a database table:
// the columns, indexes, and update trigger that must exist after
// reconciliation. A Table is authored as a YAML document, validated before
// use, and consumed by the reconciler as the source of truth for what the
// live table must contain.
//
// The model is deliberately additive. It carries no drop, rename, or
// type-change semantics; anything present in the live table but absent from
// the target is left untouched.
//
// Example target document:
//
//	table: astrology_charts
//	columns:
//	  - name: yogas
//	    type: jsonb
//	indexes:
//	  - name: idx_charts_yogas
//	    columns: [yogas]
//	    method: gin
//	trigger:
//	  name: trg_astrology_charts_updated_at
//	  function: set_updated_at
//	  column: updated_at
package schema

import (
	"strings"
)

// Method identifies the index access method.
type Method string

// Index access methods.
const (
	// MethodBTree is the ordinary balanced-tree index, the engine default.
	MethodBTree Method = "btree"

	// MethodGIN is the generalized inverted index used to query inside
	// JSON-typed column values.
	MethodGIN Method = "gin"
)

// Column specifies a single column the table must contain.
// Additions are never destructive: a column that already exists is skipped,
// and no type comparison or correction is attempted.
type Column struct {
	Name    string  `yaml:"name" json:"name"`
	Type    string  `yaml:"type" json:"type"`
	Default *string `yaml:"default,omitempty" json:"default,omitempty"`
	NotNull bool    `yaml:"not_null,omitempty" json:"not_null,omitempty"`
}

// JSON reports whether the column holds semi-structured JSON values.
func (c Column) JSON() bool {
	switch strings.ToLower(strings.TrimSpace(c.Type)) {
	case "json", "jsonb":
		return true
	}
	return false
}

// Index specifies a single index the table must be covered by.
type Index struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []string `yaml:"columns" json:"columns"`
	Method  Method   `yaml:"method,omitempty" json:"method,omitempty"`
}

// EffectiveMethod returns the index method, defaulting to btree.
func (i Index) EffectiveMethod() Method {
	if i.Method == "" {
		return MethodBTree
	}
	return i.Method
}

// Trigger specifies the update-timestamp trigger: a function that sets
// Column to the current time, bound to BEFORE UPDATE on the table.
type Trigger struct {
	Name     string `yaml:"name" json:"name"`
	Function string `yaml:"function,omitempty" json:"function,omitempty"`
	Column   string `yaml:"column,omitempty" json:"column,omitempty"`
}

// Trigger defaults applied by Normalize.
const (
	DefaultTriggerFunction = "set_updated_at"
	DefaultTriggerColumn   = "updated_at"
)

// Table is the target schema for one table: the ordered columns, the
// indexes, and at most one update trigger that reconciliation must ensure.
type Table struct {
	Name    string   `yaml:"table" json:"table"`
	Columns []Column `yaml:"columns" json:"columns"`
	Indexes []Index  `yaml:"indexes,omitempty" json:"indexes,omitempty"`
	Trigger *Trigger `yaml:"trigger,omitempty" json:"trigger,omitempty"`
}

// Column returns the column spec with the given name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether the target declares the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Index returns the index spec with the given name.
func (t *Table) Index(name string) (Index, bool) {
	for _, i := range t.Indexes {
		if i.Name == name {
			return i, true
		}
	}
	return Index{}, false
}

// Structures returns the number of addable structures the target declares:
// every column, every index, and the trigger if present. The trigger
// function is not counted; it is ensured by replacement on every run.
func (t *Table) Structures() int {
	n := len(t.Columns) + len(t.Indexes)
	if t.Trigger != nil {
		n++
	}
	return n
}

// Normalize fills in defaulted fields: empty index methods become btree and
// the trigger's function and column names receive their conventional
// defaults. Safe to call repeatedly.
func (t *Table) Normalize() {
	for i := range t.Indexes {
		if t.Indexes[i].Method == "" {
			t.Indexes[i].Method = MethodBTree
		}
	}
	if t.Trigger != nil {
		if t.Trigger.Function == "" {
			t.Trigger.Function = DefaultTriggerFunction
		}
		if t.Trigger.Column == "" {
			t.Trigger.Column = DefaultTriggerColumn
		}
	}
}
