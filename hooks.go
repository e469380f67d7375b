package starschema

import (
	"sync"

	"github.com/astrolab/starschema/pkg/reconcile"
	"github.com/astrolab/starschema/pkg/schema"
)

// Hook function types for reconciliation events
type (
	// ColumnAddedHook is called after a column is added to the live table
	ColumnAddedHook func(table string, column schema.Column)

	// IndexCreatedHook is called after an index is created on the live table
	IndexCreatedHook func(table string, index schema.Index)

	// TriggerCreatedHook is called after a trigger is bound to the live table
	TriggerCreatedHook func(table string, trigger schema.Trigger)
)

// hooks manages event callbacks for applied changes
type hooks struct {
	mu               sync.RWMutex
	onColumnAdded    []ColumnAddedHook
	onIndexCreated   []IndexCreatedHook
	onTriggerCreated []TriggerCreatedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnColumnAdded registers a callback for added columns
func (h *hooks) OnColumnAdded(fn ColumnAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onColumnAdded = append(h.onColumnAdded, fn)
}

// OnIndexCreated registers a callback for created indexes
func (h *hooks) OnIndexCreated(fn IndexCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onIndexCreated = append(h.onIndexCreated, fn)
}

// OnTriggerCreated registers a callback for bound triggers
func (h *hooks) OnTriggerCreated(fn TriggerCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onTriggerCreated = append(h.onTriggerCreated, fn)
}

// fire walks an applied plan and triggers the matching callbacks.
func (h *hooks) fire(applied *reconcile.Plan) {
	if applied == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, col := range applied.Columns {
		for _, fn := range h.onColumnAdded {
			fn(applied.Table, col)
		}
	}
	for _, idx := range applied.Indexes {
		for _, fn := range h.onIndexCreated {
			fn(applied.Table, idx)
		}
	}
	if applied.Trigger != nil {
		for _, fn := range h.onTriggerCreated {
			fn(applied.Table, *applied.Trigger)
		}
	}
}

// OnColumnAdded registers a callback fired after each added column.
func (c *client) OnColumnAdded(fn ColumnAddedHook) {
	c.hooks.OnColumnAdded(fn)
}

// OnIndexCreated registers a callback fired after each created index.
func (c *client) OnIndexCreated(fn IndexCreatedHook) {
	c.hooks.OnIndexCreated(fn)
}

// OnTriggerCreated registers a callback fired after the trigger is bound.
func (c *client) OnTriggerCreated(fn TriggerCreatedHook) {
	c.hooks.OnTriggerCreated(fn)
}
