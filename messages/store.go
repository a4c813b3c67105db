// Package messages keeps validation messages keyed by (owner, field)
// references, the shape a per-field form UI consumes.
package messages

import (
	"sort"

	"form-binder/resolve"
)

// Store is the message sink a validation pass publishes into.
type Store interface {
	// Clear drops every message.
	Clear()
	// ClearField drops the messages attached to one field reference.
	ClearField(ref resolve.FieldRef)
	// Add appends a message under a field reference.
	Add(ref resolve.FieldRef, msg string)
	// Notify signals that a batch of mutations has completed.
	Notify()
}

// Memory is an in-memory Store. OnChanged, when set, is invoked by Notify
// after a batch of mutations; the binder signals once per completed pass
// rather than per message. Not safe for concurrent use, matching the
// single-threaded UI callback model it serves.
type Memory struct {
	byRef     map[resolve.FieldRef][]string
	OnChanged func()
}

// NewMemory creates an empty in-memory message store.
func NewMemory() *Memory {
	return &Memory{byRef: map[resolve.FieldRef][]string{}}
}

func (m *Memory) Clear() {
	clear(m.byRef)
}

func (m *Memory) ClearField(ref resolve.FieldRef) {
	delete(m.byRef, ref)
}

func (m *Memory) Add(ref resolve.FieldRef, msg string) {
	m.byRef[ref] = append(m.byRef[ref], msg)
}

// Notify fires the OnChanged hook, if any.
func (m *Memory) Notify() {
	if m.OnChanged != nil {
		m.OnChanged()
	}
}

// Messages returns the messages attached to ref, in insertion order.
func (m *Memory) Messages(ref resolve.FieldRef) []string {
	return m.byRef[ref]
}

// Refs returns every reference that currently has messages, ordered by field
// name for stable output. Owners sharing a field name keep insertion-map
// order relative to each other.
func (m *Memory) Refs() []resolve.FieldRef {
	refs := make([]resolve.FieldRef, 0, len(m.byRef))
	for ref := range m.byRef {
		refs = append(refs, ref)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	return refs
}

// Len returns the number of references that have messages.
func (m *Memory) Len() int {
	return len(m.byRef)
}
