package stasis

import (
	"context"
	"iter"
	"reflect"
)

// ReadOnlyMap is the read surface of a Map. Views returned by ReadOnly
// carry no mutating methods at all.
type ReadOnlyMap interface {
	Get(key any) (any, bool)
	Has(key any) bool
	Len() int
	Keys() []any
	All() iter.Seq2[any, any]
}

// Map is an insertion-ordered keyed collection. Keys are compared by Go
// equality, so model containers used as keys match by identity. A key that
// is not comparable, such as a native slice, is never stored: Set reports
// ErrUnhashable and the lookups miss.
//
// Once frozen, Set, Delete and Clear leave the contents untouched and
// report ErrFrozen instead.
type Map struct {
	header
	keys    []any
	entries map[any]any
	report  Reporter
	ctx     context.Context
}

// NewMap creates an empty map.
func NewMap() *Map {
	return CreateMap(nil)
}

// CreateMap creates an empty map with a prototype.
func CreateMap(proto *Object) *Map {
	return &Map{header: header{proto: proto}, entries: make(map[any]any)}
}

func (m *Map) kind() Kind {
	if m == nil {
		return KindScalar
	}
	return KindMap
}

func (m *Map) backing() tagged { return m }

// Set stores v under key and returns m for chaining.
func (m *Map) Set(key, v any) *Map {
	if m.frozen {
		m.violate("set", ErrFrozen)
		return m
	}
	if !hashable(key) {
		m.violate("set", ErrUnhashable)
		return m
	}
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = v
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	if !hashable(key) {
		return nil, false
	}
	v, ok := m.entries[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	if !hashable(key) {
		return false
	}
	_, ok := m.entries[key]
	return ok
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key any) bool {
	if m.frozen {
		m.violate("delete", ErrFrozen)
		return false
	}
	if !hashable(key) {
		return false
	}
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every entry.
func (m *Map) Clear() {
	if m.frozen {
		m.violate("clear", ErrFrozen)
		return
	}
	m.keys = nil
	m.entries = make(map[any]any)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []any {
	out := make([]any, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, k := range m.keys {
			if !yield(k, m.entries[k]) {
				return
			}
		}
	}
}

// ReadOnly returns a view over m without mutating methods.
func (m *Map) ReadOnly() ReadOnlyMap {
	return mapView{m: m}
}

func (m *Map) violate(op string, err error) {
	reportViolation(m.ctx, Violation{Kind: KindMap, Op: op, Err: err}, m.report)
}

// hashable reports whether v can be used as a Go map key.
func hashable(v any) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}

// mapView hides the mutators of the Map it wraps.
type mapView struct {
	m *Map
}

func (v mapView) Get(key any) (any, bool) { return v.m.Get(key) }
func (v mapView) Has(key any) bool { return v.m.Has(key) }
func (v mapView) Len() int { return v.m.Len() }
func (v mapView) Keys() []any { return v.m.Keys() }
func (v mapView) All() iter.Seq2[any, any] { return v.m.All() }
