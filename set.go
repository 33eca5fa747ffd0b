package stasis

import (
	"context"
	"iter"
)

// ReadOnlySet is the read surface of a Set.
type ReadOnlySet interface {
	Has(v any) bool
	Len() int
	Values() []any
	All() iter.Seq[any]
}

// Set is an insertion-ordered collection of distinct comparable values.
// A value that is not comparable is never stored: Add reports ErrUnhashable
// and Has misses.
//
// Once frozen, Add, Delete and Clear leave the contents untouched and
// report ErrFrozen instead.
type Set struct {
	header
	members []any
	index   map[any]struct{}
	report  Reporter
	ctx     context.Context
}

// NewSet creates a set holding values, dropping duplicates.
func NewSet(values ...any) *Set {
	s := CreateSet(nil)
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// CreateSet creates an empty set with a prototype.
func CreateSet(proto *Object) *Set {
	return &Set{header: header{proto: proto}, index: make(map[any]struct{})}
}

func (s *Set) kind() Kind {
	if s == nil {
		return KindScalar
	}
	return KindSet
}

func (s *Set) backing() tagged { return s }

// Add inserts v and returns s for chaining.
func (s *Set) Add(v any) *Set {
	if s.frozen {
		s.violate("add", ErrFrozen)
		return s
	}
	if !hashable(v) {
		s.violate("add", ErrUnhashable)
		return s
	}
	if _, ok := s.index[v]; !ok {
		s.index[v] = struct{}{}
		s.members = append(s.members, v)
	}
	return s
}

// Has reports whether v is a member.
func (s *Set) Has(v any) bool {
	if !hashable(v) {
		return false
	}
	_, ok := s.index[v]
	return ok
}

// Delete removes v and reports whether it was present.
func (s *Set) Delete(v any) bool {
	if s.frozen {
		s.violate("delete", ErrFrozen)
		return false
	}
	if !hashable(v) {
		return false
	}
	if _, ok := s.index[v]; !ok {
		return false
	}
	delete(s.index, v)
	for i, m := range s.members {
		if m == v {
			s.members = append(s.members[:i], s.members[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every member.
func (s *Set) Clear() {
	if s.frozen {
		s.violate("clear", ErrFrozen)
		return
	}
	s.members = nil
	s.index = make(map[any]struct{})
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.members)
}

// Values returns the members in insertion order.
func (s *Set) Values() []any {
	out := make([]any, len(s.members))
	copy(out, s.members)
	return out
}

// All iterates members in insertion order.
func (s *Set) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range s.members {
			if !yield(v) {
				return
			}
		}
	}
}

// ReadOnly returns a view over s without mutating methods.
func (s *Set) ReadOnly() ReadOnlySet {
	return setView{s: s}
}

func (s *Set) violate(op string, err error) {
	reportViolation(s.ctx, Violation{Kind: KindSet, Op: op, Err: err}, s.report)
}

// setView hides the mutators of the Set it wraps.
type setView struct {
	s *Set
}

func (v setView) Has(x any) bool { return v.s.Has(x) }
func (v setView) Len() int { return v.s.Len() }
func (v setView) Values() []any { return v.s.Values() }
func (v setView) All() iter.Seq[any] { return v.s.All() }
