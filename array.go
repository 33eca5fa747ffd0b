package stasis

import (
	"iter"
	"strconv"
)

// Array is an ordered, growable list of values.
type Array struct {
	header
	elems []any
}

// NewArray creates an array holding values.
func NewArray(values ...any) *Array {
	return CreateArray(nil, values...)
}

// CreateArray creates an array with a prototype, the equivalent of an
// array subclass instance.
func CreateArray(proto *Object, values ...any) *Array {
	elems := make([]any, len(values))
	copy(elems, values)
	return &Array{header: header{proto: proto}, elems: elems}
}

func (a *Array) kind() Kind {
	if a == nil {
		return KindScalar
	}
	return KindArray
}

func (a *Array) backing() tagged { return a }

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.elems)
}

// At returns the element at i, or nil when i is out of range.
func (a *Array) At(i int) any {
	if i < 0 || i >= len(a.elems) {
		return nil
	}
	return a.elems[i]
}

// Set stores v at i. Setting i == Len() appends.
func (a *Array) Set(i int, v any) error {
	if a.frozen {
		return newMutationError(ErrReadOnly, KindArray, "set", strconv.Itoa(i))
	}
	switch {
	case i >= 0 && i < len(a.elems):
		a.elems[i] = v
	case i == len(a.elems):
		a.elems = append(a.elems, v)
	default:
		return newMutationError(ErrIndexOutOfRange, KindArray, "set", strconv.Itoa(i))
	}
	return nil
}

// Push appends values.
func (a *Array) Push(values ...any) error {
	if a.frozen {
		return newMutationError(ErrNotExtensible, KindArray, "push", "")
	}
	a.elems = append(a.elems, values...)
	return nil
}

// Pop removes and returns the last element.
func (a *Array) Pop() (any, error) {
	if a.frozen {
		return nil, newMutationError(ErrReadOnly, KindArray, "pop", "")
	}
	if len(a.elems) == 0 {
		return nil, nil
	}
	last := a.elems[len(a.elems)-1]
	a.elems = a.elems[:len(a.elems)-1]
	return last, nil
}

// Values returns a copy of the elements.
func (a *Array) Values() []any {
	out := make([]any, len(a.elems))
	copy(out, a.elems)
	return out
}

// All iterates index/element pairs.
func (a *Array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i, v := range a.elems {
			if !yield(i, v) {
				return
			}
		}
	}
}

// isNested reports whether a is non-empty and every element is an array.
func (a *Array) isNested() bool {
	if len(a.elems) == 0 {
		return false
	}
	for _, v := range a.elems {
		if Classify(v) != KindArray {
			return false
		}
	}
	return true
}
