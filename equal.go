package stasis

import (
	"reflect"
	"time"
)

// Equal reports whether a and b are structurally equal: the same kind and
// prototype, the same own keys (string and symbol) with the same descriptor
// flags, and recursively equal values. Accessors compare by function
// identity. Key order and frozen state are ignored. Map keys match by
// identity; set members match structurally. Types embedding a container
// are equal when their Go types match and the containers are equal.
func Equal(a, b any) bool {
	ca, wa := unwrap(a)
	cb, wb := unwrap(b)
	if (wa || wb) && reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	a, b = ca, cb

	ka, kb := Classify(a), Classify(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindObject:
		return equalObjects(a.(*Object), b.(*Object))
	case KindArray:
		x, y := a.(*Array), b.(*Array)
		if x.proto != y.proto || len(x.elems) != len(y.elems) {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case KindMap:
		x, y := a.(*Map), b.(*Map)
		if x.proto != y.proto || len(x.keys) != len(y.keys) {
			return false
		}
		for _, k := range x.keys {
			v, ok := y.entries[k]
			if !ok || !Equal(x.entries[k], v) {
				return false
			}
		}
		return true
	case KindSet:
		return equalSets(a.(*Set), b.(*Set))
	case KindDate:
		ta, pa := dateOf(a)
		tb, pb := dateOf(b)
		return pa == pb && ta.Equal(tb)
	default:
		return equalScalars(a, b)
	}
}

func equalObjects(x, y *Object) bool {
	if x.proto != y.proto || len(x.keys) != len(y.keys) {
		return false
	}
	for _, k := range x.keys {
		dx := x.props[k]
		dy, ok := y.props[k]
		if !ok {
			return false
		}
		if dx.Enumerable != dy.Enumerable || dx.Configurable != dy.Configurable {
			return false
		}
		if dx.IsAccessor() != dy.IsAccessor() {
			return false
		}
		if dx.IsAccessor() {
			if !sameFunc(dx.Get, dy.Get) || !sameFunc(dx.Set, dy.Set) {
				return false
			}
			continue
		}
		if dx.Writable != dy.Writable || !Equal(dx.Value, dy.Value) {
			return false
		}
	}
	return true
}

func equalSets(x, y *Set) bool {
	if x.proto != y.proto || len(x.members) != len(y.members) {
		return false
	}
	used := make([]bool, len(y.members))
	for _, m := range x.members {
		found := false
		for i, n := range y.members {
			if !used[i] && Equal(m, n) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func dateOf(v any) (time.Time, *Object) {
	if d, ok := v.(*Date); ok {
		return d.t, d.proto
	}
	return v.(time.Time), nil
}

func equalScalars(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func || vb.Kind() == reflect.Func {
		return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}

// sameFunc compares two funcs of the same type by code pointer.
func sameFunc(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.IsNil() || vb.IsNil() {
		return va.IsNil() && vb.IsNil()
	}
	return va.Pointer() == vb.Pointer()
}
