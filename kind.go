package stasis

import (
	"reflect"
	"time"
)

// Kind is the structural classification that drives clone, freeze and
// merge dispatch.
type Kind string

const (
	// KindObject is an *Object.
	KindObject Kind = "object"

	// KindArray is an *Array.
	KindArray Kind = "array"

	// KindMap is a *Map.
	KindMap Kind = "map"

	// KindSet is a *Set.
	KindSet Kind = "set"

	// KindDate is a *Date or a native time.Time.
	KindDate Kind = "date"

	// KindScalar covers everything else: primitives, functions, nil, and
	// native Go containers, which pass through clone and freeze unchanged.
	KindScalar Kind = "scalar"
)

// compositeKinds contains the kinds that clone produces fresh values for.
var compositeKinds = map[Kind]bool{
	KindObject: true,
	KindArray:  true,
	KindMap:    true,
	KindSet:    true,
	KindDate:   true,
}

// mergeableKinds contains the kinds Merge has a combination rule for.
var mergeableKinds = map[Kind]bool{
	KindObject: true,
	KindArray:  true,
	KindMap:    true,
	KindSet:    true,
}

// IsComposite returns true if values of the kind are containers.
func IsComposite(k Kind) bool {
	return compositeKinds[k]
}

// IsMergeable returns true if Merge can combine values of the kind.
func IsMergeable(k Kind) bool {
	return mergeableKinds[k]
}

// tagged is implemented by every model container. The tag is intrinsic to
// the concrete type, so prototypes never influence classification. Types
// that embed a container inherit both methods; backing returns the
// embedded container.
type tagged interface {
	kind() Kind
	backing() tagged
}

// unwrap returns the model container behind v. wrapped is true when v is a
// user type embedding the container rather than the container itself.
func unwrap(v any) (c any, wrapped bool) {
	switch x := v.(type) {
	case *Object, *Array, *Map, *Set, *Date:
		return v, false
	case tagged:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, false
		}
		return x.backing(), true
	default:
		return v, false
	}
}

// Classify reports the structural kind of v. A type embedding a container
// classifies as that container.
func Classify(v any) Kind {
	c, _ := unwrap(v)
	switch x := c.(type) {
	case tagged:
		return x.kind()
	case time.Time:
		return KindDate
	default:
		return KindScalar
	}
}
