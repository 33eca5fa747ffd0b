package stasis

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Import converts a native Go value into the value model:
//
//   - structs and pointers to structs become objects whose prototype is the
//     type's registered prototype, with one property per exported field
//     (see the stasis struct tag);
//   - maps with string keys become plain objects, other maps become Maps,
//     both with keys in sorted order;
//   - slices and arrays become Arrays, except []byte which stays a scalar;
//   - time.Time becomes a Date.
//
// Model values, including types that embed a container, are returned
// unchanged and everything else is a scalar.
// Import never freezes.
func Import(v any) any {
	if v == nil {
		return nil
	}
	return importValue(reflect.ValueOf(v))
}

func importValue(rv reflect.Value) any {
	if !rv.IsValid() {
		return nil
	}
	if !rv.CanInterface() {
		return nil
	}
	iface := rv.Interface()
	if Classify(iface) != KindScalar {
		if _, ok := iface.(time.Time); !ok {
			return iface
		}
	}
	if t, ok := iface.(time.Time); ok {
		return NewDate(t)
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return importValue(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return iface
		}
		if rv.Elem().Kind() == reflect.Struct {
			return importValue(rv.Elem())
		}
		return iface
	case reflect.Struct:
		return importStruct(rv)
	case reflect.Map:
		if rv.IsNil() {
			return iface
		}
		return importMap(rv)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 || rv.IsNil() {
			return iface
		}
		fallthrough
	case reflect.Array:
		a := NewArray()
		a.elems = make([]any, rv.Len())
		for i := range rv.Len() {
			a.elems[i] = importValue(rv.Index(i))
		}
		return a
	default:
		return iface
	}
}

func importStruct(rv reflect.Value) *Object {
	plan := planFor(rv.Type())
	o := Create(plan.proto)
	for _, f := range plan.fields {
		fv, err := rv.FieldByIndexErr(f.index)
		if err != nil {
			continue
		}
		o.define(Name(f.name), &Descriptor{
			Value:        importValue(fv),
			Writable:     !f.readonly,
			Enumerable:   !f.hidden,
			Configurable: true,
		})
	}
	return o
}

func importMap(rv reflect.Value) any {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})

	if rv.Type().Key().Kind() == reflect.String {
		o := NewObject()
		for _, k := range keys {
			d := DataProperty(importValue(rv.MapIndex(k)))
			o.define(Name(k.String()), &d)
		}
		return o
	}

	m := NewMap()
	for _, k := range keys {
		m.Set(k.Interface(), importValue(rv.MapIndex(k)))
	}
	return m
}

// Export converts a model value back into plain Go values: objects become
// map[string]any of their enumerable string-keyed properties, arrays and
// sets become []any, maps become map[string]any keyed by fmt.Sprint of each
// key, and dates become time.Time. Scalars are returned unchanged.
func Export(v any) any {
	v, _ = unwrap(v)
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return nil
		}
		out := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			out[k] = Export(x.Get(k))
		}
		return out
	case *Array:
		if x == nil {
			return nil
		}
		out := make([]any, len(x.elems))
		for i, e := range x.elems {
			out[i] = Export(e)
		}
		return out
	case *Set:
		if x == nil {
			return nil
		}
		out := make([]any, len(x.members))
		for i, e := range x.members {
			out[i] = Export(e)
		}
		return out
	case *Map:
		if x == nil {
			return nil
		}
		out := make(map[string]any, len(x.keys))
		for _, k := range x.keys {
			out[keyString(k)] = Export(x.entries[k])
		}
		return out
	case *Date:
		if x == nil {
			return nil
		}
		return x.t
	default:
		return v
	}
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// Bind copies a model value into a new T. Struct fields are matched by
// their stasis property names, hidden properties included. Numbers convert
// between Go kinds only when the value fits exactly, so 300.0 never becomes
// a uint8 and 1.9 never becomes an int. Strings bind to time.Time as
// RFC 3339. Any other mismatch fails with ErrBind.
func Bind[T any](v any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: tagName,
		Result:  &out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			modelHook,
			numericHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
	})
	if err != nil {
		var zero T
		return zero, newCodecError(ErrBind, err)
	}
	if err := dec.Decode(v); err != nil {
		var zero T
		return zero, newCodecError(ErrBind, err)
	}
	return out, nil
}

// modelHook presents model values to the decoder. A destination of the
// value's own type receives a deep copy, an interface destination receives
// the exported tree, and any other destination sees the container one
// level at a time as plain maps and slices.
func modelHook(from, to reflect.Value) (any, error) {
	data := from.Interface()
	if _, ok := data.(time.Time); ok || Classify(data) == KindScalar {
		return data, nil
	}

	switch {
	case to.Kind() == reflect.Interface:
		return Export(data), nil
	case from.Type() == to.Type():
		return cloneValue(data), nil
	case from.Kind() == reflect.Pointer && from.Type().Elem() == to.Type():
		return reflect.ValueOf(cloneValue(data)).Elem().Interface(), nil
	}

	c, _ := unwrap(data)
	plain := exportLevel(c)
	if list, ok := plain.([]any); ok && to.Kind() == reflect.Array && len(list) != to.Len() {
		return nil, fmt.Errorf("length %d does not fit %s", len(list), to.Type())
	}
	return plain, nil
}

// exportLevel is one step of Export that keeps hidden properties and leaves
// nested values as they are.
func exportLevel(c any) any {
	switch x := c.(type) {
	case *Object:
		out := make(map[string]any, len(x.keys))
		for _, k := range x.OwnKeys() {
			if !k.IsSymbol() {
				out[k.name] = x.GetKey(k)
			}
		}
		return out
	case *Array:
		return append([]any(nil), x.elems...)
	case *Set:
		return append([]any(nil), x.members...)
	case *Map:
		out := make(map[any]any, len(x.keys))
		for _, k := range x.keys {
			out[k] = x.entries[k]
		}
		return out
	case *Date:
		return x.t
	default:
		return c
	}
}

// numericHook rejects numeric conversions that would lose information.
func numericHook(from, to reflect.Type, data any) (any, error) {
	if !isNumeric(from.Kind()) || !isNumeric(to.Kind()) {
		return data, nil
	}
	if !fits(reflect.ValueOf(data), reflect.New(to).Elem()) {
		return nil, fmt.Errorf("%v (%s) does not fit %s", data, from, to)
	}
	return data, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// fits reports whether sv converts to dst's type without overflow or a
// dropped fraction.
func fits(sv, dst reflect.Value) bool {
	switch {
	case sv.CanFloat():
		f := sv.Float()
		switch {
		case dst.CanFloat():
			return !dst.OverflowFloat(f)
		case f != math.Trunc(f) || math.IsInf(f, 0):
			return false
		case dst.CanInt():
			return f >= math.MinInt64 && f < math.MaxInt64 && !dst.OverflowInt(int64(f))
		default:
			return f >= 0 && f < math.MaxUint64 && !dst.OverflowUint(uint64(f))
		}
	case sv.CanInt():
		i := sv.Int()
		switch {
		case dst.CanFloat():
			return true
		case dst.CanInt():
			return !dst.OverflowInt(i)
		default:
			return i >= 0 && !dst.OverflowUint(uint64(i))
		}
	default:
		u := sv.Uint()
		switch {
		case dst.CanFloat():
			return true
		case dst.CanInt():
			return u <= math.MaxInt64 && !dst.OverflowInt(int64(u))
		default:
			return !dst.OverflowUint(u)
		}
	}
}
