package stasis

import "reflect"

// Cloner is the contract for opaque Go values that want to be copied when
// they appear inside a model value. Any type with a method
// Clone() returning its own type qualifies:
//
//	func (u User) Clone() User { return u }
//
// For types with reference fields, ensure deep copying:
//
//	func (o Order) Clone() Order {
//	    items := make([]Item, len(o.Items))
//	    copy(items, o.Items)
//	    return Order{ID: o.ID, Items: items}
//	}
//
// Values without such a method are shared between the original and the clone.
type Cloner[T any] interface {
	Clone() T
}

// CloneDeep returns an independent copy of v. Containers are rebuilt with
// the same kind and prototype; object properties keep their descriptors,
// data values are cloned recursively and accessors are copied as is.
// Scalars are returned unchanged. Cyclic values are not supported.
func CloneDeep[T any](v T) T {
	out, _ := cloneValue(v).(T)
	return out
}

func cloneValue(v any) any {
	if c, wrapped := unwrap(v); wrapped {
		if Classify(c) == KindScalar {
			return cloneScalar(v)
		}
		return rewrap(v, cloneValue(c))
	}

	switch Classify(v) {
	case KindObject:
		return cloneObject(v.(*Object))
	case KindArray:
		a := v.(*Array)
		out := CreateArray(a.proto)
		out.elems = make([]any, len(a.elems))
		for i, e := range a.elems {
			out.elems[i] = cloneValue(e)
		}
		return out
	case KindMap:
		m := v.(*Map)
		out := CreateMap(m.proto)
		for _, k := range m.keys {
			out.keys = append(out.keys, k)
			out.entries[k] = cloneValue(m.entries[k])
		}
		return out
	case KindSet:
		s := v.(*Set)
		out := CreateSet(s.proto)
		for _, e := range s.members {
			c := cloneValue(e)
			out.index[c] = struct{}{}
			out.members = append(out.members, c)
		}
		return out
	case KindDate:
		if d, ok := v.(*Date); ok {
			return CreateDate(d.proto, d.t)
		}
		return v
	default:
		return cloneScalar(v)
	}
}

func cloneObject(o *Object) *Object {
	out := Create(o.proto)
	out.keys = make([]Key, 0, len(o.keys))
	for _, k := range o.keys {
		d := *o.props[k]
		if !d.IsAccessor() {
			d.Value = cloneValue(d.Value)
		}
		out.keys = append(out.keys, k)
		out.props[k] = &d
	}
	return out
}

// cloneScalar honours the Cloner contract and shares everything else.
func cloneScalar(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return v
	}
	m := rv.MethodByName("Clone")
	if !m.IsValid() {
		return v
	}
	mt := m.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 || mt.Out(0) != rv.Type() {
		return v
	}
	return m.Call(nil)[0].Interface()
}

// rewrap copies v, a struct (or pointer to struct) embedding a container,
// with the embedded container replaced by c. When no settable embedding
// field is found v is returned unchanged.
func rewrap(v, c any) any {
	rv := reflect.ValueOf(v)
	ptr := rv.Kind() == reflect.Pointer
	if ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return v
	}
	out := reflect.New(rv.Type()).Elem()
	out.Set(rv)
	if !setEmbedded(out, reflect.ValueOf(c)) {
		return v
	}
	if ptr {
		return out.Addr().Interface()
	}
	return out.Interface()
}

// setEmbedded replaces the shallowest embedded field of c's type in sv,
// copying embedded structs on the way down.
func setEmbedded(sv, c reflect.Value) bool {
	st := sv.Type()
	for i := range st.NumField() {
		if sf := st.Field(i); sf.Anonymous && sf.Type == c.Type() && sv.Field(i).CanSet() {
			sv.Field(i).Set(c)
			return true
		}
	}
	for i := range st.NumField() {
		sf := st.Field(i)
		f := sv.Field(i)
		if !sf.Anonymous || !f.CanSet() {
			continue
		}
		switch {
		case sf.Type.Kind() == reflect.Struct:
			if setEmbedded(f, c) {
				return true
			}
		case sf.Type.Kind() == reflect.Pointer && sf.Type.Elem().Kind() == reflect.Struct && !f.IsNil():
			inner := reflect.New(sf.Type.Elem())
			inner.Elem().Set(f.Elem())
			if setEmbedded(inner.Elem(), c) {
				f.Set(inner)
				return true
			}
		}
	}
	return false
}
