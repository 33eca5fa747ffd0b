package stasis

import (
	"fmt"
	"sync/atomic"
)

// Symbol is a unique property key. Two symbols with the same description
// are distinct keys.
type Symbol struct {
	description string
	id          uint64
}

var symbolSeq atomic.Uint64

// NewSymbol creates a symbol with the given description.
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description, id: symbolSeq.Add(1)}
}

// Description returns the symbol's description.
func (s *Symbol) Description() string {
	return s.description
}

// Key returns the property key for the symbol.
func (s *Symbol) Key() Key {
	return Key{sym: s}
}

func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

// TagSymbol names a prototype. NewPrototype defines it, TypeName reads it.
var TagSymbol = NewSymbol("Symbol.toStringTag")

// Key is a property key: either a string name or a symbol.
type Key struct {
	name string
	sym  *Symbol
}

// Name returns the property key for a string name.
func Name(name string) Key {
	return Key{name: name}
}

// IsSymbol reports whether the key is a symbol.
func (k Key) IsSymbol() bool {
	return k.sym != nil
}

// Symbol returns the key's symbol, or nil for string keys.
func (k Key) Symbol() *Symbol {
	return k.sym
}

func (k Key) String() string {
	if k.sym != nil {
		return k.sym.String()
	}
	return k.name
}

// Method is a function stored on an object, usually a prototype. It is
// invoked through Call with the receiving instance as this.
type Method func(this *Object, args ...any) (any, error)

// Descriptor describes one own property. A descriptor with Get or Set is an
// accessor and Value and Writable are ignored.
type Descriptor struct {
	Value        any
	Get          func(this *Object) any
	Set          func(this *Object, v any) error
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// DataProperty returns a writable, enumerable, configurable data descriptor.
func DataProperty(v any) Descriptor {
	return Descriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}
}

// IsAccessor reports whether the descriptor is a getter/setter pair.
func (d Descriptor) IsAccessor() bool {
	return d.Get != nil || d.Set != nil
}

// header is shared by every container: its prototype and frozen state.
type header struct {
	proto  *Object
	frozen bool
}

// Proto returns the container's prototype, or nil.
func (h *header) Proto() *Object {
	return h.proto
}

// IsFrozen reports whether this container has been frozen. It does not
// look at nested values; use the package-level IsFrozen for that.
func (h *header) IsFrozen() bool {
	return h.frozen
}

// InstanceOf reports whether proto appears on the container's prototype chain.
func (h *header) InstanceOf(proto *Object) bool {
	if proto == nil {
		return false
	}
	for p := h.proto; p != nil; p = p.proto {
		if p == proto {
			return true
		}
	}
	return false
}

// Object is a property bag with a prototype chain. Own properties keep
// insertion order; string keys enumerate before symbol keys.
type Object struct {
	header
	keys  []Key
	props map[Key]*Descriptor
}

// NewObject creates a plain object with no prototype.
func NewObject() *Object {
	return Create(nil)
}

// Create creates an object whose prototype is proto.
func Create(proto *Object) *Object {
	return &Object{
		header: header{proto: proto},
		props:  make(map[Key]*Descriptor),
	}
}

// NewPrototype creates a named prototype inheriting from parent. The name is
// stored under TagSymbol and reported by TypeName on every instance.
func NewPrototype(name string, parent *Object) *Object {
	p := Create(parent)
	p.define(TagSymbol.Key(), &Descriptor{Value: name, Configurable: true})
	return p
}

func (o *Object) kind() Kind {
	if o == nil {
		return KindScalar
	}
	return KindObject
}

func (o *Object) backing() tagged { return o }

// TypeName returns the TagSymbol value found on the prototype chain, or
// "Object".
func (o *Object) TypeName() string {
	if name, ok := o.LookupKey(TagSymbol.Key()); ok {
		if s, ok := name.(string); ok {
			return s
		}
	}
	return "Object"
}

// Len returns the number of own properties.
func (o *Object) Len() int {
	return len(o.keys)
}

// OwnKeys returns every own key: string keys first, then symbols, each in
// insertion order.
func (o *Object) OwnKeys() []Key {
	out := make([]Key, 0, len(o.keys))
	for _, k := range o.keys {
		if !k.IsSymbol() {
			out = append(out, k)
		}
	}
	for _, k := range o.keys {
		if k.IsSymbol() {
			out = append(out, k)
		}
	}
	return out
}

// Keys returns the own enumerable string keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if !k.IsSymbol() && o.props[k].Enumerable {
			out = append(out, k.name)
		}
	}
	return out
}

// Own returns the own descriptor for k with the effective flags: on a
// frozen object data properties read as non-writable and nothing is
// configurable.
func (o *Object) Own(k Key) (Descriptor, bool) {
	d, ok := o.props[k]
	if !ok {
		return Descriptor{}, false
	}
	out := *d
	if o.frozen {
		out.Configurable = false
		if !out.IsAccessor() {
			out.Writable = false
		}
	}
	return out, true
}

// HasOwn reports whether k is an own property.
func (o *Object) HasOwn(k Key) bool {
	_, ok := o.props[k]
	return ok
}

// Has reports whether name resolves on the object or its prototype chain.
func (o *Object) Has(name string) bool {
	_, ok := o.LookupKey(Name(name))
	return ok
}

// Get returns the value of name, walking the prototype chain and invoking
// getters. Missing properties read as nil.
func (o *Object) Get(name string) any {
	v, _ := o.LookupKey(Name(name))
	return v
}

// GetKey is Get for an arbitrary key.
func (o *Object) GetKey(k Key) any {
	v, _ := o.LookupKey(k)
	return v
}

// LookupKey resolves k on the object or its prototype chain.
func (o *Object) LookupKey(k Key) (any, bool) {
	for cur := o; cur != nil; cur = cur.proto {
		d, ok := cur.props[k]
		if !ok {
			continue
		}
		if d.IsAccessor() {
			if d.Get == nil {
				return nil, true
			}
			return d.Get(o), true
		}
		return d.Value, true
	}
	return nil, false
}

// Set assigns v to name.
func (o *Object) Set(name string, v any) error {
	return o.SetKey(Name(name), v)
}

// SetKey assigns v to k with assignment semantics: own data properties must
// be writable, setters found on the object or its chain are invoked, an
// inherited read-only property blocks the write, and new keys require an
// unfrozen object.
func (o *Object) SetKey(k Key, v any) error {
	if d, ok := o.props[k]; ok {
		if d.IsAccessor() {
			if d.Set == nil {
				return newMutationError(ErrReadOnly, KindObject, "set", k.String())
			}
			return d.Set(o, v)
		}
		if o.frozen || !d.Writable {
			return newMutationError(ErrReadOnly, KindObject, "set", k.String())
		}
		d.Value = v
		return nil
	}

	for p := o.proto; p != nil; p = p.proto {
		d, ok := p.props[k]
		if !ok {
			continue
		}
		if d.IsAccessor() {
			if d.Set == nil {
				return newMutationError(ErrReadOnly, KindObject, "set", k.String())
			}
			return d.Set(o, v)
		}
		if p.frozen || !d.Writable {
			return newMutationError(ErrReadOnly, KindObject, "set", k.String())
		}
		break
	}

	if o.frozen {
		return newMutationError(ErrNotExtensible, KindObject, "set", k.String())
	}
	d := DataProperty(v)
	o.define(k, &d)
	return nil
}

// Define installs d as the own property k, replacing an existing
// configurable property in place.
func (o *Object) Define(k Key, d Descriptor) error {
	existing, ok := o.props[k]
	if o.frozen {
		if ok {
			return newMutationError(ErrNotConfigurable, KindObject, "define", k.String())
		}
		return newMutationError(ErrNotExtensible, KindObject, "define", k.String())
	}
	if ok && !existing.Configurable {
		return newMutationError(ErrNotConfigurable, KindObject, "define", k.String())
	}
	o.define(k, &d)
	return nil
}

// DefineMethod installs m as a non-enumerable property.
func (o *Object) DefineMethod(name string, m Method) error {
	return o.Define(Name(name), Descriptor{Value: m, Writable: true, Configurable: true})
}

// Delete removes the own property name.
func (o *Object) Delete(name string) error {
	return o.DeleteKey(Name(name))
}

// DeleteKey removes the own property k. Missing keys are not an error.
func (o *Object) DeleteKey(k Key) error {
	d, ok := o.props[k]
	if !ok {
		return nil
	}
	if o.frozen || !d.Configurable {
		return newMutationError(ErrNotConfigurable, KindObject, "delete", k.String())
	}
	delete(o.props, k)
	for i, existing := range o.keys {
		if existing == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Call invokes the method stored under name with o as this.
func (o *Object) Call(name string, args ...any) (any, error) {
	switch fn := o.Get(name).(type) {
	case Method:
		return fn(o, args...)
	case func(this *Object, args ...any) (any, error):
		return fn(o, args...)
	default:
		return nil, fmt.Errorf("%w: %s.%s", ErrNotCallable, o.TypeName(), name)
	}
}

// define stores d under k without any checks, keeping k's position if it
// already exists.
func (o *Object) define(k Key, d *Descriptor) {
	if _, ok := o.props[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.props[k] = d
}
