package stasis

import (
	"context"
	"go/token"
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// tagName is the struct tag read by Import, Export and Bind.
//
//	type User struct {
//	    ID       string `stasis:"id,readonly"`
//	    Password string `stasis:"-"`
//	    Notes    string `stasis:"notes,hidden"`
//	}
//
// readonly fields import as non-writable properties, hidden fields as
// non-enumerable ones, and "-" skips the field entirely.
const tagName = "stasis"

func init() {
	sentinel.Tag(tagName)
}

// typePlan is the cached import recipe for one struct type.
type typePlan struct {
	proto  *Object
	fields []fieldPlan
}

// fieldPlan describes how a single struct field maps to a property.
type fieldPlan struct {
	index    []int  // reflect.Value.FieldByIndex access path
	name     string // property name
	readonly bool
	hidden   bool
}

var (
	plans   = make(map[reflect.Type]*typePlan)
	plansMu sync.RWMutex
)

// Register returns the prototype shared by every object imported from T
// (or *T). Registration is implicit on first Import; calling Register up
// front lets callers attach methods before any value is imported.
// It returns nil when T is not a struct or pointer to struct.
func Register[T any]() *Object {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}
	if reflect.TypeFor[T]().Kind() == reflect.Struct {
		sentinel.Scan[T]()
	}
	return planFor(rt).proto
}

// planFor returns a cached plan or builds a new one.
func planFor(rt reflect.Type) *typePlan {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if p, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return p
	}
	plansMu.RUnlock()

	plansMu.Lock()
	// Double-check pattern
	if p, ok := plans[rt]; ok {
		plansMu.Unlock()
		return p
	}
	p := buildPlan(rt)
	plans[rt] = p
	plansMu.Unlock()

	emitPrototypeRegistered(context.Background(), p.proto.TypeName(), len(p.fields))
	return p
}

func buildPlan(rt reflect.Type) *typePlan {
	name := rt.Name()
	if name == "" {
		name = rt.String()
	}
	meta := scanType(rt)
	p := &typePlan{
		proto:  NewPrototype(name, nil),
		fields: make([]fieldPlan, 0, len(meta.Fields)),
	}
	for _, f := range meta.Fields {
		tag, tagged := f.Tags[tagName]
		if tag == "-" || !token.IsExported(f.Name) {
			continue
		}
		fp := fieldPlan{index: f.Index, name: f.Name}
		if tagged {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				fp.name = parts[0]
			}
			for _, opt := range parts[1:] {
				switch strings.TrimSpace(opt) {
				case "readonly":
					fp.readonly = true
				case "hidden":
					fp.hidden = true
				}
			}
		}
		p.fields = append(p.fields, fp)
	}
	return p
}

// scanType returns sentinel's metadata for rt, scanning the exported fields
// directly when sentinel has not seen the type.
func scanType(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return meta
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        make(map[string]string),
		}
		if val, ok := sf.Tag.Lookup(tagName); ok {
			fm.Tags[tagName] = val
		}
		meta.Fields = append(meta.Fields, fm)
	}
	return meta
}

// Reset clears the prototype registry.
// This is primarily useful for test isolation.
func Reset() {
	plansMu.Lock()
	defer plansMu.Unlock()
	plans = make(map[reflect.Type]*typePlan)
}
