package stasis

import (
	"context"
	"time"
)

// Merge combines base and states, which must all share one mergeable kind,
// and returns the frozen combination. Inputs are cloned first and are never
// modified.
//
//   - objects: the first object is cloned whole, then every later object's
//     own enumerable properties overlay it; later keys win.
//   - arrays: concatenated in argument order; an argument whose elements are
//     all arrays is flattened one level first.
//   - maps: entries overlay in argument order; later keys win.
//   - sets: union in first-seen order.
//
// Differing kinds, and dates or scalars, fail with ErrKindMismatch. When
// base is a type embedding a container the result has base's type.
func Merge(base any, states ...any) (any, error) {
	ctx := context.Background()
	merged, err := mergeStates(ctx, append([]any{base}, states...))
	if err != nil {
		return nil, err
	}
	freezeValue(ctx, merged, nil)
	return merged, nil
}

// mergeStates combines the participants without freezing.
func mergeStates(ctx context.Context, states []any) (result any, err error) {
	start := time.Now()
	kind := Classify(states[0])
	defer func() {
		emitMergeComplete(ctx, kind, len(states), time.Since(start), err)
	}()

	for _, s := range states[1:] {
		if Classify(s) != kind {
			return nil, newKindError(ErrKindMismatch, states...)
		}
	}

	if !IsMergeable(kind) {
		return nil, newKindError(ErrKindMismatch, states...)
	}

	containers := make([]any, len(states))
	for i, s := range states {
		containers[i], _ = unwrap(s)
	}

	var merged any
	switch kind {
	case KindObject:
		merged = mergeObjects(containers)
	case KindArray:
		merged = mergeArrays(containers)
	case KindMap:
		merged = mergeMaps(containers)
	case KindSet:
		merged = mergeSets(containers)
	}
	if _, wrapped := unwrap(states[0]); wrapped {
		return rewrap(states[0], merged), nil
	}
	return merged, nil
}

func mergeObjects(states []any) *Object {
	out := cloneObject(states[0].(*Object))
	for _, s := range states[1:] {
		o := s.(*Object)
		for _, k := range o.OwnKeys() {
			if !o.props[k].Enumerable {
				continue
			}
			d := DataProperty(cloneValue(o.GetKey(k)))
			out.define(k, &d)
		}
	}
	return out
}

func mergeArrays(states []any) *Array {
	out := CreateArray(states[0].(*Array).proto)
	for _, s := range states {
		a := s.(*Array)
		if a.isNested() {
			for _, inner := range a.elems {
				c, _ := unwrap(inner)
				for _, e := range c.(*Array).elems {
					out.elems = append(out.elems, cloneValue(e))
				}
			}
			continue
		}
		for _, e := range a.elems {
			out.elems = append(out.elems, cloneValue(e))
		}
	}
	return out
}

func mergeMaps(states []any) *Map {
	out := CreateMap(states[0].(*Map).proto)
	for _, s := range states {
		m := s.(*Map)
		for _, k := range m.keys {
			out.Set(k, cloneValue(m.entries[k]))
		}
	}
	return out
}

func mergeSets(states []any) *Set {
	out := CreateSet(states[0].(*Set).proto)
	for _, s := range states {
		for _, e := range s.(*Set).members {
			out.Add(cloneValue(e))
		}
	}
	return out
}
