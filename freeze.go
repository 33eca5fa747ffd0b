package stasis

import (
	"context"
	"time"
)

// Violation describes a mutation refused by a map or set: any write to a
// frozen one, or a key or member that is not comparable.
type Violation struct {
	Kind Kind   // KindMap or KindSet
	Op   string // set, add, delete or clear
	Err  error  // ErrFrozen or ErrUnhashable
}

// Message returns the diagnostic text.
func (v Violation) Message() string {
	return v.Err.Error()
}

// Reporter receives violations from frozen maps and sets.
type Reporter func(Violation)

// reportViolation emits the rejection signal, then hands v to r.
func reportViolation(ctx context.Context, v Violation, r Reporter) {
	if ctx == nil {
		ctx = context.Background()
	}
	emitMutationRejected(ctx, v.Kind, v.Op, v.Err)
	if r != nil {
		r(v)
	}
}

// FreezeDeep makes v and every composite reachable from it read-only, in
// place, and returns v. Maps and sets frozen here report refused mutations
// to the reporter given by WithReporter.
func FreezeDeep[T any](v T, opts ...Option) T {
	cfg := newConfig(opts)
	start := time.Now()
	freezeValue(cfg.ctx, v, cfg.reporter)
	emitFreezeComplete(cfg.ctx, Classify(v), time.Since(start))
	return v
}

// freezeValue freezes nested values first, then the container itself.
// Already frozen containers are skipped; everything below them is frozen.
func freezeValue(ctx context.Context, v any, r Reporter) {
	v, _ = unwrap(v)
	switch Classify(v) {
	case KindObject:
		o := v.(*Object)
		if o.frozen {
			return
		}
		for _, k := range o.keys {
			if d := o.props[k]; !d.IsAccessor() {
				freezeValue(ctx, d.Value, r)
			}
		}
		o.frozen = true
	case KindArray:
		a := v.(*Array)
		if a.frozen {
			return
		}
		for _, e := range a.elems {
			freezeValue(ctx, e, r)
		}
		a.frozen = true
	case KindMap:
		m := v.(*Map)
		if m.frozen {
			return
		}
		for _, k := range m.keys {
			freezeValue(ctx, m.entries[k], r)
		}
		m.report = r
		m.ctx = ctx
		m.frozen = true
	case KindSet:
		s := v.(*Set)
		if s.frozen {
			return
		}
		for _, e := range s.members {
			freezeValue(ctx, e, r)
		}
		s.report = r
		s.ctx = ctx
		s.frozen = true
	case KindDate:
		if d, ok := v.(*Date); ok {
			d.frozen = true
		}
	}
}

// IsFrozen reports whether v and everything reachable from it is frozen.
// Scalars are always frozen.
func IsFrozen(v any) bool {
	v, _ = unwrap(v)
	switch Classify(v) {
	case KindObject:
		o := v.(*Object)
		if !o.frozen {
			return false
		}
		for _, k := range o.keys {
			if d := o.props[k]; !d.IsAccessor() && !IsFrozen(d.Value) {
				return false
			}
		}
	case KindArray:
		a := v.(*Array)
		if !a.frozen {
			return false
		}
		for _, e := range a.elems {
			if !IsFrozen(e) {
				return false
			}
		}
	case KindMap:
		m := v.(*Map)
		if !m.frozen {
			return false
		}
		for _, k := range m.keys {
			if !IsFrozen(m.entries[k]) {
				return false
			}
		}
	case KindSet:
		s := v.(*Set)
		if !s.frozen {
			return false
		}
		for _, e := range s.members {
			if !IsFrozen(e) {
				return false
			}
		}
	case KindDate:
		if d, ok := v.(*Date); ok {
			return d.frozen
		}
	}
	return true
}
