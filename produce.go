package stasis

import (
	"reflect"
	"time"
)

// Produce modes reported on SignalProduceComplete.
const (
	modeClone    = "clone"
	modeProducer = "producer"
	modeMerge    = "merge"
)

// Outcome is a producer's explicit answer: keep the draft, or replace it.
type Outcome[T any] struct {
	value    T
	replaced bool
}

// Keep freezes the draft as the producer left it.
func Keep[T any]() Outcome[T] {
	return Outcome[T]{}
}

// Replace freezes v instead of the draft. Zero values are honoured.
func Replace[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, replaced: true}
}

// Value returns the replacement and whether there is one.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.replaced
}

func (o Outcome[T]) replacement() (any, bool) {
	return o.value, o.replaced
}

// outcome lets Produce read an Outcome of any type parameter.
type outcome interface {
	replacement() (any, bool)
}

// Producer receives the mutable draft and may mutate it in place and/or
// return a replacement.
type Producer[T any] func(draft T) (Outcome[T], error)

// Mutate adapts an in-place mutation that cannot fail.
func Mutate[T any](fn func(draft T)) Producer[T] {
	return func(draft T) (Outcome[T], error) {
		fn(draft)
		return Keep[T](), nil
	}
}

// Apply adapts an in-place mutation that might fail.
func Apply[T any](fn func(draft T) error) Producer[T] {
	return func(draft T) (Outcome[T], error) {
		if err := fn(draft); err != nil {
			return Keep[T](), err
		}
		return Keep[T](), nil
	}
}

// Transform adapts a function whose result always replaces the draft.
func Transform[T any](fn func(draft T) T) Producer[T] {
	return func(draft T) (Outcome[T], error) {
		return Replace(fn(draft)), nil
	}
}

// Update clones base, runs fn on the clone, and freezes the draft or fn's
// replacement. A nil fn clones and freezes.
func Update[T any](base T, fn Producer[T], opts ...Option) (result T, err error) {
	cfg := newConfig(opts)
	start := time.Now()
	mode := modeClone
	emitProduceStart(cfg.ctx, Classify(base))
	defer func() {
		emitProduceComplete(cfg.ctx, Classify(base), mode, time.Since(start), err)
	}()

	draft := CloneDeep(base)
	result = draft
	if fn != nil {
		mode = modeProducer
		out, err := fn(draft)
		if err != nil {
			var zero T
			return zero, err
		}
		if v, ok := out.Value(); ok {
			result = v
		}
	}
	cfg.finish(result)
	return result, nil
}

// Produce is the dynamic entry point. Trailing Option arguments configure
// the call; the rest select the mode:
//
//	Produce(base)                     clone and freeze
//	Produce(base, fn)                 clone, run fn on the draft, freeze
//	Produce(base, fn, WithoutFreeze()) as above, result left mutable
//	Produce(base, other, more...)     merge same-kind values and freeze
//	Produce(future, fn)               *Future[Result[any]], see ProduceAsync
//
// fn may be a Producer[T] or any func taking the draft and returning
// nothing, an error, a replacement, (replacement, bool), or
// (Outcome, error). A second argument of a different kind fails with
// ErrIncompatible; mixed kinds across three or more fail with
// ErrKindMismatch.
func Produce(base any, args ...any) (any, error) {
	args, opts := splitOptions(args)
	cfg := newConfig(opts)
	if p, ok := base.(pending); ok {
		return produceAsync(cfg, p, args), nil
	}
	return produceSync(cfg, base, args)
}

func produceSync(cfg *config, base any, args []any) (result any, err error) {
	start := time.Now()
	mode := modeClone
	emitProduceStart(cfg.ctx, Classify(base))
	defer func() {
		emitProduceComplete(cfg.ctx, Classify(base), mode, time.Since(start), err)
	}()

	draft := cloneValue(base)
	if len(args) == 0 || (len(args) == 1 && args[0] == nil) {
		return cfg.finish(draft), nil
	}

	if isCallable(args[0]) {
		mode = modeProducer
		if len(args) > 1 {
			return nil, newKindError(ErrIncompatible, append([]any{base}, args...)...)
		}
		out, err := invokeProducer(args[0], draft)
		if err != nil {
			return nil, err
		}
		return cfg.finish(out), nil
	}

	mode = modeMerge
	if len(args) == 1 && (!IsMergeable(Classify(args[0])) || Classify(args[0]) != Classify(draft)) {
		return nil, newKindError(ErrIncompatible, base, args[0])
	}
	merged, err := mergeStates(cfg.ctx, append([]any{draft}, args...))
	if err != nil {
		return nil, err
	}
	return cfg.finish(merged), nil
}

var (
	errorType = reflect.TypeFor[error]()
	boolType  = reflect.TypeFor[bool]()
)

func isCallable(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// invokeProducer calls fn with the draft and returns the value to freeze.
func invokeProducer(fn any, draft any) (any, error) {
	switch f := fn.(type) {
	case Producer[any]:
		out, err := f(draft)
		if err != nil {
			return nil, err
		}
		if v, ok := out.Value(); ok {
			return v, nil
		}
		return draft, nil
	case func(any):
		f(draft)
		return draft, nil
	case func(any) error:
		if err := f(draft); err != nil {
			return nil, err
		}
		return draft, nil
	}

	rv := reflect.ValueOf(fn)
	ft := rv.Type()
	if ft.NumIn() != 1 || ft.IsVariadic() || !producerResults(ft) {
		return nil, newKindError(ErrIncompatible, draft, fn)
	}
	in := reflect.ValueOf(draft)
	if !in.IsValid() {
		in = reflect.Zero(ft.In(0))
	}
	if !in.Type().AssignableTo(ft.In(0)) {
		return nil, newKindError(ErrIncompatible, draft, fn)
	}

	outs := rv.Call([]reflect.Value{in})
	switch {
	case len(outs) == 0:
		return draft, nil
	case len(outs) == 1 && ft.Out(0) == errorType:
		if err, _ := outs[0].Interface().(error); err != nil {
			return nil, err
		}
		return draft, nil
	case len(outs) == 1:
		return replacementOf(outs[0], draft, true), nil
	case ft.Out(1) == boolType:
		return replacementOf(outs[0], draft, outs[1].Bool()), nil
	default:
		if err, _ := outs[1].Interface().(error); err != nil {
			return nil, err
		}
		return replacementOf(outs[0], draft, true), nil
	}
}

// producerResults reports whether ft returns nothing, one value, or a value
// followed by a bool or an error.
func producerResults(ft reflect.Type) bool {
	switch ft.NumOut() {
	case 0, 1:
		return true
	case 2:
		return ft.Out(1) == boolType || ft.Out(1) == errorType
	default:
		return false
	}
}

// replacementOf resolves a producer's first result. An Outcome decides for
// itself; any other value replaces the draft when replaced is true.
func replacementOf(out reflect.Value, draft any, replaced bool) any {
	v := out.Interface()
	if o, ok := v.(outcome); ok {
		if r, ok := o.replacement(); ok {
			return r
		}
		return draft
	}
	if replaced {
		return v
	}
	return draft
}
