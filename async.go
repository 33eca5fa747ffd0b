package stasis

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Future is a value that settles once, either resolved or rejected.
// The zero value is not usable; create futures with NewFuture, Resolved,
// Rejected or Async.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// NewFuture creates an unsettled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved creates a future already resolved with v.
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Rejected creates a future already rejected with err.
func Rejected[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Reject(err)
	return f
}

// Async runs fn on a new goroutine and settles the future with its result.
func Async[T any](fn func() (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		v, err := fn()
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Resolve settles the future with v. It reports false if already settled.
func (f *Future[T]) Resolve(v T) bool {
	settled := false
	f.once.Do(func() {
		f.value = v
		close(f.done)
		settled = true
	})
	return settled
}

// Reject settles the future with err. It reports false if already settled.
func (f *Future[T]) Reject(err error) bool {
	settled := false
	f.once.Do(func() {
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) await(ctx context.Context) (any, error) {
	return f.Await(ctx)
}

// pending is satisfied by every *Future, whatever its type parameter.
type pending interface {
	await(ctx context.Context) (any, error)
}

// Result is the settled outcome of an async produce. Failures travel in
// Err rather than as a rejected future.
type Result[T any] struct {
	Value T
	Err   error
}

// Unwrap returns the value and error.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// ProduceAsync waits for base, then clones it, runs fn on the draft and
// freezes the result, exactly as Update. The returned future always
// resolves: a rejected base yields a Result whose Err matches ErrRejected
// and the rejection cause, and a panicking fn yields ErrPanic. Cancelling
// ctx abandons the wait and is reported as a rejection.
func ProduceAsync[T any](ctx context.Context, base *Future[T], fn Producer[T], opts ...Option) *Future[Result[T]] {
	out := NewFuture[Result[T]]()
	go func() {
		start := time.Now()
		res := settleTyped(ctx, base, fn, append([]Option{WithContext(ctx)}, opts...))
		emitAsyncSettled(ctx, Classify(res.Value), time.Since(start), res.Err)
		out.Resolve(res)
	}()
	return out
}

func settleTyped[T any](ctx context.Context, base *Future[T], fn Producer[T], opts []Option) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()
	v, err := base.Await(ctx)
	if err != nil {
		return Result[T]{Err: newRejectedError(err)}
	}
	value, err := Update(v, fn, opts...)
	return Result[T]{Value: value, Err: err}
}

// produceAsync is Produce's pending branch. Merge mode is not available
// here; a non-callable argument resolves to ErrIncompatible.
func produceAsync(cfg *config, base pending, args []any) *Future[Result[any]] {
	out := NewFuture[Result[any]]()
	go func() {
		start := time.Now()
		res := settleAny(cfg, base, args)
		emitAsyncSettled(cfg.ctx, Classify(res.Value), time.Since(start), res.Err)
		out.Resolve(res)
	}()
	return out
}

func settleAny(cfg *config, base pending, args []any) (res Result[any]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[any]{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
	}()
	v, err := base.await(cfg.ctx)
	if err != nil {
		return Result[any]{Err: newRejectedError(err)}
	}
	if len(args) > 0 && args[0] != nil && !isCallable(args[0]) {
		return Result[any]{Err: newKindError(ErrIncompatible, append([]any{v}, args...)...)}
	}
	value, err := produceSync(cfg, v, args)
	return Result[any]{Value: value, Err: err}
}
