package stasis

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for engine events.
var (
	SignalProduceStart        = capitan.NewSignal("stasis.produce.start", "Produce operation beginning")
	SignalProduceComplete     = capitan.NewSignal("stasis.produce.complete", "Produce operation finished")
	SignalMergeComplete       = capitan.NewSignal("stasis.merge.complete", "Merge operation finished")
	SignalFreezeComplete      = capitan.NewSignal("stasis.freeze.complete", "Value deeply frozen")
	SignalMutationRejected    = capitan.NewSignal("stasis.mutation.rejected", "Mutation attempted on a frozen collection")
	SignalAsyncSettled        = capitan.NewSignal("stasis.async.settled", "Pending base state settled")
	SignalPrototypeRegistered = capitan.NewSignal("stasis.prototype.registered", "Prototype created for a Go type")
	SignalEncodeComplete      = capitan.NewSignal("stasis.encode.complete", "Encode operation finished")
	SignalDecodeComplete      = capitan.NewSignal("stasis.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeyKind        = capitan.NewStringKey("kind")
	KeyMode        = capitan.NewStringKey("mode")
	KeyOperation   = capitan.NewStringKey("operation")
	KeyMessage     = capitan.NewStringKey("message")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyContentType = capitan.NewStringKey("content_type")
	KeyCount       = capitan.NewIntKey("count")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitProduceStart emits an event when produce begins.
func emitProduceStart(ctx context.Context, kind Kind) {
	capitan.Emit(ctx, SignalProduceStart,
		KeyKind.Field(string(kind)),
	)
}

// emitProduceComplete emits an event when produce finishes.
func emitProduceComplete(ctx context.Context, kind Kind, mode string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyKind.Field(string(kind)),
		KeyMode.Field(mode),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalProduceComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalProduceComplete, fields...)
	}
}

// emitMergeComplete emits an event when merge finishes.
func emitMergeComplete(ctx context.Context, kind Kind, count int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyKind.Field(string(kind)),
		KeyCount.Field(count),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMergeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMergeComplete, fields...)
	}
}

// emitFreezeComplete emits an event when a standalone deep freeze finishes.
func emitFreezeComplete(ctx context.Context, kind Kind, duration time.Duration) {
	capitan.Emit(ctx, SignalFreezeComplete,
		KeyKind.Field(string(kind)),
		KeyDuration.Field(duration),
	)
}

// emitMutationRejected emits an event when a frozen map or set refuses a mutation.
func emitMutationRejected(ctx context.Context, kind Kind, op string, err error) {
	capitan.Error(ctx, SignalMutationRejected,
		KeyKind.Field(string(kind)),
		KeyOperation.Field(op),
		KeyMessage.Field(err.Error()),
		KeyError.Field(err),
	)
}

// emitAsyncSettled emits an event when an async produce resolves.
func emitAsyncSettled(ctx context.Context, kind Kind, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyKind.Field(string(kind)),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalAsyncSettled, fields...)
	} else {
		capitan.Emit(ctx, SignalAsyncSettled, fields...)
	}
}

// emitPrototypeRegistered emits an event when a Go type gets its prototype.
func emitPrototypeRegistered(ctx context.Context, typeName string, fields int) {
	capitan.Emit(ctx, SignalPrototypeRegistered,
		KeyTypeName.Field(typeName),
		KeyCount.Field(fields),
	)
}

// emitEncodeComplete emits an event when encode finishes.
func emitEncodeComplete(ctx context.Context, contentType string, kind Kind, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyKind.Field(string(kind)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeComplete emits an event when decode finishes.
func emitDecodeComplete(ctx context.Context, contentType string, kind Kind, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyKind.Field(string(kind)),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
