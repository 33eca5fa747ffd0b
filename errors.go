package stasis

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies one of the fixed engine diagnostics.
type Code int

const (
	// CodeFrozen is reported when a frozen map or set is asked to mutate.
	CodeFrozen Code = iota + 1

	// CodeIncompatible is returned when Produce receives a second argument
	// that is neither a producer nor a value of the base's kind.
	CodeIncompatible

	// CodeKindMismatch is returned when merge participants differ in kind.
	CodeKindMismatch
)

// messages is the diagnostic table. It is never written after init.
var messages = map[Code]string{
	CodeFrozen:       "This object has been frozen and should not be mutated",
	CodeIncompatible: "baseState and producer are incompatibles",
	CodeKindMismatch: "Cannot merge these types, because they are different types",
}

// Message returns the fixed diagnostic text for the code.
func (c Code) Message() string {
	if msg, ok := messages[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown diagnostic %d", int(c))
}

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrFrozen is the mutation-after-freeze diagnostic.
	ErrFrozen = errors.New(CodeFrozen.Message())

	// ErrIncompatible indicates a base state and producer that cannot be combined.
	ErrIncompatible = errors.New(CodeIncompatible.Message())

	// ErrKindMismatch indicates merge participants of different kinds.
	ErrKindMismatch = errors.New(CodeKindMismatch.Message())

	// ErrReadOnly indicates a write to a non-writable or frozen slot.
	ErrReadOnly = errors.New("cannot assign to read only property")

	// ErrNotExtensible indicates an attempt to add to a frozen container.
	ErrNotExtensible = errors.New("object is not extensible")

	// ErrNotConfigurable indicates a redefinition or delete of a locked property.
	ErrNotConfigurable = errors.New("cannot redefine non-configurable property")

	// ErrIndexOutOfRange indicates an array index outside [0, len].
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnhashable indicates a Map key or Set member that is not comparable.
	ErrUnhashable = errors.New("value is not comparable")

	// ErrNotCallable indicates Call on a property that holds no method.
	ErrNotCallable = errors.New("property is not callable")

	// ErrRejected indicates the pending base state settled with an error.
	ErrRejected = errors.New("pending state rejected")

	// ErrPanic indicates a producer panicked on the async path.
	ErrPanic = errors.New("producer panicked")

	// ErrBind indicates a model value could not be bound into a Go value.
	ErrBind = errors.New("bind failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// MutationError is returned when a write reaches a frozen or locked slot
// of an object, array, or date.
type MutationError struct {
	Err  error  // Underlying sentinel error (ErrReadOnly, ErrNotExtensible, etc.)
	Kind Kind   // Kind of the container written to
	Op   string // Operation attempted (set, define, delete, push, ...)
	Key  string // Property key or index, if any
}

func (e *MutationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q of %s (%s)", e.Err.Error(), e.Key, e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s on %s", e.Err.Error(), e.Op, e.Kind)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// KindError is returned when participants of produce or merge do not
// share a mergeable kind.
type KindError struct {
	Err   error  // ErrIncompatible or ErrKindMismatch
	Kinds []Kind // Kind of every participant, in argument order
}

func (e *KindError) Error() string {
	if len(e.Kinds) == 0 {
		return e.Err.Error()
	}
	names := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		names[i] = string(k)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), strings.Join(names, ", "))
}

func (e *KindError) Unwrap() error {
	return e.Err
}

// RejectedError wraps the reason a pending base state failed to settle.
// It matches both ErrRejected and the cause under errors.Is.
type RejectedError struct {
	Cause error
}

func (e *RejectedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", ErrRejected.Error(), e.Cause)
	}
	return ErrRejected.Error()
}

func (e *RejectedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRejected}
	}
	return []error{ErrRejected, e.Cause}
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newMutationError creates a MutationError for a rejected write.
func newMutationError(sentinel error, kind Kind, op, key string) error {
	return &MutationError{
		Err:  sentinel,
		Kind: kind,
		Op:   op,
		Key:  key,
	}
}

// newKindError creates a KindError from the participants' values.
func newKindError(sentinel error, states ...any) error {
	kinds := make([]Kind, len(states))
	for i, s := range states {
		kinds[i] = Classify(s)
	}
	return &KindError{
		Err:   sentinel,
		Kinds: kinds,
	}
}

// newRejectedError creates a RejectedError for a failed pending state.
func newRejectedError(cause error) error {
	return &RejectedError{Cause: cause}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
