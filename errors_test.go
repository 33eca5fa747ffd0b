package stasis

import (
	"errors"
	"testing"
)

func TestCode_Message(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeFrozen, "This object has been frozen and should not be mutated"},
		{CodeIncompatible, "baseState and producer are incompatibles"},
		{CodeKindMismatch, "Cannot merge these types, because they are different types"},
		{Code(99), "unknown diagnostic 99"},
	}

	for _, tt := range tests {
		if got := tt.code.Message(); got != tt.want {
			t.Errorf("Code(%d).Message() = %q, want %q", int(tt.code), got, tt.want)
		}
	}
}

func TestSentinelTexts(t *testing.T) {
	if ErrFrozen.Error() != CodeFrozen.Message() {
		t.Errorf("ErrFrozen = %q, want %q", ErrFrozen.Error(), CodeFrozen.Message())
	}
	if ErrIncompatible.Error() != CodeIncompatible.Message() {
		t.Errorf("ErrIncompatible = %q, want %q", ErrIncompatible.Error(), CodeIncompatible.Message())
	}
	if ErrKindMismatch.Error() != CodeKindMismatch.Message() {
		t.Errorf("ErrKindMismatch = %q, want %q", ErrKindMismatch.Error(), CodeKindMismatch.Message())
	}
}

func TestMutationError_Is(t *testing.T) {
	err := newMutationError(ErrReadOnly, KindObject, "set", "name")

	if !errors.Is(err, ErrReadOnly) {
		t.Error("MutationError should unwrap to ErrReadOnly")
	}
	if errors.Is(err, ErrNotExtensible) {
		t.Error("MutationError should not match ErrNotExtensible")
	}
}

func TestMutationError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "with key",
			err:  newMutationError(ErrReadOnly, KindObject, "set", "name"),
			want: `cannot assign to read only property "name" of object (set)`,
		},
		{
			name: "without key",
			err:  newMutationError(ErrNotExtensible, KindArray, "push", ""),
			want: "object is not extensible: push on array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindError(t *testing.T) {
	err := newKindError(ErrKindMismatch, NewObject(), NewArray(), 3)

	if !errors.Is(err, ErrKindMismatch) {
		t.Error("KindError should unwrap to ErrKindMismatch")
	}
	want := "Cannot merge these types, because they are different types (object, array, scalar)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	var ke *KindError
	if !errors.As(err, &ke) || len(ke.Kinds) != 3 {
		t.Errorf("errors.As() KindError = %+v", ke)
	}
}

func TestRejectedError(t *testing.T) {
	cause := errors.New("network down")
	err := newRejectedError(cause)

	if !errors.Is(err, ErrRejected) {
		t.Error("RejectedError should match ErrRejected")
	}
	if !errors.Is(err, cause) {
		t.Error("RejectedError should match its cause")
	}
	if got, want := err.Error(), "pending state rejected: network down"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &RejectedError{}
	if !errors.Is(bare, ErrRejected) || bare.Error() != ErrRejected.Error() {
		t.Error("RejectedError without cause should read as ErrRejected")
	}
}

func TestCodecError(t *testing.T) {
	cause := errors.New("bad byte")
	err := newCodecError(ErrUnmarshal, cause)

	if !errors.Is(err, ErrUnmarshal) {
		t.Error("CodecError should unwrap to ErrUnmarshal")
	}
	if got, want := err.Error(), "unmarshal failed: bad byte"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := (&CodecError{Err: ErrMarshal}).Error(); got != "marshal failed" {
		t.Errorf("Error() = %q, want %q", got, "marshal failed")
	}
}
