package stasis

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"object", NewObject(), KindObject},
		{"object with prototype", Create(NewPrototype("User", nil)), KindObject},
		{"array", NewArray(1, 2), KindArray},
		{"map", NewMap(), KindMap},
		{"set", NewSet(), KindSet},
		{"date", NewDate(time.Now()), KindDate},
		{"native time", time.Now(), KindDate},
		{"nil", nil, KindScalar},
		{"string", "x", KindScalar},
		{"int", 42, KindScalar},
		{"func", func() {}, KindScalar},
		{"native map", map[string]any{"a": 1}, KindScalar},
		{"native slice", []int{1}, KindScalar},
		{"typed nil object", (*Object)(nil), KindScalar},
		{"typed nil array", (*Array)(nil), KindScalar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_IgnoresPrototype(t *testing.T) {
	// An array whose prototype is an object is still an array.
	a := CreateArray(NewPrototype("Tuple", nil), 1)
	if got := Classify(a); got != KindArray {
		t.Errorf("Classify() = %q, want %q", got, KindArray)
	}
}

func TestIsComposite(t *testing.T) {
	for _, k := range []Kind{KindObject, KindArray, KindMap, KindSet, KindDate} {
		if !IsComposite(k) {
			t.Errorf("IsComposite(%q) = false, want true", k)
		}
	}
	if IsComposite(KindScalar) {
		t.Error("IsComposite(scalar) = true, want false")
	}
}

func TestIsMergeable(t *testing.T) {
	for _, k := range []Kind{KindObject, KindArray, KindMap, KindSet} {
		if !IsMergeable(k) {
			t.Errorf("IsMergeable(%q) = false, want true", k)
		}
	}
	for _, k := range []Kind{KindDate, KindScalar} {
		if IsMergeable(k) {
			t.Errorf("IsMergeable(%q) = true, want false", k)
		}
	}
}
