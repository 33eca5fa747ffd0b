package yaml

import (
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/stasis"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `yaml:"name"`
		Value int    `yaml:"value"`
	}

	original := TestStruct{Name: "test", Value: 42}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored TestStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored.Name != original.Name || restored.Value != original.Value {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestMarshalNil(t *testing.T) {
	c := New()

	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if string(data) != "null\n" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null\n")
	}
}

func TestMarshalObjectOrder(t *testing.T) {
	c := New()

	o := stasis.NewObject()
	_ = o.Set("zeta", 1)
	_ = o.Set("alpha", stasis.NewArray("x", "y"))

	data, err := c.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := "zeta: 1\nalpha:\n    - x\n    - y\n"
	if string(data) != want {
		t.Errorf("Marshal() = %q, want %q", data, want)
	}
}

func TestUnmarshalAnyPreservesOrder(t *testing.T) {
	c := New()

	input := "b: 1\na:\n  y: [1, 2]\n  x: s\n"
	var v any
	if err := c.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	o, ok := v.(*stasis.Object)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want *stasis.Object", v)
	}
	if got := strings.Join(o.Keys(), ","); got != "b,a" {
		t.Errorf("Keys() = %q, want %q", got, "b,a")
	}
	inner := o.Get("a").(*stasis.Object)
	if got := strings.Join(inner.Keys(), ","); got != "y,x" {
		t.Errorf("inner Keys() = %q, want %q", got, "y,x")
	}
	if arr, ok := inner.Get("y").(*stasis.Array); !ok || arr.Len() != 2 {
		t.Errorf("Get(y) = %v, want two-element array", inner.Get("y"))
	}
}

func TestUnmarshalTimestamp(t *testing.T) {
	c := New()

	var v any
	if err := c.Unmarshal([]byte("at: 2024-01-02T03:04:05Z\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	d, ok := v.(*stasis.Object).Get("at").(*stasis.Date)
	if !ok {
		t.Fatalf("Get(at) = %T, want *stasis.Date", v.(*stasis.Object).Get("at"))
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if !d.Time().Equal(want) {
		t.Errorf("Time() = %v, want %v", d.Time(), want)
	}
}

func TestUnmarshalAnchors(t *testing.T) {
	c := New()

	input := `default: &default
  timeout: 30
  retries: 3
production:
  <<: *default
  timeout: 60`

	var v any
	if err := c.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Unmarshal(anchors) error: %v", err)
	}

	prod, ok := v.(*stasis.Object).Get("production").(*stasis.Object)
	if !ok {
		t.Fatal("production key not found or wrong type")
	}
	if prod.Get("timeout") != 60 {
		t.Errorf("production.timeout = %v, want 60", prod.Get("timeout"))
	}
	if prod.Get("retries") != 3 {
		t.Errorf("production.retries = %v, want 3", prod.Get("retries"))
	}
	if prod.Has("<<") {
		t.Error("merge key should not appear as a property")
	}
}

func TestUnmarshalEmpty(t *testing.T) {
	c := New()

	var v any = "sentinel"
	if err := c.Unmarshal([]byte{}, &v); err != nil {
		t.Errorf("Unmarshal(empty) error: %v", err)
	}
	if v != nil {
		t.Errorf("Unmarshal(empty) = %v, want nil", v)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	testCases := []struct {
		name  string
		input string
	}{
		{"unclosed flow", "name: [invalid"},
		{"unclosed quote", `name: "unterminated`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var v any
			if err := c.Unmarshal([]byte(tc.input), &v); err == nil {
				t.Errorf("Unmarshal(%q) should return error", tc.input)
			}
		})
	}
}

func TestRoundTripModel(t *testing.T) {
	c := New()

	o := stasis.NewObject()
	_ = o.Set("text", "line1\nline2")
	_ = o.Set("emoji", "hello 👋 world")
	_ = o.Set("list", stasis.NewArray("a", true))

	data, err := c.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !stasis.Equal(o, v) {
		t.Errorf("round-trip failed: got %v, want %v", stasis.Export(v), stasis.Export(o))
	}
}
