package msgpack

import (
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
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `msgpack:"name"`
		Value int    `msgpack:"value"`
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

func TestMarshalBinary(t *testing.T) {
	c := New()

	o := stasis.NewObject()
	_ = o.Set("a", "x")

	data, err := c.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	// fixmap with one entry
	if data[0] != 0x81 {
		t.Errorf("Marshal() first byte = %#x, want %#x", data[0], 0x81)
	}
}

func TestUnmarshalAnyPreservesOrder(t *testing.T) {
	c := New()

	o := stasis.NewObject()
	_ = o.Set("zeta", "z")
	_ = o.Set("alpha", stasis.NewArray("a", false))
	_ = o.Set("mid", nil)

	data, err := c.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	got, ok := v.(*stasis.Object)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want *stasis.Object", v)
	}
	keys := got.Keys()
	if len(keys) != 3 || keys[0] != "zeta" || keys[1] != "alpha" || keys[2] != "mid" {
		t.Errorf("Keys() = %v, want [zeta alpha mid]", keys)
	}
	if !stasis.Equal(o, v) {
		t.Errorf("round-trip failed: got %v, want %v", stasis.Export(v), stasis.Export(o))
	}
}

func TestUnmarshalNonStringKeys(t *testing.T) {
	c := New()

	m := stasis.NewMap().Set(true, "yes").Set("k", "v")
	data, err := c.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	got, ok := v.(*stasis.Map)
	if !ok {
		t.Fatalf("Unmarshal() = %T, want *stasis.Map", v)
	}
	if val, _ := got.Get(true); val != "yes" {
		t.Errorf("Get(true) = %v, want %q", val, "yes")
	}
	if keys := got.Keys(); keys[0] != true || keys[1] != "k" {
		t.Errorf("Keys() = %v, want [true k]", keys)
	}
}

func TestDateRoundTrip(t *testing.T) {
	c := New()

	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	data, err := c.Marshal(stasis.NewArray(stasis.NewDate(at)))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	d, ok := v.(*stasis.Array).At(0).(*stasis.Date)
	if !ok || !d.Time().Equal(at) {
		t.Errorf("At(0) = %v, want date %v", v.(*stasis.Array).At(0), at)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v struct{}
	err := c.Unmarshal([]byte("not msgpack"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
