package stasis

import (
	"testing"
	"time"
)

type counter struct {
	hits *int
}

func (c counter) Clone() counter {
	n := *c.hits
	return counter{hits: &n}
}

func TestCloneDeep_Isolation(t *testing.T) {
	inner := NewObject()
	_ = inner.Set("n", 1)
	src := NewObject()
	_ = src.Set("inner", inner)
	_ = src.Set("list", NewArray(NewArray(1), "x"))
	_ = src.Set("lookup", NewMap().Set("k", NewArray(1)))
	_ = src.Set("seen", NewSet("a"))
	_ = src.Set("at", NewDate(time.Unix(0, 0)))

	dst := CloneDeep(src)

	if dst == src {
		t.Fatal("CloneDeep() returned the same object")
	}
	if !Equal(dst, src) {
		t.Fatal("CloneDeep() result should be structurally equal")
	}

	_ = dst.Get("inner").(*Object).Set("n", 2)
	_ = dst.Get("list").(*Array).At(0).(*Array).Push(2)
	v, _ := dst.Get("lookup").(*Map).Get("k")
	_ = v.(*Array).Push(2)
	dst.Get("seen").(*Set).Add("b")
	_ = dst.Get("at").(*Date).Add(time.Hour)

	if inner.Get("n") != 1 {
		t.Error("nested object shared with clone")
	}
	if src.Get("list").(*Array).At(0).(*Array).Len() != 1 {
		t.Error("nested array shared with clone")
	}
	sv, _ := src.Get("lookup").(*Map).Get("k")
	if sv.(*Array).Len() != 1 {
		t.Error("map value shared with clone")
	}
	if src.Get("seen").(*Set).Len() != 1 {
		t.Error("set shared with clone")
	}
	if src.Get("at").(*Date).UnixMilli() != 0 {
		t.Error("date shared with clone")
	}
}

func TestCloneDeep_KeepsDescriptorsAndPrototype(t *testing.T) {
	proto := NewPrototype("Point", nil)
	sym := NewSymbol("meta")
	getter := func(this *Object) any { return this.Get("x") }

	src := Create(proto)
	_ = src.Set("x", 1)
	_ = src.SetKey(sym.Key(), "m")
	_ = src.Define(Name("id"), Descriptor{Value: 7})
	_ = src.Define(Name("alias"), Descriptor{Get: getter, Enumerable: true})

	dst := CloneDeep(src)

	if dst.Proto() != proto {
		t.Error("CloneDeep() should keep the prototype reference")
	}
	if dst.GetKey(sym.Key()) != "m" {
		t.Error("CloneDeep() should copy symbol keys")
	}
	d, ok := dst.Own(Name("id"))
	if !ok || d.Writable || d.Enumerable || d.Configurable || d.Value != 7 {
		t.Errorf("Own(id) = %+v, want locked value 7", d)
	}
	_ = dst.Set("x", 5)
	if dst.Get("alias") != 5 {
		t.Errorf("Get(alias) = %v, want getter bound to clone", dst.Get("alias"))
	}
	if !Equal(CloneDeep(src), src) {
		t.Error("CloneDeep() should be structurally equal")
	}
}

func TestCloneDeep_UnfreezesContainers(t *testing.T) {
	src := FreezeDeep(NewArray(NewObject()))
	dst := CloneDeep(src)

	if dst.IsFrozen() || dst.At(0).(*Object).IsFrozen() {
		t.Error("clone of a frozen value should be mutable")
	}
}

func TestCloneDeep_Scalars(t *testing.T) {
	fn := func() {}
	native := map[string]int{"a": 1}

	if CloneDeep(42) != 42 || CloneDeep("s") != "s" {
		t.Error("primitives should pass through")
	}
	if CloneDeep[any](nil) != nil {
		t.Error("nil should pass through")
	}
	got := CloneDeep(native)
	got["b"] = 2
	if native["b"] != 2 {
		t.Error("native maps should be shared, not copied")
	}
	if !Equal(CloneDeep[any](fn), fn) {
		t.Error("functions should pass through")
	}
	at := time.Now()
	if !CloneDeep(at).Equal(at) {
		t.Error("native time should pass through")
	}
}

func TestCloneDeep_Cloner(t *testing.T) {
	n := 1
	src := NewArray(counter{hits: &n})
	dst := CloneDeep(src)

	*dst.At(0).(counter).hits = 5
	if n != 1 {
		t.Error("Clone() method should be used for opaque values")
	}
}
