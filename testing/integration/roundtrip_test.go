package integration

import (
	"errors"
	"testing"

	"github.com/zoobzio/stasis"
	"github.com/zoobzio/stasis/bson"
	"github.com/zoobzio/stasis/json"
	"github.com/zoobzio/stasis/msgpack"
	stasistest "github.com/zoobzio/stasis/testing"
	"github.com/zoobzio/stasis/yaml"
)

func codecs() map[string]stasis.Codec {
	return map[string]stasis.Codec{
		"json":    json.New(),
		"yaml":    yaml.New(),
		"msgpack": msgpack.New(),
		"bson":    bson.New(),
	}
}

func TestRoundTrip_Import(t *testing.T) {
	for name, c := range codecs() {
		t.Run(name, func(t *testing.T) {
			src := stasis.Import(map[string]any{
				"name":  "root",
				"flags": []any{"a", "b"},
				"inner": map[string]any{"ok": true},
			})

			data, err := stasis.Encode(c, src)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			got, err := stasis.Decode(c, data)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}

			stasistest.AssertFrozen(t, got)
			stasistest.AssertEqual(t, got, src)
		})
	}
}

func TestRoundTrip_ProduceAfterDecode(t *testing.T) {
	for name, c := range codecs() {
		t.Run(name, func(t *testing.T) {
			got, err := stasis.Decode(c, mustEncode(t, c, `{"count":"1","items":["x"]}`))
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			base := got.(*stasis.Object)

			next, err := stasis.Update(base, stasis.Apply(func(d *stasis.Object) error {
				return d.Set("count", "2")
			}))
			if err != nil {
				t.Fatalf("Update() error: %v", err)
			}
			if base.Get("count") != "1" {
				t.Errorf("base count = %v, want 1", base.Get("count"))
			}
			if next.Get("count") != "2" {
				t.Errorf("next count = %v, want 2", next.Get("count"))
			}
			stasistest.AssertFrozen(t, next)
		})
	}
}

func TestDecode_WithoutFreeze(t *testing.T) {
	for name, c := range codecs() {
		t.Run(name, func(t *testing.T) {
			got, err := stasis.Decode(c, mustEncode(t, c, `{"a":"b"}`), stasis.WithoutFreeze())
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if err := got.(*stasis.Object).Set("a", "c"); err != nil {
				t.Errorf("Set() on unfrozen decode error: %v", err)
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	for name, c := range codecs() {
		if name == "yaml" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			_, err := stasis.Decode(c, []byte{0xc1, 0xff, 0x00})
			if !errors.Is(err, stasis.ErrUnmarshal) {
				t.Errorf("Decode(invalid) error = %v, want ErrUnmarshal", err)
			}
		})
	}
}

func TestBind_AfterDecode(t *testing.T) {
	for name, c := range codecs() {
		t.Run(name, func(t *testing.T) {
			user := stasistest.NewUser()
			data, err := stasis.Encode(c, stasis.Import(user))
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			decoded, err := stasis.Decode(c, data)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			got, err := stasis.Bind[stasistest.User](decoded)
			if err != nil {
				t.Fatalf("Bind() error: %v", err)
			}
			if got.ID != user.ID || got.Name != user.Name || len(got.Tags) != 2 {
				t.Errorf("Bind() = %+v, want %+v", got, user)
			}
			if got.Password != "" {
				t.Errorf("Password = %q, want empty", got.Password)
			}
			if got.Notes != "" {
				t.Errorf("Notes = %q, want empty (hidden fields are not encoded)", got.Notes)
			}
			if !got.Joined.Equal(user.Joined) {
				t.Errorf("Joined = %v, want %v", got.Joined, user.Joined)
			}
		})
	}
}

// mustEncode converts a JSON literal into c's wire format.
func mustEncode(t *testing.T, c stasis.Codec, literal string) []byte {
	t.Helper()
	v, err := stasis.Decode(json.New(), []byte(literal), stasis.WithoutFreeze())
	if err != nil {
		t.Fatalf("Decode(json) error: %v", err)
	}
	data, err := stasis.Encode(c, v)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	return data
}
