// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/stasis"
)

// msgpackCodec implements stasis.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec.
func New() stasis.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack. Model values are written with map
// entries in property order; Map keys keep their own type.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(msgpack.NewEncoder(&buf), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v. Decoding into *any yields
// model values: maps with only string keys become *Object, other maps
// become *Map, both in wire order.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	target, ok := v.(*any)
	if !ok {
		return msgpack.Unmarshal(data, v)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetMapDecoder(decodeMap)
	out, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	*target = lift(out)
	return nil
}

func encode(enc *msgpack.Encoder, v any) error {
	switch x := v.(type) {
	case *stasis.Object:
		if x == nil {
			return enc.EncodeNil()
		}
		keys := x.Keys()
		if err := enc.EncodeMapLen(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := encode(enc, x.Get(k)); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		return nil
	case *stasis.Map:
		if x == nil {
			return enc.EncodeNil()
		}
		if err := enc.EncodeMapLen(x.Len()); err != nil {
			return err
		}
		for k, val := range x.All() {
			if err := encode(enc, k); err != nil {
				return err
			}
			if err := encode(enc, val); err != nil {
				return err
			}
		}
		return nil
	case *stasis.Array:
		if x == nil {
			return enc.EncodeNil()
		}
		return encodeList(enc, x.Values())
	case *stasis.Set:
		if x == nil {
			return enc.EncodeNil()
		}
		return encodeList(enc, x.Values())
	case *stasis.Date:
		if x == nil {
			return enc.EncodeNil()
		}
		return enc.EncodeTime(x.Time())
	default:
		return enc.Encode(v)
	}
}

func encodeList(enc *msgpack.Encoder, values []any) error {
	if err := enc.EncodeArrayLen(len(values)); err != nil {
		return err
	}
	for i, e := range values {
		if err := encode(enc, e); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

type entry struct {
	key, value any
}

// decodeMap replaces the default map[string]any decoding so key order
// survives.
func decodeMap(d *msgpack.Decoder) (any, error) {
	n, err := d.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}

	entries := make([]entry, 0, n)
	allStrings := true
	for range n {
		k, err := d.DecodeInterface()
		if err != nil {
			return nil, err
		}
		if _, ok := k.(string); !ok {
			allStrings = false
		}
		v, err := d.DecodeInterface()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: lift(k), value: lift(v)})
	}

	if allStrings {
		o := stasis.NewObject()
		for _, e := range entries {
			if err := o.Set(e.key.(string), e.value); err != nil {
				return nil, err
			}
		}
		return o, nil
	}
	m := stasis.NewMap()
	for _, e := range entries {
		m.Set(e.key, e.value)
	}
	return m, nil
}

// lift turns decoded slices and times into model values.
func lift(v any) any {
	switch x := v.(type) {
	case []any:
		a := stasis.NewArray()
		for _, e := range x {
			_ = a.Push(lift(e))
		}
		return a
	case time.Time:
		return stasis.NewDate(x)
	default:
		return v
	}
}
