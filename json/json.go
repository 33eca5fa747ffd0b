// Package json provides a JSON codec implementation.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zoobzio/stasis"
)

// jsonCodec implements stasis.Codec for JSON.
type jsonCodec struct{}

// New returns a JSON codec.
func New() stasis.Codec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON. Model values are written with object keys in
// property order; maps use fmt.Sprint of their keys and sets encode as
// arrays.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON data into v. Decoding into *any yields *Object and
// *Array values with document key order; other targets use encoding/json.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	target, ok := v.(*any)
	if !ok {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	out, err := decode(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("json: unexpected data after top-level value")
	}
	*target = out
	return nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case *stasis.Object:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(buf, k); err != nil {
				return err
			}
			if err := encode(buf, x.Get(k)); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case *stasis.Array:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		return encodeList(buf, x.Values())
	case *stasis.Set:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		return encodeList(buf, x.Values())
	case *stasis.Map:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(buf, keyString(k)); err != nil {
				return err
			}
			val, _ := x.Get(k)
			if err := encode(buf, val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case *stasis.Date:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		return encodeScalar(buf, x.Time())
	default:
		return encodeScalar(buf, v)
	}
}

func encodeList(buf *bytes.Buffer, values []any) error {
	buf.WriteByte('[')
	for i, e := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encode(buf, e); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeKey(buf *bytes.Buffer, k string) error {
	if err := encodeScalar(buf, k); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// decode reads one value from dec. Objects keep their key order; strings
// are never parsed as dates.
func decode(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		o := stasis.NewObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := kt.(string)
			val, err := decode(dec)
			if err != nil {
				return nil, err
			}
			if err := o.Set(key, val); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return o, nil
	case '[':
		a := stasis.NewArray()
		for dec.More() {
			val, err := decode(dec)
			if err != nil {
				return nil, err
			}
			if err := a.Push(val); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("json: unexpected delimiter %q", delim)
	}
}
