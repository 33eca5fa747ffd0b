// Package bson provides a BSON codec implementation.
package bson

import (
	"fmt"
	"sort"
	"time"

	"github.com/zoobzio/stasis"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bsonCodec implements stasis.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() stasis.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON. Objects and Maps become ordered bson.D
// documents; the top-level value must be document shaped.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(toBSON(v))
}

// Unmarshal decodes BSON data into v. Decoding into *any yields an *Object
// with document order preserved, nested arrays as *Array and datetimes as
// *Date.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	target, ok := v.(*any)
	if !ok {
		return bson.Unmarshal(data, v)
	}
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	out, err := fromBSON(doc)
	if err != nil {
		return err
	}
	*target = out
	return nil
}

func toBSON(v any) any {
	switch x := v.(type) {
	case *stasis.Object:
		if x == nil {
			return nil
		}
		keys := x.Keys()
		d := make(bson.D, 0, len(keys))
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: toBSON(x.Get(k))})
		}
		return d
	case *stasis.Map:
		if x == nil {
			return nil
		}
		d := make(bson.D, 0, x.Len())
		for k, val := range x.All() {
			d = append(d, bson.E{Key: keyString(k), Value: toBSON(val)})
		}
		return d
	case *stasis.Array:
		if x == nil {
			return nil
		}
		return toArray(x.Values())
	case *stasis.Set:
		if x == nil {
			return nil
		}
		return toArray(x.Values())
	case *stasis.Date:
		if x == nil {
			return nil
		}
		return primitive.NewDateTimeFromTime(x.Time())
	default:
		return v
	}
}

func toArray(values []any) bson.A {
	a := make(bson.A, len(values))
	for i, e := range values {
		a[i] = toBSON(e)
	}
	return a
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func fromBSON(v any) (any, error) {
	switch x := v.(type) {
	case primitive.D:
		o := stasis.NewObject()
		for _, e := range x {
			val, err := fromBSON(e.Value)
			if err != nil {
				return nil, err
			}
			if err := o.Set(e.Key, val); err != nil {
				return nil, err
			}
		}
		return o, nil
	case primitive.M:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := make(primitive.D, 0, len(keys))
		for _, k := range keys {
			d = append(d, primitive.E{Key: k, Value: x[k]})
		}
		return fromBSON(d)
	case primitive.A:
		return fromList(x)
	case []any:
		return fromList(x)
	case primitive.DateTime:
		return stasis.NewDate(x.Time()), nil
	case time.Time:
		return stasis.NewDate(x), nil
	default:
		return v, nil
	}
}

func fromList(values []any) (*stasis.Array, error) {
	a := stasis.NewArray()
	for _, e := range values {
		val, err := fromBSON(e)
		if err != nil {
			return nil, err
		}
		if err := a.Push(val); err != nil {
			return nil, err
		}
	}
	return a, nil
}
