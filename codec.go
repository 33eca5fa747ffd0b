package stasis

import "time"

// Codec provides content-type aware marshaling. The codecs under json/,
// yaml/, msgpack/ and bson/ understand model values: Marshal writes object
// properties in insertion order and Unmarshal into *any yields *Object and
// *Array values with document order preserved.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Encode marshals v with c. A type embedding a container is encoded as the
// container. Failures wrap ErrMarshal.
func Encode(c Codec, v any, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	start := time.Now()
	if inner, wrapped := unwrap(v); wrapped {
		v = inner
	}

	data, err := c.Marshal(v)
	if err != nil {
		err = newCodecError(ErrMarshal, err)
	}
	emitEncodeComplete(cfg.ctx, c.ContentType(), Classify(v), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Decode unmarshals data with c into the value model and freezes the
// result unless WithoutFreeze is given. Failures wrap ErrUnmarshal.
func Decode(c Codec, data []byte, opts ...Option) (any, error) {
	cfg := newConfig(opts)
	start := time.Now()

	var raw any
	if err := c.Unmarshal(data, &raw); err != nil {
		err = newCodecError(ErrUnmarshal, err)
		emitDecodeComplete(cfg.ctx, c.ContentType(), KindScalar, len(data), time.Since(start), err)
		return nil, err
	}

	v := cfg.finish(Import(raw))
	emitDecodeComplete(cfg.ctx, c.ContentType(), Classify(v), len(data), time.Since(start), nil)
	return v, nil
}
