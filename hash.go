package stasis

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a hex-encoded BLAKE2b-256 digest of v's content.
// Values that are Equal up to key order and set or map ordering share a
// fingerprint; array order is significant. Prototypes contribute their
// TypeName and accessors only their presence. Symbol keys hash by identity
// within the process, so distinct symbols never collide with each other or
// with string keys.
// Funcs, channels and unsafe pointers cannot be fingerprinted.
func Fingerprint(v any) (string, error) {
	sum, err := digest(v)
	if err != nil {
		return "", newCodecError(ErrMarshal, err)
	}
	return hex.EncodeToString(sum[:]), nil
}

type digestSum = [blake2b.Size256]byte

func digest(v any) (digestSum, error) {
	var buf bytes.Buffer
	v, _ = unwrap(v)
	switch Classify(v) {
	case KindObject:
		o := v.(*Object)
		buf.WriteByte('o')
		writeString(&buf, protoName(o.proto))
		entries := make([][]byte, 0, len(o.keys))
		for _, k := range o.keys {
			d := o.props[k]
			var e bytes.Buffer
			writeKey(&e, k)
			e.WriteByte(flagByte(d))
			if !d.IsAccessor() {
				sum, err := digest(d.Value)
				if err != nil {
					return digestSum{}, fmt.Errorf("%s: %w", k, err)
				}
				e.Write(sum[:])
			}
			entries = append(entries, e.Bytes())
		}
		writeSorted(&buf, entries)
	case KindArray:
		a := v.(*Array)
		buf.WriteByte('a')
		writeString(&buf, protoName(a.proto))
		for i, e := range a.elems {
			sum, err := digest(e)
			if err != nil {
				return digestSum{}, fmt.Errorf("[%d]: %w", i, err)
			}
			buf.Write(sum[:])
		}
	case KindMap:
		m := v.(*Map)
		buf.WriteByte('m')
		writeString(&buf, protoName(m.proto))
		entries := make([][]byte, 0, len(m.keys))
		for _, k := range m.keys {
			ks, err := digest(k)
			if err != nil {
				return digestSum{}, err
			}
			vs, err := digest(m.entries[k])
			if err != nil {
				return digestSum{}, fmt.Errorf("[%v]: %w", k, err)
			}
			entries = append(entries, append(ks[:], vs[:]...))
		}
		writeSorted(&buf, entries)
	case KindSet:
		s := v.(*Set)
		buf.WriteByte('s')
		writeString(&buf, protoName(s.proto))
		entries := make([][]byte, 0, len(s.members))
		for _, e := range s.members {
			sum, err := digest(e)
			if err != nil {
				return digestSum{}, err
			}
			entries = append(entries, sum[:])
		}
		writeSorted(&buf, entries)
	case KindDate:
		t, proto := dateOf(v)
		buf.WriteByte('d')
		writeString(&buf, protoName(proto))
		_ = binary.Write(&buf, binary.BigEndian, t.UnixNano())
	default:
		if v != nil {
			switch reflect.TypeOf(v).Kind() {
			case reflect.Func, reflect.Chan, reflect.UnsafePointer:
				return digestSum{}, fmt.Errorf("cannot fingerprint %T", v)
			}
		}
		buf.WriteByte('v')
		writeString(&buf, fmt.Sprintf("%T", v))
		writeString(&buf, fmt.Sprintf("%v", v))
	}
	return blake2b.Sum256(buf.Bytes()), nil
}

func protoName(p *Object) string {
	if p == nil {
		return ""
	}
	return p.TypeName()
}

func flagByte(d *Descriptor) byte {
	var b byte
	if d.Writable {
		b |= 1
	}
	if d.Enumerable {
		b |= 2
	}
	if d.Configurable {
		b |= 4
	}
	if d.IsAccessor() {
		b |= 8
	}
	return b
}

func writeString(buf *bytes.Buffer, s string) {
	_ = binary.Write(buf, binary.BigEndian, uint32(len(s)))
	buf.WriteString(s)
}

// writeKey tags k as a name or a symbol before writing it.
func writeKey(buf *bytes.Buffer, k Key) {
	if !k.IsSymbol() {
		buf.WriteByte('n')
		writeString(buf, k.name)
		return
	}
	buf.WriteByte('y')
	_ = binary.Write(buf, binary.BigEndian, k.sym.id)
	writeString(buf, k.sym.description)
}

func writeSorted(buf *bytes.Buffer, entries [][]byte) {
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i], entries[j]) < 0
	})
	for _, e := range entries {
		_ = binary.Write(buf, binary.BigEndian, uint32(len(e)))
		buf.Write(e)
	}
}
