// Package yaml provides a YAML codec implementation.
package yaml

import (
	"fmt"
	"time"

	"github.com/zoobzio/stasis"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements stasis.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() stasis.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML. Model values become ordered mapping and
// sequence nodes.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	n, err := toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

// Unmarshal decodes YAML data into v. Decoding into *any walks the node
// tree so mappings keep their document order and timestamps become Dates.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	target, ok := v.(*any)
	if !ok {
		return yaml.Unmarshal(data, v)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	out, err := fromNode(&doc)
	if err != nil {
		return err
	}
	*target = out
	return nil
}

func toNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case *stasis.Object:
		if x == nil {
			return scalarNode(nil)
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range x.Keys() {
			if err := appendPair(n, k, x.Get(k)); err != nil {
				return nil, err
			}
		}
		return n, nil
	case *stasis.Map:
		if x == nil {
			return scalarNode(nil)
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, val := range x.All() {
			if err := appendPair(n, keyString(k), val); err != nil {
				return nil, err
			}
		}
		return n, nil
	case *stasis.Array:
		if x == nil {
			return scalarNode(nil)
		}
		return sequenceNode(x.Values())
	case *stasis.Set:
		if x == nil {
			return scalarNode(nil)
		}
		return sequenceNode(x.Values())
	case *stasis.Date:
		if x == nil {
			return scalarNode(nil)
		}
		return scalarNode(x.Time())
	default:
		return scalarNode(v)
	}
}

func appendPair(n *yaml.Node, key string, v any) error {
	val, err := toNode(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	n.Content = append(n.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		val,
	)
	return nil
}

func sequenceNode(values []any) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i, e := range values {
		child, err := toNode(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		n.Content = append(n.Content, child)
	}
	return n, nil
}

func scalarNode(v any) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		o := stasis.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].ShortTag() == "!!merge" {
				if err := mergeInto(o, n.Content[i+1]); err != nil {
					return nil, err
				}
				continue
			}
			key := n.Content[i].Value
			val, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if err := o.Set(key, val); err != nil {
				return nil, err
			}
		}
		return o, nil
	case yaml.SequenceNode:
		a := stasis.NewArray()
		for _, c := range n.Content {
			val, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			if err := a.Push(val); err != nil {
				return nil, err
			}
		}
		return a, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		if t, ok := v.(time.Time); ok {
			return stasis.NewDate(t), nil
		}
		return v, nil
	}
}

// mergeInto applies a "<<" merge key: keys from the referenced mappings are
// added unless o already has them.
func mergeInto(o *stasis.Object, n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		for _, c := range n.Content {
			if err := mergeInto(o, c); err != nil {
				return err
			}
		}
		return nil
	}
	src, err := fromNode(n)
	if err != nil {
		return err
	}
	m, ok := src.(*stasis.Object)
	if !ok {
		return fmt.Errorf("yaml: merge value must be a mapping")
	}
	for _, k := range m.Keys() {
		if o.Has(k) {
			continue
		}
		if err := o.Set(k, m.Get(k)); err != nil {
			return err
		}
	}
	return nil
}
