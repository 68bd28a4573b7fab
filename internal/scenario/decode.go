package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// maxDecodeDepth bounds how deep the decoders build the tree. Anything below
// it becomes Opaque, which the normalizer ignores.
const maxDecodeDepth = 512

// Format selects a document decoder.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses data in the given format into a node tree.
func Decode(data []byte, format Format) (Node, error) {
	switch format {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatJSON, "":
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", format)
	}
}

// DecodeFile reads and decodes a scenario document from disk.
func DecodeFile(path string) (Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	n, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode scenario file %s: %w", path, err)
	}
	return n, nil
}

// -- JSON --

// DecodeJSON streams data through a jsoniter iterator so that mapping keys
// keep their document order.
func DecodeJSON(data []byte) (Node, error) {
	iter := jsoniter.ParseBytes(jsoniter.ConfigCompatibleWithStandardLibrary, data)
	n := readJSON(iter, 0)
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return nil, fmt.Errorf("invalid JSON scenario document: %w", iter.Error)
	}
	if iter.WhatIsNext() != jsoniter.InvalidValue {
		return nil, errors.New("invalid JSON scenario document: trailing data after top-level value")
	}
	return n, nil
}

func readJSON(iter *jsoniter.Iterator, depth int) Node {
	if depth > maxDecodeDepth {
		iter.Skip()
		return Opaque{}
	}
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		return Text(iter.ReadString())
	case jsoniter.ObjectValue:
		m := NewMapping(4)
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			m.Set(key, readJSON(it, depth+1))
			return it.Error == nil
		})
		return m
	case jsoniter.ArrayValue:
		seq := Sequence{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			seq = append(seq, readJSON(it, depth+1))
			return it.Error == nil
		})
		return seq
	case jsoniter.InvalidValue:
		iter.ReportError("readJSON", "unexpected token")
		return Opaque{}
	default:
		return Opaque{Value: iter.Read()}
	}
}

// -- YAML --

// DecodeYAML walks the yaml.Node tree directly. Only !!str scalars become
// Text; every other scalar is kept as Opaque.
func DecodeYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML scenario document: %w", err)
	}
	if doc.Kind == 0 {
		// Empty input.
		return Opaque{}, nil
	}
	return fromYAML(&doc, 0), nil
}

func fromYAML(n *yaml.Node, depth int) Node {
	if n == nil || depth > maxDecodeDepth {
		return Opaque{}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Opaque{}
		}
		return fromYAML(n.Content[0], depth+1)
	case yaml.AliasNode:
		return fromYAML(n.Alias, depth+1)
	case yaml.MappingNode:
		m := NewMapping(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m.Set(n.Content[i].Value, fromYAML(n.Content[i+1], depth+1))
		}
		return m
	case yaml.SequenceNode:
		seq := make(Sequence, 0, len(n.Content))
		for _, c := range n.Content {
			seq = append(seq, fromYAML(c, depth+1))
		}
		return seq
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			return Text(n.Value)
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return Opaque{Value: n.Value}
		}
		return Opaque{Value: v}
	}
	return Opaque{}
}

// -- Generic values --

// FromAny converts an already-decoded generic value (as produced by
// encoding/json, jsoniter or yaml into `any`) into a node tree. Map keys are
// visited in sorted order since Go maps carry none.
func FromAny(v any) Node {
	return fromAny(v, 0)
}

func fromAny(v any, depth int) Node {
	if depth > maxDecodeDepth {
		return Opaque{}
	}
	switch t := v.(type) {
	case Node:
		return t
	case string:
		return Text(t)
	case []string:
		seq := make(Sequence, len(t))
		for i, s := range t {
			seq[i] = Text(s)
		}
		return seq
	case []any:
		seq := make(Sequence, len(t))
		for i, e := range t {
			seq[i] = fromAny(e, depth+1)
		}
		return seq
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping(len(keys))
		for _, k := range keys {
			m.Set(k, fromAny(t[k], depth+1))
		}
		return m
	case map[any]any:
		keys := make([]string, 0, len(t))
		byKey := make(map[string]any, len(t))
		for k, val := range t {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			byKey[ks] = val
		}
		sort.Strings(keys)
		m := NewMapping(len(keys))
		for _, k := range keys {
			m.Set(k, fromAny(byKey[k], depth+1))
		}
		return m
	default:
		return Opaque{Value: v}
	}
}

// ToAny converts a node tree back into generic values (string, []any,
// map[string]any and whatever Opaque wraps), e.g. for re-encoding.
func ToAny(n Node) any {
	switch t := n.(type) {
	case Text:
		return string(t)
	case Sequence:
		out := make([]any, len(t))
		for i, c := range t {
			out[i] = ToAny(c)
		}
		return out
	case *Mapping:
		out := make(map[string]any, t.Len())
		for _, k := range t.Keys() {
			v, _ := t.Get(k)
			out[k] = ToAny(v)
		}
		return out
	case Opaque:
		return t.Value
	}
	return nil
}
