// File: internal/scenario/node.go
package scenario

import "fmt"

// Node is a sealed interface over the shapes a scenario document can take.
// Only Text, Mapping, Sequence and Opaque implement it.
type Node interface {
	node() // Sealed
}

// Text is a free-text leaf.
type Text string

func (Text) node() {}

// Mapping is a key-value node. Keys keep their document order so that
// traversal is deterministic regardless of how the document was decoded.
type Mapping struct {
	keys   []string
	values map[string]Node
}

func (*Mapping) node() {}

// Sequence is an ordered list of nodes.
type Sequence []Node

func (Sequence) node() {}

// Opaque wraps any leaf that is not text (numbers, booleans, null) or a
// subtree that could not be represented. The normalizer never extracts
// steps from it.
type Opaque struct {
	Value any
}

func (Opaque) node() {}

// String renders the wrapped value for log fields.
func (o Opaque) String() string { return fmt.Sprintf("%v", o.Value) }

// NewMapping creates an empty mapping with room for n keys.
func NewMapping(n int) *Mapping {
	return &Mapping{
		keys:   make([]string, 0, n),
		values: make(map[string]Node, n),
	}
}

// Pair is a key-value pair for ordered Mapping construction.
type Pair struct {
	Key   string
	Value Node
}

// MappingOf builds a mapping from pairs, in order. A repeated key keeps its
// first position and takes the last value.
func MappingOf(pairs ...Pair) *Mapping {
	m := NewMapping(len(pairs))
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Set stores value under key, appending key if it is new.
func (m *Mapping) Set(key string, value Node) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value under key.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in document order. The slice must not be modified.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}
