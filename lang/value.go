package lang

//go:generate go tool stringer --linecomment --type Kind,LineKind --output kind_string.go

import (
	"iter"
	"log/slog"
	"slices"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindNull   Kind = iota // null
	KindString             // string
	KindBlock              // block
)

// Value is the result produced for every key: a string, a null (bare key)
// or a nested block.
//
// The zero Value is a null.
type Value struct {
	Kind  Kind
	Text  string
	Block *Map
}

// String returns a string Value.
func String(s string) Value { return Value{Kind: KindString, Text: s} }

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// BlockOf returns a block Value holding m.
func BlockOf(m *Map) Value {
	if m == nil {
		m = NewMap()
	}

	return Value{Kind: KindBlock, Block: m}
}

// IsNull reports whether v is a null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Equal reports whether v and w hold the same data.
func (v Value) Equal(w Value) bool {
	if v.Kind != w.Kind {
		return false
	}

	switch v.Kind {
	case KindString:
		return v.Text == w.Text
	case KindBlock:
		return v.Block.Equal(w.Block)
	default:
		return true
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	switch v.Kind {
	case KindString:
		return slog.StringValue(v.Text)
	case KindBlock:
		return slog.GroupValue(
			slog.Int("keys", v.Block.Len()),
			slog.Int("depth", v.Block.Depth()),
		)
	default:
		return slog.StringValue("null")
	}
}

// Map is one parsed block or the top-level document.
//
// Keys are unique within a Map. Iteration follows insertion order, which is
// the order keys appear in the source. Equality ignores order.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: map[string]Value{}}
}

// Len returns the number of keys in m.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}

	v, ok := m.values[key]

	return v, ok
}

// Has reports whether key is defined in m.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)

	return ok
}

// Keys returns the keys of m in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// All returns an iterator over the entries of m in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}

		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Depth returns the maximum block nesting depth below m. A map holding no
// blocks has depth 0.
func (m *Map) Depth() int {
	depth := 0

	for _, v := range m.All() {
		if v.Kind == KindBlock {
			depth = max(depth, 1+v.Block.Depth())
		}
	}

	return depth
}

// Equal reports whether m and o define the same keys with equal values.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}

	for k, v := range m.All() {
		w, ok := o.Get(k)
		if !ok || !v.Equal(w) {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	c := &Map{
		keys:   make([]string, 0, m.Len()),
		values: make(map[string]Value, m.Len()),
	}

	for k, v := range m.All() {
		if v.Kind == KindBlock {
			v = BlockOf(v.Block.Clone())
		}

		c.insert(k, v)
	}

	return c
}

// Merge inserts every entry of other into m, in order. It fails with
// [ErrDuplicateKey] on the first key already defined in m; entries merged
// before the failure remain.
func (m *Map) Merge(other *Map) error {
	for k, v := range other.All() {
		if !m.insert(k, v) {
			return ErrDuplicateKey.With(slog.String("key", k))
		}
	}

	return nil
}

// Add appends key with value v to m. It fails with [ErrDuplicateKey] if key
// is already defined.
func (m *Map) Add(key string, v Value) error {
	if !m.insert(key, v) {
		return ErrDuplicateKey.With(slog.String("key", key))
	}

	return nil
}

// insert stores v under key unless key is already defined.
func (m *Map) insert(key string, v Value) bool {
	if _, ok := m.values[key]; ok {
		return false
	}

	if m.values == nil {
		m.values = map[string]Value{}
	}

	m.keys = append(m.keys, key)
	m.values[key] = v

	return true
}
