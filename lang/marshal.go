package lang

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// ToNative converts m to native Go types: strings stay strings, nulls
// become nil, and blocks become map[string]any.
func (m *Map) ToNative() map[string]any {
	result := make(map[string]any, m.Len())

	for k, v := range m.All() {
		result[k] = v.ToNative()
	}

	return result
}

// ToNative converts v to its native Go type.
func (v Value) ToNative() any {
	switch v.Kind {
	case KindString:
		return v.Text
	case KindBlock:
		return v.Block.ToNative()
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler for Map. Object members appear in
// source order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	i := 0

	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}

		i++

		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for Value.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Text)
	case KindBlock:
		return v.Block.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML implements yaml.InterfaceMarshaler for Map. Mapping keys
// appear in source order.
func (m *Map) MarshalYAML() (any, error) {
	return m.mapSlice(), nil
}

func (m *Map) mapSlice() yaml.MapSlice {
	items := make(yaml.MapSlice, 0, m.Len())

	for k, v := range m.All() {
		var value any

		switch v.Kind {
		case KindString:
			value = v.Text
		case KindBlock:
			value = v.Block.mapSlice()
		}

		items = append(items, yaml.MapItem{Key: k, Value: value})
	}

	return items
}
