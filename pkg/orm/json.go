package orm

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON, modeli kolonlar (şema sırasıyla) ve yüklenmiş ilişkilerden
// oluşan bir JSON nesnesine çevirir. Unloaded ilişkiler yazılmaz.
//
//	{"id":1,"name":"Albert","children":[{"id":1,...}],"partner":null}
func (m *Model) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	for _, name := range m.entity.ColumnNames() {
		if err := write(name, m.values[name]); err != nil {
			return nil, err
		}
	}
	for _, slot := range m.orderedSlots() {
		if slot.state == Unloaded {
			continue
		}
		var value any
		if slot.rel.IsMany() {
			value = slot.many
		} else if slot.one != nil {
			value = slot.one
		}
		if err := write(slot.rel.Name, value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON, koleksiyonu bir JSON dizisine çevirir.
func (a *ModelArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.items)
}
