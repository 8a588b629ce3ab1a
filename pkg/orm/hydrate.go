package orm

import (
	"fmt"
	"reflect"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
)

// attachKey, aynı ilişkili modelin aynı üst modele ikinci kez eklenmesini önler.
// Join çarpımı nedeniyle bir çocuk satırı birden fazla sonuç satırında görünür.
type attachKey struct {
	parent  *Model
	binding int
	key     any
}

// hydrate, düz sonuç satırlarını kök modellere ve ilişki slotlarına çevirir.
// Kök modeller ilk görüldükleri sırada döner.
func (c *Composer) hydrate(g database.Grammar, rs *database.ResultSet, bindings []binding) (*ModelArray, error) {
	roots := newModelArray(c.store, c.entity)
	seen := make(map[any]*Model)
	attached := make(map[attachKey]*Model)

	for _, row := range rs.Rows {
		models := make([]*Model, len(bindings))

		for i, b := range bindings {
			end := b.offset + len(b.columns)
			if end > len(row) {
				return nil, fmt.Errorf("orm: result row has %d columns, expected at least %d", len(row), end)
			}
			raw := row[b.offset:end]

			if i == 0 {
				key, err := g.ParseValue(b.columns[b.pkIndex].Type, raw[b.pkIndex])
				if err != nil {
					return nil, fmt.Errorf("orm: %s.%s: %w", b.entity.Name, b.entity.PrimaryKey, err)
				}
				m, ok := seen[mapKey(key)]
				if !ok {
					if m, err = c.decodeRow(g, b, raw); err != nil {
						return nil, err
					}
					seen[mapKey(key)] = m
					roots.items = append(roots.items, m)
				}
				models[0] = m
				continue
			}

			parent := models[b.parent]
			if parent == nil {
				continue
			}
			slot := parent.relations[b.rel.Name]

			if raw[b.pkIndex] == nil {
				if slot.state == Unloaded {
					parent.markEmpty(slot)
				}
				continue
			}
			key, err := g.ParseValue(b.columns[b.pkIndex].Type, raw[b.pkIndex])
			if err != nil {
				return nil, fmt.Errorf("orm: %s.%s: %w", b.entity.Name, b.entity.PrimaryKey, err)
			}

			ak := attachKey{parent: parent, binding: i, key: mapKey(key)}
			if m, ok := attached[ak]; ok {
				models[i] = m
				continue
			}
			m, err := c.decodeRow(g, b, raw)
			if err != nil {
				return nil, err
			}
			attached[ak] = m
			parent.attach(slot, m)
			models[i] = m
		}
	}
	return roots, nil
}

// decodeRow, kolon aralığını temiz ve kaydedilmiş bir modele çevirir.
func (c *Composer) decodeRow(g database.Grammar, b binding, raw []any) (*Model, error) {
	m := newModel(c.store, b.entity)
	for i, col := range b.columns {
		v, err := g.ParseValue(col.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("orm: %s.%s: %w", b.entity.Name, col.Name, err)
		}
		m.values[col.Name] = v
	}
	m.persisted = true
	return m, nil
}

// mapKey, bir kolon değerini map anahtarı olarak kullanılabilir hale getirir.
// Tamsayılar int64'e çevrilir; böylece kullanıcının verdiği int ile
// sürücüden okunan int64 aynı anahtara düşer.
func mapKey(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case int64, string, bool, float64:
		return x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32:
		return rv.Float()
	}
	if rv.Type().Comparable() {
		return v
	}
	return fmt.Sprintf("%T:%v", v, v)
}

// sameValue, iki kolon değerinin aynı anahtarı gösterip göstermediğini söyler.
func sameValue(a, b any) bool {
	return mapKey(a) == mapKey(b)
}

// slotFor, modelin ilişki slotunu döndürür.
func slotFor(m *Model, rel *schema.Relationship) *relationSlot {
	return m.relations[rel.Name]
}
