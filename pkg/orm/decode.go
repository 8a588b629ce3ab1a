package orm

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-openapi/inflect"
)

// -----------------------------------------------------------------------------
// Reflection-Based Decoder
// -----------------------------------------------------------------------------
// Decode, bir modelin kolon değerlerini ve yüklenmiş ilişkilerini tag'li bir
// struct'a kopyalar. Alan adı `db` tag'inden okunur; tag yoksa alan adının
// snake_case hali kullanılır ("ParentID" → "parent_id"). `db:"-"` alanı atlar.
//
//	type Child struct {
//	    ID       int64     `db:"id"`
//	    Name     string    `db:"name"`
//	    Parent   *Parent   `db:"parent"`
//	    Created  time.Time `db:"created_at"`
//	}
//
// Struct analizleri tip başına bir kez yapılır ve saklanır.
// -----------------------------------------------------------------------------

type fieldMap map[string][]int

type fieldCache struct {
	mu    sync.RWMutex
	types map[reflect.Type]fieldMap
}

var decodeCache = &fieldCache{types: make(map[reflect.Type]fieldMap)}

// fieldsOf, struct tipinin kolon adı → alan indeksi eşlemesini döndürür.
func (c *fieldCache) fieldsOf(t reflect.Type) fieldMap {
	c.mu.RLock()
	if m, ok := c.types[t]; ok {
		c.mu.RUnlock()
		return m
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check pattern
	if m, ok := c.types[t]; ok {
		return m
	}
	m := make(fieldMap)
	collectFields(t, nil, m)
	c.types[t] = m
	return m
}

func collectFields(t reflect.Type, prefix []int, into fieldMap) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		// Embedded struct'ları özyineli işle
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectFields(field.Type, index, into)
			continue
		}
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = inflect.Underscore(field.Name)
		}
		if _, exists := into[tag]; !exists {
			into[tag] = index
		}
	}
}

// Decode, modeli dest'e kopyalar. dest bir struct pointer olmalıdır.
// Struct'ta karşılığı olmayan kolonlar ve Unloaded ilişkiler atlanır.
func (m *Model) Decode(dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("orm: decode: dest bir struct pointer olmalıdır, %T alındı", dest)
	}
	return m.decodeInto(rv.Elem())
}

func (m *Model) decodeInto(target reflect.Value) error {
	fields := decodeCache.fieldsOf(target.Type())

	for _, col := range m.entity.Columns() {
		index, ok := fields[col.Name]
		if !ok {
			continue
		}
		if err := assign(target.FieldByIndex(index), m.values[col.Name]); err != nil {
			return fmt.Errorf("orm: decode %s.%s: %w", m.entity.Name, col.Name, err)
		}
	}

	for _, slot := range m.orderedSlots() {
		index, ok := fields[slot.rel.Name]
		if !ok || slot.state == Unloaded {
			continue
		}
		field := target.FieldByIndex(index)
		var err error
		if slot.rel.IsMany() {
			err = slot.many.decodeSlice(field)
		} else {
			err = decodeOne(field, slot.one)
		}
		if err != nil {
			return fmt.Errorf("orm: decode %s.%s: %w", m.entity.Name, slot.rel.Name, err)
		}
	}
	return nil
}

// Decode, koleksiyonu dest'e kopyalar. dest bir struct slice'ına pointer
// olmalıdır; eleman tipi struct veya struct pointer olabilir.
//
// Örnek:
//
//	var parents []Parent
//	err := arr.Decode(&parents)
func (a *ModelArray) Decode(dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("orm: decode: dest bir slice pointer olmalıdır, %T alındı", dest)
	}
	return a.decodeSlice(rv.Elem())
}

func (a *ModelArray) decodeSlice(field reflect.Value) error {
	if field.Kind() != reflect.Slice {
		return fmt.Errorf("slice alan bekleniyordu, %s alındı", field.Type())
	}
	elem := field.Type().Elem()
	isPtr := elem.Kind() == reflect.Ptr
	base := elem
	if isPtr {
		base = elem.Elem()
	}
	if base.Kind() != reflect.Struct {
		return fmt.Errorf("struct elemanlı slice bekleniyordu, %s alındı", field.Type())
	}

	out := reflect.MakeSlice(field.Type(), 0, a.Len())
	for _, m := range a.Items() {
		item := reflect.New(base)
		if err := m.decodeInto(item.Elem()); err != nil {
			return err
		}
		if isPtr {
			out = reflect.Append(out, item)
		} else {
			out = reflect.Append(out, item.Elem())
		}
	}
	field.Set(out)
	return nil
}

func decodeOne(field reflect.Value, m *Model) error {
	if m == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	switch {
	case field.Kind() == reflect.Struct:
		return m.decodeInto(field)
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		item := reflect.New(field.Type().Elem())
		if err := m.decodeInto(item.Elem()); err != nil {
			return err
		}
		field.Set(item)
		return nil
	}
	return fmt.Errorf("struct veya struct pointer alan bekleniyordu, %s alındı", field.Type())
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// assign, tek bir kolon değerini alana yazar.
//
// Sırasıyla denenir: sql.Scanner, pointer alanlar, doğrudan atama, sayısal
// ve metinsel dönüşüm, son olarak JSON üzerinden dönüşüm (json kolonlarının
// map / slice değerlerini struct alanlara açmak için).
func assign(field reflect.Value, value any) error {
	if !field.CanSet() {
		return fmt.Errorf("alan ayarlanamıyor")
	}
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if field.CanAddr() && field.Addr().Type().Implements(scannerType) {
		return field.Addr().Interface().(sql.Scanner).Scan(value)
	}

	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}

	if convertible(rv.Kind(), field.Kind()) && rv.Type().ConvertibleTo(field.Type()) {
		field.Set(rv.Convert(field.Type()))
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%T türü %s alanına yazılamıyor", value, field.Type())
	}
	if err := json.Unmarshal(raw, field.Addr().Interface()); err != nil {
		return fmt.Errorf("%T türü %s alanına yazılamıyor: %w", value, field.Type(), err)
	}
	return nil
}

// convertible, reflect dönüşümüne izin verilen tür aileleri.
// Sayıdan metne dönüşüm (65 → "A") yapılmaz.
func convertible(from, to reflect.Kind) bool {
	numeric := func(k reflect.Kind) bool {
		return k >= reflect.Int && k <= reflect.Float64
	}
	switch {
	case numeric(from) && numeric(to):
		return true
	case from == reflect.String && to == reflect.String:
		return true
	case from == reflect.Bool && to == reflect.Bool:
		return true
	}
	return false
}
