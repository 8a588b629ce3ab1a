package orm

import (
	"context"

	"github.com/biyonik/conduit-go/pkg/schema"
)

// RelationState, bir ilişki slotunun yüklenme durumudur.
type RelationState int

const (
	// Unloaded, ilişki henüz join veya Include ile okunmadı.
	Unloaded RelationState = iota
	// LoadedEmpty, ilişki okundu ve ilişkili satır bulunamadı.
	LoadedEmpty
	// LoadedPresent, ilişki okundu ve en az bir ilişkili model var.
	LoadedPresent
)

func (s RelationState) String() string {
	switch s {
	case LoadedEmpty:
		return "loaded_empty"
	case LoadedPresent:
		return "loaded_present"
	}
	return "unloaded"
}

// Relation, bir ilişki slotunun anlık görüntüsüdür.
type Relation struct {
	Name  string
	State RelationState
	one   *Model
	many  *ModelArray
}

// Loaded, ilişkinin okunup okunmadığını söyler.
func (r Relation) Loaded() bool {
	return r.State != Unloaded
}

// Model, tekil ilişkide bağlı modeli döndürür; yoksa nil.
func (r Relation) Model() *Model {
	return r.one
}

// Models, çoğul ilişkide bağlı koleksiyonu döndürür.
// LoadedEmpty için boş koleksiyon, Unloaded için nil döner.
func (r Relation) Models() *ModelArray {
	return r.many
}

type relationSlot struct {
	rel   *schema.Relationship
	state RelationState
	one   *Model
	many  *ModelArray
}

// Model, kayıtlı bir entity tipinin tek bir örneğidir.
//
// Kolon değerleri Set ile değiştirilir ve kirli (dirty) olarak işaretlenir;
// Save yalnızca kirli kolonları günceller. İlişki slotları her ilişki için
// önceden oluşturulur ve Unloaded durumunda başlar.
//
// Bir Model aynı anda birden fazla goroutine tarafından değiştirilmemelidir.
type Model struct {
	store     *Store
	entity    *schema.Entity
	values    map[string]any
	dirty     map[string]bool
	relations map[string]*relationSlot
	persisted bool
}

func newModel(s *Store, e *schema.Entity) *Model {
	m := &Model{
		store:     s,
		entity:    e,
		values:    make(map[string]any),
		dirty:     make(map[string]bool),
		relations: make(map[string]*relationSlot),
	}
	for _, rel := range e.Relationships() {
		m.relations[rel.Name] = &relationSlot{rel: rel}
	}
	return m
}

// Entity, modelin şema tanımını döndürür.
func (m *Model) Entity() *schema.Entity {
	return m.entity
}

// Get, kolon değerini veya ilişkiyi döndürür.
//
// Döndürür:
//   - kolon için kolonun değeri (atanmamışsa nil)
//   - tekil ilişki için *Model (Unloaded / LoadedEmpty ise nil)
//   - çoğul ilişki için *ModelArray (Unloaded ise nil, LoadedEmpty ise boş koleksiyon)
//   - tanımsız ad için nil
func (m *Model) Get(field string) any {
	if m.entity.HasColumn(field) {
		return m.values[field]
	}
	slot, ok := m.relations[field]
	if !ok || slot.state == Unloaded {
		return nil
	}
	if slot.rel.IsMany() {
		return slot.many
	}
	if slot.one == nil {
		return nil
	}
	return slot.one
}

// Set, kolon değerini atar veya ilişki slotunu doldurur.
//
// Kolonlar kirli olarak işaretlenir. İlişki adı için tekil ilişkilerde
// *Model, çoğul ilişkilerde *ModelArray kabul edilir; nil değer slotu
// LoadedEmpty yapar.
//
// Örnek:
//
//	err := parent.Set("name", "Ada")
//	err = parent.Set("partner", partner)
//	err = parent.Set("children", children)
func (m *Model) Set(field string, value any) error {
	if m.entity.HasColumn(field) {
		m.values[field] = value
		m.dirty[field] = true
		return nil
	}

	slot, ok := m.relations[field]
	if !ok {
		return &PathError{Entity: m.entity.Name, Path: field, Reason: "no such column or relationship"}
	}
	return m.setRelation(slot, value)
}

func (m *Model) setRelation(slot *relationSlot, value any) error {
	rel := slot.rel
	if value == nil {
		m.markEmpty(slot)
		return nil
	}

	if rel.IsMany() {
		arr, ok := value.(*ModelArray)
		if !ok || arr == nil {
			return &valueError{entity: m.entity.Name, field: rel.Name, want: "*orm.ModelArray of " + rel.Target.Name, got: value}
		}
		if arr.entity != rel.Target {
			return &valueError{entity: m.entity.Name, field: rel.Name, want: "*orm.ModelArray of " + rel.Target.Name, got: arr.entity.Name}
		}
		slot.one = nil
		slot.many = arr
		slot.state = LoadedPresent
		if arr.Len() == 0 {
			slot.state = LoadedEmpty
		}
		return nil
	}

	one, ok := value.(*Model)
	if !ok {
		return &valueError{entity: m.entity.Name, field: rel.Name, want: "*orm.Model of " + rel.Target.Name, got: value}
	}
	if one == nil {
		m.markEmpty(slot)
		return nil
	}
	if one.entity != rel.Target {
		return &valueError{entity: m.entity.Name, field: rel.Name, want: "*orm.Model of " + rel.Target.Name, got: one.entity.Name}
	}
	slot.one = one
	slot.many = nil
	slot.state = LoadedPresent
	return nil
}

// markEmpty, slotu ilişkili satır olmadan okunmuş olarak işaretler.
func (m *Model) markEmpty(slot *relationSlot) {
	slot.state = LoadedEmpty
	slot.one = nil
	slot.many = nil
	if slot.rel.IsMany() {
		slot.many = newModelArray(m.store, slot.rel.Target)
	}
}

// attach, join veya Include sonucunda okunan modeli slota ekler.
func (m *Model) attach(slot *relationSlot, related *Model) {
	if slot.rel.IsMany() {
		if slot.state != LoadedPresent || slot.many == nil {
			slot.many = newModelArray(m.store, slot.rel.Target)
		}
		slot.many.items = append(slot.many.items, related)
		slot.state = LoadedPresent
		return
	}
	if slot.state != LoadedPresent {
		slot.one = related
		slot.state = LoadedPresent
	}
}

// Fields, atanmış kolon değerlerinin bir kopyasını döndürür.
func (m *Model) Fields() Fields {
	out := make(Fields, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// IsDirty, verilen kolonlardan biri (kolon verilmezse herhangi biri)
// son kayıttan beri değiştiyse true döner.
func (m *Model) IsDirty(fields ...string) bool {
	if len(fields) == 0 {
		return len(m.dirty) > 0
	}
	for _, f := range fields {
		if m.dirty[f] {
			return true
		}
	}
	return false
}

// HasKey, birincil anahtarın atanmış olup olmadığını söyler.
func (m *Model) HasKey() bool {
	return m.values[m.entity.PrimaryKey] != nil
}

// Key, birincil anahtar değerini döndürür.
func (m *Model) Key() any {
	return m.values[m.entity.PrimaryKey]
}

// Persisted, modelin veritabanından okunduğunu veya kaydedildiğini söyler.
func (m *Model) Persisted() bool {
	return m.persisted
}

// Relation, ilişki slotunun anlık görüntüsünü döndürür.
// Tanımsız ad için State Unloaded olan boş bir Relation döner.
func (m *Model) Relation(name string) Relation {
	slot, ok := m.relations[name]
	if !ok {
		return Relation{Name: name}
	}
	return Relation{Name: name, State: slot.state, one: slot.one, many: slot.many}
}

// One, tekil ilişkide bağlı modeli döndürür.
func (m *Model) One(name string) *Model {
	return m.Relation(name).one
}

// Many, çoğul ilişkide bağlı koleksiyonu döndürür.
func (m *Model) Many(name string) *ModelArray {
	return m.Relation(name).many
}

// Include, modelin Unloaded durumdaki ilişkilerini yükler.
// Ad verilmezse tanımlı tüm ilişkiler yüklenir.
func (m *Model) Include(ctx context.Context, names ...string) error {
	return m.store.include(ctx, m.entity, []*Model{m}, names)
}

func (m *Model) markClean() {
	m.dirty = make(map[string]bool)
}
