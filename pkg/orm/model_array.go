package orm

import (
	"context"
	"fmt"

	"github.com/biyonik/conduit-go/pkg/schema"
)

// ModelArray, aynı entity tipindeki modellerin sıralı koleksiyonudur.
// End ve çoğul ilişkiler bu tipi döndürür.
type ModelArray struct {
	store  *Store
	entity *schema.Entity
	items  []*Model
}

func newModelArray(s *Store, e *schema.Entity) *ModelArray {
	return &ModelArray{store: s, entity: e, items: make([]*Model, 0)}
}

// Entity, koleksiyonun entity tipini döndürür.
func (a *ModelArray) Entity() *schema.Entity {
	return a.entity
}

// Len, koleksiyondaki model sayısı.
func (a *ModelArray) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// At, i. modeli döndürür. Aralık dışında nil döner.
func (a *ModelArray) At(i int) *Model {
	if a == nil || i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Items, modellerin bir kopyasını döndürür.
func (a *ModelArray) Items() []*Model {
	if a == nil {
		return nil
	}
	out := make([]*Model, len(a.items))
	copy(out, a.items)
	return out
}

// Push, modelleri koleksiyonun sonuna ekler.
// Farklı entity tipinden bir model verilirse hiçbiri eklenmez.
func (a *ModelArray) Push(models ...*Model) error {
	for i, m := range models {
		if m == nil {
			return fmt.Errorf("%w: nil model at index %d", ErrInvalidValue, i)
		}
		if m.entity != a.entity {
			return &valueError{entity: a.entity.Name, field: fmt.Sprintf("[%d]", i), want: a.entity.Name, got: m.entity.Name}
		}
	}
	a.items = append(a.items, models...)
	return nil
}

// Keys, modellerin birincil anahtarlarını sırayla döndürür.
// Anahtarı olmayan modeller atlanır.
func (a *ModelArray) Keys() []any {
	keys := make([]any, 0, len(a.items))
	for _, m := range a.items {
		if m.HasKey() {
			keys = append(keys, m.Key())
		}
	}
	return keys
}

// Include, koleksiyondaki modellerin Unloaded ilişkilerini ilişki başına
// tek bir sorgu ile yükler. Ad verilmezse tanımlı tüm ilişkiler yüklenir.
//
// Örnek:
//
//	parents, _ := store.Query("Parent").End(ctx)
//	err := parents.Include(ctx, "children", "partner")
func (a *ModelArray) Include(ctx context.Context, names ...string) error {
	return a.store.include(ctx, a.entity, a.items, names)
}
