package orm

import (
	"context"
	"fmt"
	"time"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
)

// -----------------------------------------------------------------------------
// Persistence
// -----------------------------------------------------------------------------
// Save akışı:
//  1. Modelin durumu (değerler, dirty bayrakları) saklanır.
//  2. created_at / updated_at ve sahip tarafındaki FK'ler doldurulur.
//  3. Kolon kuralları doğrulanır; hata varsa hiçbir statement çalışmaz.
//  4. Anahtar yoksa INSERT, varsa yalnızca kirli kolonlar için UPDATE.
//  5. Yüklenmiş ilişkilerde FK karşı taraftaysa ilişkili modellere yazılır.
//
// Hata durumunda modelin bellekteki durumu 1. adımdaki haline döner.
// -----------------------------------------------------------------------------

const (
	createdAtColumn = "created_at"
	updatedAtColumn = "updated_at"
)

// modelState, geri alma için bir modelin kaydedilmeden önceki durumudur.
type modelState struct {
	model     *Model
	values    map[string]any
	dirty     map[string]bool
	persisted bool
}

// journal, bir kayıt işleminin dokunduğu modelleri ilk dokunuş anındaki
// halleriyle tutar.
type journal struct {
	seen    map[*Model]bool
	entries []modelState
}

func newJournal() *journal {
	return &journal{seen: make(map[*Model]bool)}
}

func (j *journal) touch(m *Model) {
	if j == nil || j.seen[m] {
		return
	}
	j.seen[m] = true
	st := modelState{
		model:     m,
		values:    make(map[string]any, len(m.values)),
		dirty:     make(map[string]bool, len(m.dirty)),
		persisted: m.persisted,
	}
	for k, v := range m.values {
		st.values[k] = v
	}
	for k, v := range m.dirty {
		st.dirty[k] = v
	}
	j.entries = append(j.entries, st)
}

func (j *journal) restore() {
	for i := len(j.entries) - 1; i >= 0; i-- {
		st := j.entries[i]
		st.model.values = st.values
		st.model.dirty = st.dirty
		st.model.persisted = st.persisted
	}
}

// Save, modeli doğrular ve yazar.
//
// Döndürür:
//   - *ValidationError (ErrValidationFailed): kolon kuralları sağlanmadı, statement çalışmadı
//   - database.ConstraintViolationError: veritabanı yazmayı reddetti
//   - database.BackendError: diğer sürücü hataları
//
// Örnek:
//
//	parent, _ := store.New("Parent", orm.Fields{"name": "Ada"})
//	if err := parent.Save(ctx); err != nil {
//	    var verr *orm.ValidationError
//	    if errors.As(err, &verr) {
//	        log.Printf("⚠️ %v", verr.Errors)
//	    }
//	}
func (m *Model) Save(ctx context.Context) error {
	j := newJournal()
	j.touch(m)

	m.prepare(m.store.now())
	if err := m.validate(-1); err != nil {
		j.restore()
		return err
	}
	if err := m.write(ctx, m.store.db); err != nil {
		j.restore()
		return err
	}
	m.wireAfter(nil)
	m.markClean()
	return nil
}

// SaveAll, koleksiyondaki tüm modelleri tek bir transaction içinde sırayla
// kaydeder. Önce tüm modeller doğrulanır; herhangi bir yazma başarısız
// olursa transaction geri alınır, bütün modellerin (ve FK'si yazılan
// ilişkili modellerin) bellekteki durumu eski haline döner ve hata
// başarısız modelin sırasını taşır.
func (a *ModelArray) SaveAll(ctx context.Context) error {
	if a.Len() == 0 {
		return nil
	}

	j := newJournal()
	for _, m := range a.items {
		j.touch(m)
	}

	now := a.store.now()
	for i, m := range a.items {
		m.prepare(now)
		if err := m.validate(i); err != nil {
			j.restore()
			return err
		}
	}

	err := a.store.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		for i, m := range a.items {
			if err := m.write(ctx, tx); err != nil {
				return &SaveError{Entity: a.entity.Name, Index: i, Err: err}
			}
			m.wireAfter(j)
		}
		return nil
	})
	if err != nil {
		j.restore()
		a.store.logger.Printf("❌ %s toplu kaydı geri alındı: %v", a.entity.Name, err)
		return err
	}

	for _, m := range a.items {
		m.markClean()
	}
	a.store.logger.Printf("✅ %d %s kaydedildi", len(a.items), a.entity.Name)
	return nil
}

// needsInsert: anahtar yoksa veya model henüz veritabanından okunmamış /
// kaydedilmemişse INSERT. Anahtarı elle verilen yeni bir model de eklenir.
func (m *Model) needsInsert() bool {
	return !m.HasKey() || !m.persisted
}

// prepare, yazmadan önce türetilen kolonları doldurur.
func (m *Model) prepare(now time.Time) {
	m.wireBefore()

	insert := m.needsInsert()
	if insert && m.entity.HasColumn(createdAtColumn) && m.values[createdAtColumn] == nil {
		m.values[createdAtColumn] = now
		m.dirty[createdAtColumn] = true
	}
	if m.entity.HasColumn(updatedAtColumn) && (insert || m.IsDirty()) {
		m.values[updatedAtColumn] = now
		m.dirty[updatedAtColumn] = true
	}
}

// wireBefore, FK'si bu modelde olan yüklenmiş tekil ilişkilerin anahtarını
// FK kolonuna kopyalar.
func (m *Model) wireBefore() {
	for _, slot := range m.orderedSlots() {
		rel := slot.rel
		if rel.Kind != schema.OneToOne || !rel.ForeignKeyIsLocal() {
			continue
		}
		if slot.state != LoadedPresent || slot.one == nil {
			continue
		}
		p := rel.Pairs[0]
		v := slot.one.values[p.Remote]
		if v == nil || sameValue(m.values[p.Local], v) {
			continue
		}
		m.values[p.Local] = v
		m.dirty[p.Local] = true
	}
}

// wireAfter, FK'si karşı tarafta olan yüklenmiş ilişkilere bu modelin
// anahtarını yazar. Junction ilişkilerinde kolonlardan biri zaten bu
// modeli gösteriyorsa dokunulmaz, aksi halde ilk kolon kullanılır.
func (m *Model) wireAfter(j *journal) {
	for _, slot := range m.orderedSlots() {
		rel := slot.rel
		if rel.ForeignKeyIsLocal() || slot.state != LoadedPresent {
			continue
		}

		var related []*Model
		if slot.one != nil {
			related = append(related, slot.one)
		}
		if slot.many != nil {
			related = append(related, slot.many.items...)
		}

		for _, r := range related {
			pair := rel.Pairs[0]
			if rel.Kind == schema.ManyViaJunctionColumns {
				linked := false
				for _, p := range rel.Pairs {
					if sameValue(r.values[p.Remote], m.values[p.Local]) {
						linked = true
						break
					}
				}
				if linked {
					continue
				}
			}
			v := m.values[pair.Local]
			if sameValue(r.values[pair.Remote], v) {
				continue
			}
			j.touch(r)
			r.values[pair.Remote] = v
			r.dirty[pair.Remote] = true
		}
	}
}

// orderedSlots, slotları ilişki tanım sırasıyla döndürür.
func (m *Model) orderedSlots() []*relationSlot {
	rels := m.entity.Relationships()
	out := make([]*relationSlot, 0, len(rels))
	for _, rel := range rels {
		out = append(out, m.relations[rel.Name])
	}
	return out
}

// validate, kolon kurallarını çalıştırır. index toplu kayıtta modelin sırası.
func (m *Model) validate(index int) error {
	result := m.store.validatorFor(m.entity).Validate(m.Fields())
	if !result.HasErrors() {
		return nil
	}
	return &ValidationError{Entity: m.entity.Name, Index: index, Errors: result.Errors()}
}

// write, INSERT veya UPDATE çalıştırır. Kirli kolonu olmayan kayıtlı model
// için hiçbir statement çalışmaz.
func (m *Model) write(ctx context.Context, s database.Session) error {
	g := s.Grammar()
	e := m.entity
	pk := e.PrimaryColumn()

	if m.needsInsert() {
		var cols []string
		var vals []any
		for _, col := range e.Columns() {
			v := m.values[col.Name]
			if v == nil {
				continue
			}
			fv, err := g.FormatValue(col.Type, v)
			if err != nil {
				return fmt.Errorf("%w: %s.%s: %v", ErrInvalidValue, e.Name, col.Name, err)
			}
			cols = append(cols, col.Name)
			vals = append(vals, fv)
		}

		if pk.Type != database.TypeSerial {
			query, args, err := g.CompileInsert(e.Table, "", cols, vals)
			if err != nil {
				return err
			}
			if _, err := s.Exec(ctx, query, args); err != nil {
				return err
			}
			m.persisted = true
			return nil
		}

		key, err := s.Insert(ctx, e.Table, e.PrimaryKey, cols, vals)
		if err != nil {
			return err
		}
		parsed, err := g.ParseValue(pk.Type, key)
		if err != nil {
			return fmt.Errorf("orm: %s inserted key: %w", e.Name, err)
		}
		m.values[e.PrimaryKey] = parsed
		m.persisted = true
		return nil
	}

	var cols []string
	var vals []any
	for _, col := range e.Columns() {
		if col.Name == e.PrimaryKey || !m.dirty[col.Name] {
			continue
		}
		fv, err := g.FormatValue(col.Type, m.values[col.Name])
		if err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidValue, e.Name, col.Name, err)
		}
		cols = append(cols, col.Name)
		vals = append(vals, fv)
	}
	if len(cols) == 0 {
		return nil
	}

	key, err := g.FormatValue(pk.Type, m.Key())
	if err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrInvalidValue, e.Name, e.PrimaryKey, err)
	}
	query, args, err := g.CompileUpdate(e.Table, e.PrimaryKey, key, cols, vals)
	if err != nil {
		return err
	}
	if _, err := s.Exec(ctx, query, args); err != nil {
		return err
	}
	m.persisted = true
	return nil
}

// Destroy, modelin satırını birincil anahtarla siler. Kolon değerleri
// bellekte kalır; model tekrar kaydedilirse yeniden eklenir.
func (m *Model) Destroy(ctx context.Context) error {
	if !m.HasKey() {
		return fmt.Errorf("%w: %s", ErrMissingKey, m.entity.Name)
	}
	if err := destroy(ctx, m.store.db, m.entity, []*Model{m}); err != nil {
		return err
	}
	m.persisted = false
	m.dirty = make(map[string]bool)
	return nil
}

// DestroyAll, koleksiyondaki tüm modelleri tek bir DELETE ile siler.
func (a *ModelArray) DestroyAll(ctx context.Context) error {
	if a.Len() == 0 {
		return nil
	}
	for i, m := range a.items {
		if !m.HasKey() {
			return fmt.Errorf("%w: %s at index %d", ErrMissingKey, a.entity.Name, i)
		}
	}
	if err := destroy(ctx, a.store.db, a.entity, a.items); err != nil {
		return err
	}
	for _, m := range a.items {
		m.persisted = false
		m.dirty = make(map[string]bool)
	}
	a.store.logger.Printf("🗑️ %d %s silindi", len(a.items), a.entity.Name)
	return nil
}

func destroy(ctx context.Context, s database.Session, e *schema.Entity, models []*Model) error {
	g := s.Grammar()
	pk := e.PrimaryColumn()
	keys := make([]any, len(models))
	for i, m := range models {
		k, err := g.FormatValue(pk.Type, m.Key())
		if err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidValue, e.Name, e.PrimaryKey, err)
		}
		keys[i] = k
	}
	query, args, err := g.CompileDelete(e.Table, e.PrimaryKey, keys)
	if err != nil {
		return err
	}
	_, err = s.Exec(ctx, query, args)
	return err
}
