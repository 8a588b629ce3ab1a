// Package orm, schema kayıt defterindeki entity'ler için model, koleksiyon
// ve sorgu oluşturucu (Composer) sağlar.
//
// Temel akış:
//
//	store := orm.NewStore(db, registry)
//
//	parents, err := store.Query("Parent").
//	    Join("children").
//	    Filter(orm.Where{"children__id__lte": 25}).
//	    Limit(5).
//	    End(ctx)
//
//	err = parents.Include(ctx, "partner")
//
// Join edilen ilişkiler tek bir SELECT ile okunur; Limit yalnızca kök
// satırları sınırlar. Join edilmeyen ilişkiler Include ile sonradan,
// ilişki başına bir sorgu ile yüklenir.
package orm

import (
	"sort"
	"sync"
	"time"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
	"github.com/biyonik/conduit-go/pkg/validation"
	"github.com/biyonik/conduit-go/pkg/validation/types"
)

// Fields, kolon adı -> değer eşlemesidir.
type Fields map[string]any

// Where, Filter argümanıdır: "yol[__operatör]" -> değer.
// Bir argümandaki anahtarlar AND ile bağlanır.
type Where map[string]any

// Store, registry ile veritabanı bağlantısını birleştirir.
// Sorgu planları paylaşılmaz; Store yalnızca okunur durumda tutulur.
type Store struct {
	db       *database.DB
	registry *schema.Registry
	logger   database.Logger
	now      func() time.Time

	mu         sync.Mutex
	validators map[string]*validation.Schema
	checks     map[string][]func(Fields) error
}

// Option, Store ayarlarını değiştirir.
type Option func(*Store)

// WithLogger, Store'un log çıktılarını yönlendirir.
func WithLogger(logger database.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock, created_at / updated_at için kullanılan saati değiştirir.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithValidator, entity tipine kolon kurallarına ek bir doğrulama ekler.
// Fonksiyon validation.NewFieldError dönerse hata ilgili alana yazılır.
//
// Örnek:
//
//	orm.WithValidator("Child", func(f orm.Fields) error {
//	    if name, _ := f["name"].(string); name == "admin" {
//	        return validation.NewFieldError("name", "ayrılmış bir isim")
//	    }
//	    return nil
//	})
func WithValidator(entityType string, fn func(Fields) error) Option {
	return func(s *Store) {
		s.checks[entityType] = append(s.checks[entityType], fn)
	}
}

// NewStore, yeni bir Store oluşturur.
func NewStore(db *database.DB, registry *schema.Registry, opts ...Option) *Store {
	s := &Store{
		db:         db,
		registry:   registry,
		logger:     database.NopLogger,
		now:        time.Now,
		validators: make(map[string]*validation.Schema),
		checks:     make(map[string][]func(Fields) error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB, alttaki bağlantıyı döndürür.
func (s *Store) DB() *database.DB {
	return s.db
}

// Registry, şema kayıt defterini döndürür.
func (s *Store) Registry() *schema.Registry {
	return s.registry
}

// Query, entity tipi için yeni bir Composer döndürür.
// Tip kayıtlı değilse hata End çağrısında döner.
func (s *Store) Query(entityType string) *Composer {
	e, err := s.registry.Entity(entityType)
	return &Composer{store: s, entity: e, err: err}
}

// New, entity tipinin kaydedilmemiş yeni bir modelini oluşturur.
// Alanlar ada göre sıralı Set edilir; ilk hatada durulur.
func (s *Store) New(entityType string, fields Fields) (*Model, error) {
	e, err := s.registry.Entity(entityType)
	if err != nil {
		return nil, err
	}
	m := newModel(s, e)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.Set(name, fields[name]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewArray, entity tipinin modellerinden bir koleksiyon oluşturur.
func (s *Store) NewArray(entityType string, models ...*Model) (*ModelArray, error) {
	e, err := s.registry.Entity(entityType)
	if err != nil {
		return nil, err
	}
	a := newModelArray(s, e)
	if err := a.Push(models...); err != nil {
		return nil, err
	}
	return a, nil
}

// validatorFor, entity için kolon tanımlarından üretilen şemayı döndürür.
// Şema ilk kullanımda oluşturulur ve saklanır.
func (s *Store) validatorFor(e *schema.Entity) *validation.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.validators[e.Name]; ok {
		return v
	}
	v := types.ForColumns(e.Columns())
	for _, fn := range s.checks[e.Name] {
		check := fn
		v.CrossValidate(func(data map[string]any) error {
			return check(Fields(data))
		})
	}
	s.validators[e.Name] = v
	return v
}
