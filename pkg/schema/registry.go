package schema

import (
	"fmt"
	"sync"

	"github.com/go-openapi/inflect"

	"github.com/biyonik/conduit-go/pkg/database"
)

// Registry, entity tiplerinin ve ilişkilerinin kayıt defteridir.
//
// Örnek:
//
//	reg := schema.NewRegistry()
//	reg.DefineSchema("Parent", "parents", []schema.Column{
//	    {Name: "id", Type: database.TypeSerial},
//	    {Name: "name", Type: database.TypeString},
//	})
//	reg.JoinsTo("Child", "Parent", schema.JoinOptions{Multiple: true})
type Registry struct {
	mu       sync.RWMutex
	entities map[string]*Entity
	order    []*Entity
}

// NewRegistry, boş bir kayıt defteri oluşturur.
func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*Entity)}
}

// DefineSchema, bir entity tipini tablo ve kolonlarıyla kaydeder.
//
// Kurallar:
//   - Her tip bir kez kaydedilebilir (ErrDuplicateEntity)
//   - Tam olarak bir birincil anahtar bulunmalıdır: Primary işaretli kolon
//     veya serial kolon (ErrInvalidSchema)
//   - Kolon adları tekil ve tipleri geçerli olmalıdır
func (r *Registry) DefineSchema(entityType, table string, columns []Column) (*Entity, error) {
	if entityType == "" || table == "" {
		return nil, fmt.Errorf("%w: entity type and table are required", ErrInvalidSchema)
	}

	e := &Entity{
		Name:        entityType,
		Table:       table,
		columns:     make([]Column, 0, len(columns)),
		columnIndex: make(map[string]int, len(columns)),
		relIndex:    make(map[string]*Relationship),
	}

	var primaries []string
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: %s has a column without a name", ErrInvalidSchema, entityType)
		}
		if !c.Type.Valid() {
			return nil, fmt.Errorf("%w: %s.%s has unknown type %q", ErrInvalidSchema, entityType, c.Name, c.Type)
		}
		if _, dup := e.columnIndex[c.Name]; dup {
			return nil, fmt.Errorf("%w: %s.%s is defined twice", ErrInvalidSchema, entityType, c.Name)
		}
		if c.Primary {
			primaries = append(primaries, c.Name)
		}
		e.columnIndex[c.Name] = len(e.columns)
		e.columns = append(e.columns, c)
	}
	if len(primaries) == 0 {
		for _, c := range e.columns {
			if c.Type == database.TypeSerial {
				primaries = append(primaries, c.Name)
			}
		}
	}
	if len(primaries) != 1 {
		return nil, fmt.Errorf("%w: %s must have exactly one primary key, found %d", ErrInvalidSchema, entityType, len(primaries))
	}
	e.PrimaryKey = primaries[0]

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entities[entityType]; exists {
		return nil, &DuplicateEntityError{Entity: entityType}
	}
	r.entities[entityType] = e
	r.order = append(r.order, e)
	return e, nil
}

// DefineRelationship, entityType üzerinde name adlı bir ilişki kaydeder.
//
// name, tipin bir kolonuyla veya mevcut bir ilişkisiyle çakışırsa
// DuplicateRelationshipError döner.
func (r *Registry) DefineRelationship(entityType, name, targetType string, cardinality Cardinality, spec JoinSpec) (*Relationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defineLocked(entityType, name, targetType, cardinality, spec)
}

func (r *Registry) defineLocked(entityType, name, targetType string, cardinality Cardinality, spec JoinSpec) (*Relationship, error) {
	owner, ok := r.entities[entityType]
	if !ok {
		return nil, &UnknownEntityError{Entity: entityType}
	}
	target, ok := r.entities[targetType]
	if !ok {
		return nil, &UnknownEntityError{Entity: targetType}
	}
	if name == "" {
		return nil, fmt.Errorf("%w: relationship name is required", ErrInvalidRelationship)
	}
	if owner.HasColumn(name) {
		return nil, &DuplicateRelationshipError{Entity: entityType, Name: name, Column: true}
	}
	if _, exists := owner.relIndex[name]; exists {
		return nil, &DuplicateRelationshipError{Entity: entityType, Name: name}
	}
	if err := spec.validate(owner, target); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", entityType, name, err)
	}

	pairs := make([]ColumnPair, len(spec.Pairs))
	copy(pairs, spec.Pairs)
	rel := &Relationship{
		Name:        name,
		Owner:       owner,
		Target:      target,
		Kind:        spec.Kind,
		Cardinality: cardinality,
		Pairs:       pairs,
		Guard:       spec.Guard,
	}
	owner.relationships = append(owner.relationships, rel)
	owner.relIndex[name] = rel
	return rel, nil
}

// JoinOptions, JoinsTo için isimlendirme ve kardinalite ayarlarıdır.
//
// Alanlar:
//   - Name: child üzerindeki ilişkinin adı (varsayılan: "parent" / Via ile "parents")
//   - As: parent üzerindeki ters ilişkinin adı (varsayılan: "children" veya "partner")
//   - Multiple: parent birden fazla child'a sahip olabilir mi
//   - Via: child üzerinde parent'a işaret eden iki veya daha fazla FK kolonu
//   - ForeignKey: Via yoksa child'daki FK kolonu (varsayılan: "<parent>_id")
type JoinOptions struct {
	Name       string
	As         string
	Multiple   bool
	Via        []string
	ForeignKey string
}

// JoinsTo, child ile parent arasındaki ilişkiyi iki yönde birden kaydeder.
//
// Örnekler:
//
//	reg.JoinsTo("Child", "Parent", JoinOptions{Multiple: true})
//	// child.parent (one) ve parent.children (many)
//
//	reg.JoinsTo("Partner", "Parent", JoinOptions{})
//	// partner.parent (one) ve parent.partner (one)
//
//	reg.JoinsTo("Friendship", "Parent", JoinOptions{Via: []string{"from_parent_id", "to_parent_id"}, Multiple: true})
//	// friendship.parents (many) ve parent.friendships (many)
func (r *Registry) JoinsTo(childType, parentType string, opts JoinOptions) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	child, ok := r.entities[childType]
	if !ok {
		return &UnknownEntityError{Entity: childType}
	}
	parent, ok := r.entities[parentType]
	if !ok {
		return &UnknownEntityError{Entity: parentType}
	}

	if len(opts.Via) > 0 {
		return r.joinsVia(child, parent, opts)
	}

	fk := opts.ForeignKey
	if fk == "" {
		fk = underscore(parent.Name) + "_id"
	}
	name := opts.Name
	if name == "" {
		name = underscore(parent.Name)
	}
	as := opts.As
	if as == "" {
		as = underscore(child.Name)
		if opts.Multiple {
			as = inflect.Pluralize(as)
		}
	}

	if _, err := r.defineLocked(child.Name, name, parent.Name, One, JoinSpec{
		Kind:  OneToOne,
		Pairs: []ColumnPair{{Local: fk, Remote: parent.PrimaryKey}},
	}); err != nil {
		return err
	}

	kind, cardinality := OneToOne, One
	if opts.Multiple {
		kind, cardinality = OneToMany, Many
	}
	_, err := r.defineLocked(parent.Name, as, child.Name, cardinality, JoinSpec{
		Kind:  kind,
		Pairs: []ColumnPair{{Local: parent.PrimaryKey, Remote: fk}},
	})
	if err != nil {
		r.undefineLocked(child, name)
	}
	return err
}

func (r *Registry) joinsVia(child, parent *Entity, opts JoinOptions) error {
	if len(opts.Via) < 2 {
		return fmt.Errorf("%w: via requires at least two columns", ErrInvalidRelationship)
	}
	name := opts.Name
	if name == "" {
		name = inflect.Pluralize(underscore(parent.Name))
	}
	as := opts.As
	if as == "" {
		as = underscore(child.Name)
		if opts.Multiple {
			as = inflect.Pluralize(as)
		}
	}

	toParent := make([]ColumnPair, len(opts.Via))
	toChild := make([]ColumnPair, len(opts.Via))
	for i, col := range opts.Via {
		toParent[i] = ColumnPair{Local: col, Remote: parent.PrimaryKey}
		toChild[i] = ColumnPair{Local: parent.PrimaryKey, Remote: col}
	}

	if _, err := r.defineLocked(child.Name, name, parent.Name, Many, JoinSpec{
		Kind:  ManyViaJunctionColumns,
		Pairs: toParent,
		Guard: GuardLocal,
	}); err != nil {
		return err
	}

	cardinality := One
	if opts.Multiple {
		cardinality = Many
	}
	_, err := r.defineLocked(parent.Name, as, child.Name, cardinality, JoinSpec{
		Kind:  ManyViaJunctionColumns,
		Pairs: toChild,
		Guard: GuardRemote,
	})
	if err != nil {
		r.undefineLocked(child, name)
	}
	return err
}

// undefineLocked, JoinsTo'nun ikinci yarısı başarısız olduğunda ilk yarıyı geri alır.
func (r *Registry) undefineLocked(e *Entity, name string) {
	delete(e.relIndex, name)
	for i, rel := range e.relationships {
		if rel.Name == name {
			e.relationships = append(e.relationships[:i], e.relationships[i+1:]...)
			return
		}
	}
}

// Entity, kayıtlı entity tipini döndürür.
func (r *Registry) Entity(entityType string) (*Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[entityType]
	if !ok {
		return nil, &UnknownEntityError{Entity: entityType}
	}
	return e, nil
}

// Entities, kayıtlı tipleri kayıt sırasıyla döndürür.
func (r *Registry) Entities() []*Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entity, len(r.order))
	copy(out, r.order)
	return out
}

// ColumnsOf, tipin kolonlarını döndürür.
func (r *Registry) ColumnsOf(entityType string) ([]Column, error) {
	e, err := r.Entity(entityType)
	if err != nil {
		return nil, err
	}
	return e.Columns(), nil
}

// RelationshipOf, tipin name adlı ilişkisini döndürür.
func (r *Registry) RelationshipOf(entityType, name string) (*Relationship, error) {
	e, err := r.Entity(entityType)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rel, ok := e.relIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownRelationship, entityType, name)
	}
	return rel, nil
}

// Relationships, tipin tüm ilişkilerini döndürür.
func (r *Registry) Relationships(entityType string) ([]*Relationship, error) {
	e, err := r.Entity(entityType)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return e.Relationships(), nil
}

func underscore(name string) string {
	return inflect.Underscore(name)
}
