package schema

import "fmt"

// Kind, ilişkinin join biçimini belirleyen etikettir.
type Kind int

const (
	// OneToOne, tek kolon çiftiyle en fazla bir ilişkili satır.
	OneToOne Kind = iota
	// OneToMany, tek kolon çiftiyle sıfır veya daha fazla ilişkili satır.
	OneToMany
	// ManyViaJunctionColumns, ilişkili tablonun aynı hedefe işaret eden iki
	// (veya daha fazla) FK kolonu üzerinden kurulan ilişki. Kolon çiftleri OR ile
	// birleşir; Guard tarafındaki FK kolonlarının farklı olması şarttır.
	ManyViaJunctionColumns
)

func (k Kind) String() string {
	switch k {
	case OneToOne:
		return "one_to_one"
	case OneToMany:
		return "one_to_many"
	case ManyViaJunctionColumns:
		return "many_via_junction_columns"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Cardinality, bir ilişki okunduğunda tek entity mi koleksiyon mu döneceğini belirler.
type Cardinality int

const (
	One Cardinality = iota
	Many
)

func (c Cardinality) String() string {
	if c == Many {
		return "many"
	}
	return "one"
}

// GuardSide, junction ilişkilerinde eşitsizlik kontrolünün hangi tabloda yapılacağıdır.
type GuardSide int

const (
	GuardNone GuardSide = iota
	// GuardLocal, ilişkinin sahibi olan tablonun FK kolonları karşılaştırılır.
	GuardLocal
	// GuardRemote, hedef tablonun FK kolonları karşılaştırılır.
	GuardRemote
)

// ColumnPair, sahip tablodaki Local kolonun hedef tablodaki Remote kolona eşitliğidir.
type ColumnPair struct {
	Local  string
	Remote string
}

// JoinSpec, DefineRelationship'e verilen join tanımıdır.
type JoinSpec struct {
	Kind  Kind
	Pairs []ColumnPair
	Guard GuardSide
}

// Relationship, sahip entity üzerinde isimli bir ilişkidir.
type Relationship struct {
	Name        string
	Owner       *Entity
	Target      *Entity
	Kind        Kind
	Cardinality Cardinality
	Pairs       []ColumnPair
	Guard       GuardSide
}

// IsMany, ilişkinin koleksiyon döndürüp döndürmediğini söyler.
func (r *Relationship) IsMany() bool {
	return r.Cardinality == Many
}

// GuardColumns, eşitsizlik kontrolünün kolonlarını döndürür.
// Guard yoksa ok false olur.
func (r *Relationship) GuardColumns() (side GuardSide, left, right string, ok bool) {
	if r.Guard == GuardNone || len(r.Pairs) < 2 {
		return GuardNone, "", "", false
	}
	if r.Guard == GuardLocal {
		return GuardLocal, r.Pairs[0].Local, r.Pairs[1].Local, true
	}
	return GuardRemote, r.Pairs[0].Remote, r.Pairs[1].Remote, true
}

// ForeignKeyIsLocal, FK'nin sahip tabloda (belongs-to) olup olmadığını söyler.
// Bu durumda sahibin kaydedilmesi için ilişkili entity'nin anahtarı gerekir.
func (r *Relationship) ForeignKeyIsLocal() bool {
	for _, p := range r.Pairs {
		if p.Local == r.Owner.PrimaryKey {
			return false
		}
	}
	return true
}

func (r *Relationship) String() string {
	return fmt.Sprintf("%s.%s -> %s (%s, %s)", r.Owner.Name, r.Name, r.Target.Name, r.Kind, r.Cardinality)
}

func (s JoinSpec) validate(owner, target *Entity) error {
	switch s.Kind {
	case OneToOne, OneToMany:
		if len(s.Pairs) != 1 {
			return fmt.Errorf("%w: %s join requires exactly one column pair", ErrInvalidRelationship, s.Kind)
		}
		if s.Guard != GuardNone {
			return fmt.Errorf("%w: %s join does not take a guard", ErrInvalidRelationship, s.Kind)
		}
	case ManyViaJunctionColumns:
		if len(s.Pairs) < 2 {
			return fmt.Errorf("%w: junction join requires at least two column pairs", ErrInvalidRelationship)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidRelationship, int(s.Kind))
	}
	for _, p := range s.Pairs {
		if !owner.HasColumn(p.Local) {
			return fmt.Errorf("%w: %s has no column %q", ErrInvalidRelationship, owner.Name, p.Local)
		}
		if !target.HasColumn(p.Remote) {
			return fmt.Errorf("%w: %s has no column %q", ErrInvalidRelationship, target.Name, p.Remote)
		}
	}
	return nil
}
