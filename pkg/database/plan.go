// -----------------------------------------------------------------------------
// Query Plan
// -----------------------------------------------------------------------------
// SelectPlan, Composer tarafından üretilen ve grammar tarafından SQL'e
// çevrilen değer nesnesidir. Plan içindeki tüm identifier'lar (tablo, alias,
// kolon) şemadan gelir; kullanıcı değerleri sadece Predicate.Value içinde
// taşınır ve her zaman placeholder ile bağlanır.
//
// Plan ağacı:
//
//	Root ─┬─ JoinNode (children)
//	      ├─ JoinNode (children__pets)  Parent: "children"
//	      └─ JoinNode (partner)
// -----------------------------------------------------------------------------

package database

// TableRef, sorguya katılan bir tabloyu ve seçilecek kolonlarını tanımlar.
type TableRef struct {
	Table      string
	Alias      string
	PrimaryKey string
	Columns    []string
}

// ConditionPair, iki alias arasındaki tek bir eşitlik koşuludur.
//
//	`LeftAlias`.`LeftColumn` = `RightAlias`.`RightColumn`
type ConditionPair struct {
	LeftAlias   string
	LeftColumn  string
	RightAlias  string
	RightColumn string
}

// ColumnGuard, aynı satırdaki iki kolonun farklı olmasını şart koşar.
// Junction kolonlu ilişkilerde (from_id / to_id) kendine bağlanan satırları eler.
type ColumnGuard struct {
	Alias string
	Left  string
	Right string
}

// JoinCondition, bir join'in ON ifadesidir.
// Pairs birden fazlaysa OR ile bağlanır; Guard varsa AND ile eklenir.
type JoinCondition struct {
	Pairs []ConditionPair
	Guard *ColumnGuard
}

// JoinNode, plan ağacında LEFT JOIN ile eklenen bir ilişkidir.
type JoinNode struct {
	TableRef
	// Path, kökten bu düğüme kadar ilişki adlarının "__" ile birleşimidir.
	Path string
	// Parent, ON koşulunun bağlandığı üst düğümün alias'ı.
	Parent    string
	Many      bool
	Implicit  bool
	Condition JoinCondition
}

// JoinStep, korelasyonlu alt sorgular (EXISTS, sıralama) içinde yürünen
// ilişki adımıdır. İlk adımın koşulu dış sorgunun kök alias'ına bağlanır.
type JoinStep struct {
	Table     string
	Alias     string
	Condition JoinCondition
}

// Predicate, tek bir kolon karşılaştırmasıdır.
type Predicate struct {
	Alias    string
	Column   string
	Type     ColumnType
	Operator Operator
	Value    any
}

// MatchesNull, predicate'in NULL bir kolon değeri için sağlanıp
// sağlanmadığını döndürür. LEFT JOIN ile eşleşmeyen ilişkide tüm
// kolonlar NULL okunur.
func (p Predicate) MatchesNull() bool {
	switch p.Operator {
	case OpIs, "":
		return p.Value == nil
	case OpIsNull:
		return truthy(p.Value)
	case OpNotNull:
		return !truthy(p.Value)
	}
	return false
}

// ExistsClause, ilişki zinciri üzerinden kök satırı kısıtlayan
// korelasyonlu alt sorgudur. Aynı argüman içinde aynı yola ait
// predicate'ler tek bir clause altında toplanır ve aynı ilişkili
// satır üzerinde değerlendirilir.
//
// OrMissing set edildiğinde ilişkili satırı hiç olmayan kök satır da
// eşleşir: EXISTS (...) OR NOT EXISTS (zincir).
type ExistsClause struct {
	Steps      []JoinStep
	Predicates []Predicate
	OrMissing  bool
}

// Conjunction, AND ile bağlanan predicate ve EXISTS listesidir.
type Conjunction struct {
	Predicates []Predicate
	Exists     []ExistsClause
}

// FilterGroup, tek bir Filter çağrısıdır: argümanları OR ile bağlanır.
// Plan içindeki gruplar birbirine AND ile bağlanır.
type FilterGroup struct {
	Any []Conjunction
}

// Order, tek bir sıralama ifadesidir.
// Lookup doluysa değer korelasyonlu skaler alt sorgudan okunur.
type Order struct {
	Alias     string
	Column    string
	Direction OrderDirection
	Lookup    []JoinStep
}

// SelectPlan, tek bir SELECT ifadesini bütünüyle tanımlar.
//
// Limit ve Offset yalnızca kök satırları sınırlar; join'ler varsa kök
// tablo türetilmiş bir alt sorguya alınır ve join'ler onun dışında yapılır.
type SelectPlan struct {
	Root       TableRef
	Joins      []JoinNode
	Filters    []FilterGroup
	RootOrders []Order
	JoinOrders []Order
	Limit      *int
	Offset     int
}

// ColumnCount, SELECT listesindeki toplam kolon sayısıdır.
// Sonuç satırları bu sırayla pozisyonel olarak okunur.
func (p *SelectPlan) ColumnCount() int {
	n := len(p.Root.Columns)
	for _, j := range p.Joins {
		n += len(j.Columns)
	}
	return n
}
