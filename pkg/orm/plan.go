package orm

import (
	"fmt"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
)

// conditionBuilder, bir ilişkinin iki alias arasındaki join koşulunu üretir.
type conditionBuilder func(rel *schema.Relationship, left, right string) database.JoinCondition

// conditionBuilders, ilişki türü başına join koşulu üreticisi.
var conditionBuilders = map[schema.Kind]conditionBuilder{
	schema.OneToOne:               pairCondition,
	schema.OneToMany:              pairCondition,
	schema.ManyViaJunctionColumns: junctionCondition,
}

func joinCondition(rel *schema.Relationship, left, right string) database.JoinCondition {
	build, ok := conditionBuilders[rel.Kind]
	if !ok {
		build = pairCondition
	}
	return build(rel, left, right)
}

// pairCondition: `left`.`local` = `right`.`remote`
func pairCondition(rel *schema.Relationship, left, right string) database.JoinCondition {
	pairs := make([]database.ConditionPair, len(rel.Pairs))
	for i, p := range rel.Pairs {
		pairs[i] = database.ConditionPair{
			LeftAlias:   left,
			LeftColumn:  p.Local,
			RightAlias:  right,
			RightColumn: p.Remote,
		}
	}
	return database.JoinCondition{Pairs: pairs}
}

// junctionCondition: (pair1 OR pair2 ...) AND guard_left <> guard_right
func junctionCondition(rel *schema.Relationship, left, right string) database.JoinCondition {
	cond := pairCondition(rel, left, right)
	side, l, r, ok := rel.GuardColumns()
	if !ok {
		return cond
	}
	alias := right
	if side == schema.GuardLocal {
		alias = left
	}
	cond.Guard = &database.ColumnGuard{Alias: alias, Left: l, Right: r}
	return cond
}

// binding, sonuç satırındaki bir kolon aralığının hangi entity'ye ve hangi
// üst modelin hangi slotuna ait olduğunu söyler. bindings[0] köktür.
type binding struct {
	entity  *schema.Entity
	rel     *schema.Relationship
	parent  int
	offset  int
	columns []schema.Column
	pkIndex int
}

func newBinding(e *schema.Entity, rel *schema.Relationship, parent, offset int) binding {
	cols := e.Columns()
	pk := 0
	for i, col := range cols {
		if col.Name == e.PrimaryKey {
			pk = i
			break
		}
	}
	return binding{entity: e, rel: rel, parent: parent, offset: offset, columns: cols, pkIndex: pk}
}

// planBuilder, tek bir build çağrısının durumunu tutar.
type planBuilder struct {
	root    string
	aliases map[string]string
	steps   int
}

func (b *planBuilder) stepAlias(prefix string, rel *schema.Relationship) string {
	alias := fmt.Sprintf("%s%d_%s", prefix, b.steps, rel.Name)
	b.steps++
	return alias
}

// chain, ilişki zincirini kök alias'a bağlanan korelasyonlu adımlara çevirir.
func (b *planBuilder) chain(prefix string, rels []*schema.Relationship) []database.JoinStep {
	steps := make([]database.JoinStep, len(rels))
	left := b.root
	for i, rel := range rels {
		alias := b.stepAlias(prefix, rel)
		steps[i] = database.JoinStep{
			Table:     rel.Target.Table,
			Alias:     alias,
			Condition: joinCondition(rel, left, alias),
		}
		left = alias
	}
	return steps
}

// build, Composer durumunu SelectPlan'a çevirir ve hydrate için kolon
// bağlamalarını döndürür.
func (c *Composer) build() (*database.SelectPlan, []binding) {
	e := c.entity
	b := &planBuilder{
		root:    e.Table,
		aliases: map[string]string{"": e.Table},
	}

	plan := &database.SelectPlan{
		Root: database.TableRef{
			Table:      e.Table,
			Alias:      b.root,
			PrimaryKey: e.PrimaryKey,
			Columns:    e.ColumnNames(),
		},
		Limit:  c.limit,
		Offset: c.offset,
	}

	bindings := []binding{newBinding(e, nil, 0, 0)}
	index := map[string]int{"": 0}
	offset := len(plan.Root.Columns)

	for _, j := range c.joins {
		rel := j.rels[len(j.rels)-1]
		parentPath := joinNames(j.rels[:len(j.rels)-1])
		parentAlias := b.aliases[parentPath]

		alias := j.path
		if alias == b.root {
			alias += "__j"
		}
		b.aliases[j.path] = alias

		node := database.JoinNode{
			TableRef: database.TableRef{
				Table:      rel.Target.Table,
				Alias:      alias,
				PrimaryKey: rel.Target.PrimaryKey,
				Columns:    rel.Target.ColumnNames(),
			},
			Path:      j.path,
			Parent:    parentAlias,
			Many:      rel.IsMany(),
			Implicit:  j.implicit,
			Condition: joinCondition(rel, parentAlias, alias),
		}
		plan.Joins = append(plan.Joins, node)

		index[j.path] = len(bindings)
		bindings = append(bindings, newBinding(rel.Target, rel, index[parentPath], offset))
		offset += len(node.Columns)
	}

	for _, group := range c.filters {
		fg := database.FilterGroup{Any: make([]database.Conjunction, 0, len(group))}
		for _, terms := range group {
			fg.Any = append(fg.Any, b.conjunction(terms))
		}
		plan.Filters = append(plan.Filters, fg)
	}

	for _, o := range c.orders {
		rp := o.path
		switch {
		case len(rp.rels) == 0:
			plan.RootOrders = append(plan.RootOrders, database.Order{
				Alias: b.root, Column: rp.column.Name, Direction: o.direction,
			})
		case throughMany(rp.rels):
			plan.JoinOrders = append(plan.JoinOrders, database.Order{
				Alias: b.aliases[rp.canonical()], Column: rp.column.Name, Direction: o.direction,
			})
		default:
			steps := b.chain("o", rp.rels)
			plan.RootOrders = append(plan.RootOrders, database.Order{
				Alias:     steps[len(steps)-1].Alias,
				Column:    rp.column.Name,
				Direction: o.direction,
				Lookup:    steps,
			})
		}
	}

	return plan, bindings
}

// conjunction, tek bir Where argümanını çevirir. Kök kolonları doğrudan
// karşılaştırılır; aynı ilişki yoluna ait terimler tek bir EXISTS altında
// toplanır ve aynı ilişkili satır için değerlendirilir. Tüm terimleri NULL
// ile sağlanan bir clause, ilişkisi olmayan kök satırları da kapsar.
func (b *planBuilder) conjunction(terms []filterTerm) database.Conjunction {
	var conj database.Conjunction
	exists := make(map[string]int)

	for _, t := range terms {
		rp := t.path
		if len(rp.rels) == 0 {
			conj.Predicates = append(conj.Predicates, database.Predicate{
				Alias:    b.root,
				Column:   rp.column.Name,
				Type:     rp.column.Type,
				Operator: rp.operator,
				Value:    t.value,
			})
			continue
		}

		key := rp.canonical()
		i, ok := exists[key]
		if !ok {
			i = len(conj.Exists)
			exists[key] = i
			conj.Exists = append(conj.Exists, database.ExistsClause{Steps: b.chain("f", rp.rels)})
		}
		clause := &conj.Exists[i]
		clause.Predicates = append(clause.Predicates, database.Predicate{
			Alias:    clause.Steps[len(clause.Steps)-1].Alias,
			Column:   rp.column.Name,
			Type:     rp.column.Type,
			Operator: rp.operator,
			Value:    t.value,
		})
	}

	// Yalnızca NULL ile sağlanan terimler, LEFT JOIN'de eşleşmeyen kök
	// satırlar için de doğrudur.
	for i := range conj.Exists {
		clause := &conj.Exists[i]
		clause.OrMissing = true
		for _, p := range clause.Predicates {
			if !p.MatchesNull() {
				clause.OrMissing = false
				break
			}
		}
	}
	return conj
}
