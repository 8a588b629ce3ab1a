package orm

import (
	"context"
	"fmt"
	"sort"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
)

// -----------------------------------------------------------------------------
// Query Composer
// -----------------------------------------------------------------------------
// Composer, bir entity tipi için zincirlenebilir sorgu oluşturucudur. Her
// metot yeni bir Composer döndürür; alıcı değişmez, böylece ortak bir taban
// sorgudan farklı dallar türetilebilir:
//
//	base := store.Query("Parent").Join("children")
//	first := base.Limit(1)
//	named := base.Filter(orm.Where{"name__startswith": "Sam"})
//
// Kurulum sırasında oluşan ilk hata saklanır ve End / Plan / SQL ile döner.
// -----------------------------------------------------------------------------

type joinRequest struct {
	path     string
	rels     []*schema.Relationship
	implicit bool
}

type filterTerm struct {
	path  *resolvedPath
	value any
}

// filterGroup, tek bir Filter çağrısıdır: her eleman bir Where argümanıdır.
type filterGroup [][]filterTerm

type orderRequest struct {
	path      *resolvedPath
	direction database.OrderDirection
}

// Composer, bir entity tipi üzerinde sorgu kurar.
type Composer struct {
	store   *Store
	entity  *schema.Entity
	joins   []joinRequest
	filters []filterGroup
	orders  []orderRequest
	limit   *int
	offset  int
	err     error
}

func (c *Composer) clone() *Composer {
	next := *c
	next.joins = append([]joinRequest(nil), c.joins...)
	next.filters = append([]filterGroup(nil), c.filters...)
	next.orders = append([]orderRequest(nil), c.orders...)
	if c.limit != nil {
		n := *c.limit
		next.limit = &n
	}
	return &next
}

func (c *Composer) fail(err error) *Composer {
	next := c.clone()
	if next.err == nil {
		next.err = err
	}
	return next
}

// Join, ilişki yolunu sorguya ekler. İç içe yollar "__" ile yazılır;
// yolun tüm önekleri de join edilir. Aynı yol ikinci kez eklenmez.
//
// Yol parçası önce ilişki adı olarak, bulunamazsa hedef tip adı olarak
// çözülür:
//
//	store.Query("Parent").Join("children__pets")
//	store.Query("Child").Join("Parent") // "parent" ilişkisi
func (c *Composer) Join(path string) *Composer {
	if c.err != nil {
		return c
	}
	rp, err := resolvePath(c.entity, path, joinPath)
	if err != nil {
		return c.fail(err)
	}
	next := c.clone()
	next.addJoin(rp.rels, false)
	return next
}

// addJoin, zincirin her önekini join listesine ekler. Açık bir join,
// daha önce örtük eklenmiş aynı yolu açık hale getirir.
func (c *Composer) addJoin(rels []*schema.Relationship, implicit bool) {
	for i := range rels {
		path := joinNames(rels[:i+1])
		found := false
		for j := range c.joins {
			if c.joins[j].path == path {
				if !implicit {
					c.joins[j].implicit = false
				}
				found = true
				break
			}
		}
		if !found {
			c.joins = append(c.joins, joinRequest{path: path, rels: rels[:i+1], implicit: implicit})
		}
	}
}

// Filter, sorguya bir filtre grubu ekler.
//
// Bir Where içindeki anahtarlar AND, aynı çağrıdaki Where argümanları OR,
// ayrı Filter çağrıları AND ile bağlanır. Anahtar "yol[__operatör]"
// biçimindedir; operatör verilmezse eşitlik kullanılır.
//
// Örnek:
//
//	// name = 'Zoolander' OR name = 'Albert'
//	q.Filter(orm.Where{"name": "Zoolander"}, orm.Where{"name": "Albert"})
//
//	// en az bir çocuğunun id'si 15'ten küçük veya eşit olan parent'lar
//	q.Filter(orm.Where{"children__id__lte": 15})
//
// İlişki üzerinden filtreler kök satırları kısıtlar; ilişki ayrıca örtük
// olarak join edilir ve join edilen satırlar filtrelenmez.
func (c *Composer) Filter(wheres ...Where) *Composer {
	if c.err != nil {
		return c
	}
	if len(wheres) == 0 {
		return c
	}

	next := c.clone()
	group := make(filterGroup, 0, len(wheres))
	for _, w := range wheres {
		keys := make([]string, 0, len(w))
		for k := range w {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		terms := make([]filterTerm, 0, len(keys))
		for _, k := range keys {
			rp, err := resolvePath(c.entity, k, filterPath)
			if err != nil {
				return c.fail(err)
			}
			if len(rp.rels) > 0 {
				next.addJoin(rp.rels, true)
			}
			terms = append(terms, filterTerm{path: rp, value: w[k]})
		}
		group = append(group, terms)
	}
	next.filters = append(next.filters, group)
	return next
}

// OrderBy, sıralama ekler. Yön verilmezse ASC kullanılır.
//
// Tekil ilişkiler üzerinden sıralama kök satırları sıralar; çoğul bir
// ilişki içeren yollar join edilen satırları her kök satırın içinde sıralar.
func (c *Composer) OrderBy(path string, direction ...string) *Composer {
	if c.err != nil {
		return c
	}
	dir := database.OrderAsc
	if len(direction) > 0 {
		d, err := database.ParseDirection(direction[0])
		if err != nil {
			return c.fail(&PathError{Entity: c.entity.Name, Path: path, Reason: err.Error()})
		}
		dir = d
	}

	rp, err := resolvePath(c.entity, path, orderPath)
	if err != nil {
		return c.fail(err)
	}
	next := c.clone()
	if throughMany(rp.rels) {
		next.addJoin(rp.rels, true)
	}
	next.orders = append(next.orders, orderRequest{path: rp, direction: dir})
	return next
}

// Limit, kök satır sayısını sınırlar.
//
//	q.Limit(10)     // ilk 10 satır
//	q.Limit(10, 10) // 10 satır atla, 10 satır al
func (c *Composer) Limit(countOrOffset int, count ...int) *Composer {
	if c.err != nil {
		return c
	}
	offset, n := 0, countOrOffset
	if len(count) > 0 {
		offset, n = countOrOffset, count[0]
	}
	if n < 0 || offset < 0 {
		return c.fail(fmt.Errorf("%w: limit %d offset %d", ErrInvalidValue, n, offset))
	}
	next := c.clone()
	next.limit = &n
	next.offset = offset
	return next
}

// Offset, atlanacak kök satır sayısını ayarlar.
func (c *Composer) Offset(n int) *Composer {
	if c.err != nil {
		return c
	}
	if n < 0 {
		return c.fail(fmt.Errorf("%w: offset %d", ErrInvalidValue, n))
	}
	next := c.clone()
	next.offset = n
	return next
}

// Plan, sorgunun SelectPlan karşılığını döndürür.
func (c *Composer) Plan() (*database.SelectPlan, error) {
	if c.err != nil {
		return nil, c.err
	}
	plan, _ := c.build()
	return plan, nil
}

// SQL, sorgunun bağlantı lehçesindeki metnini ve parametrelerini döndürür.
func (c *Composer) SQL() (string, []any, error) {
	plan, err := c.Plan()
	if err != nil {
		return "", nil, err
	}
	return c.store.db.Grammar().CompileSelect(plan)
}

// End, sorguyu çalıştırır ve kök modelleri döndürür. Join edilen ilişkiler
// modellerin slotlarına yerleştirilmiş olarak gelir.
func (c *Composer) End(ctx context.Context) (*ModelArray, error) {
	return c.run(ctx, c.store.db)
}

// First, sorgunun ilk kök modelini döndürür. Sonuç boşsa ErrNotFound döner.
func (c *Composer) First(ctx context.Context) (*Model, error) {
	arr, err := c.Limit(1).End(ctx)
	if err != nil {
		return nil, err
	}
	if arr.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, c.entity.Name)
	}
	return arr.At(0), nil
}

func (c *Composer) run(ctx context.Context, s database.Session) (*ModelArray, error) {
	if c.err != nil {
		return nil, c.err
	}
	plan, bindings := c.build()
	query, args, err := s.Grammar().CompileSelect(plan)
	if err != nil {
		return nil, err
	}
	rs, err := s.Select(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return c.hydrate(s.Grammar(), rs, bindings)
}

func throughMany(rels []*schema.Relationship) bool {
	for _, r := range rels {
		if r.IsMany() {
			return true
		}
	}
	return false
}
