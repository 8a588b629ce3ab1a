package orm

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/biyonik/conduit-go/pkg/schema"
)

// -----------------------------------------------------------------------------
// Relationship Resolver
// -----------------------------------------------------------------------------
// Include, join edilmemiş ilişkileri sonradan yükler. Her ilişki için tek bir
// sorgu çalışır: sahip modellerin kolon değerleri "__in" filtresi olarak
// verilir, kolon çiftleri OR ile bağlanır. Sorgular eşzamanlı çalışır; bir
// sorgu hata verse bile diğerleri iptal edilmez ve ilk hata hepsi
// bittikten sonra döner.
//
// Zaten yüklenmiş (LoadedEmpty / LoadedPresent) slotlar tekrar sorgulanmaz.
// -----------------------------------------------------------------------------

type includeTask struct {
	rel     *schema.Relationship
	pending []*Model
	result  *ModelArray
	nested  []string
}

// include, models üzerinde names ile verilen ilişkileri yükler.
// "children__pets" gibi yollar önce children'ı, sonra yüklenen çocukların
// pets ilişkisini yükler.
func (s *Store) include(ctx context.Context, e *schema.Entity, models []*Model, names []string) error {
	if len(models) == 0 {
		return nil
	}

	tasks, err := s.includeTasks(e, names)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, t := range tasks {
		t.pending = pendingFor(models, t.rel)
		if len(t.pending) == 0 {
			continue
		}
		query, ok := s.includeQuery(t.rel, t.pending)
		if !ok {
			for _, m := range t.pending {
				m.markEmpty(slotFor(m, t.rel))
			}
			t.pending = nil
			continue
		}
		task := t
		g.Go(func() error {
			arr, err := query.End(ctx)
			if err != nil {
				return err
			}
			task.result = arr
			return nil
		})
	}
	err = g.Wait()

	for _, t := range tasks {
		if t.result != nil {
			attachIncluded(t.rel, t.pending, t.result)
		}
	}
	if err != nil {
		return err
	}

	for _, t := range tasks {
		if len(t.nested) == 0 {
			continue
		}
		related := loadedModels(models, t.rel)
		if err := s.include(ctx, t.rel.Target, related, t.nested); err != nil {
			return err
		}
	}
	return nil
}

// includeTasks, adları ilişkilere çözer. Aynı ilişkiye giden yollar
// tek bir göreve toplanır.
func (s *Store) includeTasks(e *schema.Entity, names []string) ([]*includeTask, error) {
	if len(names) == 0 {
		rels := e.Relationships()
		tasks := make([]*includeTask, len(rels))
		for i, rel := range rels {
			tasks[i] = &includeTask{rel: rel}
		}
		return tasks, nil
	}

	var tasks []*includeTask
	byName := make(map[string]*includeTask)
	for _, name := range names {
		head, rest, _ := strings.Cut(name, pathSeparator)
		rel, err := resolveRelationship(e, head)
		if err != nil {
			return nil, err
		}
		t, ok := byName[rel.Name]
		if !ok {
			t = &includeTask{rel: rel}
			byName[rel.Name] = t
			tasks = append(tasks, t)
		}
		if rest != "" {
			t.nested = append(t.nested, rest)
		}
	}
	return tasks, nil
}

func pendingFor(models []*Model, rel *schema.Relationship) []*Model {
	var out []*Model
	for _, m := range models {
		if slot := slotFor(m, rel); slot != nil && slot.state == Unloaded {
			out = append(out, m)
		}
	}
	return out
}

// includeQuery, bekleyen modellerin kolon değerleriyle hedef sorguyu kurar.
// Hiçbir modelde eşleşecek değer yoksa ok false döner.
func (s *Store) includeQuery(rel *schema.Relationship, pending []*Model) (*Composer, bool) {
	wheres := make([]Where, 0, len(rel.Pairs))
	for _, p := range rel.Pairs {
		values := make([]any, 0, len(pending))
		seen := make(map[any]bool)
		for _, m := range pending {
			v := m.values[p.Local]
			if v == nil || seen[mapKey(v)] {
				continue
			}
			seen[mapKey(v)] = true
			values = append(values, v)
		}
		if len(values) > 0 {
			wheres = append(wheres, Where{p.Remote + pathSeparator + "in": values})
		}
	}
	if len(wheres) == 0 {
		return nil, false
	}
	q := &Composer{store: s, entity: rel.Target}
	return q.Filter(wheres...), true
}

// attachIncluded, sorgu sonucunu bekleyen modellerin slotlarına dağıtır.
// Sonuçtaki modeller sahipler arasında paylaşılır.
func attachIncluded(rel *schema.Relationship, pending []*Model, result *ModelArray) {
	index := make([]map[any][]int, len(rel.Pairs))
	for pi, p := range rel.Pairs {
		index[pi] = make(map[any][]int)
		for i, m := range result.items {
			k := mapKey(m.values[p.Remote])
			index[pi][k] = append(index[pi][k], i)
		}
	}
	side, left, right, guarded := rel.GuardColumns()

	for _, owner := range pending {
		slot := slotFor(owner, rel)
		if guarded && side == schema.GuardLocal && sameValue(owner.values[left], owner.values[right]) {
			owner.markEmpty(slot)
			continue
		}

		picked := make(map[int]bool)
		var matches []int
		for pi, p := range rel.Pairs {
			v := owner.values[p.Local]
			if v == nil {
				continue
			}
			for _, i := range index[pi][mapKey(v)] {
				if picked[i] {
					continue
				}
				if guarded && side == schema.GuardRemote {
					target := result.items[i]
					if sameValue(target.values[left], target.values[right]) {
						continue
					}
				}
				picked[i] = true
				matches = append(matches, i)
			}
		}
		sort.Ints(matches)

		if len(matches) == 0 {
			owner.markEmpty(slot)
			continue
		}
		if !rel.IsMany() {
			owner.attach(slot, result.items[matches[0]])
			continue
		}
		arr := newModelArray(owner.store, rel.Target)
		for _, i := range matches {
			arr.items = append(arr.items, result.items[i])
		}
		slot.many = arr
		slot.one = nil
		slot.state = LoadedPresent
	}
}

// loadedModels, modellerin rel slotlarındaki ilişkili modelleri tekilleştirerek toplar.
func loadedModels(models []*Model, rel *schema.Relationship) []*Model {
	var out []*Model
	seen := make(map[*Model]bool)
	add := func(m *Model) {
		if m != nil && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	for _, m := range models {
		slot := slotFor(m, rel)
		if slot == nil || slot.state != LoadedPresent {
			continue
		}
		add(slot.one)
		if slot.many != nil {
			for _, r := range slot.many.items {
				add(r)
			}
		}
	}
	return out
}
