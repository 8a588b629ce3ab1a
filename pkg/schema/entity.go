// Package schema, entity tiplerinin kolonlarını ve aralarındaki ilişkileri
// tutan kayıt defteridir. Kayıtlar uygulama başlangıcında yapılır; sorgu
// sırasında kayıt defteri yalnızca okunur.
package schema

import "github.com/biyonik/conduit-go/pkg/database"

// Column, bir entity kolonunun tanımıdır.
type Column = database.ColumnDefinition

// Entity, kayıtlı bir entity tipidir.
type Entity struct {
	Name       string
	Table      string
	PrimaryKey string

	columns       []Column
	columnIndex   map[string]int
	relationships []*Relationship
	relIndex      map[string]*Relationship
}

// Columns, kolon tanımlarını kayıt sırasıyla döndürür.
func (e *Entity) Columns() []Column {
	out := make([]Column, len(e.columns))
	copy(out, e.columns)
	return out
}

// ColumnNames, kolon adlarını kayıt sırasıyla döndürür.
func (e *Entity) ColumnNames() []string {
	out := make([]string, len(e.columns))
	for i, c := range e.columns {
		out[i] = c.Name
	}
	return out
}

// Column, adı verilen kolonu döndürür.
func (e *Entity) Column(name string) (Column, bool) {
	i, ok := e.columnIndex[name]
	if !ok {
		return Column{}, false
	}
	return e.columns[i], true
}

// HasColumn, kolonun tanımlı olup olmadığını döndürür.
func (e *Entity) HasColumn(name string) bool {
	_, ok := e.columnIndex[name]
	return ok
}

// PrimaryColumn, birincil anahtar kolonunu döndürür.
func (e *Entity) PrimaryColumn() Column {
	return e.columns[e.columnIndex[e.PrimaryKey]]
}

// Relationships, ilişkileri tanımlanma sırasıyla döndürür.
func (e *Entity) Relationships() []*Relationship {
	out := make([]*Relationship, len(e.relationships))
	copy(out, e.relationships)
	return out
}

// Relationship, adı verilen ilişkiyi döndürür.
func (e *Entity) Relationship(name string) (*Relationship, bool) {
	r, ok := e.relIndex[name]
	return r, ok
}

// Targeting, hedef entity adı (veya tablo adı) name olan ilişkileri döndürür.
// Join yolu bir ilişki adı değil de hedef tip adı verdiğinde kullanılır.
func (e *Entity) Targeting(name string) []*Relationship {
	var out []*Relationship
	for _, r := range e.relationships {
		if r.Target.matches(name) {
			out = append(out, r)
		}
	}
	return out
}

func (e *Entity) matches(name string) bool {
	return name == e.Name || name == e.Table || name == underscore(e.Name)
}
