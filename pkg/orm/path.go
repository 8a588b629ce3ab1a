package orm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
)

// pathSeparator, join / filter / order yollarındaki ayraç.
//
//	"children__pets__name__startswith"
//	 ilişki    ilişki kolon operatör
const pathSeparator = "__"

// resolvedPath, bir yolun şema üzerindeki karşılığıdır.
type resolvedPath struct {
	raw      string
	rels     []*schema.Relationship
	column   schema.Column
	operator database.Operator
}

// canonical, ilişki adlarından oluşan yoldur. Hedef tip adı ile verilen
// parçalar burada ilişki adına çevrilmiş olur.
func (p *resolvedPath) canonical() string {
	return joinNames(p.rels)
}

func (p *resolvedPath) hasColumn() bool {
	return p.column.Name != ""
}

func joinNames(rels []*schema.Relationship) string {
	names := make([]string, len(rels))
	for i, r := range rels {
		names[i] = r.Name
	}
	return strings.Join(names, pathSeparator)
}

// pathKind, yolun hangi çağrıdan geldiğini belirler.
type pathKind int

const (
	joinPath pathKind = iota
	filterPath
	orderPath
)

// resolvePath, yolu kökten başlayarak yürür.
//
// Join yolları yalnızca ilişkilerden oluşur. Filter ve order yolları bir
// kolonla biter; filter yollarının son parçası bilinen bir operatörse
// operatör olarak okunur.
func resolvePath(root *schema.Entity, path string, kind pathKind) (*resolvedPath, error) {
	tokens := strings.Split(path, pathSeparator)
	for _, t := range tokens {
		if t == "" {
			return nil, &PathError{Entity: root.Name, Path: path, Reason: "empty segment"}
		}
	}

	rp := &resolvedPath{raw: path, operator: database.OpIs}
	if kind == filterPath && len(tokens) > 1 {
		if op, ok := database.LookupOperator(tokens[len(tokens)-1]); ok {
			rp.operator = op
			tokens = tokens[:len(tokens)-1]
		}
	}

	cur := root
	for i, tok := range tokens {
		if kind != joinPath {
			if col, ok := cur.Column(tok); ok {
				if i != len(tokens)-1 {
					return nil, &PathError{Entity: root.Name, Path: path, Reason: fmt.Sprintf("%s.%s is a column, not a relationship", cur.Name, tok)}
				}
				rp.column = col
				break
			}
		}
		rel, err := resolveRelationship(cur, tok)
		if err != nil {
			var pe *PathError
			if errors.As(err, &pe) {
				pe.Entity, pe.Path = root.Name, path
			}
			return nil, err
		}
		rp.rels = append(rp.rels, rel)
		cur = rel.Target
	}

	if kind != joinPath && !rp.hasColumn() {
		return nil, &PathError{Entity: root.Name, Path: path, Reason: "path must end with a column of " + cur.Name}
	}
	return rp, nil
}

// resolveRelationship, tek bir yol parçasını ilişkiye çevirir: önce ilişki
// adı, bulunamazsa o tipi hedefleyen tek ilişki.
func resolveRelationship(e *schema.Entity, segment string) (*schema.Relationship, error) {
	if rel, ok := e.Relationship(segment); ok {
		return rel, nil
	}
	candidates := e.Targeting(segment)
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return nil, &PathError{Entity: e.Name, Path: segment, Reason: fmt.Sprintf("%s has no relationship %q", e.Name, segment)}
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	return nil, &AmbiguousJoinError{Entity: e.Name, Segment: segment, Candidates: names}
}
