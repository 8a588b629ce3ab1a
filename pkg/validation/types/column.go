package types

import (
	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/validation"
)

// ForColumn, kolon tanımına karşılık gelen kuralı üretir.
//
// Kurallar:
//   - Nullable olmayan kolonlar NULL olamaz; birincil anahtar hariç
//     (anahtar INSERT sırasında üretilir)
//   - string kolonlar MaxLength karakterle sınırlanır
//   - int / currency / serial kolonlar tamsayı olmalıdır
//
// Örnek:
//
//	rule := types.ForColumn(database.ColumnDefinition{Name: "name", Type: database.TypeString, Length: 40})
func ForColumn(col database.ColumnDefinition) validation.Rule {
	notNull := !col.Nullable && !col.IsPrimary()

	switch col.Type {
	case database.TypeSerial, database.TypeInt, database.TypeCurrency:
		r := Integer()
		r.notNull = notNull
		return r
	case database.TypeFloat:
		r := Float()
		r.notNull = notNull
		return r
	case database.TypeString, database.TypeText:
		r := String(col.MaxLength())
		r.notNull = notNull
		return r
	case database.TypeBoolean:
		r := Boolean()
		r.notNull = notNull
		return r
	case database.TypeDateTime:
		r := DateTime()
		r.notNull = notNull
		return r
	case database.TypeUUID:
		r := Uuid()
		r.notNull = notNull
		return r
	}
	r := Json()
	r.notNull = notNull
	return r
}

// ForColumns, kolon listesinden bir doğrulama şeması üretir.
func ForColumns(columns []database.ColumnDefinition) *validation.Schema {
	rules := make(map[string]validation.Rule, len(columns))
	for _, col := range columns {
		rules[col.Name] = ForColumn(col)
	}
	return validation.NewSchema(rules)
}
