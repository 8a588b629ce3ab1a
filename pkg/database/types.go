// -----------------------------------------------------------------------------
// Database Types - Statement Adapter İçin Yardımcı Tipler
// -----------------------------------------------------------------------------
// Bu dosya, grammar katmanının kullandığı enum-like tipleri içerir.
// OrderDirection, Operator ve ColumnType gibi değerler sabit kümelerle
// sınırlandırılır; kullanıcı input'u SQL'e hiçbir zaman doğrudan yazılmaz.
// -----------------------------------------------------------------------------

package database

import (
	"fmt"
	"strings"
)

// OrderDirection, ORDER BY için izin verilen yönleri temsil eder.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// ParseDirection, kullanıcıdan gelen yön bilgisini doğrular.
// Boş değer ASC kabul edilir, büyük/küçük harf duyarsızdır.
//
// Örnek:
//
//	dir, err := ParseDirection("desc") // OrderDesc
func ParseDirection(value string) (OrderDirection, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "ASC":
		return OrderAsc, nil
	case "DESC":
		return OrderDesc, nil
	}
	return "", fmt.Errorf("invalid order direction: %q (expected ASC or DESC)", value)
}

// Operator, filtre anahtarlarının sonundaki karşılaştırma ekidir.
// Operatörün SQL karşılığı her grammar tarafından ayrı üretilir.
type Operator string

const (
	OpIs          Operator = "is"
	OpNot         Operator = "not"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLike        Operator = "like"
	OpILike       Operator = "ilike"
	OpStartsWith  Operator = "startswith"
	OpIStartsWith Operator = "istartswith"
	OpEndsWith    Operator = "endswith"
	OpIEndsWith   Operator = "iendswith"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpIsNull      Operator = "is_null"
	OpNotNull     Operator = "not_null"
)

var knownOperators = map[Operator]bool{
	OpIs: true, OpNot: true,
	OpLt: true, OpLte: true, OpGt: true, OpGte: true,
	OpLike: true, OpILike: true,
	OpStartsWith: true, OpIStartsWith: true,
	OpEndsWith: true, OpIEndsWith: true,
	OpIn: true, OpNotIn: true,
	OpIsNull: true, OpNotNull: true,
}

// LookupOperator, token bir operatör ise onu döndürür.
func LookupOperator(token string) (Operator, bool) {
	op := Operator(token)
	return op, knownOperators[op]
}

// isPattern, LIKE ailesinden bir operatör olup olmadığını söyler.
func (o Operator) isPattern() bool {
	switch o {
	case OpLike, OpILike, OpStartsWith, OpIStartsWith, OpEndsWith, OpIEndsWith:
		return true
	}
	return false
}

// caseInsensitive, "i" önekli pattern operatörleri için true döner.
func (o Operator) caseInsensitive() bool {
	return o == OpILike || o == OpIStartsWith || o == OpIEndsWith
}

// ColumnType, şemada tanımlanabilen kolon tipleridir.
type ColumnType string

const (
	TypeSerial   ColumnType = "serial"
	TypeInt      ColumnType = "int"
	TypeCurrency ColumnType = "currency"
	TypeFloat    ColumnType = "float"
	TypeString   ColumnType = "string"
	TypeText     ColumnType = "text"
	TypeBoolean  ColumnType = "boolean"
	TypeDateTime ColumnType = "datetime"
	TypeJSON     ColumnType = "json"
	TypeUUID     ColumnType = "uuid"
)

// Valid, tipin desteklenen kümede olup olmadığını kontrol eder.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeSerial, TypeInt, TypeCurrency, TypeFloat, TypeString, TypeText,
		TypeBoolean, TypeDateTime, TypeJSON, TypeUUID:
		return true
	}
	return false
}

// Integral, değerin int64 olarak taşındığı tipler.
func (t ColumnType) Integral() bool {
	return t == TypeSerial || t == TypeInt || t == TypeCurrency
}

// ColumnDefinition, bir tablo kolonunu tanımlar.
//
// Alanlar:
//   - Name: Kolon adı
//   - Type: Kolon tipi (serial, int, string, ...)
//   - Nullable: NULL değer kabul edilir mi
//   - Primary: Birincil anahtar mı (serial kolonlar otomatik olarak birincil anahtardır)
//   - Unique: Tekil kısıt
//   - Length: string kolonlar için azami uzunluk (0 ise 255)
type ColumnDefinition struct {
	Name     string
	Type     ColumnType
	Nullable bool
	Primary  bool
	Unique   bool
	Length   int
}

// IsPrimary, kolonun birincil anahtar olarak davranıp davranmadığını döndürür.
func (c ColumnDefinition) IsPrimary() bool {
	return c.Primary || c.Type == TypeSerial
}

// MaxLength, string kolonlar için etkin uzunluk sınırı.
func (c ColumnDefinition) MaxLength() int {
	if c.Length > 0 {
		return c.Length
	}
	if c.Type == TypeString {
		return 255
	}
	return 0
}
