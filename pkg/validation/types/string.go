package types

import (
	"fmt"
	"unicode/utf8"

	"github.com/biyonik/conduit-go/pkg/validation"
)

// StringRule, string ve text kolonlarının kuralıdır. Uzunluk karakter
// (rune) olarak sayılır; 0 sınırsız demektir.
type StringRule struct {
	column
	maxLength int
}

// String, en fazla maxLength karakterlik bir metin kuralı oluşturur.
func String(maxLength int) *StringRule {
	return &StringRule{maxLength: maxLength}
}

// NotNull, kolonun NULL kabul etmediğini işaretler.
func (s *StringRule) NotNull() *StringRule {
	s.notNull = true
	return s
}

// Check, değerin metin olduğunu ve uzunluk sınırını aşmadığını denetler.
// []byte ve fmt.Stringer değerleri de metin sayılır.
func (s *StringRule) Check(field string, value any, result *validation.Result) {
	if !s.present(field, value, result) {
		return
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	case fmt.Stringer:
		str = v.String()
	default:
		result.AddError(field, fmt.Sprintf("%s kolonu metin olmalıdır, %T verildi", field, value))
		return
	}

	if s.maxLength > 0 && utf8.RuneCountInString(str) > s.maxLength {
		result.AddError(field, fmt.Sprintf("%s kolonu en fazla %d karakter olabilir", field, s.maxLength))
	}
}
