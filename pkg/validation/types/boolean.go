package types

import (
	"fmt"

	"github.com/biyonik/conduit-go/pkg/validation"
)

// BooleanRule, boolean kolonlarının kuralıdır. SQLite ve MySQL boolean'ları
// tamsayı olarak sakladığı için 0 ve 1 de kabul edilir.
type BooleanRule struct {
	column
}

// Boolean, yeni bir BooleanRule oluşturur.
func Boolean() *BooleanRule {
	return &BooleanRule{}
}

// NotNull, kolonun NULL kabul etmediğini işaretler.
func (b *BooleanRule) NotNull() *BooleanRule {
	b.notNull = true
	return b
}

func (b *BooleanRule) Check(field string, value any, result *validation.Result) {
	if !b.present(field, value, result) {
		return
	}
	if _, ok := value.(bool); ok {
		return
	}
	if n, ok := asFloat(value); ok && (n == 0 || n == 1) {
		return
	}
	result.AddError(field, fmt.Sprintf("%s kolonu boolean olmalıdır, %v verildi", field, value))
}
