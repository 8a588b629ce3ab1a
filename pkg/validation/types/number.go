package types

import (
	"fmt"
	"math"

	"github.com/biyonik/conduit-go/pkg/validation"
)

// NumberRule, int / currency / serial / float kolonlarının kuralıdır.
type NumberRule struct {
	column
	integer bool
}

// Integer, int64 aralığında bir tamsayı kuralı oluşturur.
func Integer() *NumberRule {
	return &NumberRule{integer: true}
}

// Float, herhangi bir sayısal değeri kabul eden kuralı oluşturur.
func Float() *NumberRule {
	return &NumberRule{}
}

// NotNull, kolonun NULL kabul etmediğini işaretler.
func (n *NumberRule) NotNull() *NumberRule {
	n.notNull = true
	return n
}

// Check, değerin Go sayısal tiplerinden biri olduğunu; tamsayı kolonlarda
// ayrıca kesirsiz ve int64 aralığında olduğunu denetler.
func (n *NumberRule) Check(field string, value any, result *validation.Result) {
	if !n.present(field, value, result) {
		return
	}

	num, ok := asFloat(value)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s kolonu sayısal olmalıdır, %T verildi", field, value))
		return
	}
	if !n.integer {
		return
	}
	if u, isUint := unsigned(value); isUint && u > math.MaxInt64 {
		result.AddError(field, fmt.Sprintf("%s kolonu int64 aralığını aşıyor", field))
		return
	}
	if num != math.Trunc(num) {
		result.AddError(field, fmt.Sprintf("%s kolonu tamsayı olmalıdır", field))
	}
}

func unsigned(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint:
		return uint64(v), true
	case uint64:
		return v, true
	}
	return 0, false
}

// asFloat, Go'nun tüm sayısal tiplerini float64'e çevirir.
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
