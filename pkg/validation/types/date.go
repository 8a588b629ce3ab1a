package types

import (
	"fmt"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/validation"
)

// DateTimeRule, datetime kolonlarının kuralıdır. Kabul edilen değerler
// database.ParseTime ile aynıdır; doğrulamadan geçen her değer
// yazılırken de çözülebilir.
type DateTimeRule struct {
	column
}

// DateTime, yeni bir DateTimeRule oluşturur.
func DateTime() *DateTimeRule {
	return &DateTimeRule{}
}

// NotNull, kolonun NULL kabul etmediğini işaretler.
func (d *DateTimeRule) NotNull() *DateTimeRule {
	d.notNull = true
	return d
}

func (d *DateTimeRule) Check(field string, value any, result *validation.Result) {
	if !d.present(field, value, result) {
		return
	}
	if _, err := database.ParseTime(value); err != nil {
		result.AddError(field, fmt.Sprintf("%s kolonu geçerli bir tarih olmalıdır: %v", field, err))
	}
}
