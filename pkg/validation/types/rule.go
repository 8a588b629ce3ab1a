// Package types, kolon tiplerine karşılık gelen doğrulama kurallarını içerir.
// Her kural NULL kontrolünü ortak column yapısından alır; tipe özgü kontrol
// yalnızca değer NULL değilse çalışır.
package types

import (
	"fmt"

	"github.com/biyonik/conduit-go/pkg/validation"
)

// @author    Ahmet Altun
// @email     ahmet.altun60@gmail.com
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik

// column, tüm kuralların gömdüğü NOT NULL bilgisidir.
type column struct {
	notNull bool
}

// present, NULL değeri NOT NULL kolonlar için hata olarak işler.
// Tipe özgü kontrolün çalışması gerekiyorsa true döner.
func (c *column) present(field string, value any, result *validation.Result) bool {
	if value != nil {
		return true
	}
	if c.notNull {
		result.AddError(field, fmt.Sprintf("%s kolonu NULL olamaz", field))
	}
	return false
}
