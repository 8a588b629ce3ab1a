package types

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/biyonik/conduit-go/pkg/validation"
)

// UuidRule, uuid kolonlarının kuralıdır.
type UuidRule struct {
	column
	version int // 0 = tüm UUID formatları, 1-8 = belirli versiyon
}

// Uuid, yeni bir UuidRule oluşturur.
func Uuid() *UuidRule {
	return &UuidRule{}
}

// NotNull, kolonun NULL kabul etmediğini işaretler.
func (u *UuidRule) NotNull() *UuidRule {
	u.notNull = true
	return u
}

// Version, belirli bir UUID versiyonunu zorunlu kılar.
func (u *UuidRule) Version(v int) *UuidRule {
	if v >= 0 && v <= 8 {
		u.version = v
	}
	return u
}

// Check, değerin uuid.UUID veya uuid.Parse ile çözülebilen bir string
// olduğunu denetler.
func (u *UuidRule) Check(field string, value any, result *validation.Result) {
	if !u.present(field, value, result) {
		return
	}

	var id uuid.UUID
	switch v := value.(type) {
	case uuid.UUID:
		id = v
	case string:
		parsed, err := uuid.Parse(v)
		if err != nil {
			result.AddError(field, fmt.Sprintf("%s kolonu geçerli bir UUID olmalıdır", field))
			return
		}
		id = parsed
	default:
		result.AddError(field, fmt.Sprintf("%s kolonu UUID olmalıdır, %T verildi", field, value))
		return
	}

	if u.version > 0 && int(id.Version()) != u.version {
		result.AddError(field, fmt.Sprintf("%s kolonu v%d UUID olmalıdır, v%d verildi", field, u.version, id.Version()))
	}
}
