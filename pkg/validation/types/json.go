package types

import (
	"encoding/json"
	"fmt"

	"github.com/biyonik/conduit-go/pkg/validation"
)

// JsonRule, json kolonlarına yazılacak değerin kodlanabilir olduğunu denetler.
type JsonRule struct {
	column
}

// Json, yeni bir JsonRule oluşturur.
func Json() *JsonRule {
	return &JsonRule{}
}

// NotNull, kolonun NULL kabul etmediğini işaretler.
func (j *JsonRule) NotNull() *JsonRule {
	j.notNull = true
	return j
}

// Check: json.RawMessage geçerli JSON olmalı, diğer değerler json.Marshal
// ile kodlanabilmelidir.
func (j *JsonRule) Check(field string, value any, result *validation.Result) {
	if !j.present(field, value, result) {
		return
	}

	if raw, ok := value.(json.RawMessage); ok {
		if !json.Valid(raw) {
			result.AddError(field, fmt.Sprintf("%s kolonu geçerli bir JSON olmalıdır", field))
		}
		return
	}
	if _, err := json.Marshal(value); err != nil {
		result.AddError(field, fmt.Sprintf("%s kolonu JSON olarak kodlanamıyor: %v", field, err))
	}
}
