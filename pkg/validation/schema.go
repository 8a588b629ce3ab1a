package validation

import (
	"errors"
	"sort"
)

// crossValidationField, belirli bir kolona ait olmayan hataların anahtarıdır.
const crossValidationField = "_cross_validation"

// Schema, kolon kurallarını ve satır düzeyindeki ek kontrolleri birleştirir.
//
// Örnek:
//
//	s := validation.NewSchema(map[string]validation.Rule{
//	    "name": types.String(40).NotNull(),
//	    "age":  types.Integer(),
//	})
//	result := s.Validate(map[string]any{"name": "Ada", "age": 36})
type Schema struct {
	rules  map[string]Rule
	fields []string
	checks []func(data map[string]any) error
}

// NewSchema, kolon adı → kural eşlemesinden bir Schema oluşturur.
func NewSchema(rules map[string]Rule) *Schema {
	s := &Schema{rules: make(map[string]Rule, len(rules))}
	for field, rule := range rules {
		s.rules[field] = rule
		s.fields = append(s.fields, field)
	}
	sort.Strings(s.fields)
	return s
}

// CrossValidate, kolon kuralları geçtikten sonra çalışacak bir satır
// kontrolü ekler. *FieldError dönen kontrollerin hatası ilgili kolona,
// diğerleri "_cross_validation" anahtarına yazılır.
func (s *Schema) CrossValidate(fn func(data map[string]any) error) *Schema {
	s.checks = append(s.checks, fn)
	return s
}

// Validate, kuralları kolon adına göre sıralı çalıştırır; aynı veri her
// zaman aynı hata sırasını üretir. Şemada olmayan anahtarlar yok sayılır.
func (s *Schema) Validate(data map[string]any) *Result {
	result := NewResult()
	for _, field := range s.fields {
		s.rules[field].Check(field, data[field], result)
	}
	if result.HasErrors() {
		return result
	}

	for _, fn := range s.checks {
		err := fn(data)
		if err == nil {
			continue
		}
		var fe *FieldError
		if errors.As(err, &fe) {
			result.AddError(fe.Field, fe.Message)
			continue
		}
		result.AddError(crossValidationField, err.Error())
	}
	return result
}
