package validation

import "fmt"

// FieldError, tek bir kolona ait doğrulama hatasıdır.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// NewFieldError, CrossValidate kontrollerinden dönmek için bir kolon hatası
// oluşturur; hata Result içinde field altına yazılır.
//
// Örnek:
//
//	schema.CrossValidate(func(data map[string]any) error {
//	    if data["from_parent_id"] == data["to_parent_id"] {
//	        return validation.NewFieldError("to_parent_id", "kendisiyle arkadaş olamaz")
//	    }
//	    return nil
//	})
func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// FieldErrorf, mesajı biçimlendirerek NewFieldError çağırır.
func FieldErrorf(field, format string, args ...any) error {
	return NewFieldError(field, fmt.Sprintf(format, args...))
}
