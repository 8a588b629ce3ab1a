package database

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Database Errors
// -----------------------------------------------------------------------------
// Sürücü hataları iki sınıfa ayrılır: veri kısıtı ihlali
// (ConstraintViolationError) ve diğer tüm backend hataları (BackendError).
// Her iki tip de orijinal sürücü hatasını Unwrap ile taşır.
// Hiçbir hata otomatik olarak tekrar denenmez.
// -----------------------------------------------------------------------------

var (
	// ErrBackend, veritabanının sorguyu reddettiği veya bağlantının koptuğu durumlar.
	ErrBackend = errors.New("database: backend error")

	// ErrConstraintViolation, unique / not null / foreign key / check ihlalleri.
	ErrConstraintViolation = errors.New("database: constraint violation")

	// ErrDuplicateAlias, aynı alias ile ikinci bir bağlantı kaydedildiğinde döner.
	ErrDuplicateAlias = errors.New("database: duplicate alias")

	// ErrUnknownAlias, kayıtlı olmayan bir alias istendiğinde döner.
	ErrUnknownAlias = errors.New("database: unknown alias")

	// ErrUnsupportedDriver, tanınmayan sürücü adı.
	ErrUnsupportedDriver = errors.New("database: unsupported driver")

	// ErrTxDone, kapanmış transaction üzerinde işlem yapıldığında döner.
	ErrTxDone = errors.New("database: transaction already committed or rolled back")
)

// BackendError, sınıflandırılamayan sürücü hatasını sarar.
type BackendError struct {
	Dialect   string
	Statement string
	Err       error
}

func (e *BackendError) Error() string {
	if e.Statement == "" {
		return fmt.Sprintf("database: %s backend error: %v", e.Dialect, e.Err)
	}
	return fmt.Sprintf("database: %s backend error: %v (statement: %s)", e.Dialect, e.Err, e.Statement)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is, errors.Is(err, ErrBackend) desteği.
func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// ConstraintViolationError, veritabanının bir kısıt nedeniyle yazmayı reddettiğini bildirir.
//
// Alanlar:
//   - Kind: "unique_violation", "not_null_violation", "foreign_key_violation", ...
//   - Constraint: lehçe bildiriyorsa kısıtın adı
type ConstraintViolationError struct {
	Dialect    string
	Kind       string
	Constraint string
	Statement  string
	Err        error
}

func (e *ConstraintViolationError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("database: %s constraint %q violated: %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("database: %s: %v", e.Kind, e.Err)
}

func (e *ConstraintViolationError) Unwrap() error { return e.Err }

// Is, errors.Is(err, ErrConstraintViolation) desteği.
func (e *ConstraintViolationError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// IsConstraintViolation, hata zincirinde kısıt ihlali olup olmadığını döndürür.
func IsConstraintViolation(err error) bool {
	return errors.Is(err, ErrConstraintViolation)
}

// IsBackendError, hata zincirinde BackendError olup olmadığını döndürür.
func IsBackendError(err error) bool {
	return errors.Is(err, ErrBackend)
}
