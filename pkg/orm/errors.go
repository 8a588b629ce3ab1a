package orm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// ORM Errors
// -----------------------------------------------------------------------------
// UnknownPath ve AmbiguousJoin programcı hatalarıdır; sorgu kurulurken
// tespit edilir ve End çağrısında döner. ValidationFailed hiçbir statement
// çalıştırılmadan döner. Backend hataları database paketinin
// ConstraintViolationError / BackendError tipleriyle olduğu gibi iletilir.
// -----------------------------------------------------------------------------

var (
	// ErrValidationFailed, bir veya daha fazla kolon doğrulamadan geçemediğinde döner.
	ErrValidationFailed = errors.New("orm: validation failed")
	// ErrUnknownPath, tanımsız bir kolon veya ilişki adı kullanıldığında döner.
	ErrUnknownPath = errors.New("orm: unknown path")
	// ErrAmbiguousJoin, bir yol birden fazla ilişkiyle eşleştiğinde döner.
	ErrAmbiguousJoin = errors.New("orm: ambiguous join")
	// ErrNotFound, First boş sonuç aldığında döner.
	ErrNotFound = errors.New("orm: not found")
	// ErrMissingKey, birincil anahtarı olmayan bir model silinmek istendiğinde döner.
	ErrMissingKey = errors.New("orm: missing primary key")
	// ErrInvalidValue, Set'e ilişkinin kabul etmediği bir değer verildiğinde döner.
	ErrInvalidValue = errors.New("orm: invalid value")
)

// ValidationError, doğrulamadan geçemeyen modelin alan bazlı hatalarını taşır.
// Index, toplu kayıtta modelin sırasıdır; tek model kaydında -1'dir.
type ValidationError struct {
	Entity string
	Index  int
	Errors map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Errors[field], ", "))
	}
	if e.Index >= 0 {
		return fmt.Sprintf("orm: %s at index %d failed validation (%s)", e.Entity, e.Index, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("orm: %s failed validation (%s)", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// PathError, çözümlenemeyen bir join / filter / order yolunu taşır.
type PathError struct {
	Entity string
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("orm: unknown path %q on %s: %s", e.Path, e.Entity, e.Reason)
}

func (e *PathError) Is(target error) bool {
	return target == ErrUnknownPath
}

// AmbiguousJoinError, bir yol parçasının eşleştiği ilişkileri listeler.
type AmbiguousJoinError struct {
	Entity     string
	Segment    string
	Candidates []string
}

func (e *AmbiguousJoinError) Error() string {
	return fmt.Sprintf("orm: %q on %s matches relationships %s; join by relationship name",
		e.Segment, e.Entity, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousJoinError) Is(target error) bool {
	return target == ErrAmbiguousJoin
}

// SaveError, toplu işlemde başarısız olan modelin sırasını taşır.
// Alttaki hata (örn. ConstraintViolationError) Unwrap ile erişilebilir.
type SaveError struct {
	Entity string
	Index  int
	Err    error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("orm: saving %s at index %d: %v", e.Entity, e.Index, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// valueError, Set'e verilen ilişki değerinin tipini veya entity'sini anlatır.
type valueError struct {
	entity string
	field  string
	want   string
	got    any
}

func (e *valueError) Error() string {
	return fmt.Sprintf("orm: invalid value for %s.%s: want %s, got %v", e.entity, e.field, e.want, describe(e.got))
}

func (e *valueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%T", v)
}
