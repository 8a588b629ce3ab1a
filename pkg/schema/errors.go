package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRelationship, ilişki adı bir kolonla veya başka bir ilişkiyle çakıştığında döner.
	ErrDuplicateRelationship = errors.New("schema: duplicate relationship")
	// ErrDuplicateEntity, aynı tip ikinci kez kaydedildiğinde döner.
	ErrDuplicateEntity = errors.New("schema: duplicate entity")
	// ErrUnknownEntity, kayıtlı olmayan bir tip istendiğinde döner.
	ErrUnknownEntity = errors.New("schema: unknown entity")
	// ErrUnknownRelationship, tipte tanımlı olmayan bir ilişki istendiğinde döner.
	ErrUnknownRelationship = errors.New("schema: unknown relationship")
	// ErrInvalidSchema, kolon tanımları geçersiz olduğunda döner.
	ErrInvalidSchema = errors.New("schema: invalid schema")
	// ErrInvalidRelationship, join tanımı geçersiz olduğunda döner.
	ErrInvalidRelationship = errors.New("schema: invalid relationship")
)

// DuplicateRelationshipError, çakışan ilişki adını taşır.
type DuplicateRelationshipError struct {
	Entity string
	Name   string
	// Column, çakışmanın bir kolonla olduğunu belirtir.
	Column bool
}

func (e *DuplicateRelationshipError) Error() string {
	if e.Column {
		return fmt.Sprintf("schema: relationship %s.%s collides with a column", e.Entity, e.Name)
	}
	return fmt.Sprintf("schema: relationship %s.%s is already defined", e.Entity, e.Name)
}

func (e *DuplicateRelationshipError) Is(target error) bool {
	return target == ErrDuplicateRelationship
}

// DuplicateEntityError, ikinci kez kaydedilen tipi taşır.
type DuplicateEntityError struct {
	Entity string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("schema: entity %s is already defined", e.Entity)
}

func (e *DuplicateEntityError) Is(target error) bool {
	return target == ErrDuplicateEntity
}

// UnknownEntityError, bulunamayan tipi taşır.
type UnknownEntityError struct {
	Entity string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("schema: entity %s is not defined", e.Entity)
}

func (e *UnknownEntityError) Is(target error) bool {
	return target == ErrUnknownEntity
}

// IsDuplicateRelationship, hata zincirinde ilişki çakışması olup olmadığını döndürür.
func IsDuplicateRelationship(err error) bool {
	return errors.Is(err, ErrDuplicateRelationship)
}
