// Package validation, bir entity'nin kolon değerlerini kaydedilmeden önce
// denetler. Her kolon için bir Rule tanımlanır; Schema kuralları alan adına
// göre sıralı çalıştırır ve hataları kolon bazlı bir Result içinde toplar.
//
// ORM katmanı her entity için kolon tanımlarından bir Schema üretir
// (bkz. validation/types.ForColumns) ve Save öncesinde çalıştırır. Hata
// varsa hiçbir statement çalıştırılmaz.
package validation

import "sort"

// @author    Ahmet Altun
// @email     ahmet.altun60@gmail.com
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik

// Result, bir doğrulama turunun kolon bazlı hatalarını tutar.
type Result struct {
	errors map[string][]string
}

// NewResult, boş bir Result oluşturur.
func NewResult() *Result {
	return &Result{errors: make(map[string][]string)}
}

// AddError, kolon için bir hata mesajı ekler.
func (r *Result) AddError(field, message string) {
	r.errors[field] = append(r.errors[field], message)
}

// HasErrors, herhangi bir kolonda hata olup olmadığını döndürür.
func (r *Result) HasErrors() bool {
	return len(r.errors) > 0
}

// HasFieldErrors, yalnızca verilen kolon için hata olup olmadığını döndürür.
// Kurallar NULL kontrolünden sonra bununla erken döner.
func (r *Result) HasFieldErrors(field string) bool {
	return len(r.errors[field]) > 0
}

// Errors, kolon → mesajlar eşlemesini döndürür.
func (r *Result) Errors() map[string][]string {
	return r.errors
}

// FieldErrors, hataları kolon adına göre sıralı FieldError listesi olarak döndürür.
func (r *Result) FieldErrors() []*FieldError {
	fields := make([]string, 0, len(r.errors))
	for field := range r.errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]*FieldError, 0, len(fields))
	for _, field := range fields {
		for _, msg := range r.errors[field] {
			out = append(out, &FieldError{Field: field, Message: msg})
		}
	}
	return out
}

// Rule, tek bir kolonun değerini denetler. Hatalar result'a eklenir.
type Rule interface {
	Check(field string, value any, result *Result)
}

// RuleFunc, bir fonksiyonu Rule olarak kullanmayı sağlar.
type RuleFunc func(field string, value any, result *Result)

// Check, Rule arayüzünü karşılar.
func (f RuleFunc) Check(field string, value any, result *Result) {
	f(field, value, result)
}
