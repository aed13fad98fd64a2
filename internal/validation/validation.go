// Package validation collects field-level request validation errors so that
// handlers can answer with the full list instead of the first failure.
package validation

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors across a request body.
type Validator struct {
	errors []FieldError
}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) add(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// MinLen requires the trimmed value to be at least n characters.
func (v *Validator) MinLen(field, value string, n int, message string) {
	if len(strings.TrimSpace(value)) < n {
		v.add(field, message)
	}
}

// Email requires a syntactically plausible email address.
func (v *Validator) Email(field, value, message string) {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		v.add(field, message)
	}
}

// MinFloat requires value >= min.
func (v *Validator) MinFloat(field string, value, min float64, message string) {
	if value < min {
		v.add(field, message)
	}
}

// MinInt requires value >= min.
func (v *Validator) MinInt(field string, value, min int, message string) {
	if value < min {
		v.add(field, message)
	}
}

// OneOf requires the value to be one of the allowed strings.
func (v *Validator) OneOf(field, value string, allowed []string, message string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.add(field, message)
}

// Valid reports whether no errors were recorded.
func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

// Errors returns the recorded field errors in insertion order.
func (v *Validator) Errors() []FieldError {
	return v.errors
}
