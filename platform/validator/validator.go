// Package validator wraps go-playground struct-tag validation behind a
// small injectable type so handlers share one configured instance.
package validator

import "github.com/go-playground/validator/v10"

// Validator checks request payloads against their `validate` struct tags.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator ready for use.
func New() *Validator {
	return &Validator{
		v: validator.New(),
	}
}

// Struct validates s against its validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}
