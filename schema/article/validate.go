package article

import (
	"fmt"

	"github.com/gbv/jconv/dateutil"
	"github.com/gbv/jconv/langcode"
	"github.com/go-playground/validator/v10"
)

// Validator checks a record against the article schema.
type Validator interface {
	Validate(r *Record) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(r *Record) error

func (f ValidatorFunc) Validate(r *Record) error { return f(r) }

// SchemaValidator validates records with struct tags.
type SchemaValidator struct {
	v *validator.Validate
}

// NewValidator returns a validator with the custom partialdate and langcode
// rules registered.
func NewValidator() *SchemaValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("validate")
	if err := v.RegisterValidation("partialdate", validPartialDate); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("langcode", validLangCode); err != nil {
		panic(err)
	}
	return &SchemaValidator{v: v}
}

// Validate returns a validator.ValidationErrors value wrapped with the
// record title, or nil.
func (s *SchemaValidator) Validate(r *Record) error {
	if r == nil {
		return fmt.Errorf("nil record")
	}
	if err := s.v.Struct(r); err != nil {
		return fmt.Errorf("schema violation (%q): %w", r.Title, err)
	}
	return nil
}

func validPartialDate(fl validator.FieldLevel) bool {
	_, err := dateutil.ParsePartial(fl.Field().String())
	return err == nil
}

func validLangCode(fl validator.FieldLevel) bool {
	return langcode.Valid(fl.Field().String())
}
