package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"community-sport/backend/internal/apperr"

	"github.com/go-playground/validator/v10"
)

// Validator runs struct-tag validation and turns the first failure into an
// apperr validation error whose message names the offending JSON field.
type Validator struct {
	validate  *validator.Validate
	overrides map[string]string
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v, overrides: map[string]string{}}
}

// Override replaces the message produced when field fails tag.
func (v *Validator) Override(field, tag, message string) *Validator {
	v.overrides[field+"."+tag] = message
	return v
}

func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("Invalid request: %v", err)
	}
	return apperr.Validation("%s", v.translate(verrs[0]))
}

func (v *Validator) translate(fe validator.FieldError) string {
	field := fe.Field()
	if msg, ok := v.overrides[field+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Missing required field: %s", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
