package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mealmatch/planner/pkg/errors"
)

// Validator checks request DTOs and reports failures by their JSON field names
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the planner's custom rules
func NewValidator() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("ingredient_name", validateIngredientName)

	return &Validator{validate: validate}
}

// validateIngredientName rejects blank names and control characters
func validateIngredientName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" {
		return false
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

// Struct validates s and converts failures into a VALIDATION_FAILED AppError
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, errors.ValidationError{
			Field:   e.Field(),
			Value:   e.Value(),
			Tag:     e.Tag(),
			Message: validationMessage(e),
		})
	}
	return errors.NewValidationErrors(out)
}

func validationMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, e.Param())
	case "ingredient_name":
		return fmt.Sprintf("%s must be a printable, non-blank ingredient name", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
