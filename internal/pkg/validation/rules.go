package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

// validate is shared; validator caches struct metadata per type
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// notblank rejects empty and whitespace-only strings
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}

	// Report fields by their json names (firstname, title) rather than Go names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// Struct validates s against its `validate` tags. entity prefixes the
// message, e.g. "Teacher firstname cannot be null or empty".
func Struct(entity string, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.NewValidationError(formatFieldError(entity, fieldErrs[0]))
	}
	return apperrors.NewValidationError(fmt.Sprintf("%s is invalid: %v", entity, err))
}

// IsBlank reports whether s is empty after trimming
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func formatFieldError(entity string, e validator.FieldError) string {
	switch e.Tag() {
	case "notblank", "required":
		return fmt.Sprintf("%s %s cannot be null or empty", entity, e.Field())
	case "min":
		return fmt.Sprintf("%s %s must be at least %s", entity, e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s %s must be at most %s", entity, e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s %s validation failed: %s", entity, e.Field(), e.Tag())
	}
}
