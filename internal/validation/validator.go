// Package validation turns struct-tag validation failures into field-level
// API errors shared by the console login form and the mock API.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"clinic-admin/pkg/apierror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	return v
}

// Struct returns nil when s is valid, otherwise a 400 APIError listing
// every failing field.
func Struct(s any) *apierror.APIError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apierror.New("BAD_REQUEST", "invalid request", err.Error(), http.StatusBadRequest)
	}

	fields := make([]apierror.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, apierror.FieldError{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: message(fe),
		})
	}
	return apierror.Validation(fields...)
}

func message(fe validator.FieldError) string {
	label := strings.ToUpper(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}
