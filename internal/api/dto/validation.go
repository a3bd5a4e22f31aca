package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// report json names in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks request payload tags and returns an INVALID_INPUT error listing each field.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}

	fields := make(map[string]any, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		msg := fieldErrorMessage(fieldError)
		fields[fieldError.Field()] = msg
		messages = append(messages, msg)
	}
	return apperrors.NewInvalidInput(strings.Join(messages, "; "), fields)
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
