package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

const (
	ErrRequired  = "is required"
	ErrEmail     = "must be a valid email address"
	ErrMinValue  = "must be at least %s"
	ErrMaxValue  = "must be at most %s"
	ErrMinItems  = "must contain at least %s item(s)"
	ErrMaxItems  = "must contain at most %s item(s)"
	ErrSeatLabel = "must be a seat label such as C4 (row letter followed by seat number)"
	ErrNotBlank  = "must not be blank"
	ErrInvalid   = "is invalid"
	ErrOneOf     = "must be one of: %s"
	ErrURL       = "must be a valid URL"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	validator.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	validator.RegisterValidation("seat_label", validateSeatLabel)
	validator.RegisterValidation("notblank", validateNotBlank)

	return validator
}

func validateSeatLabel(fl validator.FieldLevel) bool {
	row, col, err := domain.ParseSeatLabel(domain.NormalizeSeatLabel(fl.Field().String()))
	if err != nil {
		return false
	}

	return row < domain.MaxRows && col <= domain.MaxColumns
}

func validateNotBlank(fl validator.FieldLevel) bool {
	for _, ch := range fl.Field().String() {
		if ch != ' ' && ch != '\t' && ch != '\n' {
			return true
		}
	}

	return false
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "email":
		return ErrEmail
	case "min", "gte":
		if isCollection(err) {
			return fmt.Sprintf(ErrMinItems, err.Param())
		}
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max", "lte":
		if isCollection(err) {
			return fmt.Sprintf(ErrMaxItems, err.Param())
		}
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "seat_label":
		return ErrSeatLabel
	case "notblank":
		return ErrNotBlank
	case "oneof":
		return fmt.Sprintf(ErrOneOf, strings.Join(strings.Fields(err.Param()), ", "))
	case "url":
		return ErrURL
	default:
		return ErrInvalid
	}
}

func isCollection(err validator.FieldError) bool {
	switch err.Kind().String() {
	case "slice", "array", "map":
		return true
	default:
		return false
	}
}
