package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"optistore/internal/apperr"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

// GSTINPattern: 2 digits, 5 letters, 4 digits, 1 letter, 1 entity code, "Z", 1 check character.
var GSTINPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)

var validate = validator.New()

func init() {
	// Report json names so callers can map errors back onto form fields
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	validate.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return ValidGSTIN(fl.Field().String())
	})

	// Let numeric tags (gte, lte, ...) work on money fields
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		var verrs validator.ValidationErrors
		if !asValidationErrors(err, &verrs) {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range verrs {
			var element ErrorResponse
			element.FailedField = err.Field()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Check validates data and returns an *apperr.ValidationError listing every
// failed field, or nil.
func Check(data interface{}) error {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	fields := make([]apperr.FieldError, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, apperr.FieldError{
			Field:   e.FailedField,
			Tag:     e.Tag,
			Message: describe(e),
		})
	}
	return &apperr.ValidationError{Fields: fields}
}

// ValidGSTIN reports whether s is a well-formed GSTIN.
func ValidGSTIN(s string) bool {
	return GSTINPattern.MatchString(s)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	return errors.As(err, target)
}

func describe(e *ErrorResponse) string {
	switch e.Tag {
	case "required", "uuid_required":
		return "is required"
	case "gstin":
		return "enter a valid GSTIN (e.g., 12ABCDE1234F1Z5)"
	case "email":
		return "enter a valid email address"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", e.Value)
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", e.Value)
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Value)
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Value)
	default:
		return fmt.Sprintf("failed on tag '%s'", e.Tag)
	}
}
