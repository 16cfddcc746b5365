package validator

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"clinic-records/pkg/nullable"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

type CustomValidator struct {
	validator *validator.Validate
	now       func() time.Time
}

func NewValidator() *CustomValidator {
	cv := &CustomValidator{
		validator: validator.New(),
		now:       time.Now,
	}

	// Report fields by their JSON names.
	cv.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	cv.validator.RegisterCustomTypeFunc(nullableValue, nullable.Float{}, nullable.Int{})

	cv.validator.RegisterValidation("required_if_oneof", requiredIfOneOf)
	cv.validator.RegisterValidation("not_past_date", cv.notPastDate)
	cv.validator.RegisterValidation("max_bytes", maxBytes)

	return cv
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "required_if_oneof":
				errors[field] = field + " is required for " + strings.Join(strings.Fields(e.Param())[1:], "/")
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "max_bytes":
				errors[field] = field + " must be at most " + e.Param() + " bytes"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "datetime":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "not_past_date":
				errors[field] = field + " cannot be in the past"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func nullableValue(field reflect.Value) interface{} {
	switch v := field.Interface().(type) {
	case nullable.Float:
		if v.Valid {
			return v.Value
		}
	case nullable.Int:
		if v.Valid {
			return v.Value
		}
	}
	return nil
}

// requiredIfOneOf implements `required_if_oneof=Field v1 v2 ...`: the field must be
// non-empty when the sibling Field holds one of the listed values.
func requiredIfOneOf(fl validator.FieldLevel) bool {
	params := strings.Fields(fl.Param())
	if len(params) < 2 {
		return true
	}

	sibling := fl.Parent()
	if sibling.Kind() == reflect.Ptr {
		sibling = sibling.Elem()
	}
	other := sibling.FieldByName(params[0])
	if !other.IsValid() || other.Kind() != reflect.String {
		return true
	}

	for _, value := range params[1:] {
		if other.String() == value {
			return strings.TrimSpace(fl.Field().String()) != ""
		}
	}
	return true
}

// maxBytes bounds the UTF-8 length of a string. bcrypt rejects passwords over 72 bytes
// regardless of how many characters they hold.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// notPastDate accepts an empty value or a YYYY-MM-DD date on or after today.
func (cv *CustomValidator) notPastDate(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return true
	}
	date, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		return false
	}
	now := cv.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !date.Before(today)
}
