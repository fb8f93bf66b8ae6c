package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storefront-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that reports fields by their JSON names and
// understands the `notblank` tag.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	return validate
}

// fieldLabel turns a JSON field name into the label used in messages ("unit_price" -> "Unit price").
func fieldLabel(field string) string {
	label := strings.TrimSuffix(field, "_id")
	label = strings.ReplaceAll(label, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// structMessages runs struct validation and renders each failure as a message,
// keyed by JSON field name.
func structMessages(validate *validator.Validate, req interface{}) (map[string]string, error) {
	messages := make(map[string]string)
	err := validate.Struct(req)
	if err == nil {
		return messages, nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, fmt.Errorf("invalid validation error type: %w", err)
	}
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		label := fieldLabel(field)
		switch {
		case strings.HasSuffix(field, "_id"):
			messages[field] = label + " must exist"
		case fieldError.Tag() == "required" || fieldError.Tag() == "notblank":
			messages[field] = label + " can't be blank"
		default:
			messages[field] = fmt.Sprintf("%s failed on the '%s' rule", label, fieldError.Tag())
		}
	}
	return messages, nil
}

// numericMessages validates a NumericInput. A required field that is blank
// reports both the presence and the numericality failure.
func numericMessages(field string, in dto.NumericInput, required bool) (*decimal.Decimal, []string) {
	label := fieldLabel(field)
	if in.Blank() {
		if required {
			return nil, []string{label + " can't be blank", label + " is not a number"}
		}
		return nil, nil
	}
	value, err := in.Decimal()
	if err != nil {
		return nil, []string{label + " is not a number"}
	}
	return &value, nil
}

// collect orders messages by the given field order.
func collect(messages map[string]string, order ...string) []string {
	var out []string
	for _, field := range order {
		if msg, ok := messages[field]; ok {
			out = append(out, msg)
		}
	}
	return out
}
