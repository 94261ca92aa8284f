package handler

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// decodePayload unmarshals body into T and validates its struct tags.
func decodePayload[T any](body string) (*T, error) {
	var payload T
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, &BadRequestError{Reason: "invalid JSON body: " + err.Error()}
	}

	if err := validate.Struct(payload); err != nil {
		return nil, &BadRequestError{
			Reason: "payload validation failed",
			Fields: formatValidationErrors(err),
		}
	}
	return &payload, nil
}

func formatValidationErrors(err error) map[string]any {
	fields := map[string]any{}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		fields["payload"] = err.Error()
		return fields
	}
	for _, e := range vErrs {
		fields[e.Field()] = "failed " + e.Tag()
	}
	return fields
}
