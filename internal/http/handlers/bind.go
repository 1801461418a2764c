package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gfranca/userhub/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON binds and validates the request body. On failure it emits the
// validation envelope (message + per-field messages keyed by json name) and
// reports false so the handler can bail out.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondError(ctx, apperr.Validation("Invalid data", fieldMessages(err, out)))

		return false
	}

	return true
}

func fieldMessages(err error, out interface{}) map[string]string {
	rootType := baseStructType(out)

	// validator errors (struct binding tags)
	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validatorErrs) {
		fields := make(map[string]string, len(validatorErrs))

		for _, fe := range validatorErrs {
			name := jsonFieldName(rootType, fe.StructField())
			fields[name] = validationMessage(fe.Tag(), fe.Param())
		}

		return fields
	}

	// type mismatch on a known field
	var typeErr *json.UnmarshalTypeError

	if errors.As(err, &typeErr) {
		name := typeErr.Field
		if name == "" {
			name = "body"
		}

		return map[string]string{
			name: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}
	}

	// bad json, empty body, anything else
	return map[string]string{"body": "must be valid JSON"}
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func jsonFieldName(rootType reflect.Type, structField string) string {
	if rootType == nil {
		return structField
	}

	sf, ok := rootType.FieldByName(structField)
	if !ok {
		return structField
	}

	tag := sf.Tag.Get("json")
	if tag == "" {
		return structField
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return structField
	}

	return name
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "must be at most " + param + " characters"
	case "uuid":
		return "must be a valid UUID"
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
