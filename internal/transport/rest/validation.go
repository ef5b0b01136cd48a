package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"lamf-backend/internal/domain"
)

var validate = validator.New()

// decodeJSON decodes the request body into dst and runs the struct tags
// through the validator. Failures come back as domain validation errors so
// WriteError classifies them as 400s.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON payload")
	}

	if err := validate.Struct(dst); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return domain.NewValidationError("body", "invalid request data")
		}
		parts := make([]string, 0, len(errs))
		for _, fe := range errs {
			parts = append(parts, fmt.Sprintf("%s: %s", fieldName(fe), getErrorMsg(fe)))
		}
		return domain.NewValidationError("body", strings.Join(parts, "; "))
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	// json-style casing reads better in error messages than Go field names
	name := fe.Field()
	return strings.ToLower(name[:1]) + name[1:]
}

func getErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return "too few elements"
	case "gt":
		return "value must be greater than " + fe.Param()
	case "gte":
		return "value must be greater than or equal to " + fe.Param()
	default:
		return "invalid value"
	}
}

func urlUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(param, "must be a valid UUID")
	}
	return id, nil
}
