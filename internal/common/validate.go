package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeAndValidate decodes the request body into dst and runs struct
// validation on it. Both failure modes surface as AppError so handlers can
// forward them to WriteError unchanged.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NewAppError("BAD_REQUEST", "invalid request payload", http.StatusBadRequest, err)
	}
	return Validate(dst)
}

// Validate runs struct validation and converts violations into an AppError
// with per-field details.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return &AppError{
			Code:       "VALIDATION_ERROR",
			Message:    "request validation failed",
			HTTPStatus: http.StatusBadRequest,
			Details:    details,
		}
	}
	return NewAppError("VALIDATION_ERROR", "request validation failed", http.StatusBadRequest, err)
}
