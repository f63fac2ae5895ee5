package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// ValidateStruct returns one detail per failing field, or nil.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		fieldName := strings.ToLower(field[:1]) + field[1:]

		var message string
		switch fe.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("%s required", fieldName)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", fieldName)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", fieldName, fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", fieldName, fe.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fieldName, fe.Param())
		default:
			message = fmt.Sprintf("%s is invalid", fieldName)
		}

		details = append(details, ErrorDetail{Field: fieldName, Message: message})
	}
	return details
}

// ValidationFailed writes a 400 whose message is the first failing field's message.
func ValidationFailed(w http.ResponseWriter, r *http.Request, details []ErrorDetail) {
	JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", details[0].Message, details)
}
