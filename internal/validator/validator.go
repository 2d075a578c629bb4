package validator

import (
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest validates a struct against its `validate` tags.
func ValidateRequest(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation)
	}
	return nil
}
