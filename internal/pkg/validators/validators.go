// Package validators holds the custom validator tags shared by domain entities
// and request DTOs, plus the error formatting used across the service.
package validators

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

var (
	instance *validator.Validate
	once     sync.Once
)

// CurrencyValidation accepts ISO 4217 style codes such as USD or EUR.
func CurrencyValidation(fl validator.FieldLevel) bool {
	return currencyPattern.MatchString(fl.Field().String())
}

// NoBlankValidation rejects strings that contain only whitespace.
func NoBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Get returns the process-wide validator with the custom tags registered.
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("currency", CurrencyValidation)
		_ = v.RegisterValidation("notblank", NoBlankValidation)
		instance = v
	})
	return instance
}

// Struct validates s and flattens field errors into a single message.
func Struct(s interface{}) error {
	return Format(Get().Struct(s))
}

// Format converts validator errors into an apperr.ErrValidation carrying
// "Field: X, Tag: Y" messages.
func Format(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return &apperr.Error{Kind: apperr.ErrValidation, Message: fmt.Sprintf("validation failed: %v", messages)}
	}
	return fmt.Errorf("validation error: %w", err)
}
