package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AnyOrigin allows every origin. Credentialed requests are then disabled,
// since browsers reject a wildcard origin on responses carrying cookies.
const AnyOrigin = "*"

// CORSSettings lists the browser origins allowed to call the API with the session cookie
type CORSSettings struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1,dive,required"`
}

// Validate checks that origins are either the single wildcard or http(s) URLs
func (s *CORSSettings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("validation failed for CORSSettings: %w", err)
	}
	if s.AllowsAnyOrigin() {
		if len(s.AllowedOrigins) != 1 {
			return fmt.Errorf("cors origin %q cannot be combined with other origins", AnyOrigin)
		}
		return nil
	}
	for _, origin := range s.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors origin %q must start with http:// or https://", origin)
		}
	}
	return nil
}

// AllowsAnyOrigin reports whether the wildcard origin is configured
func (s *CORSSettings) AllowsAnyOrigin() bool {
	return slices.Contains(s.AllowedOrigins, AnyOrigin)
}
