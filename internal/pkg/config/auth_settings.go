package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// DefaultSessionCookieName is the cookie the identity provider stores its session token in
const DefaultSessionCookieName = "__session"

// AuthSettings configures how bearer and cookie session tokens are verified.
//
// Exactly one key source is used: an RS256 public key (inline PEM or file),
// which is how the identity provider's session tokens are verified without a
// network round trip, or an HS256 shared secret for local development.
type AuthSettings struct {
	JWTPublicKey     string `mapstructure:"jwt_public_key"`
	JWTPublicKeyFile string `mapstructure:"jwt_public_key_file"`
	JWTSecret        string `mapstructure:"jwt_secret"`
	Issuer           string `mapstructure:"issuer"`
	CookieName       string `mapstructure:"cookie_name"`
	LeewaySeconds    int    `mapstructure:"leeway_seconds" validate:"gte=0,lte=300"`
	ValidateSessions bool   `mapstructure:"validate_sessions"`
}

// Validate checks that a verification key is configured
func (s *AuthSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AuthSettings: %w", err)
	}

	if s.JWTPublicKey == "" && s.JWTPublicKeyFile == "" && s.JWTSecret == "" {
		return fmt.Errorf("one of jwt_public_key, jwt_public_key_file or jwt_secret is required")
	}

	return nil
}

// PublicKeyPEM returns the configured RS256 public key, reading it from disk when needed.
// An empty result means HS256 verification with JWTSecret.
func (s *AuthSettings) PublicKeyPEM() ([]byte, error) {
	if s.JWTPublicKey != "" {
		return []byte(s.JWTPublicKey), nil
	}
	if s.JWTPublicKeyFile == "" {
		return nil, nil
	}

	pem, err := os.ReadFile(s.JWTPublicKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read jwt public key file: %w", err)
	}
	return pem, nil
}
