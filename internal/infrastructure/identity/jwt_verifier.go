package identity

import (
	"context"
	"crypto/rsa"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
)

// Claims are the session token claims the API relies on
type Claims struct {
	SessionID   string        `json:"sid"`
	Permissions []string      `json:"permissions,omitempty"`
	Metadata    TokenMetadata `json:"metadata,omitempty"`
	jwt.RegisteredClaims
}

// TokenMetadata is the custom metadata block templated into session tokens
type TokenMetadata struct {
	Role string `json:"role,omitempty"`
}

type jwtVerifier struct {
	parser    *jwt.Parser
	publicKey *rsa.PublicKey
	secret    []byte
}

// NewJWTVerifier creates a TokenVerifier for RS256 (public key) or HS256 (shared secret) tokens
func NewJWTVerifier(settings *config.AuthSettings) (auth.TokenVerifier, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	v := &jwtVerifier{}
	pemBytes, err := settings.PublicKeyPEM()
	if err != nil {
		return nil, err
	}

	var method string
	if len(pemBytes) > 0 {
		v.publicKey, err = jwt.ParseRSAPublicKeyFromPEM(pemBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse jwt public key: %w", err)
		}
		method = jwt.SigningMethodRS256.Alg()
	} else {
		v.secret = []byte(settings.JWTSecret)
		method = jwt.SigningMethodHS256.Alg()
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method}),
		jwt.WithLeeway(time.Duration(settings.LeewaySeconds) * time.Second),
		jwt.WithExpirationRequired(),
	}
	if settings.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(settings.Issuer))
	}
	v.parser = jwt.NewParser(opts...)

	return v, nil
}

func (v *jwtVerifier) keyFunc(_ *jwt.Token) (interface{}, error) {
	if v.publicKey != nil {
		return v.publicKey, nil
	}
	return v.secret, nil
}

// Verify parses token and maps its claims onto a Principal
func (v *jwtVerifier) Verify(_ context.Context, token string) (*auth.Principal, error) {
	if token == "" {
		return nil, apperr.Unauthorized("Unauthorized")
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, v.keyFunc)
	if err != nil || !parsed.Valid {
		return nil, apperr.Unauthorized("Invalid or expired session token")
	}
	if claims.Subject == "" {
		return nil, apperr.Unauthorized("Session token has no subject")
	}

	return &auth.Principal{
		UserID:      claims.Subject,
		SessionID:   claims.SessionID,
		Permissions: permissionsFrom(claims),
	}, nil
}

func permissionsFrom(claims *Claims) []string {
	perms := []string{auth.PermissionUser}
	for _, p := range claims.Permissions {
		if p != "" && !slices.Contains(perms, p) {
			perms = append(perms, p)
		}
	}
	if claims.Metadata.Role == auth.PermissionAdmin && !slices.Contains(perms, auth.PermissionAdmin) {
		perms = append(perms, auth.PermissionAdmin)
	}
	return perms
}
