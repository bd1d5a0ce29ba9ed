//go:build unit
// +build unit

package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
)

const testSecret = "test-signing-secret-with-enough-bytes"

func signHS256(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func validClaims() *Claims {
	return &Claims{
		SessionID: "sess_123",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_123",
			Issuer:    "https://clerk.zignal.test",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newHS256Verifier(t *testing.T, issuer string) auth.TokenVerifier {
	t.Helper()
	v, err := NewJWTVerifier(&config.AuthSettings{JWTSecret: testSecret, Issuer: issuer, LeewaySeconds: 5})
	require.NoError(t, err)
	return v
}

func TestJWTVerifier_HS256(t *testing.T) {
	v := newHS256Verifier(t, "https://clerk.zignal.test")

	claims := validClaims()
	claims.Metadata.Role = "admin"
	principal, err := v.Verify(context.Background(), signHS256(t, claims))
	require.NoError(t, err)

	assert.Equal(t, "user_123", principal.UserID)
	assert.Equal(t, "sess_123", principal.SessionID)
	assert.True(t, principal.IsAdmin())
	assert.Contains(t, principal.Permissions, auth.PermissionUser)
}

func TestJWTVerifier_PermissionsClaim(t *testing.T) {
	v := newHS256Verifier(t, "")

	claims := validClaims()
	claims.Permissions = []string{"admin", "user", "admin"}
	principal, err := v.Verify(context.Background(), signHS256(t, claims))
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "admin"}, principal.Permissions)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := newHS256Verifier(t, "https://clerk.zignal.test")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.test"

	noSubject := validClaims()
	noSubject.Subject = ""

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("other-secret-other-secret-other"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"expired", signHS256(t, expired)},
		{"wrong issuer", signHS256(t, wrongIssuer)},
		{"no subject", signHS256(t, noSubject)},
		{"no expiry", signHS256(t, noExpiry)},
		{"wrong key", wrongKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
		})
	}
}

func TestJWTVerifier_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	v, err := NewJWTVerifier(&config.AuthSettings{JWTPublicKey: string(pemKey)})
	require.NoError(t, err)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims()).SignedString(key)
	require.NoError(t, err)

	principal, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_123", principal.UserID)
	assert.False(t, principal.IsAdmin())

	// HS256 tokens must not be accepted by an RS256 verifier
	_, err = v.Verify(context.Background(), signHS256(t, validClaims()))
	assert.Error(t, err)
}

func TestNewJWTVerifier_InvalidSettings(t *testing.T) {
	_, err := NewJWTVerifier(&config.AuthSettings{})
	assert.Error(t, err)

	_, err = NewJWTVerifier(&config.AuthSettings{JWTPublicKey: "not a pem"})
	assert.Error(t, err)
}
