//go:build unit
// +build unit

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
port: 9090
logger:
  log_level: debug
  log_type: console
database:
  type: sqlite
  dsn: ":memory:"
auth:
  jwt_secret: dev-secret
  validate_sessions: false
scheduler:
  enabled: true
  interval_seconds: 15
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rest-app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeRestConfig_FromFile(t *testing.T) {
	cfg, err := InitializeRestConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, LogLevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, SqliteDbType, cfg.Database.Type)
	assert.Equal(t, "dev-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Auth.ValidateSessions)
	assert.Equal(t, DefaultSessionCookieName, cfg.Auth.CookieName)
	assert.Equal(t, 15, cfg.Scheduler.IntervalSeconds)
	assert.Equal(t, NotifierTypeNoop, cfg.Notifier.Type)
	assert.Equal(t, 5, cfg.Session.MaxConcurrentSessions)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestInitializeRestConfig_EnvOverride(t *testing.T) {
	t.Setenv("ZIGNAL_PORT", "7070")
	t.Setenv("ZIGNAL_DATABASE_DSN", "file:override.db")

	cfg, err := InitializeRestConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "file:override.db", cfg.Database.DSN)
}

func TestInitializeRestConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("ZIGNAL_DATABASE_TYPE", SqliteDbType)
	t.Setenv("ZIGNAL_DATABASE_DSN", ":memory:")
	t.Setenv("ZIGNAL_AUTH_JWT_SECRET", "env-secret")

	cfg, err := InitializeRestConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestInitializeRestConfig_InvalidConfig(t *testing.T) {
	_, err := InitializeRestConfig(writeConfig(t, `
database:
  type: sqlite
  dsn: ":memory:"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt")
}

func TestAuthSettings_PublicKeyPEM(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "clerk.pem")
	require.NoError(t, os.WriteFile(keyFile, []byte("-----BEGIN PUBLIC KEY-----"), 0600))

	inline := &AuthSettings{JWTPublicKey: "inline"}
	pem, err := inline.PublicKeyPEM()
	require.NoError(t, err)
	assert.Equal(t, "inline", string(pem))

	fromFile := &AuthSettings{JWTPublicKeyFile: keyFile}
	pem, err = fromFile.PublicKeyPEM()
	require.NoError(t, err)
	assert.Contains(t, string(pem), "PUBLIC KEY")

	secretOnly := &AuthSettings{JWTSecret: "s"}
	pem, err = secretOnly.PublicKeyPEM()
	require.NoError(t, err)
	assert.Nil(t, pem)

	missing := &AuthSettings{JWTPublicKeyFile: filepath.Join(t.TempDir(), "nope.pem")}
	_, err = missing.PublicKeyPEM()
	assert.Error(t, err)
}

func TestSchedulerSettingsValidation(t *testing.T) {
	assert.NoError(t, (&SchedulerSettings{Enabled: false}).Validate())
	assert.NoError(t, (&SchedulerSettings{Enabled: true, IntervalSeconds: 30}).Validate())
	assert.Error(t, (&SchedulerSettings{Enabled: true, IntervalSeconds: 1}).Validate())
}

func TestNotifierSettingsValidation(t *testing.T) {
	assert.NoError(t, (&NotifierSettings{Type: NotifierTypeNoop, ChannelPrefix: "notifications"}).Validate())
	assert.Error(t, (&NotifierSettings{Type: NotifierTypeRedis, ChannelPrefix: "notifications"}).Validate())
	assert.NoError(t, (&NotifierSettings{Type: NotifierTypeRedis, RedisAddr: "localhost:6379", ChannelPrefix: "notifications"}).Validate())
}

func TestIdentitySettingsValidation(t *testing.T) {
	assert.NoError(t, (&IdentitySettings{Provider: IdentityProviderNone}).Validate())
	assert.Error(t, (&IdentitySettings{Provider: IdentityProviderClerk}).Validate())
	assert.NoError(t, (&IdentitySettings{Provider: IdentityProviderClerk, SecretKey: "sk_test_123"}).Validate())
}

func TestInitializeRestConfig_CORSOriginsFromEnv(t *testing.T) {
	t.Setenv("ZIGNAL_CORS_ALLOWED_ORIGINS", "https://app.example.com,https://admin.example.com")

	cfg, err := InitializeRestConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.CORS.AllowsAnyOrigin())
}

func TestCORSSettingsValidation(t *testing.T) {
	tests := []struct {
		name      string
		origins   []string
		wantErr   bool
		anyOrigin bool
	}{
		{"explicit origins", []string{"https://app.example.com", "http://localhost:3000"}, false, false},
		{"wildcard alone", []string{"*"}, false, true},
		{"wildcard mixed", []string{"*", "https://app.example.com"}, true, true},
		{"missing scheme", []string{"app.example.com"}, true, false},
		{"empty", nil, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &CORSSettings{AllowedOrigins: tt.origins}
			if tt.wantErr {
				assert.Error(t, s.Validate())
			} else {
				assert.NoError(t, s.Validate())
			}
			assert.Equal(t, tt.anyOrigin, s.AllowsAnyOrigin())
		})
	}
}
