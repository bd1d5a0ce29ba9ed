//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/testutil"
	"gorm.io/gorm"
)

// Test constants
const (
	TestUserAgent = "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0"
	TestIPAddress = "203.0.113.10"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB *gorm.DB
	*Repositories
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}
		cleanupFunc = func() {
			// SQLite in-memory cleanup is automatic
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	require.NoError(t, Migrate(db), "Failed to migrate schema")

	repos, err := NewRepositories(db, testutil.SetupTestLogger(t))
	require.NoError(t, err, "Failed to create repositories")

	return &TestContext{DB: db, Repositories: repos}
}

// CreateTestSession creates an active session for userID with default device values
func CreateTestSession(t *testing.T, userID string, lastActivity time.Time) *sessions.UserSession {
	t.Helper()

	device := sessions.DeviceInfo{UserAgent: TestUserAgent, AcceptLanguage: "en-US", AcceptEncoding: "gzip"}
	fingerprint := device.Fingerprint()

	return &sessions.UserSession{
		SessionID:         "sess_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID:            userID,
		SessionVersion:    1,
		DeviceID:          fingerprint[:16],
		DeviceFingerprint: fingerprint,
		IPAddress:         TestIPAddress,
		UserAgent:         TestUserAgent,
		CreatedAt:         lastActivity.Add(-time.Minute),
		LastActivity:      lastActivity,
		ExpiresAt:         lastActivity.Add(8 * time.Hour),
		IsActive:          true,
		Permissions:       []string{"user"},
	}
}

// CreateTestSecurityEvent creates a security event with the given type and severity
func CreateTestSecurityEvent(t *testing.T, eventType string, severity security.Severity, score int, at time.Time) *security.Event {
	t.Helper()

	return &security.Event{
		ID:          uuid.NewString(),
		EventType:   eventType,
		Severity:    severity,
		IPAddress:   TestIPAddress,
		Message:     "test event " + eventType,
		ThreatScore: score,
		Timestamp:   at,
	}
}

// CreateTestTransaction creates a wallet transaction for userID
func CreateTestTransaction(t *testing.T, userID, txType, status string, amount float64, at time.Time) *wallet.Transaction {
	t.Helper()

	return &wallet.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      txType,
		Amount:    amount,
		Currency:  wallet.DefaultCurrency,
		Status:    status,
		CreatedAt: at,
	}
}
