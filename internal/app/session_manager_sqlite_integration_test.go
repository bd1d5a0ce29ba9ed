//go:build integration
// +build integration

package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
)

var testDevice = sessions.DeviceInfo{
	UserAgent:      persistence.TestUserAgent,
	AcceptLanguage: "en-US",
	AcceptEncoding: "gzip",
	IPAddress:      persistence.TestIPAddress,
}

func TestSessionManager_CreateSession(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	first, err := ts.SessionManager.CreateSession(ctx, "user_1", "sess_a", testDevice, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.SessionVersion)
	assert.True(t, first.IsActive)
	assert.Equal(t, []string{auth.PermissionUser}, first.Permissions)
	assert.Equal(t, testDevice.Fingerprint(), first.DeviceFingerprint)
	assert.WithinDuration(t, first.CreatedAt.Add(TestTimeoutMinutes*time.Minute), first.ExpiresAt, time.Second)

	second, err := ts.SessionManager.CreateSession(ctx, "user_1", "sess_b", testDevice, []string{auth.PermissionUser, auth.PermissionAdmin})
	require.NoError(t, err)
	assert.Equal(t, 2, second.SessionVersion)
	assert.Equal(t, first.DeviceID, second.DeviceID, "same fingerprint reuses the device id")
	assert.WithinDuration(t, second.CreatedAt.Add(TestAdminTimeoutMinutes*time.Minute), second.ExpiresAt, time.Second)

	active, err := ts.SessionManager.GetUserSessions(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestSessionManager_CreateSession_ExistingID(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	created, err := ts.SessionManager.CreateSession(ctx, "user_1", "sess_a", testDevice, nil)
	require.NoError(t, err)

	again, err := ts.SessionManager.CreateSession(ctx, "user_1", "sess_a", testDevice, nil)
	require.NoError(t, err)
	assert.Equal(t, created.SessionVersion, again.SessionVersion)

	_, err = ts.SessionManager.CreateSession(ctx, "user_2", "sess_a", testDevice, nil)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestSessionManager_CreateSession_GeneratesID(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)

	created, err := ts.SessionManager.CreateSession(context.Background(), "user_1", "", testDevice, nil)
	require.NoError(t, err)
	assert.Regexp(t, `^sess_[0-9a-f]{32}$`, created.SessionID)
}

func TestSessionManager_CreateSession_OverlongIDIsValidationError(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)

	_, err := ts.SessionManager.CreateSession(context.Background(), "user_1", strings.Repeat("s", 256), testDevice, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestSessionManager_CreateSession_TruncatesUserAgentOnRuneBoundary(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	device := testDevice
	device.UserAgent = strings.Repeat("é", sessions.MaxUserAgentLength+20)

	created, err := ts.SessionManager.CreateSession(context.Background(), "user_1", "sess_ua", device, nil)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(created.UserAgent))
	assert.Equal(t, sessions.MaxUserAgentLength, utf8.RuneCountInString(created.UserAgent))
}

func TestSessionManager_ConcurrentSessionLimit(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	seeded := SeedSessions(t, ts, "user_1", TestMaxConcurrentSessions)

	_, err := ts.SessionManager.CreateSession(ctx, "user_1", "sess_new", testDevice, nil)
	require.NoError(t, err)

	active, err := ts.SessionManager.GetUserSessions(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, active, TestMaxConcurrentSessions)

	oldest, err := ts.DBContext.SessionRepo.GetByID(ctx, seeded[0].SessionID)
	require.NoError(t, err)
	assert.False(t, oldest.IsActive)
	assert.Equal(t, sessions.ReasonMaxSessionsExceeded, oldest.InvalidationReason)
	assert.Equal(t, sessions.TriggeredBySystem, oldest.InvalidatedBy)

	history, err := ts.DBContext.EventRepo.ListByUser(ctx, "user_1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, []string{seeded[0].SessionID}, history[0].AffectedSessions)
}

func TestSessionManager_ValidateSession(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	live := SeedSessions(t, ts, "user_1", 1)[0]
	got, err := ts.SessionManager.ValidateSession(ctx, live.SessionID)
	require.NoError(t, err)
	assert.Equal(t, live.SessionID, got.SessionID)

	expired := persistence.CreateTestSession(t, "user_1", time.Now().UTC().Add(-10*time.Hour))
	require.NoError(t, ts.DBContext.SessionRepo.Create(ctx, expired))

	_, err = ts.SessionManager.ValidateSession(ctx, expired.SessionID)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	stored, err := ts.DBContext.SessionRepo.GetByID(ctx, expired.SessionID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, sessions.ReasonSessionExpired, stored.InvalidationReason)

	_, err = ts.SessionManager.ValidateSession(ctx, expired.SessionID)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = ts.SessionManager.ValidateSession(ctx, "sess_unknown")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestSessionManager_TouchSession(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	s := SeedSessions(t, ts, "user_1", 1)[0]
	require.NoError(t, ts.SessionManager.TouchSession(ctx, s.SessionID, "198.51.100.7"))

	stored, err := ts.DBContext.SessionRepo.GetByID(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", stored.IPAddress)
	assert.True(t, stored.LastActivity.After(s.LastActivity))
}

func TestSessionManager_InvalidateSessions(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	seeded := SeedSessions(t, ts, "user_1", 2)

	count, err := ts.SessionManager.InvalidateSessions(ctx, "user_1", nil, sessions.ReasonUserLogout, "user_1", nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	ids := []string{seeded[0].SessionID, "sess_missing"}
	count, err = ts.SessionManager.InvalidateSessions(ctx, "user_1", ids, sessions.ReasonUserLogout, "user_1", map[string]interface{}{"source": "test"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	history, err := ts.DBContext.EventRepo.ListByUser(ctx, "user_1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, ids, history[0].AffectedSessions)
	assert.Equal(t, sessions.ReasonUserLogout, history[0].Reason)
}

func TestSessionManager_CleanupExpiredSessions(t *testing.T) {
	ts := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	SeedSessions(t, ts, "user_1", 1)
	for _, userID := range []string{"user_1", "user_2"} {
		expired := persistence.CreateTestSession(t, userID, time.Now().UTC().Add(-9*time.Hour))
		require.NoError(t, ts.DBContext.SessionRepo.Create(ctx, expired))
	}

	count, err := ts.SessionManager.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	active, err := ts.SessionManager.GetUserSessions(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	count, err = ts.SessionManager.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
