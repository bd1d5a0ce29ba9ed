//go:build integration
// +build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/domain/packages"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/notifier"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/testutil"
)

// Test session policy
const (
	TestMaxConcurrentSessions = 3
	TestTimeoutMinutes        = 480
	TestAdminTimeoutMinutes   = 240
)

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	SessionManager      sessions.SessionManager
	TriggerHandler      sessions.TriggerHandler
	InvalidationService sessions.InvalidationService
	NotificationService notifications.Service
	PackageService      packages.Service
	WalletService       wallet.Service
	SecurityService     security.EventService
	Monitor             security.Monitor
	Sweeper             *Sweeper

	// Infrastructure
	DBContext *persistence.TestContext
}

// SetupTestServices initializes all application services for integration tests
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	sessionSettings := &config.SessionSettings{
		MaxConcurrentSessions: TestMaxConcurrentSessions,
		TimeoutMinutes:        TestTimeoutMinutes,
		AdminTimeoutMinutes:   TestAdminTimeoutMinutes,
	}

	securityService, err := NewSecurityEventService(dbContext.SecurityRepo, logger)
	require.NoError(t, err, "Failed to create security event service")

	notificationService, err := NewNotificationService(dbContext.NotificationRepo,
		notifier.NewNoopPublisher(logger), notifier.NewLogEmailSender(logger), dbContext.ProfileRepo, logger)
	require.NoError(t, err, "Failed to create notification service")

	sessionManager, err := NewSessionManager(dbContext.SessionRepo, dbContext.EventRepo, sessionSettings, logger)
	require.NoError(t, err, "Failed to create session manager")

	triggerHandler, err := NewTriggerHandler(sessionManager, dbContext.ScheduleRepo, notificationService, securityService, logger)
	require.NoError(t, err, "Failed to create trigger handler")

	invalidationService, err := NewInvalidationService(sessionManager, triggerHandler, dbContext.EventRepo, dbContext.ScheduleRepo, logger)
	require.NoError(t, err, "Failed to create invalidation service")

	packageService, err := NewPackageService(dbContext.PackageRepo, logger)
	require.NoError(t, err, "Failed to create package service")

	walletService, err := NewWalletService(dbContext.TransactionRepo, logger)
	require.NoError(t, err, "Failed to create wallet service")

	monitor, err := NewLogMonitor(securityService, logger)
	require.NoError(t, err, "Failed to create log monitor")

	return &TestServices{
		SessionManager:      sessionManager,
		TriggerHandler:      triggerHandler,
		InvalidationService: invalidationService,
		NotificationService: notificationService,
		PackageService:      packageService,
		WalletService:       walletService,
		SecurityService:     securityService,
		Monitor:             monitor,
		Sweeper:             NewSweeper(triggerHandler, sessionManager, time.Minute, logger),
		DBContext:           dbContext,
	}
}

// SeedSessions stores n active sessions for userID, the newest last, and returns them
func SeedSessions(t *testing.T, ts *TestServices, userID string, n int) []*sessions.UserSession {
	t.Helper()

	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute)
	seeded := make([]*sessions.UserSession, 0, n)
	for i := 0; i < n; i++ {
		s := persistence.CreateTestSession(t, userID, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, ts.DBContext.SessionRepo.Create(context.Background(), s))
		seeded = append(seeded, s)
	}
	return seeded
}
