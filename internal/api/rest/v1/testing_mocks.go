//go:build unit
// +build unit

package v1

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/domain/packages"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
)

// MockTokenVerifier is a mock implementation of TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (*auth.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Principal), args.Error(1)
}

// MockSessionManager is a mock implementation of SessionManager
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) CreateSession(ctx context.Context, userID, sessionID string, device sessions.DeviceInfo, permissions []string) (*sessions.UserSession, error) {
	args := m.Called(ctx, userID, sessionID, device, permissions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.UserSession), args.Error(1)
}

func (m *MockSessionManager) GetUserSessions(ctx context.Context, userID string) ([]*sessions.UserSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sessions.UserSession), args.Error(1)
}

func (m *MockSessionManager) ValidateSession(ctx context.Context, sessionID string) (*sessions.UserSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.UserSession), args.Error(1)
}

func (m *MockSessionManager) TouchSession(ctx context.Context, sessionID, ipAddress string) error {
	args := m.Called(ctx, sessionID, ipAddress)
	return args.Error(0)
}

func (m *MockSessionManager) InvalidateSessions(ctx context.Context, userID string, sessionIDs []string, reason sessions.Reason, triggeredBy string, metadata map[string]interface{}) (int, error) {
	args := m.Called(ctx, userID, sessionIDs, reason, triggeredBy, metadata)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionManager) CleanupExpiredSessions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockInvalidationService is a mock implementation of InvalidationService
type MockInvalidationService struct {
	mock.Mock
}

func (m *MockInvalidationService) Invalidate(ctx context.Context, caller *auth.Principal, req *sessions.InvalidateRequest) (*sessions.InvalidateResult, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.InvalidateResult), args.Error(1)
}

func (m *MockInvalidationService) Overview(ctx context.Context, caller *auth.Principal, userID string, includeHistory bool, limit int) (*sessions.Overview, error) {
	args := m.Called(ctx, caller, userID, includeHistory, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.Overview), args.Error(1)
}

func (m *MockInvalidationService) Modify(ctx context.Context, caller *auth.Principal, req *sessions.ModifyRequest) (*sessions.ModifyResult, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.ModifyResult), args.Error(1)
}

func (m *MockInvalidationService) PurgeHistory(ctx context.Context, caller *auth.Principal, userID string, olderThanDays int) (*sessions.PurgeResult, error) {
	args := m.Called(ctx, caller, userID, olderThanDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessions.PurgeResult), args.Error(1)
}

// MockNotificationService is a mock implementation of the notifications Service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, userID, kind, title, message string, data map[string]interface{}) (*notifications.Notification, error) {
	args := m.Called(ctx, userID, kind, title, message, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notifications.Notification), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, userID string, limit int) ([]*notifications.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notifications.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockPackageService is a mock implementation of the packages Service
type MockPackageService struct {
	mock.Mock
}

func (m *MockPackageService) List(ctx context.Context) ([]*packages.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*packages.Summary), args.Error(1)
}

func (m *MockPackageService) Create(ctx context.Context, input *packages.CreateInput) (*packages.Package, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*packages.Package), args.Error(1)
}

// MockMemberService is a mock implementation of the members Service
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) Get(ctx context.Context, userID string) (*members.Detail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*members.Detail), args.Error(1)
}

func (m *MockMemberService) Update(ctx context.Context, actorID, userID string, req *members.UpdateRequest) (string, error) {
	args := m.Called(ctx, actorID, userID, req)
	return args.String(0), args.Error(1)
}

func (m *MockMemberService) Delete(ctx context.Context, actorID, userID string) error {
	args := m.Called(ctx, actorID, userID)
	return args.Error(0)
}

// MockSecurityEventService is a mock implementation of the security EventService
type MockSecurityEventService struct {
	mock.Mock
}

func (m *MockSecurityEventService) Record(ctx context.Context, eventType string, severity security.Severity, message string, opts ...security.EventOption) error {
	args := m.Called(ctx, eventType, severity, message)
	return args.Error(0)
}

func (m *MockSecurityEventService) Query(ctx context.Context, ac security.AccessContext, f *security.Filter) (*security.Page, error) {
	args := m.Called(ctx, ac, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Page), args.Error(1)
}

func (m *MockSecurityEventService) Bulk(ctx context.Context, ac security.AccessContext, action security.BulkAction, ids []string, u *security.Update) (int64, error) {
	args := m.Called(ctx, ac, action, ids, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSecurityEventService) UpdateOne(ctx context.Context, ac security.AccessContext, id string, u *security.Update) error {
	args := m.Called(ctx, ac, id, u)
	return args.Error(0)
}

func (m *MockSecurityEventService) DeleteOne(ctx context.Context, ac security.AccessContext, id string) error {
	args := m.Called(ctx, ac, id)
	return args.Error(0)
}

// MockWalletService is a mock implementation of the wallet Service
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) RequestDeposit(ctx context.Context, userID string, req *wallet.DepositRequest) (*wallet.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

func (m *MockWalletService) ListDeposits(ctx context.Context, userID string, page, limit int) (*wallet.Page, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Page), args.Error(1)
}

func (m *MockWalletService) Balances(ctx context.Context, userID string) ([]*wallet.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wallet.Balance), args.Error(1)
}

// MockLogger is a mock implementation of logger.Logger. Each call is recorded
// with its arguments joined by fmt.Sprint.
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) { m.Called(fmt.Sprint(args...)) }
func (m *MockLogger) Info(args ...interface{}) { m.Called(fmt.Sprint(args...)) }
func (m *MockLogger) Warn(args ...interface{}) { m.Called(fmt.Sprint(args...)) }
func (m *MockLogger) Error(args ...interface{}) { m.Called(fmt.Sprint(args...)) }
func (m *MockLogger) Fatal(args ...interface{}) { m.Called(fmt.Sprint(args...)) }
func (m *MockLogger) Panic(args ...interface{}) { m.Called(fmt.Sprint(args...)) }
