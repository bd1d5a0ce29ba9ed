//go:build unit
// +build unit

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/testutil"
)

type mockIdentityProvider struct{ mock.Mock }

func (m *mockIdentityProvider) GetUser(ctx context.Context, userID string) (*members.IdentityUser, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*members.IdentityUser)
	return u, args.Error(1)
}

func (m *mockIdentityProvider) UpdateUser(ctx context.Context, userID string, update members.UserUpdate) (*members.IdentityUser, error) {
	args := m.Called(ctx, userID, update)
	u, _ := args.Get(0).(*members.IdentityUser)
	return u, args.Error(1)
}

func (m *mockIdentityProvider) MergePublicMetadata(ctx context.Context, userID string, patch map[string]interface{}) (*members.IdentityUser, error) {
	args := m.Called(ctx, userID, patch)
	u, _ := args.Get(0).(*members.IdentityUser)
	return u, args.Error(1)
}

func (m *mockIdentityProvider) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockProfileRepository struct{ mock.Mock }

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID string) (*members.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*members.UserProfile)
	return p, args.Error(1)
}

func (m *mockProfileRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	return m.Called(ctx, userID, isAdmin).Error(0)
}

type stubTradeRepository []*members.Trade

func (s stubTradeRepository) ListByUser(context.Context, string) ([]*members.Trade, error) {
	return s, nil
}

type stubSignalRepository []*members.Signal

func (s stubSignalRepository) ListByUser(context.Context, string) ([]*members.Signal, error) {
	return s, nil
}

type stubTransactionRepository []*wallet.Transaction

func (s stubTransactionRepository) Create(context.Context, *wallet.Transaction) error { return nil }

func (s stubTransactionRepository) ListDeposits(context.Context, string, int, int) ([]*wallet.Transaction, int64, error) {
	return s, int64(len(s)), nil
}

func (s stubTransactionRepository) ListByUser(context.Context, string) ([]*wallet.Transaction, error) {
	return s, nil
}

type mockTriggerHandler struct{ mock.Mock }

func (m *mockTriggerHandler) TriggerInvalidation(ctx context.Context, userID string, trigger sessions.Trigger, triggeredBy string, opts sessions.TriggerOptions) (*sessions.InvalidateResult, error) {
	args := m.Called(ctx, userID, trigger, triggeredBy, opts)
	r, _ := args.Get(0).(*sessions.InvalidateResult)
	return r, args.Error(1)
}

func (m *mockTriggerHandler) ProcessScheduledInvalidations(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type recordedEvent struct {
	eventType string
	severity  security.Severity
	event     security.Event
}

type fakeRecorder struct{ events []recordedEvent }

func (f *fakeRecorder) Record(_ context.Context, eventType string, severity security.Severity, _ string, opts ...security.EventOption) error {
	var e security.Event
	for _, opt := range opts {
		opt(&e)
	}
	f.events = append(f.events, recordedEvent{eventType: eventType, severity: severity, event: e})
	return nil
}

type memberFixture struct {
	identity *mockIdentityProvider
	profiles *mockProfileRepository
	triggers *mockTriggerHandler
	recorder *fakeRecorder
	service  *memberService
}

func newMemberFixture(t *testing.T) *memberFixture {
	t.Helper()
	f := &memberFixture{
		identity: &mockIdentityProvider{},
		profiles: &mockProfileRepository{},
		triggers: &mockTriggerHandler{},
		recorder: &fakeRecorder{},
	}

	trades := stubTradeRepository{
		{ID: "t1", Status: members.TradeStatusOpen, Amount: 2, Price: 100, PnL: 15},
		{ID: "t2", Status: "CLOSED", Amount: 1, Price: 50, PnL: -5},
	}
	txs := stubTransactionRepository{
		{ID: "x1", Type: wallet.TypeDeposit, Amount: 300},
		{ID: "x2", Type: wallet.TypeWithdrawal, Amount: 100},
	}
	signals := stubSignalRepository{{ID: "s1"}}

	svc, err := NewMemberService(f.identity, f.profiles, trades, signals, txs, f.triggers, f.recorder, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	f.service = svc.(*memberService)
	f.service.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestMemberService_Get(t *testing.T) {
	f := newMemberFixture(t)
	user := &members.IdentityUser{ID: "user_1", FirstName: "Ada", Email: "ada@example.com"}
	f.identity.On("GetUser", mock.Anything, "user_1").Return(user, nil)
	f.profiles.On("GetByUserID", mock.Anything, "user_1").Return(nil, nil)

	detail, err := f.service.Get(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, user, detail.User)
	assert.Nil(t, detail.Profile)
	assert.Equal(t, 2, detail.Stats.TotalTrades)
	assert.Equal(t, 1, detail.Stats.ActiveTrades)
	assert.Equal(t, 250.0, detail.Stats.TotalVolume)
	assert.Equal(t, 10.0, detail.Stats.TotalPnL)
	assert.Equal(t, 300.0, detail.Stats.TotalDeposits)
	assert.Equal(t, 100.0, detail.Stats.TotalWithdrawals)
	assert.Equal(t, 1, detail.Stats.SignalsReceived)
}

func TestMemberService_GetUnknownUser(t *testing.T) {
	f := newMemberFixture(t)
	f.identity.On("GetUser", mock.Anything, "ghost").Return(nil, members.ErrUserNotFound)

	_, err := f.service.Get(context.Background(), "ghost")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestMemberService_Suspend(t *testing.T) {
	f := newMemberFixture(t)
	f.identity.On("MergePublicMetadata", mock.Anything, "user_1", mock.MatchedBy(func(p map[string]interface{}) bool {
		return p["suspended"] == true && p["suspendedAt"] == "2026-10-18T12:00:00Z"
	})).Return(&members.IdentityUser{ID: "user_1"}, nil)

	msg, err := f.service.Update(context.Background(), "admin_1", "user_1", &members.UpdateRequest{Action: members.ActionSuspend})
	require.NoError(t, err)
	assert.Equal(t, "User suspended successfully", msg)

	f.triggers.AssertNotCalled(t, "TriggerInvalidation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	require.Len(t, f.recorder.events, 1)
	assert.Equal(t, security.EventAdminSystemModification, f.recorder.events[0].eventType)
	assert.Equal(t, "admin_1", f.recorder.events[0].event.UserID)
}

func TestMemberService_PromoteInvalidatesSessions(t *testing.T) {
	f := newMemberFixture(t)
	f.identity.On("MergePublicMetadata", mock.Anything, "user_1", mock.Anything).Return(&members.IdentityUser{ID: "user_1"}, nil)
	f.profiles.On("SetAdmin", mock.Anything, "user_1", true).Return(nil)
	f.triggers.On("TriggerInvalidation", mock.Anything, "user_1", sessions.TriggerPermissionsChange, "admin_1",
		mock.MatchedBy(func(o sessions.TriggerOptions) bool { return o.Graceful && o.Notify })).
		Return(&sessions.InvalidateResult{Success: true}, nil)

	msg, err := f.service.Update(context.Background(), "admin_1", "user_1", &members.UpdateRequest{Action: members.ActionPromote})
	require.NoError(t, err)
	assert.Equal(t, "User promoted to admin successfully", msg)

	f.profiles.AssertExpectations(t)
	f.triggers.AssertExpectations(t)
}

func TestMemberService_DemoteToleratesInvalidationFailure(t *testing.T) {
	f := newMemberFixture(t)
	f.identity.On("MergePublicMetadata", mock.Anything, "user_1", mock.Anything).Return(&members.IdentityUser{ID: "user_1"}, nil)
	f.profiles.On("SetAdmin", mock.Anything, "user_1", false).Return(nil)
	f.triggers.On("TriggerInvalidation", mock.Anything, "user_1", sessions.TriggerPermissionsChange, "admin_1", mock.Anything).
		Return(nil, errors.New("database unavailable"))

	msg, err := f.service.Update(context.Background(), "admin_1", "user_1", &members.UpdateRequest{Action: members.ActionDemote})
	require.NoError(t, err)
	assert.Equal(t, "User demoted to member successfully", msg)
}

func TestMemberService_UpdateProfileFields(t *testing.T) {
	f := newMemberFixture(t)
	f.identity.On("UpdateUser", mock.Anything, "user_1", members.UserUpdate{FirstName: "Grace"}).Return(&members.IdentityUser{ID: "user_1"}, nil)

	msg, err := f.service.Update(context.Background(), "admin_1", "user_1", &members.UpdateRequest{Action: members.ActionUpdate, FirstName: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "User updated successfully", msg)

	msg, err = f.service.Update(context.Background(), "admin_1", "user_1", &members.UpdateRequest{Action: members.ActionUpdate})
	require.NoError(t, err)
	assert.Equal(t, "User updated successfully", msg)
	f.identity.AssertNumberOfCalls(t, "UpdateUser", 1)
}

func TestMemberService_InvalidAction(t *testing.T) {
	f := newMemberFixture(t)

	_, err := f.service.Update(context.Background(), "admin_1", "user_1", &members.UpdateRequest{Action: "ban"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	assert.Empty(t, f.recorder.events)
}

func TestMemberService_Delete(t *testing.T) {
	f := newMemberFixture(t)
	f.identity.On("DeleteUser", mock.Anything, "user_1").Return(nil)
	f.identity.On("DeleteUser", mock.Anything, "ghost").Return(members.ErrUserNotFound)

	require.NoError(t, f.service.Delete(context.Background(), "admin_1", "user_1"))
	assert.Len(t, f.recorder.events, 1)

	err := f.service.Delete(context.Background(), "admin_1", "ghost")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Len(t, f.recorder.events, 1)
}
