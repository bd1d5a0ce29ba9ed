//go:build unit
// +build unit

package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
)

func TestRuleFor(t *testing.T) {
	tests := []struct {
		trigger      Trigger
		scope        Scope
		graceful     bool
		notification bool
		reason       Reason
	}{
		{TriggerPasswordChange, ScopeAllExceptCurrent, true, true, ReasonPasswordChange},
		{TriggerEmailChange, ScopeAllExceptCurrent, true, true, ReasonPasswordChange},
		{TriggerPermissionsChange, ScopeAllSessions, true, true, ReasonPermissionChange},
		{TriggerSecurityBreach, ScopeAllSessions, false, true, ReasonSecurityBreach},
		{TriggerSuspiciousActivity, ScopeUntrustedSessions, true, true, ReasonSuspiciousActivity},
		{TriggerAdminAction, ScopeAllSessions, true, true, ReasonAdminAction},
		{TriggerDeviceCompromised, ScopeDeviceSessions, false, true, ReasonDeviceChange},
		{TriggerLocationAnomaly, ScopeLocationSessions, true, true, ReasonLocationChange},
		{TriggerConcurrentLimitExceeded, ScopeOldSessions, true, false, ReasonMaxSessionsExceeded},
		{TriggerAccountLocked, ScopeAllSessions, false, true, ReasonAccountLocked},
		{TriggerTokenLeaked, ScopeAllSessions, false, true, ReasonTokenCompromised},
	}

	for _, tt := range tests {
		t.Run(string(tt.trigger), func(t *testing.T) {
			rule, err := RuleFor(tt.trigger)
			require.NoError(t, err)
			assert.Equal(t, tt.trigger, rule.Trigger)
			assert.Equal(t, tt.scope, rule.Scope)
			assert.Equal(t, tt.graceful, rule.Graceful)
			assert.Equal(t, tt.notification, rule.Notification)
			assert.Equal(t, tt.reason, ReasonFor(tt.trigger))
			assert.NotEmpty(t, NotificationTitle(tt.trigger))
			assert.NotEmpty(t, GracefulMessage(tt.trigger))
		})
	}
}

func TestRuleFor_UnknownTrigger(t *testing.T) {
	_, err := RuleFor("solar_flare")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, ReasonAdminAction, ReasonFor("solar_flare"))
	assert.Equal(t, "Security Action Required", NotificationTitle("solar_flare"))
}

func TestParseReason(t *testing.T) {
	r, err := ParseReason("")
	require.NoError(t, err)
	assert.Equal(t, ReasonAdminAction, r)

	r, err = ParseReason("user_logout")
	require.NoError(t, err)
	assert.Equal(t, ReasonUserLogout, r)

	_, err = ParseReason("because")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNotificationMessage_Pluralisation(t *testing.T) {
	assert.Equal(t, "Your password was changed and 1 session were logged out for security.", NotificationMessage(TriggerPasswordChange, 1))
	assert.Equal(t, "An administrator logged out 3 sessions from your account.", NotificationMessage(TriggerAdminAction, 3))
	assert.Equal(t, "2 sessions were logged out for security reasons.", NotificationMessage("unknown", 2))
}

func TestSelectByScope(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	fresh := &UserSession{SessionID: "fresh", CreatedAt: now.Add(-2 * time.Hour)}
	current := &UserSession{SessionID: "current", CreatedAt: now.Add(-3 * 24 * time.Hour)}
	stale := &UserSession{SessionID: "stale", CreatedAt: now.Add(-10 * 24 * time.Hour)}
	all := []*UserSession{fresh, current, stale}

	tests := []struct {
		name      string
		scope     Scope
		currentID string
		want      []string
	}{
		{"current session", ScopeCurrentSession, "current", []string{"current"}},
		{"current session without id", ScopeCurrentSession, "", []string{}},
		{"all sessions", ScopeAllSessions, "current", []string{"fresh", "current", "stale"}},
		{"all except current", ScopeAllExceptCurrent, "current", []string{"fresh", "stale"}},
		{"all except current without id", ScopeAllExceptCurrent, "", []string{"fresh", "current", "stale"}},
		{"device sessions", ScopeDeviceSessions, "", []string{"fresh", "current", "stale"}},
		{"location sessions", ScopeLocationSessions, "", []string{}},
		{"old sessions", ScopeOldSessions, "", []string{"stale"}},
		{"untrusted sessions", ScopeUntrustedSessions, "", []string{"fresh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SessionIDs(SelectByScope(all, tt.scope, tt.currentID, now))
			assert.Equal(t, tt.want, got)
		})
	}
}
