//go:build unit
// +build unit

package sessions

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newSchedule() *ScheduledInvalidation {
	return NewScheduledInvalidation(uuid.NewString(), "user_1", []string{"sess_a", "sess_b"}, TriggerPasswordChange, "user_1", fixedNow)
}

func TestNewScheduledInvalidation(t *testing.T) {
	s := newSchedule()

	require.NoError(t, s.Validate())
	assert.Equal(t, StatusScheduled, s.Status)
	assert.Equal(t, fixedNow.Add(5*time.Minute), s.ExecuteAt)
	assert.Equal(t, DefaultRedirectURL, s.RedirectURL)
	assert.Equal(t, DefaultWarningMinutes, s.WarningTimeMinutes)
	assert.Contains(t, s.Message, "password has been changed")
}

func TestScheduledInvalidation_Cancel(t *testing.T) {
	s := newSchedule()

	require.NoError(t, s.Cancel("user_1", fixedNow))
	assert.Equal(t, StatusCancelled, s.Status)
	assert.Equal(t, "user_1", s.CancelledBy)
	require.NotNil(t, s.CancelledAt)
	assert.False(t, s.IsPending())

	err := s.Cancel("user_1", fixedNow)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestScheduledInvalidation_Delay(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{"lower bound", 1, false},
		{"upper bound", 60, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"above max", 61, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSchedule()
			originalExecuteAt := s.ExecuteAt
			later := fixedNow.Add(2 * time.Minute)

			err := s.Delay(tt.minutes, "admin_1", later)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperr.ErrValidation))
				assert.Equal(t, originalExecuteAt, s.ExecuteAt)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, later.Add(time.Duration(tt.minutes)*time.Minute), s.ExecuteAt)
			assert.Equal(t, StatusScheduled, s.Status)
			assert.Equal(t, "admin_1", s.DelayedBy)
			assert.Contains(t, s.DelayReason, "Delayed by")
		})
	}
}

func TestScheduledInvalidation_TerminalStatesAreFinal(t *testing.T) {
	executed := newSchedule()
	require.NoError(t, executed.MarkExecuted("Executed immediately by user request", fixedNow))
	assert.Equal(t, StatusExecuted, executed.Status)

	assert.ErrorIs(t, executed.Cancel("user_1", fixedNow), ErrNotPending)
	assert.ErrorIs(t, executed.Delay(5, "user_1", fixedNow), ErrNotPending)
	assert.ErrorIs(t, executed.MarkFailed(errors.New("boom")), ErrNotPending)

	failed := newSchedule()
	require.NoError(t, failed.MarkFailed(errors.New("database unavailable")))
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "database unavailable", failed.ErrorMessage)
	assert.ErrorIs(t, failed.MarkExecuted("", fixedNow), ErrNotPending)
}

func TestScheduledInvalidation_IsDue(t *testing.T) {
	s := newSchedule()

	assert.False(t, s.IsDue(fixedNow))
	assert.True(t, s.IsDue(s.ExecuteAt))
	assert.True(t, s.IsDue(s.ExecuteAt.Add(time.Second)))

	require.NoError(t, s.Cancel("user_1", fixedNow))
	assert.False(t, s.IsDue(s.ExecuteAt.Add(time.Hour)))
}

func TestParseAction(t *testing.T) {
	for _, raw := range []string{"cancel", "delay", "execute_now"} {
		a, err := ParseAction(raw)
		require.NoError(t, err)
		assert.Equal(t, Action(raw), a)
	}

	_, err := ParseAction("pause")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestDeviceInfo_Fingerprint(t *testing.T) {
	a := DeviceInfo{UserAgent: "Mozilla/5.0", AcceptLanguage: "en-US", AcceptEncoding: "gzip"}
	b := DeviceInfo{UserAgent: "Mozilla/5.0", AcceptLanguage: "en-US", AcceptEncoding: "gzip", IPAddress: "10.0.0.1"}
	c := DeviceInfo{UserAgent: "Mozilla/5.0", AcceptLanguage: "de-DE", AcceptEncoding: "gzip"}

	assert.Len(t, a.Fingerprint(), 64)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestUserSession_Validate(t *testing.T) {
	s := &UserSession{
		SessionID:         "sess_1",
		UserID:            "user_1",
		SessionVersion:    1,
		DeviceID:          "dev_1",
		DeviceFingerprint: DeviceInfo{UserAgent: "curl"}.Fingerprint(),
		IPAddress:         "192.168.1.10",
		CreatedAt:         fixedNow,
		LastActivity:      fixedNow,
		ExpiresAt:         fixedNow.Add(8 * time.Hour),
		IsActive:          true,
	}
	require.NoError(t, s.Validate())
	assert.False(t, s.IsExpired(fixedNow))
	assert.True(t, s.IsExpired(fixedNow.Add(9*time.Hour)))

	s.IPAddress = "not-an-ip"
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: IPAddress")
}
