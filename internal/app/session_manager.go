package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// sessionManager implements the SessionManager interface on top of the session and event repositories
type sessionManager struct {
	sessionRepo sessions.SessionRepository
	eventRepo   sessions.EventRepository
	settings    config.SessionSettings
	logger      logger.Logger
	now         func() time.Time
}

// NewSessionManager creates a new sessionManager instance
func NewSessionManager(
	sessionRepo sessions.SessionRepository,
	eventRepo sessions.EventRepository,
	settings *config.SessionSettings,
	logger logger.Logger,
) (sessions.SessionManager, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &sessionManager{
		sessionRepo: sessionRepo,
		eventRepo:   eventRepo,
		settings:    *settings,
		logger:      logger,
		now:         utcNow,
	}, nil
}

// CreateSession registers sessionID for userID. Registering a session that is
// already tracked for the same user returns the stored row.
func (m *sessionManager) CreateSession(ctx context.Context, userID, sessionID string, device sessions.DeviceInfo, permissions []string) (*sessions.UserSession, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	if sessionID == "" {
		sessionID = "sess_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}

	existing, err := m.sessionRepo.GetByID(ctx, sessionID)
	switch {
	case err == nil && existing.UserID != userID:
		return nil, apperr.Conflict("Session belongs to another user")
	case err == nil:
		return existing, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	version, err := m.sessionRepo.LatestVersion(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := m.enforceConcurrentSessionLimit(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(permissions) == 0 {
		permissions = []string{auth.PermissionUser}
	}
	timeout := m.settings.TimeoutMinutes
	if slices.Contains(permissions, auth.PermissionAdmin) {
		timeout = m.settings.AdminTimeoutMinutes
	}

	fingerprint := device.Fingerprint()
	userAgent := truncateRunes(device.UserAgent, sessions.MaxUserAgentLength)

	now := m.now()
	session := &sessions.UserSession{
		SessionID:         sessionID,
		UserID:            userID,
		SessionVersion:    version + 1,
		DeviceID:          deviceIDFor(active, fingerprint),
		DeviceFingerprint: fingerprint,
		IPAddress:         device.IPAddress,
		UserAgent:         userAgent,
		CreatedAt:         now,
		LastActivity:      now,
		ExpiresAt:         now.Add(time.Duration(timeout) * time.Minute),
		IsActive:          true,
		Permissions:       permissions,
		Metadata: map[string]interface{}{
			"acceptLanguage": device.AcceptLanguage,
			"acceptEncoding": device.AcceptEncoding,
		},
	}

	if err := m.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// enforceConcurrentSessionLimit ends the oldest sessions so that one more fits
// under the limit, and returns the sessions that remain active.
func (m *sessionManager) enforceConcurrentSessionLimit(ctx context.Context, userID string) ([]*sessions.UserSession, error) {
	active, err := m.sessionRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(active) < m.settings.MaxConcurrentSessions {
		return active, nil
	}

	byAge := slices.Clone(active)
	slices.SortFunc(byAge, func(a, b *sessions.UserSession) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	excess := byAge[:len(byAge)-m.settings.MaxConcurrentSessions+1]

	if _, err := m.InvalidateSessions(ctx, userID, sessions.SessionIDs(excess), sessions.ReasonMaxSessionsExceeded, sessions.TriggeredBySystem, nil); err != nil {
		return nil, err
	}
	return byAge[len(excess):], nil
}

func deviceIDFor(active []*sessions.UserSession, fingerprint string) string {
	for _, s := range active {
		if s.DeviceFingerprint == fingerprint && s.DeviceID != "" {
			return s.DeviceID
		}
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (m *sessionManager) GetUserSessions(ctx context.Context, userID string) ([]*sessions.UserSession, error) {
	return m.sessionRepo.ListActiveByUser(ctx, userID)
}

func (m *sessionManager) ValidateSession(ctx context.Context, sessionID string) (*sessions.UserSession, error) {
	session, err := m.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, apperr.Unauthorized("Session has been invalidated")
	}

	if session.IsExpired(m.now()) {
		if _, err := m.InvalidateSessions(ctx, session.UserID, []string{sessionID}, sessions.ReasonSessionExpired, sessions.TriggeredBySystem, nil); err != nil {
			m.logger.Warn("Failed to end expired session ", sessionID, ": ", err)
		}
		return nil, apperr.Unauthorized("Session expired")
	}
	return session, nil
}

func (m *sessionManager) TouchSession(ctx context.Context, sessionID, ipAddress string) error {
	return m.sessionRepo.Touch(ctx, sessionID, ipAddress, m.now())
}

func (m *sessionManager) InvalidateSessions(ctx context.Context, userID string, sessionIDs []string, reason sessions.Reason, triggeredBy string, metadata map[string]interface{}) (int, error) {
	if len(sessionIDs) == 0 {
		return 0, nil
	}

	now := m.now()
	count, err := m.sessionRepo.Deactivate(ctx, userID, sessionIDs, reason, triggeredBy, now)
	if err != nil {
		return 0, err
	}

	event := &sessions.InvalidationEvent{
		ID:               uuid.NewString(),
		UserID:           userID,
		Reason:           reason,
		AffectedSessions: sessionIDs,
		TriggeredBy:      triggeredBy,
		Timestamp:        now,
		Metadata:         metadata,
	}
	if err := m.eventRepo.Create(ctx, event); err != nil {
		return int(count), fmt.Errorf("sessions invalidated but event not recorded: %w", err)
	}

	m.logger.Info("Invalidated ", count, " of ", len(sessionIDs), " sessions for user ", userID, " reason ", reason)
	return int(count), nil
}

func (m *sessionManager) CleanupExpiredSessions(ctx context.Context) (int, error) {
	expired, err := m.sessionRepo.ListExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}

	byUser := map[string][]string{}
	var users []string
	for _, s := range expired {
		if _, ok := byUser[s.UserID]; !ok {
			users = append(users, s.UserID)
		}
		byUser[s.UserID] = append(byUser[s.UserID], s.SessionID)
	}

	total := 0
	for _, userID := range users {
		n, err := m.InvalidateSessions(ctx, userID, byUser[userID], sessions.ReasonSessionExpired, sessions.TriggeredBySystem, nil)
		if err != nil {
			return total, err
		}
		total += n
	}

	if total > 0 {
		m.logger.Info("Cleaned up ", total, " expired sessions")
	}
	return total, nil
}
