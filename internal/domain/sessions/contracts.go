package sessions

import (
	"context"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/auth"
)

// SessionRepository defines persistence for tracked sessions
type SessionRepository interface {
	Create(ctx context.Context, session *UserSession) error
	GetByID(ctx context.Context, sessionID string) (*UserSession, error)
	// ListActiveByUser returns active sessions, most recently used first.
	ListActiveByUser(ctx context.Context, userID string) ([]*UserSession, error)
	ListExpired(ctx context.Context, now time.Time) ([]*UserSession, error)
	LatestVersion(ctx context.Context, userID string) (int, error)
	// Deactivate marks the given sessions of userID inactive and returns the affected row count.
	Deactivate(ctx context.Context, userID string, sessionIDs []string, reason Reason, triggeredBy string, at time.Time) (int64, error)
	Touch(ctx context.Context, sessionID, ipAddress string, at time.Time) error
}

// EventRepository defines persistence for the invalidation audit trail
type EventRepository interface {
	Create(ctx context.Context, event *InvalidationEvent) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*InvalidationEvent, error)
	// DeleteOlderThan removes events with a timestamp strictly before cutoff. An empty userID matches all users.
	DeleteOlderThan(ctx context.Context, cutoff time.Time, userID string) (int64, error)
}

// ScheduleRepository defines persistence for graceful invalidations
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *ScheduledInvalidation) error
	// GetPending returns the row only while it is still scheduled, otherwise ErrNotPending.
	GetPending(ctx context.Context, id string) (*ScheduledInvalidation, error)
	ListPendingByUser(ctx context.Context, userID string, limit int) ([]*ScheduledInvalidation, error)
	ListDue(ctx context.Context, now time.Time) ([]*ScheduledInvalidation, error)
	Update(ctx context.Context, schedule *ScheduledInvalidation) error
}

// SessionManager tracks sessions and performs the actual invalidation
type SessionManager interface {
	// CreateSession registers a session, enforcing the concurrent session limit.
	CreateSession(ctx context.Context, userID, sessionID string, device DeviceInfo, permissions []string) (*UserSession, error)

	// GetUserSessions returns the active sessions of userID, most recently used first.
	GetUserSessions(ctx context.Context, userID string) ([]*UserSession, error)

	// ValidateSession returns the session when it is active and unexpired.
	// Expired sessions are invalidated with ReasonSessionExpired.
	ValidateSession(ctx context.Context, sessionID string) (*UserSession, error)

	// TouchSession records activity on a session.
	TouchSession(ctx context.Context, sessionID, ipAddress string) error

	// InvalidateSessions marks sessions inactive and records one event. An empty list is a no-op.
	InvalidateSessions(ctx context.Context, userID string, sessionIDs []string, reason Reason, triggeredBy string, metadata map[string]interface{}) (int, error)

	// CleanupExpiredSessions invalidates every active session past its expiry and returns how many were ended.
	CleanupExpiredSessions(ctx context.Context) (int, error)
}

// TriggerHandler applies invalidation rules and executes due graceful invalidations
type TriggerHandler interface {
	TriggerInvalidation(ctx context.Context, userID string, trigger Trigger, triggeredBy string, opts TriggerOptions) (*InvalidateResult, error)

	// ProcessScheduledInvalidations executes every due row and returns how many succeeded.
	ProcessScheduledInvalidations(ctx context.Context) (int, error)
}

// InvalidationService is the caller facing session invalidation API
type InvalidationService interface {
	Invalidate(ctx context.Context, caller *auth.Principal, req *InvalidateRequest) (*InvalidateResult, error)
	Overview(ctx context.Context, caller *auth.Principal, userID string, includeHistory bool, limit int) (*Overview, error)
	Modify(ctx context.Context, caller *auth.Principal, req *ModifyRequest) (*ModifyResult, error)
	PurgeHistory(ctx context.Context, caller *auth.Principal, userID string, olderThanDays int) (*PurgeResult, error)
}
