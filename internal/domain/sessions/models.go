package sessions

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/validators"
)

// Graceful schedule defaults
const (
	DefaultWarningMinutes = 5
	DefaultRedirectURL    = "/auth/login"
	MinDelayMinutes       = 1
	MaxDelayMinutes       = 60
	MaxUserAgentLength    = 500
)

// TriggeredBySystem marks invalidations performed by background jobs.
const TriggeredBySystem = "system"

var (
	// ErrNotPending is returned when a schedule row is missing or has already left StatusScheduled.
	ErrNotPending = &apperr.Error{Kind: apperr.ErrNotFound, Message: "Invalidation not found or already processed"}
	// ErrInvalidDelay is returned for delays outside MinDelayMinutes..MaxDelayMinutes.
	ErrInvalidDelay = &apperr.Error{Kind: apperr.ErrValidation, Message: fmt.Sprintf("Delay must be between %d and %d minutes", MinDelayMinutes, MaxDelayMinutes)}
	// ErrInvalidAction is returned for unknown modify actions.
	ErrInvalidAction = &apperr.Error{Kind: apperr.ErrValidation, Message: "Invalid action"}
)

// UserSession entity
type UserSession struct {
	SessionID          string    `validate:"required,max=255"`
	UserID             string    `validate:"required,max=255"`
	SessionVersion     int       `validate:"gte=1"`
	DeviceID           string    `validate:"required"`
	DeviceFingerprint  string    `validate:"required,len=64,hexadecimal"`
	IPAddress          string    `validate:"omitempty,ip"`
	UserAgent          string    `validate:"max=500"`
	CreatedAt          time.Time `validate:"required"`
	LastActivity       time.Time `validate:"required"`
	ExpiresAt          time.Time `validate:"required,gtfield=CreatedAt"`
	IsActive           bool
	Permissions        []string
	Metadata           map[string]interface{}
	InvalidatedAt      *time.Time
	InvalidationReason Reason
	InvalidatedBy      string
}

// Validate for validating UserSession struct
func (s *UserSession) Validate() error {
	return validators.Struct(s)
}

// IsExpired reports whether the session's lifetime ended strictly before now
func (s *UserSession) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// DeviceInfo is what a client reveals about itself when a session is registered
type DeviceInfo struct {
	UserAgent      string
	AcceptLanguage string
	AcceptEncoding string
	IPAddress      string
}

// Fingerprint hashes the user agent and accept headers into a stable device identifier.
func (d DeviceInfo) Fingerprint() string {
	sum := sha256.Sum256([]byte(d.UserAgent + "|" + d.AcceptLanguage + "|" + d.AcceptEncoding))
	return hex.EncodeToString(sum[:])
}

// InvalidationEvent is the audit record written for every batch of invalidated sessions
type InvalidationEvent struct {
	ID               string   `validate:"required,uuid4"`
	UserID           string   `validate:"required"`
	Reason           Reason   `validate:"required"`
	AffectedSessions []string `validate:"required,min=1"`
	TriggeredBy      string   `validate:"required"`
	Timestamp        time.Time
	Metadata         map[string]interface{}
}

// Validate for validating InvalidationEvent struct
func (e *InvalidationEvent) Validate() error {
	return validators.Struct(e)
}

// ScheduleStatus is the lifecycle state of a graceful invalidation
type ScheduleStatus string

// Schedule states
const (
	StatusScheduled ScheduleStatus = "scheduled"
	StatusCancelled ScheduleStatus = "cancelled"
	StatusExecuted  ScheduleStatus = "executed"
	StatusFailed    ScheduleStatus = "failed"
)

// ScheduledInvalidation is a graceful invalidation waiting for its ExecuteAt
type ScheduledInvalidation struct {
	ID                 string   `validate:"required,uuid4"`
	UserID             string   `validate:"required"`
	SessionIDs         []string `validate:"required,min=1"`
	Trigger            Trigger  `validate:"required"`
	TriggeredBy        string   `validate:"required"`
	WarningTimeMinutes int      `validate:"gte=0"`
	Message            string
	RedirectURL        string
	ScheduledAt        time.Time      `validate:"required"`
	ExecuteAt          time.Time      `validate:"required"`
	Status             ScheduleStatus `validate:"required,oneof=scheduled cancelled executed failed"`
	CancelledAt        *time.Time
	CancelledBy        string
	DelayedAt          *time.Time
	DelayedBy          string
	DelayReason        string
	ExecutedAt         *time.Time
	ExecutionNote      string
	ErrorMessage       string
}

// NewScheduledInvalidation builds a scheduled row that executes after the warning period
func NewScheduledInvalidation(id, userID string, sessionIDs []string, trigger Trigger, triggeredBy string, now time.Time) *ScheduledInvalidation {
	return &ScheduledInvalidation{
		ID:                 id,
		UserID:             userID,
		SessionIDs:         sessionIDs,
		Trigger:            trigger,
		TriggeredBy:        triggeredBy,
		WarningTimeMinutes: DefaultWarningMinutes,
		Message:            GracefulMessage(trigger),
		RedirectURL:        DefaultRedirectURL,
		ScheduledAt:        now,
		ExecuteAt:          now.Add(DefaultWarningMinutes * time.Minute),
		Status:             StatusScheduled,
	}
}

// Validate for validating ScheduledInvalidation struct
func (s *ScheduledInvalidation) Validate() error {
	return validators.Struct(s)
}

// IsPending reports whether the row can still be modified
func (s *ScheduledInvalidation) IsPending() bool {
	return s.Status == StatusScheduled
}

// IsDue reports whether a pending row should execute at now
func (s *ScheduledInvalidation) IsDue(now time.Time) bool {
	return s.IsPending() && !s.ExecuteAt.After(now)
}

// Cancel moves the row to StatusCancelled
func (s *ScheduledInvalidation) Cancel(by string, now time.Time) error {
	if !s.IsPending() {
		return ErrNotPending
	}
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.CancelledBy = by
	return nil
}

// Delay re-stamps ExecuteAt to now plus minutes, keeping the row scheduled
func (s *ScheduledInvalidation) Delay(minutes int, by string, now time.Time) error {
	if minutes < MinDelayMinutes || minutes > MaxDelayMinutes {
		return ErrInvalidDelay
	}
	if !s.IsPending() {
		return ErrNotPending
	}
	s.ExecuteAt = now.Add(time.Duration(minutes) * time.Minute)
	s.DelayedAt = &now
	s.DelayedBy = by
	s.DelayReason = fmt.Sprintf("Delayed by %d minutes by user request", minutes)
	return nil
}

// MarkExecuted moves the row to StatusExecuted
func (s *ScheduledInvalidation) MarkExecuted(note string, now time.Time) error {
	if !s.IsPending() {
		return ErrNotPending
	}
	s.Status = StatusExecuted
	s.ExecutedAt = &now
	s.ExecutionNote = note
	return nil
}

// MarkFailed moves the row to StatusFailed
func (s *ScheduledInvalidation) MarkFailed(cause error) error {
	if !s.IsPending() {
		return ErrNotPending
	}
	s.Status = StatusFailed
	s.ErrorMessage = cause.Error()
	return nil
}

// Action names a modification of a pending invalidation
type Action string

// Modify actions
const (
	ActionCancel     Action = "cancel"
	ActionDelay      Action = "delay"
	ActionExecuteNow Action = "execute_now"
)

// ParseAction validates a raw action name
func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case ActionCancel, ActionDelay, ActionExecuteNow:
		return a, nil
	default:
		return "", ErrInvalidAction
	}
}
