package models

import (
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
)

// UserSessionModel is the GORM database model for tracked sessions
type UserSessionModel struct {
	SessionID          string                 `gorm:"primaryKey;type:varchar(255)"`
	UserID             string                 `gorm:"not null;index;type:varchar(255)"`
	SessionVersion     int                    `gorm:"not null"`
	DeviceID           string                 `gorm:"type:varchar(64)"`
	DeviceFingerprint  string                 `gorm:"type:varchar(64);index"`
	IPAddress          string                 `gorm:"type:varchar(64)"`
	UserAgent          string                 `gorm:"type:varchar(500)"`
	CreatedAt          time.Time              `gorm:"not null"`
	LastActivity       time.Time              `gorm:"not null;index"`
	ExpiresAt          time.Time              `gorm:"not null;index"`
	IsActive           bool                   `gorm:"not null;index"`
	Permissions        []string               `gorm:"serializer:json;type:text"`
	Metadata           map[string]interface{} `gorm:"serializer:json;type:text"`
	InvalidatedAt      *time.Time
	InvalidationReason string `gorm:"type:varchar(50)"`
	InvalidatedBy      string `gorm:"type:varchar(255)"`
}

// TableName specifies the table name for GORM
func (UserSessionModel) TableName() string {
	return "user_sessions"
}

// ToDomain converts GORM model to domain entity
func (m *UserSessionModel) ToDomain() *sessions.UserSession {
	return &sessions.UserSession{
		SessionID:          m.SessionID,
		UserID:             m.UserID,
		SessionVersion:     m.SessionVersion,
		DeviceID:           m.DeviceID,
		DeviceFingerprint:  m.DeviceFingerprint,
		IPAddress:          m.IPAddress,
		UserAgent:          m.UserAgent,
		CreatedAt:          m.CreatedAt.UTC(),
		LastActivity:       m.LastActivity.UTC(),
		ExpiresAt:          m.ExpiresAt.UTC(),
		IsActive:           m.IsActive,
		Permissions:        m.Permissions,
		Metadata:           m.Metadata,
		InvalidatedAt:      utcPtr(m.InvalidatedAt),
		InvalidationReason: sessions.Reason(m.InvalidationReason),
		InvalidatedBy:      m.InvalidatedBy,
	}
}

// FromDomain converts domain entity to GORM model
func (m *UserSessionModel) FromDomain(s *sessions.UserSession) {
	m.SessionID = s.SessionID
	m.UserID = s.UserID
	m.SessionVersion = s.SessionVersion
	m.DeviceID = s.DeviceID
	m.DeviceFingerprint = s.DeviceFingerprint
	m.IPAddress = s.IPAddress
	m.UserAgent = s.UserAgent
	m.CreatedAt = s.CreatedAt.UTC()
	m.LastActivity = s.LastActivity.UTC()
	m.ExpiresAt = s.ExpiresAt.UTC()
	m.IsActive = s.IsActive
	m.Permissions = s.Permissions
	m.Metadata = s.Metadata
	m.InvalidatedAt = utcPtr(s.InvalidatedAt)
	m.InvalidationReason = string(s.InvalidationReason)
	m.InvalidatedBy = s.InvalidatedBy
}

// InvalidationEventModel is the GORM database model for the invalidation audit trail
type InvalidationEventModel struct {
	ID               string                 `gorm:"primaryKey;type:uuid"`
	UserID           string                 `gorm:"not null;index;type:varchar(255)"`
	Reason           string                 `gorm:"not null;type:varchar(50)"`
	AffectedSessions []string               `gorm:"serializer:json;type:text"`
	TriggeredBy      string                 `gorm:"not null;type:varchar(255)"`
	Timestamp        time.Time              `gorm:"not null;index"`
	Metadata         map[string]interface{} `gorm:"serializer:json;type:text"`
}

// TableName specifies the table name for GORM
func (InvalidationEventModel) TableName() string {
	return "session_invalidation_events"
}

// ToDomain converts GORM model to domain entity
func (m *InvalidationEventModel) ToDomain() *sessions.InvalidationEvent {
	return &sessions.InvalidationEvent{
		ID:               m.ID,
		UserID:           m.UserID,
		Reason:           sessions.Reason(m.Reason),
		AffectedSessions: m.AffectedSessions,
		TriggeredBy:      m.TriggeredBy,
		Timestamp:        m.Timestamp.UTC(),
		Metadata:         m.Metadata,
	}
}

// FromDomain converts domain entity to GORM model
func (m *InvalidationEventModel) FromDomain(e *sessions.InvalidationEvent) {
	m.ID = e.ID
	m.UserID = e.UserID
	m.Reason = string(e.Reason)
	m.AffectedSessions = e.AffectedSessions
	m.TriggeredBy = e.TriggeredBy
	m.Timestamp = e.Timestamp.UTC()
	m.Metadata = e.Metadata
}

// ScheduledInvalidationModel is the GORM database model for graceful invalidations
type ScheduledInvalidationModel struct {
	ID                 string    `gorm:"primaryKey;type:uuid"`
	UserID             string    `gorm:"not null;index;type:varchar(255)"`
	SessionIDs         []string  `gorm:"serializer:json;type:text"`
	Trigger            string    `gorm:"not null;type:varchar(50)"`
	TriggeredBy        string    `gorm:"not null;type:varchar(255)"`
	WarningTimeMinutes int       `gorm:"not null"`
	Message            string    `gorm:"type:text"`
	RedirectURL        string    `gorm:"type:varchar(255)"`
	ScheduledAt        time.Time `gorm:"not null"`
	ExecuteAt          time.Time `gorm:"not null;index"`
	Status             string    `gorm:"not null;index;type:varchar(20)"`
	CancelledAt        *time.Time
	CancelledBy        string `gorm:"type:varchar(255)"`
	DelayedAt          *time.Time
	DelayedBy          string `gorm:"type:varchar(255)"`
	DelayReason        string `gorm:"type:varchar(255)"`
	ExecutedAt         *time.Time
	ExecutionNote      string `gorm:"type:varchar(255)"`
	ErrorMessage       string `gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (ScheduledInvalidationModel) TableName() string {
	return "graceful_invalidation_schedule"
}

// ToDomain converts GORM model to domain entity
func (m *ScheduledInvalidationModel) ToDomain() *sessions.ScheduledInvalidation {
	return &sessions.ScheduledInvalidation{
		ID:                 m.ID,
		UserID:             m.UserID,
		SessionIDs:         m.SessionIDs,
		Trigger:            sessions.Trigger(m.Trigger),
		TriggeredBy:        m.TriggeredBy,
		WarningTimeMinutes: m.WarningTimeMinutes,
		Message:            m.Message,
		RedirectURL:        m.RedirectURL,
		ScheduledAt:        m.ScheduledAt.UTC(),
		ExecuteAt:          m.ExecuteAt.UTC(),
		Status:             sessions.ScheduleStatus(m.Status),
		CancelledAt:        utcPtr(m.CancelledAt),
		CancelledBy:        m.CancelledBy,
		DelayedAt:          utcPtr(m.DelayedAt),
		DelayedBy:          m.DelayedBy,
		DelayReason:        m.DelayReason,
		ExecutedAt:         utcPtr(m.ExecutedAt),
		ExecutionNote:      m.ExecutionNote,
		ErrorMessage:       m.ErrorMessage,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ScheduledInvalidationModel) FromDomain(s *sessions.ScheduledInvalidation) {
	m.ID = s.ID
	m.UserID = s.UserID
	m.SessionIDs = s.SessionIDs
	m.Trigger = string(s.Trigger)
	m.TriggeredBy = s.TriggeredBy
	m.WarningTimeMinutes = s.WarningTimeMinutes
	m.Message = s.Message
	m.RedirectURL = s.RedirectURL
	m.ScheduledAt = s.ScheduledAt.UTC()
	m.ExecuteAt = s.ExecuteAt.UTC()
	m.Status = string(s.Status)
	m.CancelledAt = utcPtr(s.CancelledAt)
	m.CancelledBy = s.CancelledBy
	m.DelayedAt = utcPtr(s.DelayedAt)
	m.DelayedBy = s.DelayedBy
	m.DelayReason = s.DelayReason
	m.ExecutedAt = utcPtr(s.ExecutedAt)
	m.ExecutionNote = s.ExecutionNote
	m.ErrorMessage = s.ErrorMessage
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
