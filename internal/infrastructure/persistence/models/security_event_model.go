package models

import (
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/security"
)

// SecurityEventModel is the GORM database model for security events.
// SeverityRank mirrors Severity so that events can be ordered by severity in SQL.
type SecurityEventModel struct {
	ID             string                 `gorm:"primaryKey;type:uuid"`
	EventType      string                 `gorm:"not null;index;type:varchar(100)"`
	Severity       string                 `gorm:"not null;index;type:varchar(20)"`
	SeverityRank   int                    `gorm:"not null"`
	UserID         string                 `gorm:"index;type:varchar(255)"`
	IPAddress      string                 `gorm:"index;type:varchar(64)"`
	UserAgent      string                 `gorm:"type:varchar(500)"`
	Endpoint       string                 `gorm:"type:varchar(255)"`
	Message        string                 `gorm:"not null;type:text"`
	ThreatScore    int                    `gorm:"not null"`
	RequiresAction bool                   `gorm:"not null"`
	Processed      bool                   `gorm:"not null"`
	AcknowledgedAt *time.Time
	AcknowledgedBy string                 `gorm:"type:varchar(255)"`
	ResolvedAt     *time.Time
	ResolvedBy     string                 `gorm:"type:varchar(255)"`
	Timestamp      time.Time              `gorm:"not null;index"`
	Metadata       map[string]interface{} `gorm:"serializer:json;type:text"`
}

// TableName specifies the table name for GORM
func (SecurityEventModel) TableName() string {
	return "security_events"
}

// ToDomain converts GORM model to domain entity
func (m *SecurityEventModel) ToDomain() *security.Event {
	return &security.Event{
		ID:             m.ID,
		EventType:      m.EventType,
		Severity:       security.Severity(m.Severity),
		UserID:         m.UserID,
		IPAddress:      m.IPAddress,
		UserAgent:      m.UserAgent,
		Endpoint:       m.Endpoint,
		Message:        m.Message,
		ThreatScore:    m.ThreatScore,
		RequiresAction: m.RequiresAction,
		Processed:      m.Processed,
		AcknowledgedAt: utcPtr(m.AcknowledgedAt),
		AcknowledgedBy: m.AcknowledgedBy,
		ResolvedAt:     utcPtr(m.ResolvedAt),
		ResolvedBy:     m.ResolvedBy,
		Timestamp:      m.Timestamp.UTC(),
		Metadata:       m.Metadata,
	}
}

// FromDomain converts domain entity to GORM model
func (m *SecurityEventModel) FromDomain(e *security.Event) {
	m.ID = e.ID
	m.EventType = e.EventType
	m.Severity = string(e.Severity)
	m.SeverityRank = e.Severity.Rank()
	m.UserID = e.UserID
	m.IPAddress = e.IPAddress
	m.UserAgent = e.UserAgent
	m.Endpoint = e.Endpoint
	m.Message = e.Message
	m.ThreatScore = e.ThreatScore
	m.RequiresAction = e.RequiresAction
	m.Processed = e.Processed
	m.AcknowledgedAt = utcPtr(e.AcknowledgedAt)
	m.AcknowledgedBy = e.AcknowledgedBy
	m.ResolvedAt = utcPtr(e.ResolvedAt)
	m.ResolvedBy = e.ResolvedBy
	m.Timestamp = e.Timestamp.UTC()
	m.Metadata = e.Metadata
}
