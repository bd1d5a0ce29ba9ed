package models

import (
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
)

// NotificationModel is the GORM database model for in-app notifications
type NotificationModel struct {
	ID        string                 `gorm:"primaryKey;type:uuid"`
	UserID    string                 `gorm:"not null;index;type:varchar(255)"`
	Type      string                 `gorm:"not null;type:varchar(50)"`
	Title     string                 `gorm:"not null;type:varchar(255)"`
	Message   string                 `gorm:"not null;type:text"`
	Data      map[string]interface{} `gorm:"serializer:json;type:text"`
	Read      bool                   `gorm:"not null"`
	CreatedAt time.Time              `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts GORM model to domain entity
func (m *NotificationModel) ToDomain() *notifications.Notification {
	return &notifications.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Data:      m.Data,
		Read:      m.Read,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// FromDomain converts domain entity to GORM model
func (m *NotificationModel) FromDomain(n *notifications.Notification) {
	m.ID = n.ID
	m.UserID = n.UserID
	m.Type = n.Type
	m.Title = n.Title
	m.Message = n.Message
	m.Data = n.Data
	m.Read = n.Read
	m.CreatedAt = n.CreatedAt.UTC()
}
