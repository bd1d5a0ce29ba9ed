package models

import (
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/members"
)

// UserProfileModel is the GORM database model for member profiles
type UserProfileModel struct {
	UserID                     string `gorm:"primaryKey;type:varchar(255)"`
	Email                      string `gorm:"type:varchar(255)"`
	FirstName                  string `gorm:"type:varchar(255)"`
	IsAdmin                    bool   `gorm:"not null"`
	EmailSecurityNotifications bool   `gorm:"not null"`
	UpdatedAt                  time.Time
}

// TableName specifies the table name for GORM
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// ToDomain converts GORM model to domain entity
func (m *UserProfileModel) ToDomain() *members.UserProfile {
	return &members.UserProfile{
		UserID:                     m.UserID,
		Email:                      m.Email,
		FirstName:                  m.FirstName,
		IsAdmin:                    m.IsAdmin,
		EmailSecurityNotifications: m.EmailSecurityNotifications,
		UpdatedAt:                  m.UpdatedAt.UTC(),
	}
}

// FromDomain converts domain entity to GORM model
func (m *UserProfileModel) FromDomain(p *members.UserProfile) {
	m.UserID = p.UserID
	m.Email = p.Email
	m.FirstName = p.FirstName
	m.IsAdmin = p.IsAdmin
	m.EmailSecurityNotifications = p.EmailSecurityNotifications
	m.UpdatedAt = p.UpdatedAt.UTC()
}

// TradeModel is the GORM database model for member trades
type TradeModel struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	UserID    string    `gorm:"not null;index;type:varchar(255)"`
	Symbol    string    `gorm:"not null;type:varchar(20)"`
	Side      string    `gorm:"type:varchar(10)"`
	Amount    float64   `gorm:"not null"`
	Price     float64   `gorm:"not null"`
	PnL       float64   `gorm:"column:pnl"`
	Status    string    `gorm:"type:varchar(20);index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (TradeModel) TableName() string {
	return "trades"
}

// ToDomain converts GORM model to domain entity
func (m *TradeModel) ToDomain() *members.Trade {
	return &members.Trade{
		ID:        m.ID,
		UserID:    m.UserID,
		Symbol:    m.Symbol,
		Side:      m.Side,
		Amount:    m.Amount,
		Price:     m.Price,
		PnL:       m.PnL,
		Status:    m.Status,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// FromDomain converts domain entity to GORM model
func (m *TradeModel) FromDomain(t *members.Trade) {
	m.ID = t.ID
	m.UserID = t.UserID
	m.Symbol = t.Symbol
	m.Side = t.Side
	m.Amount = t.Amount
	m.Price = t.Price
	m.PnL = t.PnL
	m.Status = t.Status
	m.CreatedAt = t.CreatedAt.UTC()
}

// SignalModel is the GORM database model for delivered trading signals
type SignalModel struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	UserID    string    `gorm:"not null;index;type:varchar(255)"`
	Symbol    string    `gorm:"not null;type:varchar(20)"`
	Action    string    `gorm:"type:varchar(10)"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (SignalModel) TableName() string {
	return "signals"
}

// ToDomain converts GORM model to domain entity
func (m *SignalModel) ToDomain() *members.Signal {
	return &members.Signal{
		ID:        m.ID,
		UserID:    m.UserID,
		Symbol:    m.Symbol,
		Action:    m.Action,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// FromDomain converts domain entity to GORM model
func (m *SignalModel) FromDomain(s *members.Signal) {
	m.ID = s.ID
	m.UserID = s.UserID
	m.Symbol = s.Symbol
	m.Action = s.Action
	m.CreatedAt = s.CreatedAt.UTC()
}
