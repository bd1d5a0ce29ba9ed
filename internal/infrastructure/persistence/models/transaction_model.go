package models

import (
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
)

// TransactionModel is the GORM database model for wallet transactions
type TransactionModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	UserID          string    `gorm:"not null;index;type:varchar(255)"`
	Type            string    `gorm:"not null;index;type:varchar(20)"`
	Amount          float64   `gorm:"not null"`
	Currency        string    `gorm:"not null;type:varchar(3)"`
	Status          string    `gorm:"not null;type:varchar(20)"`
	Method          string    `gorm:"type:varchar(50)"`
	ReferenceNumber string    `gorm:"type:varchar(100)"`
	Destination     string    `gorm:"type:varchar(255)"`
	CreatedAt       time.Time `gorm:"not null;index"`
	CompletedAt     *time.Time
}

// TableName specifies the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts GORM model to domain entity
func (m *TransactionModel) ToDomain() *wallet.Transaction {
	return &wallet.Transaction{
		ID:              m.ID,
		UserID:          m.UserID,
		Type:            m.Type,
		Amount:          m.Amount,
		Currency:        m.Currency,
		Status:          m.Status,
		Method:          m.Method,
		ReferenceNumber: m.ReferenceNumber,
		Destination:     m.Destination,
		CreatedAt:       m.CreatedAt.UTC(),
		CompletedAt:     utcPtr(m.CompletedAt),
	}
}

// FromDomain converts domain entity to GORM model
func (m *TransactionModel) FromDomain(t *wallet.Transaction) {
	m.ID = t.ID
	m.UserID = t.UserID
	m.Type = t.Type
	m.Amount = t.Amount
	m.Currency = t.Currency
	m.Status = t.Status
	m.Method = t.Method
	m.ReferenceNumber = t.ReferenceNumber
	m.Destination = t.Destination
	m.CreatedAt = t.CreatedAt.UTC()
	m.CompletedAt = utcPtr(t.CompletedAt)
}
