package models

import (
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/packages"
)

// PackageModel is the GORM database model for subscription packages
type PackageModel struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	Name         string    `gorm:"not null;type:varchar(255)"`
	Description  string    `gorm:"not null;type:text"`
	Price        float64   `gorm:"not null"`
	DurationDays int       `gorm:"not null"`
	Features     []string  `gorm:"serializer:json;type:text"`
	Active       bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (PackageModel) TableName() string {
	return "packages"
}

// ToDomain converts GORM model to domain entity
func (m *PackageModel) ToDomain() *packages.Package {
	features := m.Features
	if features == nil {
		features = []string{}
	}
	return &packages.Package{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		DurationDays: m.DurationDays,
		Features:     features,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// FromDomain converts domain entity to GORM model
func (m *PackageModel) FromDomain(p *packages.Package) {
	m.ID = p.ID
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.DurationDays = p.DurationDays
	m.Features = p.Features
	m.Active = p.Active
	m.CreatedAt = p.CreatedAt.UTC()
	m.UpdatedAt = p.UpdatedAt.UTC()
}

// UserPackageModel is the GORM database model linking members to packages
type UserPackageModel struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	UserID    string    `gorm:"not null;index;type:varchar(255)"`
	PackageID string    `gorm:"not null;index;type:uuid"`
	Status    string    `gorm:"not null;type:varchar(20)"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (UserPackageModel) TableName() string {
	return "user_packages"
}
