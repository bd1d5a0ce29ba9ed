package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence/models"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormProfileRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormProfileRepository creates a new GORM-based ProfileRepository implementation
func NewGormProfileRepository(db *gorm.DB, logger logger.Logger) (members.ProfileRepository, error) {
	return &gormProfileRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormProfileRepository) GetByUserID(ctx context.Context, userID string) (*members.UserProfile, error) {
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormProfileRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	model := &models.UserProfileModel{
		UserID:    userID,
		IsAdmin:   isAdmin,
		UpdatedAt: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_admin", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	r.logger.Info("Set is_admin=", isAdmin, " on profile of user ", userID)
	return nil
}

type gormTradeRepository struct {
	db *gorm.DB
}

// NewGormTradeRepository creates a new GORM-based TradeRepository implementation
func NewGormTradeRepository(db *gorm.DB) (members.TradeRepository, error) {
	return &gormTradeRepository{db: db}, nil
}

func (r *gormTradeRepository) ListByUser(ctx context.Context, userID string) ([]*members.Trade, error) {
	var modelList []*models.TradeModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	result := make([]*members.Trade, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}

type gormSignalRepository struct {
	db *gorm.DB
}

// NewGormSignalRepository creates a new GORM-based SignalRepository implementation
func NewGormSignalRepository(db *gorm.DB) (members.SignalRepository, error) {
	return &gormSignalRepository{db: db}, nil
}

func (r *gormSignalRepository) ListByUser(ctx context.Context, userID string) ([]*members.Signal, error) {
	var modelList []*models.SignalModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signals: %w", err)
	}

	result := make([]*members.Signal, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}
