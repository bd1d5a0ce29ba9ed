package persistence

import (
	"context"
	"fmt"

	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence/models"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
	"gorm.io/gorm"
)

type gormTransactionRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTransactionRepository creates a new GORM-based TransactionRepository implementation
func NewGormTransactionRepository(db *gorm.DB, logger logger.Logger) (wallet.TransactionRepository, error) {
	return &gormTransactionRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTransactionRepository) Create(ctx context.Context, tx *wallet.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TransactionModel{}
	model.FromDomain(tx)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapWriteError("create transaction", err)
	}

	r.logger.Info("Created ", tx.Type, " transaction with id ", tx.ID, " for user ", tx.UserID)
	return nil
}

func (r *gormTransactionRepository) ListDeposits(ctx context.Context, userID string, offset, limit int) ([]*wallet.Transaction, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("user_id = ? AND type = ?", userID, wallet.TypeDeposit)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deposits: %w", err)
	}

	var modelList []*models.TransactionModel
	err := base.Session(&gorm.Session{}).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&modelList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch deposits: %w", err)
	}

	result := make([]*wallet.Transaction, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, total, nil
}

func (r *gormTransactionRepository) ListByUser(ctx context.Context, userID string) ([]*wallet.Transaction, error) {
	var modelList []*models.TransactionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	result := make([]*wallet.Transaction, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}
