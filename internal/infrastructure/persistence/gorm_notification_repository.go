package persistence

import (
	"context"
	"fmt"

	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence/models"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
	"gorm.io/gorm"
)

type gormNotificationRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormNotificationRepository creates a new GORM-based notifications.Repository implementation
func NewGormNotificationRepository(db *gorm.DB, logger logger.Logger) (notifications.Repository, error) {
	return &gormNotificationRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormNotificationRepository) Create(ctx context.Context, n *notifications.Notification) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.NotificationModel{}
	model.FromDomain(n)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapWriteError("create notification", err)
	}

	r.logger.Info("Created notification with id ", n.ID, " for user ", n.UserID)
	return nil
}

func (r *gormNotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*notifications.Notification, error) {
	var modelList []*models.NotificationModel
	dbQuery := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	result := make([]*notifications.Notification, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Notification not found")
	}
	return nil
}
