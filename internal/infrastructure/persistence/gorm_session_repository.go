package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence/models"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
	"gorm.io/gorm"
)

type gormSessionRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormSessionRepository creates a new GORM-based SessionRepository implementation
func NewGormSessionRepository(db *gorm.DB, logger logger.Logger) (sessions.SessionRepository, error) {
	return &gormSessionRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormSessionRepository) Create(ctx context.Context, session *sessions.UserSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.UserSessionModel{}
	model.FromDomain(session)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapWriteError("create session", err)
	}

	r.logger.Info("Created session ", session.SessionID, " for user ", session.UserID)
	return nil
}

func (r *gormSessionRepository) GetByID(ctx context.Context, sessionID string) (*sessions.UserSession, error) {
	var model models.UserSessionModel
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Session not found")
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormSessionRepository) ListActiveByUser(ctx context.Context, userID string) ([]*sessions.UserSession, error) {
	var modelList []*models.UserSessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_activity desc").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active sessions: %w", err)
	}

	result := make([]*sessions.UserSession, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}

func (r *gormSessionRepository) ListExpired(ctx context.Context, now time.Time) ([]*sessions.UserSession, error) {
	var modelList []*models.UserSessionModel
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND expires_at < ?", true, now.UTC()).
		Order("user_id").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expired sessions: %w", err)
	}

	result := make([]*sessions.UserSession, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}

func (r *gormSessionRepository) LatestVersion(ctx context.Context, userID string) (int, error) {
	var version int
	err := r.db.WithContext(ctx).
		Model(&models.UserSessionModel{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(session_version), 0)").
		Scan(&version).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read session version: %w", err)
	}
	return version, nil
}

func (r *gormSessionRepository) Deactivate(ctx context.Context, userID string, sessionIDs []string, reason sessions.Reason, triggeredBy string, at time.Time) (int64, error) {
	if len(sessionIDs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.UserSessionModel{}).
		Where("user_id = ? AND session_id IN ? AND is_active = ?", userID, sessionIDs, true).
		Updates(map[string]interface{}{
			"is_active":           false,
			"invalidated_at":      at.UTC(),
			"invalidation_reason": string(reason),
			"invalidated_by":      triggeredBy,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate sessions: %w", result.Error)
	}

	r.logger.Info("Deactivated ", result.RowsAffected, " sessions of user ", userID, " reason ", reason)
	return result.RowsAffected, nil
}

func (r *gormSessionRepository) Touch(ctx context.Context, sessionID, ipAddress string, at time.Time) error {
	updates := map[string]interface{}{"last_activity": at.UTC()}
	if ipAddress != "" {
		updates["ip_address"] = ipAddress
	}

	result := r.db.WithContext(ctx).
		Model(&models.UserSessionModel{}).
		Where("session_id = ? AND is_active = ?", sessionID, true).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update session activity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Session not found")
	}
	return nil
}
