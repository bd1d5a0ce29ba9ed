package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence/models"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
	"gorm.io/gorm"
)

type gormEventRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormEventRepository creates a new GORM-based EventRepository implementation
func NewGormEventRepository(db *gorm.DB, logger logger.Logger) (sessions.EventRepository, error) {
	return &gormEventRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormEventRepository) Create(ctx context.Context, event *sessions.InvalidationEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.InvalidationEventModel{}
	model.FromDomain(event)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapWriteError("create invalidation event", err)
	}

	r.logger.Info("Recorded invalidation event with id ", event.ID)
	return nil
}

func (r *gormEventRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*sessions.InvalidationEvent, error) {
	var modelList []*models.InvalidationEventModel
	dbQuery := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc")
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch invalidation history: %w", err)
	}

	result := make([]*sessions.InvalidationEvent, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}

func (r *gormEventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time, userID string) (int64, error) {
	dbQuery := r.db.WithContext(ctx).Where("timestamp < ?", cutoff.UTC())
	if userID != "" {
		dbQuery = dbQuery.Where("user_id = ?", userID)
	}

	result := dbQuery.Delete(&models.InvalidationEventModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge invalidation history: %w", result.Error)
	}

	r.logger.Info("Purged ", result.RowsAffected, " invalidation events older than ", cutoff.Format(time.RFC3339))
	return result.RowsAffected, nil
}

type gormScheduleRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormScheduleRepository creates a new GORM-based ScheduleRepository implementation
func NewGormScheduleRepository(db *gorm.DB, logger logger.Logger) (sessions.ScheduleRepository, error) {
	return &gormScheduleRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormScheduleRepository) Create(ctx context.Context, schedule *sessions.ScheduledInvalidation) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ScheduledInvalidationModel{}
	model.FromDomain(schedule)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapWriteError("schedule invalidation", err)
	}

	r.logger.Info("Scheduled invalidation ", schedule.ID, " for user ", schedule.UserID, " at ", schedule.ExecuteAt.Format(time.RFC3339))
	return nil
}

func (r *gormScheduleRepository) GetPending(ctx context.Context, id string) (*sessions.ScheduledInvalidation, error) {
	var model models.ScheduledInvalidationModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, string(sessions.StatusScheduled)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessions.ErrNotPending
		}
		return nil, fmt.Errorf("failed to fetch scheduled invalidation: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormScheduleRepository) ListPendingByUser(ctx context.Context, userID string, limit int) ([]*sessions.ScheduledInvalidation, error) {
	var modelList []*models.ScheduledInvalidationModel
	dbQuery := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(sessions.StatusScheduled)).
		Order("execute_at asc")
	if limit > 0 {
		dbQuery = dbQuery.Limit(limit)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending invalidations: %w", err)
	}

	result := make([]*sessions.ScheduledInvalidation, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}

func (r *gormScheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*sessions.ScheduledInvalidation, error) {
	var modelList []*models.ScheduledInvalidationModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND execute_at <= ?", string(sessions.StatusScheduled), now.UTC()).
		Order("execute_at asc").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due invalidations: %w", err)
	}

	result := make([]*sessions.ScheduledInvalidation, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, nil
}

func (r *gormScheduleRepository) Update(ctx context.Context, schedule *sessions.ScheduledInvalidation) error {
	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ScheduledInvalidationModel{}
	model.FromDomain(schedule)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update scheduled invalidation: %w", err)
	}

	r.logger.Info("Updated scheduled invalidation ", schedule.ID, " status ", schedule.Status)
	return nil
}
