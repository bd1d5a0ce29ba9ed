package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence/models"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
	"gorm.io/gorm"
)

var securitySortColumns = map[string]string{
	security.SortByTimestamp:   "timestamp",
	security.SortBySeverity:    "severity_rank",
	security.SortByThreatScore: "threat_score",
}

type gormSecurityEventRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormSecurityEventRepository creates a new GORM-based security.Repository implementation
func NewGormSecurityEventRepository(db *gorm.DB, logger logger.Logger) (security.Repository, error) {
	return &gormSecurityEventRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormSecurityEventRepository) Create(ctx context.Context, e *security.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.SecurityEventModel{}
	model.FromDomain(e)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapWriteError("create security event", err)
	}

	r.logger.Debug("Recorded security event ", e.EventType, " with id ", e.ID)
	return nil
}

func (r *gormSecurityEventRepository) List(ctx context.Context, f *security.Filter) ([]*security.Event, int64, error) {
	if err := f.Normalize(); err != nil {
		return nil, 0, fmt.Errorf("invalid query parameters: %w", err)
	}

	dbQuery := r.db.WithContext(ctx).Model(&models.SecurityEventModel{})

	if len(f.EventTypes) > 0 {
		dbQuery = dbQuery.Where("event_type IN ?", f.EventTypes)
	}
	if len(f.Severities) > 0 {
		severities := make([]string, len(f.Severities))
		for i, s := range f.Severities {
			severities[i] = string(s)
		}
		dbQuery = dbQuery.Where("severity IN ?", severities)
	}
	if len(f.UserIDs) > 0 {
		dbQuery = dbQuery.Where("user_id IN ?", f.UserIDs)
	}
	if len(f.IPAddresses) > 0 {
		dbQuery = dbQuery.Where("ip_address IN ?", f.IPAddresses)
	}
	if f.StartTime != nil {
		dbQuery = dbQuery.Where("timestamp >= ?", f.StartTime.UTC())
	}
	if f.EndTime != nil {
		dbQuery = dbQuery.Where("timestamp <= ?", f.EndTime.UTC())
	}
	if f.ThreatScoreMin != nil {
		dbQuery = dbQuery.Where("threat_score >= ?", *f.ThreatScoreMin)
	}
	if f.ThreatScoreMax != nil {
		dbQuery = dbQuery.Where("threat_score <= ?", *f.ThreatScoreMax)
	}
	if f.RequiresAction != nil {
		dbQuery = dbQuery.Where("requires_action = ?", *f.RequiresAction)
	}
	if f.Processed != nil {
		dbQuery = dbQuery.Where("processed = ?", *f.Processed)
	}

	var total int64
	if err := dbQuery.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count security events: %w", err)
	}

	var modelList []*models.SecurityEventModel
	err := dbQuery.Session(&gorm.Session{}).
		Order(fmt.Sprintf("%s %s", securitySortColumns[f.SortBy], f.SortOrder)).
		Order("id").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&modelList).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch security events: %w", err)
	}

	result := make([]*security.Event, len(modelList))
	for i, model := range modelList {
		result[i] = model.ToDomain()
	}
	return result, total, nil
}

func (r *gormSecurityEventRepository) Acknowledge(ctx context.Context, ids []string, by string, at time.Time) (int64, error) {
	return r.updateByIDs(ctx, "acknowledge", ids, map[string]interface{}{
		"acknowledged_at": at.UTC(),
		"acknowledged_by": by,
	})
}

func (r *gormSecurityEventRepository) Resolve(ctx context.Context, ids []string, by string, at time.Time) (int64, error) {
	return r.updateByIDs(ctx, "resolve", ids, map[string]interface{}{
		"resolved_at":     at.UTC(),
		"resolved_by":     by,
		"processed":       true,
		"requires_action": false,
	})
}

func (r *gormSecurityEventRepository) Update(ctx context.Context, ids []string, u *security.Update) (int64, error) {
	if err := u.Validate(); err != nil {
		return 0, fmt.Errorf("validation error: %w", err)
	}

	updates := map[string]interface{}{}
	if u.Severity != nil {
		updates["severity"] = string(*u.Severity)
		updates["severity_rank"] = u.Severity.Rank()
	}
	if u.ThreatScore != nil {
		updates["threat_score"] = *u.ThreatScore
	}
	if u.RequiresAction != nil {
		updates["requires_action"] = *u.RequiresAction
	}
	if u.Processed != nil {
		updates["processed"] = *u.Processed
	}
	if u.Metadata != nil {
		raw, err := json.Marshal(u.Metadata)
		if err != nil {
			return 0, fmt.Errorf("failed to encode metadata: %w", err)
		}
		updates["metadata"] = string(raw)
	}
	if len(updates) == 0 {
		return 0, nil
	}

	return r.updateByIDs(ctx, "update", ids, updates)
}

func (r *gormSecurityEventRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.SecurityEventModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete security events: %w", result.Error)
	}

	r.logger.Info("Deleted ", result.RowsAffected, " security events")
	return result.RowsAffected, nil
}

func (r *gormSecurityEventRepository) updateByIDs(ctx context.Context, op string, ids []string, updates map[string]interface{}) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.SecurityEventModel{}).
		Where("id IN ?", ids).
		Updates(updates)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to %s security events: %w", op, result.Error)
	}

	r.logger.Info("Applied ", op, " to ", result.RowsAffected, " security events")
	return result.RowsAffected, nil
}
