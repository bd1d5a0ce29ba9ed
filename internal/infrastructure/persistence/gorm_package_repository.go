package persistence

import (
	"context"
	"fmt"

	"github.com/zignal-platform/zignal-api/internal/domain/packages"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence/models"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
	"gorm.io/gorm"
)

type gormPackageRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormPackageRepository creates a new GORM-based packages.Repository implementation
func NewGormPackageRepository(db *gorm.DB, logger logger.Logger) (packages.Repository, error) {
	return &gormPackageRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormPackageRepository) Create(ctx context.Context, p *packages.Package) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.PackageModel{}
	model.FromDomain(p)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return wrapWriteError("create package", err)
	}

	r.logger.Info("Created package with id ", p.ID)
	return nil
}

type subscriberCount struct {
	PackageID string
	Count     int64
}

func (r *gormPackageRepository) ListWithSubscribers(ctx context.Context) ([]*packages.Summary, error) {
	var modelList []*models.PackageModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch packages: %w", err)
	}

	var counts []subscriberCount
	err := r.db.WithContext(ctx).
		Model(&models.UserPackageModel{}).
		Select("package_id, COUNT(*) AS count").
		Where("status = ?", packages.SubscriptionActive).
		Group("package_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	byPackage := make(map[string]int64, len(counts))
	for _, c := range counts {
		byPackage[c.PackageID] = c.Count
	}

	result := make([]*packages.Summary, len(modelList))
	for i, model := range modelList {
		result[i] = &packages.Summary{
			Package:         *model.ToDomain(),
			SubscriberCount: byPackage[model.ID],
		}
	}
	return result, nil
}
