package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zignal-platform/zignal-api/internal/domain/packages"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// packageService implements the packages.Service interface
type packageService struct {
	repo   packages.Repository
	logger logger.Logger
	now    func() time.Time
}

// NewPackageService creates a new packageService instance
func NewPackageService(repo packages.Repository, logger logger.Logger) (packages.Service, error) {
	return &packageService{repo: repo, logger: logger, now: utcNow}, nil
}

func (s *packageService) List(ctx context.Context) ([]*packages.Summary, error) {
	return s.repo.ListWithSubscribers(ctx)
}

func (s *packageService) Create(ctx context.Context, input *packages.CreateInput) (*packages.Package, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return nil, apperr.Validation("Missing required fields: name, description, price, duration_days")
	}

	price, err := packages.ParsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	days, err := packages.ParseDurationDays(input.DurationDays)
	if err != nil {
		return nil, err
	}

	features := input.Features
	if features == nil {
		features = []string{}
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}

	now := s.now()
	p := &packages.Package{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		Price:        price,
		DurationDays: days,
		Features:     features,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
