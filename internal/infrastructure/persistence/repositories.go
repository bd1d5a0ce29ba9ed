package persistence

import (
	"fmt"

	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/domain/packages"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
	"gorm.io/gorm"
)

// Repositories groups every gorm repository sharing one connection
type Repositories struct {
	SessionRepo      sessions.SessionRepository
	EventRepo        sessions.EventRepository
	ScheduleRepo     sessions.ScheduleRepository
	NotificationRepo notifications.Repository
	ProfileRepo      members.ProfileRepository
	TradeRepo        members.TradeRepository
	SignalRepo       members.SignalRepository
	PackageRepo      packages.Repository
	TransactionRepo  wallet.TransactionRepository
	SecurityRepo     security.Repository
}

// NewRepositories creates all repositories on db
func NewRepositories(db *gorm.DB, logger logger.Logger) (*Repositories, error) {
	repos := &Repositories{}
	var err error

	if repos.SessionRepo, err = NewGormSessionRepository(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create session repository: %w", err)
	}
	if repos.EventRepo, err = NewGormEventRepository(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create invalidation event repository: %w", err)
	}
	if repos.ScheduleRepo, err = NewGormScheduleRepository(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create invalidation schedule repository: %w", err)
	}
	if repos.NotificationRepo, err = NewGormNotificationRepository(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create notification repository: %w", err)
	}
	if repos.ProfileRepo, err = NewGormProfileRepository(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create profile repository: %w", err)
	}
	if repos.TradeRepo, err = NewGormTradeRepository(db); err != nil {
		return nil, fmt.Errorf("failed to create trade repository: %w", err)
	}
	if repos.SignalRepo, err = NewGormSignalRepository(db); err != nil {
		return nil, fmt.Errorf("failed to create signal repository: %w", err)
	}
	if repos.PackageRepo, err = NewGormPackageRepository(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create package repository: %w", err)
	}
	if repos.TransactionRepo, err = NewGormTransactionRepository(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create transaction repository: %w", err)
	}
	if repos.SecurityRepo, err = NewGormSecurityEventRepository(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create security event repository: %w", err)
	}

	return repos, nil
}
