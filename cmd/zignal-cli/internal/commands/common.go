package commands

import (
	"fmt"
	"os"

	"github.com/zignal-platform/zignal-api/internal/app"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/notifier"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"

	"gorm.io/gorm"
)

const defaultConfigPath = "../../configs/rest-app.yaml"

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: "info",
		LogType:  "console",
		FilePath: "",
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

func loadConfig() (*config.RestConfig, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return cfg, nil
}

// runtime holds the services a maintenance command needs
type runtime struct {
	db            *gorm.DB
	publisher     notifications.Publisher
	manager       sessions.SessionManager
	triggers      sessions.TriggerHandler
	invalidations sessions.InvalidationService
	recorder      security.Recorder
}

func (r *runtime) close(log logger.Logger) {
	if err := r.publisher.Close(); err != nil {
		log.Warn("Failed to close notification publisher: ", err)
	}
	if err := persistence.CloseDB(r.db); err != nil {
		log.Warn("Failed to close database: ", err)
	}
}

// openRuntime connects to the configured database and builds the session services
func openRuntime(log logger.Logger) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	repos, err := persistence.NewRepositories(db, log)
	if err != nil {
		_ = persistence.CloseDB(db)
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	publisher, err := notifier.NewPublisher(&cfg.Notifier, log)
	if err != nil {
		_ = persistence.CloseDB(db)
		return nil, fmt.Errorf("failed to create notification publisher: %w", err)
	}

	rt := &runtime{db: db, publisher: publisher}
	if err := rt.buildServices(cfg, repos, log); err != nil {
		rt.close(log)
		return nil, err
	}
	return rt, nil
}

func (r *runtime) buildServices(cfg *config.RestConfig, repos *persistence.Repositories, log logger.Logger) error {
	recorder, err := app.NewSecurityEventService(repos.SecurityRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create security event service: %w", err)
	}

	notificationService, err := app.NewNotificationService(repos.NotificationRepo, r.publisher, notifier.NewLogEmailSender(log), repos.ProfileRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create notification service: %w", err)
	}

	manager, err := app.NewSessionManager(repos.SessionRepo, repos.EventRepo, &cfg.Session, log)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	triggers, err := app.NewTriggerHandler(manager, repos.ScheduleRepo, notificationService, recorder, log)
	if err != nil {
		return fmt.Errorf("failed to create trigger handler: %w", err)
	}

	invalidations, err := app.NewInvalidationService(manager, triggers, repos.EventRepo, repos.ScheduleRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create invalidation service: %w", err)
	}

	r.manager = manager
	r.triggers = triggers
	r.invalidations = invalidations
	r.recorder = recorder
	return nil
}
