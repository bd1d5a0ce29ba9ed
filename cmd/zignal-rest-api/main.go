// cmd/zignal-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/zignal-platform/zignal-api/internal/api/rest/v1"
	"github.com/zignal-platform/zignal-api/internal/app"
	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/identity"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/notifier"
	"github.com/zignal-platform/zignal-api/internal/infrastructure/persistence"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../../configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db        *gorm.DB
	publisher notifications.Publisher
	services  *v1.Services
	sweeper   *app.Sweeper
}

func (d *appDependencies) close(log logger.Logger) {
	if err := d.publisher.Close(); err != nil {
		log.Warn("Failed to close notification publisher: ", err)
	}
	if err := persistence.CloseDB(d.db); err != nil {
		log.Warn("Failed to close database: ", err)
	}
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if cfg.Database.AutoMigrate {
		if err := persistence.Migrate(db); err != nil {
			return nil, err
		}
		log.Info("Database migrations completed successfully")
	}

	// Initialize repositories
	repos, err := persistence.NewRepositories(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize delivery and identity infrastructure
	publisher, err := notifier.NewPublisher(&cfg.Notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification publisher: %w", err)
	}

	verifier, err := identity.NewJWTVerifier(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	identityProvider, err := identity.NewIdentityProvider(&cfg.Identity, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity provider: %w", err)
	}

	// Initialize services
	services, triggers, manager, err := initializeApplicationServices(cfg, repos, publisher, identityProvider, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	services.Verifier = verifier
	services.HealthCheck = func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	var sweeper *app.Sweeper
	if cfg.Scheduler.Enabled {
		sweeper = app.NewSweeper(triggers, manager, time.Duration(cfg.Scheduler.IntervalSeconds)*time.Second, log)
	}

	return &appDependencies{
		db:        db,
		publisher: publisher,
		services:  services,
		sweeper:   sweeper,
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(corsConfig(&cfg.CORS)))

	// Setup API routes
	v1.SetupRoutes(r, deps.services, &cfg.Auth, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Background jobs stop with this context
	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	sweeperDone := make(chan struct{})
	if deps.sweeper != nil {
		go func() {
			defer close(sweeperDone)
			deps.sweeper.Run(jobsCtx)
		}()
	} else {
		close(sweeperDone)
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		stopJobs()
		<-sweeperDone
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	stopJobs()
	<-sweeperDone

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// corsConfig allows the configured origins with credentials so the session
// cookie is sent. The wildcard origin disables credentials.
func corsConfig(settings *config.CORSSettings) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if settings.AllowsAnyOrigin() {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = settings.AllowedOrigins
	}
	return c
}

// initializeApplicationServices creates all application services
func initializeApplicationServices(
	cfg *config.RestConfig,
	repos *persistence.Repositories,
	publisher notifications.Publisher,
	identityProvider members.IdentityProvider,
	log logger.Logger,
) (*v1.Services, sessions.TriggerHandler, sessions.SessionManager, error) {
	securityService, err := app.NewSecurityEventService(repos.SecurityRepo, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create security event service: %w", err)
	}

	notificationService, err := app.NewNotificationService(repos.NotificationRepo, publisher, notifier.NewLogEmailSender(log), repos.ProfileRepo, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create notification service: %w", err)
	}

	sessionManager, err := app.NewSessionManager(repos.SessionRepo, repos.EventRepo, &cfg.Session, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	triggerHandler, err := app.NewTriggerHandler(sessionManager, repos.ScheduleRepo, notificationService, securityService, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create trigger handler: %w", err)
	}

	invalidationService, err := app.NewInvalidationService(sessionManager, triggerHandler, repos.EventRepo, repos.ScheduleRepo, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create invalidation service: %w", err)
	}

	packageService, err := app.NewPackageService(repos.PackageRepo, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create package service: %w", err)
	}

	walletService, err := app.NewWalletService(repos.TransactionRepo, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create wallet service: %w", err)
	}

	services := &v1.Services{
		SessionManager: sessionManager,
		Invalidations:  invalidationService,
		Notifications:  notificationService,
		Packages:       packageService,
		SecurityEvents: securityService,
		Wallet:         walletService,
	}

	if identityProvider != nil {
		services.Members, err = app.NewMemberService(
			identityProvider, repos.ProfileRepo, repos.TradeRepo, repos.SignalRepo, repos.TransactionRepo,
			triggerHandler, securityService, log,
		)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create member service: %w", err)
		}
	} else {
		log.Warn("No identity provider configured, member administration is disabled")
	}

	log.Info("Application services initialized successfully")
	return services, triggerHandler, sessionManager, nil
}
