package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/domain/packages"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// Services bundles what the v1 routes depend on. Members may be nil when no
// identity provider is configured, in which case the member routes are not mounted.
type Services struct {
	Verifier       auth.TokenVerifier
	SessionManager sessions.SessionManager
	Invalidations  sessions.InvalidationService
	Notifications  notifications.Service
	Packages       packages.Service
	Members        members.Service
	SecurityEvents security.EventService
	Wallet         wallet.Service
	HealthCheck    HealthCheck
}

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine, services *Services, settings *config.AuthSettings, logger logger.Logger) {
	r.Use(ErrorLogger(logger))

	r.GET("/healthz", NewHealthHandler(services.HealthCheck).Health)

	v1 := r.Group(BasePath) // lookup in version file
	v1.Use(AuthMiddleware(services.Verifier, services.SessionManager, settings, logger))

	// Session Routes
	sessionHandler := NewSessionHandler(services.SessionManager)
	v1.GET("/auth/sessions", sessionHandler.List)
	v1.POST("/auth/sessions", sessionHandler.Register)

	invalidationHandler := NewInvalidationHandler(services.Invalidations)
	v1.POST("/auth/sessions/invalidate", invalidationHandler.Invalidate)
	v1.GET("/auth/sessions/invalidate", invalidationHandler.Overview)
	v1.PUT("/auth/sessions/invalidate", invalidationHandler.Modify)
	v1.DELETE("/auth/sessions/invalidate", invalidationHandler.PurgeHistory)

	// Member facing Routes
	notificationHandler := NewNotificationHandler(services.Notifications)
	v1.GET("/notifications", notificationHandler.List)
	v1.POST("/notifications/:id/read", notificationHandler.MarkRead)

	walletHandler := NewWalletHandler(services.Wallet)
	v1.POST("/deposits", walletHandler.RequestDeposit)
	v1.GET("/deposits", walletHandler.ListDeposits)
	v1.GET("/wallet/balance", walletHandler.Balances)

	// Admin Routes
	admin := v1.Group("/admin", RequireAdmin())

	packageHandler := NewPackageHandler(services.Packages)
	admin.GET("/packages", packageHandler.List)
	admin.POST("/packages", packageHandler.Create)

	if services.Members != nil {
		memberHandler := NewMemberHandler(services.Members)
		admin.GET("/members/:userId", memberHandler.Get)
		admin.PUT("/members/:userId", memberHandler.Update)
		admin.DELETE("/members/:userId", memberHandler.Delete)
	}

	securityEventHandler := NewSecurityEventHandler(services.SecurityEvents)
	admin.GET("/security/events", securityEventHandler.List)
	admin.POST("/security/events", securityEventHandler.Bulk)
	admin.PUT("/security/events", securityEventHandler.Update)
	admin.DELETE("/security/events", securityEventHandler.Delete)
}
