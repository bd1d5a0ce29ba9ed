package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/config"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

const principalContextKey = "principal"

// AuthMiddleware verifies the bearer or cookie session token and stores the
// resulting principal on the gin and request contexts. When session
// validation is enabled, tokens whose tracked session has been invalidated
// are rejected. Sessions the tracker has never seen are let through so that
// clients can register them.
func AuthMiddleware(verifier auth.TokenVerifier, manager sessions.SessionManager, settings *config.AuthSettings, logger logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFromRequest(ctx, settings.CookieName)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return
		}

		principal, err := verifier.Verify(ctx.Request.Context(), token)
		if err != nil {
			logger.Debug("Rejected session token: ", err)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return
		}

		if manager != nil && principal.SessionID != "" {
			if settings.ValidateSessions {
				if _, err := manager.ValidateSession(ctx.Request.Context(), principal.SessionID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
					if errors.Is(err, apperr.ErrUnauthorized) {
						ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: apperr.Message(err)})
						return
					}
					logger.Warn("Session validation failed for ", principal.SessionID, ": ", err)
				}
			}
			if err := manager.TouchSession(ctx.Request.Context(), principal.SessionID, ctx.ClientIP()); err != nil && !errors.Is(err, apperr.ErrNotFound) {
				logger.Warn("Failed to record session activity for ", principal.SessionID, ": ", err)
			}
		}

		ctx.Set(principalContextKey, principal)
		ctx.Request = ctx.Request.WithContext(auth.WithPrincipal(ctx.Request.Context(), principal))
		ctx.Next()
	}
}

// ErrorLogger logs the errors handlers attached to failed requests
func ErrorLogger(logger logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if ctx.Writer.Status() < http.StatusInternalServerError {
			return
		}
		for _, e := range ctx.Errors {
			logger.Error(ctx.Request.Method, " ", ctx.Request.URL.Path, " failed: ", e.Err)
		}
	}
}

// RequireAdmin rejects principals without the admin permission
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !principalFrom(ctx).IsAdmin() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}
		ctx.Next()
	}
}

func tokenFromRequest(ctx *gin.Context, cookieName string) string {
	if header := ctx.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookieName == "" {
		cookieName = config.DefaultSessionCookieName
	}
	if cookie, err := ctx.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// principalFrom returns the authenticated principal, or nil outside AuthMiddleware
func principalFrom(ctx *gin.Context) *auth.Principal {
	if v, ok := ctx.Get(principalContextKey); ok {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}

func actorID(ctx *gin.Context) string {
	if p := principalFrom(ctx); p != nil {
		return p.UserID
	}
	return ""
}

// accessContext describes the current admin request for the security audit trail
func accessContext(ctx *gin.Context) security.AccessContext {
	return security.AccessContext{
		ActorID:   actorID(ctx),
		IPAddress: ctx.ClientIP(),
		UserAgent: ctx.Request.UserAgent(),
		Endpoint:  ctx.FullPath(),
	}
}
