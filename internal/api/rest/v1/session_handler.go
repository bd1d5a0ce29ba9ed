package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
)

// SessionHandler defines the interface for the caller's own tracked sessions
type SessionHandler interface {
	List(ctx *gin.Context)
	Register(ctx *gin.Context)
}

type sessionHandler struct {
	manager sessions.SessionManager
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(manager sessions.SessionManager) SessionHandler {
	return &sessionHandler{manager: manager}
}

// List returns the caller's active sessions
// @Summary List active sessions
// @Description Lists the caller's active sessions, most recently used first.
// @Tags Session
// @Produce json
// @Success 200 {object} SessionListResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/sessions [get]
func (handler *sessionHandler) List(ctx *gin.Context) {
	principal := principalFrom(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	active, err := handler.manager.GetUserSessions(ctx.Request.Context(), principal.UserID)
	if err != nil {
		respondError(ctx, err, "Failed to list sessions")
		return
	}

	resp := SessionListResponse{Sessions: make([]SessionResponse, 0, len(active)), Total: len(active)}
	for _, s := range active {
		resp.Sessions = append(resp.Sessions, newSessionResponse(s, principal.SessionID))
	}
	ctx.JSON(http.StatusOK, resp)
}

// Register starts tracking the session the caller's token belongs to
// @Summary Register the current session
// @Description Tracks the token's session, ending the oldest sessions when the concurrent limit is reached.
// @Tags Session
// @Produce json
// @Success 201 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/sessions [post]
func (handler *sessionHandler) Register(ctx *gin.Context) {
	principal := principalFrom(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	device := sessions.DeviceInfo{
		UserAgent:      ctx.Request.UserAgent(),
		AcceptLanguage: ctx.GetHeader("Accept-Language"),
		AcceptEncoding: ctx.GetHeader("Accept-Encoding"),
		IPAddress:      ctx.ClientIP(),
	}

	session, err := handler.manager.CreateSession(ctx.Request.Context(), principal.UserID, principal.SessionID, device, principal.Permissions)
	if err != nil {
		respondError(ctx, err, "Failed to register session")
		return
	}

	ctx.JSON(http.StatusCreated, newSessionResponse(session, principal.SessionID))
}
