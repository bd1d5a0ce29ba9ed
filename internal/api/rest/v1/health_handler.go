package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// HealthHandler serves the liveness probe
type HealthHandler interface {
	Health(ctx *gin.Context)
}

type healthHandler struct {
	check HealthCheck
}

// NewHealthHandler creates a new HealthHandler. check may be nil.
func NewHealthHandler(check HealthCheck) HealthHandler {
	return &healthHandler{check: check}
}

// Health returns 200 when the service and its database are reachable
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} ErrorResponse
// @Router /healthz [get]
func (handler *healthHandler) Health(ctx *gin.Context) {
	if handler.check != nil {
		if err := handler.check(ctx.Request.Context()); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "unhealthy", Details: err.Error()})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
