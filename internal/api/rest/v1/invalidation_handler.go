package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
)

// InvalidationHandler defines the interface for session invalidation endpoints
type InvalidationHandler interface {
	Invalidate(ctx *gin.Context)
	Overview(ctx *gin.Context)
	Modify(ctx *gin.Context)
	PurgeHistory(ctx *gin.Context)
}

type invalidationHandler struct {
	invalidationService sessions.InvalidationService
	now                 func() time.Time
}

// NewInvalidationHandler creates a new InvalidationHandler
func NewInvalidationHandler(invalidationService sessions.InvalidationService) InvalidationHandler {
	return &invalidationHandler{
		invalidationService: invalidationService,
		now:                 func() time.Time { return time.Now().UTC() },
	}
}

// Invalidate ends sessions by ID or through a trigger rule
// @Summary Invalidate sessions
// @Description Ends the given sessions, or applies the rule of a trigger to the target user's sessions.
// @Tags Invalidation
// @Accept json
// @Produce json
// @Param requestBody body InvalidateSessionsRequest true "Invalidation request"
// @Success 200 {object} InvalidateSessionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/sessions/invalidate [post]
func (handler *invalidationHandler) Invalidate(ctx *gin.Context) {
	var request InvalidateSessionsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, "Invalid request body", err)
		return
	}

	result, err := handler.invalidationService.Invalidate(ctx.Request.Context(), principalFrom(ctx), request.ToDomain())
	if err != nil {
		respondError(ctx, err, "Failed to invalidate sessions")
		return
	}

	ctx.JSON(http.StatusOK, InvalidateSessionsResponse{InvalidateResult: result, Timestamp: handler.now()})
}

// Overview lists pending graceful invalidations and, optionally, history
// @Summary Invalidation overview
// @Tags Invalidation
// @Produce json
// @Param user_id query string false "Target user, admins only for other users"
// @Param include_history query bool false "Include the invalidation history"
// @Param limit query int false "History size"
// @Success 200 {object} InvalidationOverviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/sessions/invalidate [get]
func (handler *invalidationHandler) Overview(ctx *gin.Context) {
	includeHistory := ctx.Query("include_history") == "true"

	limit := sessions.DefaultHistoryLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondBadRequest(ctx, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	overview, err := handler.invalidationService.Overview(ctx.Request.Context(), principalFrom(ctx), ctx.Query("user_id"), includeHistory, limit)
	if err != nil {
		respondError(ctx, err, "Failed to get invalidation status")
		return
	}

	ctx.JSON(http.StatusOK, newInvalidationOverviewResponse(overview, includeHistory, handler.now()))
}

// Modify cancels, delays or immediately executes a pending invalidation
// @Summary Modify a pending invalidation
// @Tags Invalidation
// @Accept json
// @Produce json
// @Param requestBody body ModifyInvalidationRequest true "Modification"
// @Success 200 {object} ModifyInvalidationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/sessions/invalidate [put]
func (handler *invalidationHandler) Modify(ctx *gin.Context) {
	var request ModifyInvalidationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, "Invalid request body", err)
		return
	}

	result, err := handler.invalidationService.Modify(ctx.Request.Context(), principalFrom(ctx), &sessions.ModifyRequest{
		InvalidationID: request.InvalidationID,
		Action:         sessions.Action(request.Action),
		DelayMinutes:   request.DelayMinutes,
	})
	if err != nil {
		respondError(ctx, err, "Failed to modify invalidation")
		return
	}

	ctx.JSON(http.StatusOK, ModifyInvalidationResponse{
		Message:        result.Message,
		InvalidationID: result.InvalidationID,
		Action:         string(result.Action),
		Timestamp:      handler.now(),
	})
}

// PurgeHistory deletes invalidation history older than a number of days
// @Summary Purge invalidation history
// @Tags Invalidation
// @Produce json
// @Param user_id query string false "Restrict the purge to one user"
// @Param older_than_days query int false "Age threshold in days (default 30)"
// @Success 200 {object} PurgeHistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/sessions/invalidate [delete]
func (handler *invalidationHandler) PurgeHistory(ctx *gin.Context) {
	days := sessions.DefaultPurgeDays
	if raw := ctx.Query("older_than_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(ctx, "older_than_days must be an integer", nil)
			return
		}
		days = parsed
	}

	result, err := handler.invalidationService.PurgeHistory(ctx.Request.Context(), principalFrom(ctx), ctx.Query("user_id"), days)
	if err != nil {
		respondError(ctx, err, "Failed to clear invalidation history")
		return
	}

	ctx.JSON(http.StatusOK, PurgeHistoryResponse{
		Message:      "Invalidation history cleared",
		DeletedCount: result.DeletedCount,
		CutoffDate:   result.CutoffDate,
	})
}
