package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
)

// NotificationHandler defines the interface for the caller's in-app notifications
type NotificationHandler interface {
	List(ctx *gin.Context)
	MarkRead(ctx *gin.Context)
}

type notificationHandler struct {
	notificationService notifications.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService notifications.Service) NotificationHandler {
	return &notificationHandler{notificationService: notificationService}
}

// List returns the caller's most recent notifications
// @Summary List notifications
// @Tags Notification
// @Produce json
// @Param limit query int false "Maximum number of notifications"
// @Success 200 {array} notifications.Notification
// @Router /notifications [get]
func (handler *notificationHandler) List(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	items, err := handler.notificationService.List(ctx.Request.Context(), actorID(ctx), limit)
	if err != nil {
		respondError(ctx, err, "Failed to fetch notifications")
		return
	}
	ctx.JSON(http.StatusOK, nonNil(items))
}

// MarkRead flags one of the caller's notifications as read
// @Summary Mark a notification read
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /notifications/{id}/read [post]
func (handler *notificationHandler) MarkRead(ctx *gin.Context) {
	if err := handler.notificationService.MarkRead(ctx.Request.Context(), actorID(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err, "Failed to update notification")
		return
	}
	ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Notification marked as read"})
}
