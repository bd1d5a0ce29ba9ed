package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
)

// SecurityEventHandler defines the interface for the security event console
type SecurityEventHandler interface {
	List(ctx *gin.Context)
	Bulk(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type securityEventHandler struct {
	eventService security.EventService
	now          func() time.Time
}

// NewSecurityEventHandler creates a new SecurityEventHandler
func NewSecurityEventHandler(eventService security.EventService) SecurityEventHandler {
	return &securityEventHandler{
		eventService: eventService,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// List queries security events
// @Summary Query security events
// @Description Filters security events by type, severity, user, IP, time range, threat score and flags, with pagination and sorting.
// @Tags SecurityEvent
// @Produce json
// @Param eventTypes query string false "Comma separated event types"
// @Param severities query string false "Comma separated severities"
// @Param userIds query string false "Comma separated user IDs"
// @Param ipAddresses query string false "Comma separated IP addresses"
// @Param startTime query string false "Start time (RFC3339)"
// @Param endTime query string false "End time (RFC3339)"
// @Param threatScoreMin query int false "Minimum threat score"
// @Param threatScoreMax query int false "Maximum threat score"
// @Param requiresAction query bool false "Only events requiring action"
// @Param processed query bool false "Processed flag"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Param sortBy query string false "timestamp, severity or threat_score"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} SecurityEventsPageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/security/events [get]
func (handler *securityEventHandler) List(ctx *gin.Context) {
	filter, err := parseSecurityFilter(ctx)
	if err != nil {
		respondBadRequest(ctx, err.Error(), nil)
		return
	}

	page, err := handler.eventService.Query(ctx.Request.Context(), accessContext(ctx), filter)
	if err != nil {
		respondError(ctx, err, "Failed to fetch security events")
		return
	}

	ctx.JSON(http.StatusOK, SecurityEventsPageResponse{
		Events:     nonNil(page.Events),
		Pagination: page.Pagination,
		Timestamp:  handler.now(),
	})
}

// Bulk acknowledges, resolves, updates or deletes several events
// @Summary Bulk action on security events
// @Tags SecurityEvent
// @Accept json
// @Produce json
// @Param requestBody body BulkSecurityEventsRequest true "Bulk action"
// @Success 200 {object} BulkSecurityEventsResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/security/events [post]
func (handler *securityEventHandler) Bulk(ctx *gin.Context) {
	var request BulkSecurityEventsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, "Invalid request body", err)
		return
	}

	action, err := security.ParseBulkAction(request.Action)
	if err != nil {
		respondError(ctx, err, "Failed to process bulk action")
		return
	}
	if action == security.BulkUpdate && request.Updates != nil {
		if err := request.Updates.Validate(); err != nil {
			respondError(ctx, err, "Failed to process bulk action")
			return
		}
	}

	affected, err := handler.eventService.Bulk(ctx.Request.Context(), accessContext(ctx), action, request.EventIDs, request.Updates)
	if err != nil {
		respondError(ctx, err, "Failed to process bulk action")
		return
	}

	ctx.JSON(http.StatusOK, BulkSecurityEventsResponse{
		Success:        true,
		Message:        fmt.Sprintf("%s completed successfully", action),
		AffectedEvents: affected,
	})
}

// Update changes a single event
// @Summary Update a security event
// @Tags SecurityEvent
// @Accept json
// @Produce json
// @Param requestBody body UpdateSecurityEventRequest true "Update"
// @Success 200 {object} SecurityEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/security/events [put]
func (handler *securityEventHandler) Update(ctx *gin.Context) {
	var request UpdateSecurityEventRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, "Invalid request body", err)
		return
	}
	if request.EventID == "" {
		respondError(ctx, security.ErrEventIDRequired, "Failed to update security event")
		return
	}
	if err := request.Updates.Validate(); err != nil {
		respondError(ctx, err, "Failed to update security event")
		return
	}

	if err := handler.eventService.UpdateOne(ctx.Request.Context(), accessContext(ctx), request.EventID, request.Updates); err != nil {
		respondError(ctx, err, "Failed to update security event")
		return
	}

	ctx.JSON(http.StatusOK, SecurityEventResponse{Success: true, Message: "Event updated successfully", EventID: request.EventID})
}

// Delete removes a single event
// @Summary Delete a security event
// @Tags SecurityEvent
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} SecurityEventResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/security/events [delete]
func (handler *securityEventHandler) Delete(ctx *gin.Context) {
	eventID := ctx.Query("eventId")
	if err := handler.eventService.DeleteOne(ctx.Request.Context(), accessContext(ctx), eventID); err != nil {
		respondError(ctx, err, "Failed to delete security event")
		return
	}

	ctx.JSON(http.StatusOK, SecurityEventResponse{Success: true, Message: "Event deleted successfully", EventID: eventID})
}

func parseSecurityFilter(ctx *gin.Context) (*security.Filter, error) {
	filter := &security.Filter{
		EventTypes:  splitList(ctx.Query("eventTypes")),
		UserIDs:     splitList(ctx.Query("userIds")),
		IPAddresses: splitList(ctx.Query("ipAddresses")),
		SortBy:      ctx.Query("sortBy"),
		SortOrder:   ctx.Query("sortOrder"),
	}
	for _, s := range splitList(ctx.Query("severities")) {
		filter.Severities = append(filter.Severities, security.Severity(s))
	}

	var err error
	if filter.StartTime, err = optionalTime(ctx, "startTime"); err != nil {
		return nil, err
	}
	if filter.EndTime, err = optionalTime(ctx, "endTime"); err != nil {
		return nil, err
	}
	if filter.ThreatScoreMin, err = optionalInt(ctx, "threatScoreMin"); err != nil {
		return nil, err
	}
	if filter.ThreatScoreMax, err = optionalInt(ctx, "threatScoreMax"); err != nil {
		return nil, err
	}
	if filter.RequiresAction, err = optionalBool(ctx, "requiresAction"); err != nil {
		return nil, err
	}
	if filter.Processed, err = optionalBool(ctx, "processed"); err != nil {
		return nil, err
	}

	if limit, err := optionalInt(ctx, "limit"); err != nil {
		return nil, err
	} else if limit != nil {
		if *limit < 1 {
			return nil, fmt.Errorf("limit must be a positive integer")
		}
		filter.Limit = *limit
	}
	if offset, err := optionalInt(ctx, "offset"); err != nil {
		return nil, err
	} else if offset != nil {
		filter.Offset = *offset
	}

	return filter, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func optionalTime(ctx *gin.Context, key string) (*time.Time, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC3339 timestamp", key)
	}
	return &t, nil
}

func optionalInt(ctx *gin.Context, key string) (*int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}

func optionalBool(ctx *gin.Context, key string) (*bool, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &v, nil
}
