//go:build unit
// +build unit

package v1

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
)

var handlerNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestInvalidationHandler(service sessions.InvalidationService) *invalidationHandler {
	return &invalidationHandler{invalidationService: service, now: func() time.Time { return handlerNow }}
}

func TestInvalidationHandler_Invalidate_DefaultsGracefulAndNotify(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)

	service.On("Invalidate", mock.Anything, memberPrincipal, mock.MatchedBy(func(req *sessions.InvalidateRequest) bool {
		return req.Trigger == sessions.TriggerPasswordChange && req.Graceful && req.Notify && req.CurrentSessionID == "sess_current"
	})).Return(&sessions.InvalidateResult{Success: true, Method: sessions.MethodRuleBased, ScheduledCount: 2}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/auth/sessions/invalidate",
		map[string]interface{}{"trigger": "password_change", "currentSessionId": "sess_current"}, memberPrincipal)
	handler.Invalidate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	decodeBody(t, w, &body)
	assert.Equal(t, "rule-based", body["method"])
	assert.EqualValues(t, 2, body["scheduledCount"])
	assert.Equal(t, "2026-10-18T12:00:00Z", body["timestamp"])
	service.AssertExpectations(t)
}

func TestInvalidationHandler_Invalidate_ExplicitFlags(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)

	service.On("Invalidate", mock.Anything, memberPrincipal, mock.MatchedBy(func(req *sessions.InvalidateRequest) bool {
		return !req.Graceful && !req.Notify && len(req.SessionIDs) == 1
	})).Return(&sessions.InvalidateResult{Success: true, Method: sessions.MethodDirect, InvalidatedCount: 1}, nil)

	c, w := newTestContext(t, http.MethodPost, "/api/auth/sessions/invalidate",
		`{"sessionIds":["sess_a"],"graceful":false,"notify":false}`, memberPrincipal)
	handler.Invalidate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"invalidatedCount":1`)
}

func TestInvalidationHandler_Invalidate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperr.Validation("Either sessionIds or trigger must be provided"), http.StatusBadRequest, "Either sessionIds or trigger must be provided"},
		{"forbidden", apperr.Forbidden("Insufficient permissions"), http.StatusForbidden, "Insufficient permissions"},
		{"unauthorized", apperr.Unauthorized("Unauthorized"), http.StatusUnauthorized, "Unauthorized"},
		{"internal", assert.AnError, http.StatusInternalServerError, "Failed to invalidate sessions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockInvalidationService)
			handler := newTestInvalidationHandler(service)
			service.On("Invalidate", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := newTestContext(t, http.MethodPost, "/api/auth/sessions/invalidate", `{}`, memberPrincipal)
			handler.Invalidate(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			decodeBody(t, w, &body)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestInvalidationHandler_Invalidate_MalformedBody(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)

	c, w := newTestContext(t, http.MethodPost, "/api/auth/sessions/invalidate", `{"sessionIds":`, memberPrincipal)
	handler.Invalidate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvalidationHandler_Overview(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)

	pending := sessions.NewScheduledInvalidation("0b7d1c4e-1111-4a2b-9c3d-000000000001", "user_2", []string{"sess_x"}, sessions.TriggerAdminAction, "admin_1", handlerNow)
	event := &sessions.InvalidationEvent{ID: "e1", UserID: "user_2", Reason: sessions.ReasonAdminAction, AffectedSessions: []string{"sess_y"}, TriggeredBy: "admin_1", Timestamp: handlerNow}
	service.On("Overview", mock.Anything, adminPrincipal, "user_2", true, 20).
		Return(&sessions.Overview{UserID: "user_2", Pending: []*sessions.ScheduledInvalidation{pending}, History: []*sessions.InvalidationEvent{event}}, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/auth/sessions/invalidate?user_id=user_2&include_history=true&limit=20", nil, adminPrincipal)
	handler.Overview(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body InvalidationOverviewResponse
	decodeBody(t, w, &body)
	assert.Equal(t, "user_2", body.UserID)
	require.Len(t, body.PendingInvalidations, 1)
	assert.Equal(t, "scheduled", body.PendingInvalidations[0].Status)
	assert.Equal(t, handlerNow.Add(5*time.Minute), body.PendingInvalidations[0].ExecuteAt)
	require.Len(t, body.InvalidationHistory, 1)
	assert.Equal(t, "admin_action", body.InvalidationHistory[0].Reason)
}

func TestInvalidationHandler_Overview_WithoutHistory(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)
	service.On("Overview", mock.Anything, memberPrincipal, "", false, sessions.DefaultHistoryLimit).
		Return(&sessions.Overview{UserID: "user_1"}, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/auth/sessions/invalidate", nil, memberPrincipal)
	handler.Overview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pendingInvalidations":[]`)
	assert.NotContains(t, w.Body.String(), "invalidationHistory")
}

func TestInvalidationHandler_Overview_InvalidLimit(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)

	c, w := newTestContext(t, http.MethodGet, "/api/auth/sessions/invalidate?include_history=true&limit=abc", nil, memberPrincipal)
	handler.Overview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Overview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvalidationHandler_Modify(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)

	service.On("Modify", mock.Anything, memberPrincipal, &sessions.ModifyRequest{InvalidationID: "inv_1", Action: sessions.ActionDelay, DelayMinutes: 10}).
		Return(&sessions.ModifyResult{Message: "Invalidation delayed by 10 minutes", InvalidationID: "inv_1", Action: sessions.ActionDelay}, nil)

	c, w := newTestContext(t, http.MethodPut, "/api/auth/sessions/invalidate",
		map[string]interface{}{"invalidationId": "inv_1", "action": "delay", "delayMinutes": 10}, memberPrincipal)
	handler.Modify(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body ModifyInvalidationResponse
	decodeBody(t, w, &body)
	assert.Equal(t, "Invalidation delayed by 10 minutes", body.Message)
	assert.Equal(t, "delay", body.Action)
	assert.Equal(t, handlerNow, body.Timestamp)
}

func TestInvalidationHandler_Modify_NotPending(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)
	service.On("Modify", mock.Anything, mock.Anything, mock.Anything).Return(nil, sessions.ErrNotPending)

	c, w := newTestContext(t, http.MethodPut, "/api/auth/sessions/invalidate",
		map[string]interface{}{"invalidationId": "inv_1", "action": "cancel"}, memberPrincipal)
	handler.Modify(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Invalidation not found or already processed")
}

func TestInvalidationHandler_PurgeHistory(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantDays int
	}{
		{"default", "", sessions.DefaultPurgeDays},
		{"explicit", "?older_than_days=7&user_id=user_2", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockInvalidationService)
			handler := newTestInvalidationHandler(service)
			cutoff := handlerNow.AddDate(0, 0, -tt.wantDays)
			service.On("PurgeHistory", mock.Anything, adminPrincipal, mock.Anything, tt.wantDays).
				Return(&sessions.PurgeResult{DeletedCount: 4, CutoffDate: cutoff}, nil)

			c, w := newTestContext(t, http.MethodDelete, "/api/auth/sessions/invalidate"+tt.query, nil, adminPrincipal)
			handler.PurgeHistory(c)

			require.Equal(t, http.StatusOK, w.Code)
			var body PurgeHistoryResponse
			decodeBody(t, w, &body)
			assert.Equal(t, "Invalidation history cleared", body.Message)
			assert.EqualValues(t, 4, body.DeletedCount)
			assert.Equal(t, cutoff, body.CutoffDate)
			service.AssertExpectations(t)
		})
	}
}

func TestInvalidationHandler_PurgeHistory_InvalidDays(t *testing.T) {
	service := new(MockInvalidationService)
	handler := newTestInvalidationHandler(service)

	c, w := newTestContext(t, http.MethodDelete, "/api/auth/sessions/invalidate?older_than_days=soon", nil, adminPrincipal)
	handler.PurgeHistory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
