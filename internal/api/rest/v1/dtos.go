package v1

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/domain/packages"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/domain/wallet"
)

// NumberOrString keeps the text of a JSON number or string so that form
// clients posting "49.99" and API clients posting 49.99 are treated alike.
type NumberOrString string

// UnmarshalJSON accepts a JSON number, a JSON string or null
func (n *NumberOrString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberOrString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number or a numeric string")
	}
	*n = NumberOrString(num.String())
	return nil
}

// SuccessResponse acknowledges a completed action
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// InvalidateSessionsRequest is the body of POST /auth/sessions/invalidate
type InvalidateSessionsRequest struct {
	SessionIDs       []string               `json:"sessionIds"`
	Trigger          string                 `json:"trigger"`
	Reason           string                 `json:"reason"`
	TargetUserID     string                 `json:"targetUserId"`
	CurrentSessionID string                 `json:"currentSessionId"`
	Graceful         *bool                  `json:"graceful"`
	Notify           *bool                  `json:"notify"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// ToDomain converts the request, defaulting graceful and notify to true
func (r *InvalidateSessionsRequest) ToDomain() *sessions.InvalidateRequest {
	return &sessions.InvalidateRequest{
		SessionIDs:       r.SessionIDs,
		Trigger:          sessions.Trigger(r.Trigger),
		Reason:           r.Reason,
		TargetUserID:     r.TargetUserID,
		CurrentSessionID: r.CurrentSessionID,
		Graceful:         boolOr(r.Graceful, true),
		Notify:           boolOr(r.Notify, true),
		Metadata:         r.Metadata,
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// InvalidateSessionsResponse reports the outcome of an invalidation
type InvalidateSessionsResponse struct {
	*sessions.InvalidateResult
	Timestamp time.Time `json:"timestamp"`
}

// ScheduledInvalidationResponse is one graceful_invalidation_schedule row
type ScheduledInvalidationResponse struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	SessionIDs         []string   `json:"session_ids"`
	Trigger            string     `json:"trigger"`
	TriggeredBy        string     `json:"triggered_by"`
	WarningTimeMinutes int        `json:"warning_time_minutes"`
	Message            string     `json:"message"`
	RedirectURL        string     `json:"redirect_url"`
	ScheduledAt        time.Time  `json:"scheduled_at"`
	ExecuteAt          time.Time  `json:"execute_at"`
	Status             string     `json:"status"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	DelayedAt          *time.Time `json:"delayed_at,omitempty"`
	DelayedBy          string     `json:"delayed_by,omitempty"`
	DelayReason        string     `json:"delay_reason,omitempty"`
	ExecutedAt         *time.Time `json:"executed_at,omitempty"`
	ExecutionNote      string     `json:"execution_note,omitempty"`
	ErrorMessage       string     `json:"error_message,omitempty"`
}

func newScheduledInvalidationResponse(s *sessions.ScheduledInvalidation) ScheduledInvalidationResponse {
	return ScheduledInvalidationResponse{
		ID:                 s.ID,
		UserID:             s.UserID,
		SessionIDs:         s.SessionIDs,
		Trigger:            string(s.Trigger),
		TriggeredBy:        s.TriggeredBy,
		WarningTimeMinutes: s.WarningTimeMinutes,
		Message:            s.Message,
		RedirectURL:        s.RedirectURL,
		ScheduledAt:        s.ScheduledAt,
		ExecuteAt:          s.ExecuteAt,
		Status:             string(s.Status),
		CancelledAt:        s.CancelledAt,
		CancelledBy:        s.CancelledBy,
		DelayedAt:          s.DelayedAt,
		DelayedBy:          s.DelayedBy,
		DelayReason:        s.DelayReason,
		ExecutedAt:         s.ExecutedAt,
		ExecutionNote:      s.ExecutionNote,
		ErrorMessage:       s.ErrorMessage,
	}
}

// InvalidationEventResponse is one session_invalidation_events row
type InvalidationEventResponse struct {
	ID               string                 `json:"id"`
	UserID           string                 `json:"user_id"`
	Reason           string                 `json:"reason"`
	AffectedSessions []string               `json:"affected_sessions"`
	TriggeredBy      string                 `json:"triggered_by"`
	Timestamp        time.Time              `json:"timestamp"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// InvalidationOverviewResponse is the body of GET /auth/sessions/invalidate
type InvalidationOverviewResponse struct {
	UserID               string                          `json:"userId"`
	Timestamp            time.Time                       `json:"timestamp"`
	PendingInvalidations []ScheduledInvalidationResponse `json:"pendingInvalidations"`
	InvalidationHistory  []InvalidationEventResponse     `json:"invalidationHistory,omitempty"`
}

func newInvalidationOverviewResponse(o *sessions.Overview, includeHistory bool, now time.Time) InvalidationOverviewResponse {
	resp := InvalidationOverviewResponse{
		UserID:               o.UserID,
		Timestamp:            now,
		PendingInvalidations: make([]ScheduledInvalidationResponse, 0, len(o.Pending)),
	}
	for _, p := range o.Pending {
		resp.PendingInvalidations = append(resp.PendingInvalidations, newScheduledInvalidationResponse(p))
	}
	if includeHistory {
		resp.InvalidationHistory = make([]InvalidationEventResponse, 0, len(o.History))
		for _, e := range o.History {
			resp.InvalidationHistory = append(resp.InvalidationHistory, InvalidationEventResponse{
				ID:               e.ID,
				UserID:           e.UserID,
				Reason:           string(e.Reason),
				AffectedSessions: e.AffectedSessions,
				TriggeredBy:      e.TriggeredBy,
				Timestamp:        e.Timestamp,
				Metadata:         e.Metadata,
			})
		}
	}
	return resp
}

// ModifyInvalidationRequest is the body of PUT /auth/sessions/invalidate
type ModifyInvalidationRequest struct {
	InvalidationID string `json:"invalidationId"`
	Action         string `json:"action"`
	DelayMinutes   int    `json:"delayMinutes"`
}

// ModifyInvalidationResponse reports the applied action
type ModifyInvalidationResponse struct {
	Message        string    `json:"message"`
	InvalidationID string    `json:"invalidationId"`
	Action         string    `json:"action"`
	Timestamp      time.Time `json:"timestamp"`
}

// PurgeHistoryResponse is the body of DELETE /auth/sessions/invalidate
type PurgeHistoryResponse struct {
	Message      string    `json:"message"`
	DeletedCount int64     `json:"deletedCount"`
	CutoffDate   time.Time `json:"cutoffDate"`
}

// SessionResponse is a tracked session as shown to its owner
type SessionResponse struct {
	SessionID      string    `json:"sessionId"`
	SessionVersion int       `json:"sessionVersion"`
	DeviceID       string    `json:"deviceId"`
	IPAddress      string    `json:"ipAddress,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivity   time.Time `json:"lastActivity"`
	ExpiresAt      time.Time `json:"expiresAt"`
	IsActive       bool      `json:"isActive"`
	Current        bool      `json:"current"`
}

func newSessionResponse(s *sessions.UserSession, currentSessionID string) SessionResponse {
	return SessionResponse{
		SessionID:      s.SessionID,
		SessionVersion: s.SessionVersion,
		DeviceID:       s.DeviceID,
		IPAddress:      s.IPAddress,
		UserAgent:      s.UserAgent,
		CreatedAt:      s.CreatedAt,
		LastActivity:   s.LastActivity,
		ExpiresAt:      s.ExpiresAt,
		IsActive:       s.IsActive,
		Current:        s.SessionID == currentSessionID,
	}
}

// SessionListResponse is the body of GET /auth/sessions
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

// CreatePackageRequest is the body of POST /admin/packages
type CreatePackageRequest struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        NumberOrString `json:"price"`
	DurationDays NumberOrString `json:"duration_days"`
	Features     []string       `json:"features"`
	Active       *bool          `json:"active"`
}

// ToDomain converts the request into the package service input
func (r *CreatePackageRequest) ToDomain() *packages.CreateInput {
	return &packages.CreateInput{
		Name:         r.Name,
		Description:  r.Description,
		Price:        string(r.Price),
		DurationDays: string(r.DurationDays),
		Features:     r.Features,
		Active:       r.Active,
	}
}

// PackageCreatedResponse wraps a newly created package
type PackageCreatedResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Package *packages.Package `json:"package"`
}

// UpdateMemberRequest is the body of PUT /admin/members/:userId
type UpdateMemberRequest struct {
	Action    string `json:"action" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

// ProfileResponse is the local profile row of a member
type ProfileResponse struct {
	UserID                     string    `json:"user_id"`
	Email                      string    `json:"email,omitempty"`
	FirstName                  string    `json:"first_name,omitempty"`
	IsAdmin                    bool      `json:"is_admin"`
	EmailSecurityNotifications bool      `json:"email_security_notifications"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// MemberDetailResponse is the body of GET /admin/members/:userId
type MemberDetailResponse struct {
	UserID        string                `json:"user_id"`
	Email         string                `json:"email"`
	FullName      string                `json:"full_name"`
	DisplayName   string                `json:"display_name"`
	AvatarURL     string                `json:"avatar_url,omitempty"`
	Role          string                `json:"role"`
	IsAdmin       bool                  `json:"is_admin"`
	Suspended     bool                  `json:"suspended"`
	CreatedAt     time.Time             `json:"created_at"`
	LastSignInAt  *time.Time            `json:"last_sign_in_at,omitempty"`
	EmailVerified bool                  `json:"email_verified"`
	Phone         string                `json:"phone,omitempty"`
	Banned        bool                  `json:"banned"`
	Locked        bool                  `json:"locked"`
	Trades        []*members.Trade      `json:"trades"`
	Transactions  []*wallet.Transaction `json:"transactions"`
	Signals       []*members.Signal     `json:"signals"`
	Profile       *ProfileResponse      `json:"profile"`
	Stats         members.Stats         `json:"stats"`
}

func newMemberDetailResponse(d *members.Detail) MemberDetailResponse {
	u := d.User
	resp := MemberDetailResponse{
		UserID:        u.ID,
		Email:         u.Email,
		FullName:      u.FullName(),
		DisplayName:   u.DisplayName(),
		AvatarURL:     u.ImageURL,
		Role:          u.Role(),
		IsAdmin:       u.IsAdmin(),
		Suspended:     u.IsSuspended(),
		CreatedAt:     u.CreatedAt,
		LastSignInAt:  u.LastSignInAt,
		EmailVerified: u.EmailVerified,
		Phone:         u.Phone,
		Banned:        u.Banned,
		Locked:        u.Locked,
		Trades:        nonNil(d.Trades),
		Transactions:  nonNil(d.Transactions),
		Signals:       nonNil(d.Signals),
		Stats:         d.Stats,
	}
	if p := d.Profile; p != nil {
		resp.Profile = &ProfileResponse{
			UserID:                     p.UserID,
			Email:                      p.Email,
			FirstName:                  p.FirstName,
			IsAdmin:                    p.IsAdmin,
			EmailSecurityNotifications: p.EmailSecurityNotifications,
			UpdatedAt:                  p.UpdatedAt,
		}
	}
	return resp
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// BulkSecurityEventsRequest is the body of POST /admin/security/events
type BulkSecurityEventsRequest struct {
	Action   string           `json:"action"`
	EventIDs []string         `json:"eventIds"`
	Updates  *security.Update `json:"updates"`
}

// BulkSecurityEventsResponse reports how many events a bulk action touched
type BulkSecurityEventsResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	AffectedEvents int64  `json:"affectedEvents"`
}

// UpdateSecurityEventRequest is the body of PUT /admin/security/events
type UpdateSecurityEventRequest struct {
	EventID string           `json:"eventId"`
	Updates *security.Update `json:"updates"`
}

// SecurityEventResponse acknowledges a single event change
type SecurityEventResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EventID string `json:"eventId"`
}

// SecurityEventsPageResponse is the body of GET /admin/security/events
type SecurityEventsPageResponse struct {
	Events     []*security.Event   `json:"events"`
	Pagination security.Pagination `json:"pagination"`
	Timestamp  time.Time           `json:"timestamp"`
}

// DepositRequest is the body of POST /deposits
type DepositRequest struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	ReferenceNumber string  `json:"reference_number"`
	PaymentMethod   string  `json:"payment_method"`
}

// ToDomain converts the request into the wallet deposit request
func (r *DepositRequest) ToDomain() *wallet.DepositRequest {
	return &wallet.DepositRequest{
		Amount:          r.Amount,
		Currency:        r.Currency,
		ReferenceNumber: r.ReferenceNumber,
		PaymentMethod:   r.PaymentMethod,
	}
}

// DataResponse wraps member facing payloads the way the dashboard expects them
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}
