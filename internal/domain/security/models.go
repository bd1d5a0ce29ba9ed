package security

import (
	"time"

	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/validators"
)

// Severity of a security event
type Severity string

// Severities, lowest first
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities so that they can be sorted numerically
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether s is a known severity
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Event types written by this service
const (
	EventAdminDataAccess         = "admin_data_access"
	EventAdminSystemModification = "admin_system_modification"
	EventSecurityAlertTriggered  = "security_alert_triggered"
	EventPolicyViolation         = "security_policy_violation"
	EventBruteForceDetected      = "threat_brute_force_detected"
	EventSessionsInvalidated     = "sessions_invalidated"
	EventInvalidationScheduled   = "graceful_invalidation_scheduled"
	EventInvalidationFailed      = "invalidation_failed"
)

// Event entity
type Event struct {
	ID             string                 `json:"id" validate:"required,uuid4"`
	EventType      string                 `json:"event_type" validate:"required,max=100"`
	Severity       Severity               `json:"severity" validate:"required,oneof=low medium high critical"`
	UserID         string                 `json:"user_id,omitempty"`
	IPAddress      string                 `json:"ip_address,omitempty" validate:"omitempty,ip"`
	UserAgent      string                 `json:"user_agent,omitempty"`
	Endpoint       string                 `json:"endpoint,omitempty"`
	Message        string                 `json:"message" validate:"required"`
	ThreatScore    int                    `json:"threat_score" validate:"gte=0,lte=100"`
	RequiresAction bool                   `json:"requires_action"`
	Processed      bool                   `json:"processed"`
	AcknowledgedAt *time.Time             `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string                 `json:"acknowledged_by,omitempty"`
	ResolvedAt     *time.Time             `json:"resolved_at,omitempty"`
	ResolvedBy     string                 `json:"resolved_by,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Validate for validating Event struct
func (e *Event) Validate() error {
	return validators.Struct(e)
}

// Query limits
const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// Sort keys
const (
	SortByTimestamp   = "timestamp"
	SortBySeverity    = "severity"
	SortByThreatScore = "threat_score"
)

// Filter selects security events for the admin console
type Filter struct {
	EventTypes     []string
	Severities     []Severity
	UserIDs        []string
	IPAddresses    []string
	StartTime      *time.Time
	EndTime        *time.Time
	ThreatScoreMin *int
	ThreatScoreMax *int
	RequiresAction *bool
	Processed      *bool
	Limit          int
	Offset         int
	SortBy         string
	SortOrder      string
}

// Normalize applies defaults and validates the filter
func (f *Filter) Normalize() error {
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit < 0 {
		return apperr.Validation("Limit must be positive")
	}
	if f.Limit > MaxLimit {
		return apperr.Validation("Limit cannot exceed %d events", MaxLimit)
	}
	if f.Offset < 0 {
		return apperr.Validation("Offset must not be negative")
	}

	switch f.SortBy {
	case "":
		f.SortBy = SortByTimestamp
	case "threatScore":
		f.SortBy = SortByThreatScore
	case SortByTimestamp, SortBySeverity, SortByThreatScore:
	default:
		return apperr.Validation("Invalid sortBy: %s", f.SortBy)
	}

	switch f.SortOrder {
	case "":
		f.SortOrder = "desc"
	case "asc", "desc":
	default:
		return apperr.Validation("Invalid sortOrder: %s", f.SortOrder)
	}

	for _, s := range f.Severities {
		if !s.Valid() {
			return apperr.Validation("Invalid severity: %s", s)
		}
	}
	if f.StartTime != nil && f.EndTime != nil && f.EndTime.Before(*f.StartTime) {
		return apperr.Validation("endTime must not be before startTime")
	}
	return nil
}

// Pagination describes where a page sits in the full result
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// Page is one page of security events
type Page struct {
	Events     []*Event
	Pagination Pagination
}

// NewPage builds a page for the given filter
func NewPage(events []*Event, total int64, f *Filter) *Page {
	return &Page{
		Events: events,
		Pagination: Pagination{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: total > int64(f.Offset+f.Limit),
		},
	}
}

// Update is a partial change to one or more events
type Update struct {
	Severity       *Severity              `json:"severity,omitempty"`
	ThreatScore    *int                   `json:"threat_score,omitempty"`
	RequiresAction *bool                  `json:"requires_action,omitempty"`
	Processed      *bool                  `json:"processed,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Validate rejects empty updates and out of range values
func (u *Update) Validate() error {
	if u == nil || (u.Severity == nil && u.ThreatScore == nil && u.RequiresAction == nil && u.Processed == nil && u.Metadata == nil) {
		return apperr.Validation("updates are required")
	}
	if u.Severity != nil && !u.Severity.Valid() {
		return apperr.Validation("Invalid severity: %s", *u.Severity)
	}
	if u.ThreatScore != nil && (*u.ThreatScore < 0 || *u.ThreatScore > 100) {
		return apperr.Validation("threat_score must be between 0 and 100")
	}
	return nil
}

// BulkAction names an admin operation on several events
type BulkAction string

// Bulk actions
const (
	BulkAcknowledge BulkAction = "acknowledge"
	BulkResolve     BulkAction = "resolve"
	BulkUpdate      BulkAction = "update"
	BulkDelete      BulkAction = "delete"
)

// ParseBulkAction validates a raw bulk action name
func ParseBulkAction(raw string) (BulkAction, error) {
	switch a := BulkAction(raw); a {
	case BulkAcknowledge, BulkResolve, BulkUpdate, BulkDelete:
		return a, nil
	default:
		return "", apperr.Validation("Invalid action")
	}
}

// AccessContext describes the admin request that is itself being audited
type AccessContext struct {
	ActorID   string
	IPAddress string
	UserAgent string
	Endpoint  string
}

// ErrEventIDRequired is returned when a single-event operation has no ID
var ErrEventIDRequired = &apperr.Error{Kind: apperr.ErrValidation, Message: "Event ID is required"}
