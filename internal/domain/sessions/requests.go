package sessions

import "time"

// Invalidation methods reported back to callers
const (
	MethodDirect    = "direct"
	MethodRuleBased = "rule-based"
)

// History limits
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
	MaxPendingListed    = 10
	DefaultPurgeDays    = 30
)

// InvalidateRequest asks for sessions to end, either by ID or through a trigger
type InvalidateRequest struct {
	SessionIDs       []string
	Trigger          Trigger
	Reason           string
	TargetUserID     string
	CurrentSessionID string
	Graceful         bool
	Notify           bool
	Metadata         map[string]interface{}
}

// InvalidateResult summarises an invalidation request
type InvalidateResult struct {
	Success           bool   `json:"success"`
	Method            string `json:"method"`
	InvalidatedCount  int    `json:"invalidatedCount"`
	ScheduledCount    int    `json:"scheduledCount,omitempty"`
	ScheduleID        string `json:"scheduleId,omitempty"`
	NotificationsSent int    `json:"notificationsSent,omitempty"`
}

// TriggerOptions tune a rule-based invalidation
type TriggerOptions struct {
	CurrentSessionID string
	Graceful         bool
	Notify           bool
	Metadata         map[string]interface{}
}

// Overview lists a user's pending graceful invalidations and, optionally, history
type Overview struct {
	UserID  string
	Pending []*ScheduledInvalidation
	History []*InvalidationEvent
}

// ModifyRequest changes a pending invalidation
type ModifyRequest struct {
	InvalidationID string
	Action         Action
	DelayMinutes   int
}

// ModifyResult reports the outcome of ModifyRequest
type ModifyResult struct {
	Message        string
	InvalidationID string
	Action         Action
	Schedule       *ScheduledInvalidation
}

// PurgeResult reports how much history was removed
type PurgeResult struct {
	DeletedCount int64
	CutoffDate   time.Time
}
