package app

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// triggerHandler implements the TriggerHandler interface
type triggerHandler struct {
	manager      sessions.SessionManager
	scheduleRepo sessions.ScheduleRepository
	notifier     notifications.Service
	recorder     security.Recorder
	logger       logger.Logger
	now          func() time.Time
}

// NewTriggerHandler creates a new triggerHandler instance. notifier and recorder may be nil.
func NewTriggerHandler(
	manager sessions.SessionManager,
	scheduleRepo sessions.ScheduleRepository,
	notifier notifications.Service,
	recorder security.Recorder,
	logger logger.Logger,
) (sessions.TriggerHandler, error) {
	return &triggerHandler{
		manager:      manager,
		scheduleRepo: scheduleRepo,
		notifier:     notifier,
		recorder:     recorder,
		logger:       logger,
		now:          utcNow,
	}, nil
}

// TriggerInvalidation applies the rule of trigger to userID's active sessions.
// Graceful rules only schedule the invalidation; the sweeper or an explicit
// execute_now performs it later.
func (h *triggerHandler) TriggerInvalidation(ctx context.Context, userID string, trigger sessions.Trigger, triggeredBy string, opts sessions.TriggerOptions) (*sessions.InvalidateResult, error) {
	rule, err := sessions.RuleFor(trigger)
	if err != nil {
		return nil, err
	}

	active, err := h.manager.GetUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := h.now()
	selected := sessions.SelectByScope(active, rule.Scope, opts.CurrentSessionID, now)
	result := &sessions.InvalidateResult{Success: true, Method: sessions.MethodRuleBased}
	if len(selected) == 0 {
		return result, nil
	}
	sessionIDs := sessions.SessionIDs(selected)

	if rule.Graceful && opts.Graceful {
		schedule := sessions.NewScheduledInvalidation(uuid.NewString(), userID, sessionIDs, trigger, triggeredBy, now)
		if err := h.scheduleRepo.Create(ctx, schedule); err != nil {
			h.recordFailure(ctx, userID, trigger, triggeredBy, err)
			return nil, err
		}
		result.ScheduledCount = len(sessionIDs)
		result.ScheduleID = schedule.ID
		h.record(ctx, security.EventInvalidationScheduled, security.SeverityLow,
			fmt.Sprintf("Graceful invalidation of %d sessions scheduled for %s", len(sessionIDs), schedule.ExecuteAt.Format(time.RFC3339)),
			userID, map[string]interface{}{"trigger": string(trigger), "triggeredBy": triggeredBy, "scheduleId": schedule.ID})
	} else {
		metadata := map[string]interface{}{"trigger": string(trigger), "scope": string(rule.Scope)}
		maps.Copy(metadata, opts.Metadata)

		count, err := h.manager.InvalidateSessions(ctx, userID, sessionIDs, rule.Reason, triggeredBy, metadata)
		if err != nil {
			h.recordFailure(ctx, userID, trigger, triggeredBy, err)
			return nil, err
		}
		result.InvalidatedCount = count
		h.record(ctx, security.EventSessionsInvalidated, severityFor(rule), fmt.Sprintf("%d sessions invalidated by %s", count, trigger),
			userID, map[string]interface{}{"trigger": string(trigger), "triggeredBy": triggeredBy})
	}

	if rule.Notification && opts.Notify && h.notifier != nil {
		data := map[string]interface{}{
			"trigger":      string(trigger),
			"sessionCount": len(sessionIDs),
			"timestamp":    now.Format(time.RFC3339),
		}
		if result.ScheduleID != "" {
			data["scheduleId"] = result.ScheduleID
		}
		_, err := h.notifier.Notify(ctx, userID, notifications.TypeSessionInvalidation,
			sessions.NotificationTitle(trigger), sessions.NotificationMessage(trigger, len(sessionIDs)), data)
		if err != nil {
			h.logger.Warn("Failed to notify user ", userID, " about ", trigger, ": ", err)
		} else {
			result.NotificationsSent = 1
		}
	}

	return result, nil
}

// ProcessScheduledInvalidations executes every due graceful invalidation.
// A row whose invalidation fails is marked failed and never retried.
func (h *triggerHandler) ProcessScheduledInvalidations(ctx context.Context) (int, error) {
	due, err := h.scheduleRepo.ListDue(ctx, h.now())
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, schedule := range due {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		metadata := map[string]interface{}{"scheduleId": schedule.ID, "trigger": string(schedule.Trigger)}
		_, invalidateErr := h.manager.InvalidateSessions(ctx, schedule.UserID, schedule.SessionIDs,
			sessions.ReasonFor(schedule.Trigger), schedule.TriggeredBy, metadata)

		if invalidateErr != nil {
			h.logger.Error("Scheduled invalidation ", schedule.ID, " failed: ", invalidateErr)
			if err := schedule.MarkFailed(invalidateErr); err != nil {
				return processed, err
			}
			h.recordFailure(ctx, schedule.UserID, schedule.Trigger, schedule.TriggeredBy, invalidateErr)
		} else if err := schedule.MarkExecuted("Executed by scheduler", h.now()); err != nil {
			return processed, err
		}

		if err := h.scheduleRepo.Update(ctx, schedule); err != nil {
			return processed, err
		}
		if invalidateErr == nil {
			processed++
		}
	}

	if len(due) > 0 {
		h.logger.Info("Processed ", processed, " of ", len(due), " due graceful invalidations")
	}
	return processed, nil
}

func (h *triggerHandler) recordFailure(ctx context.Context, userID string, trigger sessions.Trigger, triggeredBy string, cause error) {
	h.record(ctx, security.EventInvalidationFailed, security.SeverityHigh, "Session invalidation failed: "+cause.Error(),
		userID, map[string]interface{}{"trigger": string(trigger), "triggeredBy": triggeredBy})
}

func (h *triggerHandler) record(ctx context.Context, eventType string, severity security.Severity, message, userID string, metadata map[string]interface{}) {
	if h.recorder == nil {
		return
	}
	err := h.recorder.Record(ctx, eventType, severity, message, security.WithUser(userID), security.WithMetadata(metadata))
	if err != nil {
		h.logger.Warn("Failed to record security event ", eventType, ": ", err)
	}
}

func severityFor(rule sessions.Rule) security.Severity {
	switch rule.Trigger {
	case sessions.TriggerSecurityBreach, sessions.TriggerTokenLeaked, sessions.TriggerDeviceCompromised:
		return security.SeverityCritical
	case sessions.TriggerSuspiciousActivity, sessions.TriggerAccountLocked:
		return security.SeverityHigh
	default:
		return security.SeverityMedium
	}
}
