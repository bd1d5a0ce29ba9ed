package app

import (
	"context"
	"fmt"
	"time"

	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// invalidationService implements the InvalidationService interface
type invalidationService struct {
	manager      sessions.SessionManager
	triggers     sessions.TriggerHandler
	eventRepo    sessions.EventRepository
	scheduleRepo sessions.ScheduleRepository
	logger       logger.Logger
	now          func() time.Time
}

// NewInvalidationService creates a new invalidationService instance
func NewInvalidationService(
	manager sessions.SessionManager,
	triggers sessions.TriggerHandler,
	eventRepo sessions.EventRepository,
	scheduleRepo sessions.ScheduleRepository,
	logger logger.Logger,
) (sessions.InvalidationService, error) {
	return &invalidationService{
		manager:      manager,
		triggers:     triggers,
		eventRepo:    eventRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
		now:          utcNow,
	}, nil
}

var errInsufficientPermissions = apperr.Forbidden("Insufficient permissions")

// Invalidate ends sessions directly by ID or through a trigger rule.
// Session IDs take precedence when both are given.
func (s *invalidationService) Invalidate(ctx context.Context, caller *auth.Principal, req *sessions.InvalidateRequest) (*sessions.InvalidateResult, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if len(req.SessionIDs) == 0 && req.Trigger == "" {
		return nil, apperr.Validation("Either sessionIds or trigger must be provided")
	}

	userID := req.TargetUserID
	if userID == "" {
		userID = caller.UserID
	}
	if !caller.CanActFor(userID) {
		return nil, errInsufficientPermissions
	}

	if len(req.SessionIDs) == 0 {
		result, err := s.triggers.TriggerInvalidation(ctx, userID, req.Trigger, caller.UserID, sessions.TriggerOptions{
			CurrentSessionID: req.CurrentSessionID,
			Graceful:         req.Graceful,
			Notify:           req.Notify,
			Metadata:         req.Metadata,
		})
		if err != nil {
			return nil, err
		}
		result.Method = sessions.MethodRuleBased
		return result, nil
	}

	reason, err := sessions.ParseReason(req.Reason)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		active, err := s.manager.GetUserSessions(ctx, userID)
		if err != nil {
			return nil, err
		}
		owned := make(map[string]struct{}, len(active))
		for _, session := range active {
			owned[session.SessionID] = struct{}{}
		}
		for _, id := range req.SessionIDs {
			if _, ok := owned[id]; !ok {
				return nil, apperr.Forbidden("Cannot invalidate sessions that do not belong to you")
			}
		}
	}

	count, err := s.manager.InvalidateSessions(ctx, userID, req.SessionIDs, reason, caller.UserID, req.Metadata)
	if err != nil {
		return nil, err
	}

	return &sessions.InvalidateResult{
		Success:          true,
		Method:           sessions.MethodDirect,
		InvalidatedCount: count,
	}, nil
}

func (s *invalidationService) Overview(ctx context.Context, caller *auth.Principal, userID string, includeHistory bool, limit int) (*sessions.Overview, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if userID == "" {
		userID = caller.UserID
	}
	if !caller.CanActFor(userID) {
		return nil, errInsufficientPermissions
	}

	pending, err := s.scheduleRepo.ListPendingByUser(ctx, userID, sessions.MaxPendingListed)
	if err != nil {
		return nil, err
	}
	overview := &sessions.Overview{UserID: userID, Pending: pending}

	if includeHistory {
		if limit <= 0 {
			limit = sessions.DefaultHistoryLimit
		}
		if limit > sessions.MaxHistoryLimit {
			limit = sessions.MaxHistoryLimit
		}
		overview.History, err = s.eventRepo.ListByUser(ctx, userID, limit)
		if err != nil {
			return nil, err
		}
	}
	return overview, nil
}

func (s *invalidationService) Modify(ctx context.Context, caller *auth.Principal, req *sessions.ModifyRequest) (*sessions.ModifyResult, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if req.InvalidationID == "" || req.Action == "" {
		return nil, apperr.Validation("Invalidation ID and action are required")
	}

	schedule, err := s.scheduleRepo.GetPending(ctx, req.InvalidationID)
	if err != nil {
		return nil, err
	}
	if !caller.CanActFor(schedule.UserID) {
		return nil, errInsufficientPermissions
	}

	action, err := sessions.ParseAction(string(req.Action))
	if err != nil {
		return nil, err
	}

	now := s.now()
	var message string
	switch action {
	case sessions.ActionCancel:
		if err := schedule.Cancel(caller.UserID, now); err != nil {
			return nil, err
		}
		message = "Invalidation cancelled successfully"

	case sessions.ActionDelay:
		if err := schedule.Delay(req.DelayMinutes, caller.UserID, now); err != nil {
			return nil, err
		}
		message = fmt.Sprintf("Invalidation delayed by %d minutes", req.DelayMinutes)

	case sessions.ActionExecuteNow:
		metadata := map[string]interface{}{"scheduleId": schedule.ID, "trigger": string(schedule.Trigger)}
		if _, err := s.manager.InvalidateSessions(ctx, schedule.UserID, schedule.SessionIDs, sessions.ReasonFor(schedule.Trigger), caller.UserID, metadata); err != nil {
			return nil, err
		}
		if err := schedule.MarkExecuted("Executed immediately by user request", now); err != nil {
			return nil, err
		}
		message = "Invalidation executed immediately"
	}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, err
	}

	s.logger.Info("Applied ", action, " to invalidation ", schedule.ID, " by ", caller.UserID)
	return &sessions.ModifyResult{
		Message:        message,
		InvalidationID: schedule.ID,
		Action:         action,
		Schedule:       schedule,
	}, nil
}

func (s *invalidationService) PurgeHistory(ctx context.Context, caller *auth.Principal, userID string, olderThanDays int) (*sessions.PurgeResult, error) {
	if caller == nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}
	if !caller.IsAdmin() {
		return nil, errInsufficientPermissions
	}
	if olderThanDays < 1 {
		return nil, apperr.Validation("older_than_days must be at least 1")
	}

	cutoff := s.now().Add(-time.Duration(olderThanDays) * 24 * time.Hour)
	deleted, err := s.eventRepo.DeleteOlderThan(ctx, cutoff, userID)
	if err != nil {
		return nil, err
	}

	return &sessions.PurgeResult{DeletedCount: deleted, CutoffDate: cutoff}, nil
}
