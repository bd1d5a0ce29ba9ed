package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// securityEventService implements the security.EventService interface
type securityEventService struct {
	repo   security.Repository
	logger logger.Logger
	now    func() time.Time
}

// NewSecurityEventService creates a new securityEventService instance
func NewSecurityEventService(repo security.Repository, logger logger.Logger) (security.EventService, error) {
	return &securityEventService{repo: repo, logger: logger, now: utcNow}, nil
}

// Record stores a security event; threat scores of 70 and above are flagged for action
func (s *securityEventService) Record(ctx context.Context, eventType string, severity security.Severity, message string, opts ...security.EventOption) error {
	e := &security.Event{
		ID:        uuid.NewString(),
		EventType: eventType,
		Severity:  severity,
		Message:   message,
		Timestamp: s.now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return s.repo.Create(ctx, e)
}

// Query returns one page of events and audits the access
func (s *securityEventService) Query(ctx context.Context, ac security.AccessContext, f *security.Filter) (*security.Page, error) {
	if err := f.Normalize(); err != nil {
		return nil, err
	}

	events, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, ac, security.EventAdminDataAccess, security.SeverityLow, "Security events queried", map[string]interface{}{
		"limit":    f.Limit,
		"offset":   f.Offset,
		"returned": len(events),
	})
	return security.NewPage(events, total, f), nil
}

// Bulk applies action to every event in ids and returns how many were affected
func (s *securityEventService) Bulk(ctx context.Context, ac security.AccessContext, action security.BulkAction, ids []string, u *security.Update) (int64, error) {
	if len(ids) == 0 {
		return 0, apperr.Validation("Event IDs are required")
	}

	var affected int64
	var err error
	now := s.now()
	switch action {
	case security.BulkAcknowledge:
		affected, err = s.repo.Acknowledge(ctx, ids, ac.ActorID, now)
	case security.BulkResolve:
		affected, err = s.repo.Resolve(ctx, ids, ac.ActorID, now)
	case security.BulkUpdate:
		if u == nil {
			return 0, apperr.Validation("updates are required")
		}
		affected, err = s.repo.Update(ctx, ids, u)
	case security.BulkDelete:
		affected, err = s.repo.Delete(ctx, ids)
	default:
		return 0, apperr.Validation("Invalid action")
	}
	if err != nil {
		return 0, err
	}

	s.audit(ctx, ac, security.EventAdminSystemModification, security.SeverityMedium,
		fmt.Sprintf("Bulk %s applied to %d security events", action, affected),
		map[string]interface{}{"action": string(action), "requested": len(ids), "affected": affected})
	return affected, nil
}

func (s *securityEventService) UpdateOne(ctx context.Context, ac security.AccessContext, id string, u *security.Update) error {
	if id == "" {
		return security.ErrEventIDRequired
	}
	if u == nil {
		return apperr.Validation("updates are required")
	}

	affected, err := s.repo.Update(ctx, []string{id}, u)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("Security event not found")
	}

	s.audit(ctx, ac, security.EventAdminSystemModification, security.SeverityMedium, "Security event updated",
		map[string]interface{}{"eventId": id})
	return nil
}

func (s *securityEventService) DeleteOne(ctx context.Context, ac security.AccessContext, id string) error {
	if id == "" {
		return security.ErrEventIDRequired
	}

	affected, err := s.repo.Delete(ctx, []string{id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("Security event not found")
	}

	s.audit(ctx, ac, security.EventAdminSystemModification, security.SeverityMedium, "Security event deleted",
		map[string]interface{}{"eventId": id})
	return nil
}

func (s *securityEventService) audit(ctx context.Context, ac security.AccessContext, eventType string, severity security.Severity, message string, metadata map[string]interface{}) {
	err := s.Record(ctx, eventType, severity, message, security.WithRequest(ac), security.WithMetadata(metadata))
	if err != nil {
		s.logger.Warn("Failed to audit admin access: ", err)
	}
}
