package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zignal-platform/zignal-api/internal/domain/members"
	"github.com/zignal-platform/zignal-api/internal/domain/notifications"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// notificationService implements the notifications.Service interface
type notificationService struct {
	repo        notifications.Repository
	publisher   notifications.Publisher
	email       notifications.EmailSender
	profileRepo members.ProfileRepository
	logger      logger.Logger
	now         func() time.Time
}

// NewNotificationService creates a new notificationService instance
func NewNotificationService(
	repo notifications.Repository,
	publisher notifications.Publisher,
	email notifications.EmailSender,
	profileRepo members.ProfileRepository,
	logger logger.Logger,
) (notifications.Service, error) {
	return &notificationService{
		repo:        repo,
		publisher:   publisher,
		email:       email,
		profileRepo: profileRepo,
		logger:      logger,
		now:         utcNow,
	}, nil
}

// Notify stores the notification first; realtime and email delivery are best effort.
func (s *notificationService) Notify(ctx context.Context, userID, kind, title, message string, data map[string]interface{}) (*notifications.Notification, error) {
	n := &notifications.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, n); err != nil {
		s.logger.Warn("Realtime delivery of notification ", n.ID, " failed: ", err)
	}

	if kind == notifications.TypeSessionInvalidation || kind == notifications.TypeSecurityAlert {
		s.sendEmail(ctx, n)
	}
	return n, nil
}

func (s *notificationService) sendEmail(ctx context.Context, n *notifications.Notification) {
	profile, err := s.profileRepo.GetByUserID(ctx, n.UserID)
	if err != nil {
		s.logger.Warn("Failed to load profile of user ", n.UserID, ": ", err)
		return
	}
	if profile == nil || profile.Email == "" || !profile.EmailSecurityNotifications {
		return
	}
	if err := s.email.Send(ctx, profile.Email, n); err != nil {
		s.logger.Warn("Failed to email notification ", n.ID, ": ", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]*notifications.Notification, error) {
	if limit <= 0 || limit > notifications.DefaultListLimit {
		limit = notifications.DefaultListLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id)
}
