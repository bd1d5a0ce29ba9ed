package notifications

import "context"

// Repository persists notifications
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*Notification, error)
	// MarkRead flags a notification owned by userID as read, returning apperr.ErrNotFound otherwise.
	MarkRead(ctx context.Context, userID, id string) error
}

// Publisher pushes a notification to the user's realtime channel
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
	Close() error
}

// EmailSender delivers the email leg of a security notification
type EmailSender interface {
	Send(ctx context.Context, to string, n *Notification) error
}

// Service creates, delivers and lists notifications
type Service interface {
	// Notify stores the notification, publishes it and sends the email leg when the profile allows it.
	Notify(ctx context.Context, userID, kind, title, message string, data map[string]interface{}) (*Notification, error)
	List(ctx context.Context, userID string, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
}
