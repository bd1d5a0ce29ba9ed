package security

import (
	"context"
	"time"
)

// Repository persists security events
type Repository interface {
	Create(ctx context.Context, e *Event) error
	// List returns the page selected by f and the total number of matching events.
	List(ctx context.Context, f *Filter) ([]*Event, int64, error)
	Acknowledge(ctx context.Context, ids []string, by string, at time.Time) (int64, error)
	Resolve(ctx context.Context, ids []string, by string, at time.Time) (int64, error)
	Update(ctx context.Context, ids []string, u *Update) (int64, error)
	Delete(ctx context.Context, ids []string) (int64, error)
}

// Recorder writes security events on behalf of other components
type Recorder interface {
	Record(ctx context.Context, eventType string, severity Severity, message string, opts ...EventOption) error
}

// EventOption customises a recorded event
type EventOption func(*Event)

// WithUser attributes the event to a user
func WithUser(userID string) EventOption {
	return func(e *Event) { e.UserID = userID }
}

// WithRequest attaches the caller's network details
func WithRequest(ac AccessContext) EventOption {
	return func(e *Event) {
		if e.UserID == "" {
			e.UserID = ac.ActorID
		}
		e.IPAddress = ac.IPAddress
		e.UserAgent = ac.UserAgent
		e.Endpoint = ac.Endpoint
	}
}

// WithThreatScore sets the threat score and flags high scores for action
func WithThreatScore(score int) EventOption {
	return func(e *Event) {
		e.ThreatScore = score
		e.RequiresAction = score >= 70
	}
}

// WithMetadata attaches structured detail
func WithMetadata(md map[string]interface{}) EventOption {
	return func(e *Event) { e.Metadata = md }
}

// EventService is the admin security event API
type EventService interface {
	Recorder
	Query(ctx context.Context, ac AccessContext, f *Filter) (*Page, error)
	Bulk(ctx context.Context, ac AccessContext, action BulkAction, ids []string, u *Update) (int64, error)
	UpdateOne(ctx context.Context, ac AccessContext, id string, u *Update) error
	DeleteOne(ctx context.Context, ac AccessContext, id string) error
}

// Monitor scans log files for suspicious activity
type Monitor interface {
	Scan(ctx context.Context, paths []string) (*ScanReport, error)
}
