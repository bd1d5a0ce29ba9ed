package notifications

import (
	"time"

	"github.com/zignal-platform/zignal-api/internal/pkg/validators"
)

// Notification types
const (
	TypeSessionInvalidation = "session_invalidation"
	TypeSecurityAlert       = "security_alert"
	TypeAccount             = "account"
)

// DefaultListLimit caps how many notifications are returned per request
const DefaultListLimit = 50

// Notification entity
type Notification struct {
	ID        string                 `json:"id" validate:"required,uuid4"`
	UserID    string                 `json:"user_id" validate:"required"`
	Type      string                 `json:"type" validate:"required,max=50"`
	Title     string                 `json:"title" validate:"required,max=255"`
	Message   string                 `json:"message" validate:"required"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

// Validate for validating Notification struct
func (n *Notification) Validate() error {
	return validators.Struct(n)
}
