package members

import "context"

// IdentityProvider is the external user directory
type IdentityProvider interface {
	// GetUser returns ErrUserNotFound when the user does not exist.
	GetUser(ctx context.Context, userID string) (*IdentityUser, error)
	UpdateUser(ctx context.Context, userID string, update UserUpdate) (*IdentityUser, error)
	// MergePublicMetadata merges patch into the user's public metadata.
	MergePublicMetadata(ctx context.Context, userID string, patch map[string]interface{}) (*IdentityUser, error)
	DeleteUser(ctx context.Context, userID string) error
}

// ProfileRepository persists user_profiles rows
type ProfileRepository interface {
	// GetByUserID returns nil without error when the profile does not exist.
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
}

// TradeRepository reads member trades
type TradeRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*Trade, error)
}

// SignalRepository reads signals delivered to a member
type SignalRepository interface {
	ListByUser(ctx context.Context, userID string) ([]*Signal, error)
}

// Service is the admin member API
type Service interface {
	Get(ctx context.Context, userID string) (*Detail, error)
	Update(ctx context.Context, actorID, userID string, req *UpdateRequest) (string, error)
	Delete(ctx context.Context, actorID, userID string) error
}
