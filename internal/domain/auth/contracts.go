package auth

import "context"

// TokenVerifier validates a session token and returns the principal it was issued to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}
