package auth

import (
	"context"
	"slices"
)

// PermissionAdmin grants cross-user operations and the admin API surface.
const PermissionAdmin = "admin"

// PermissionUser is assigned to every authenticated member.
const PermissionUser = "user"

// Principal is the verified identity behind a request
type Principal struct {
	UserID      string
	SessionID   string
	Permissions []string
}

// IsAdmin reports whether the principal carries the admin permission
func (p *Principal) IsAdmin() bool {
	return p != nil && slices.Contains(p.Permissions, PermissionAdmin)
}

// Owns reports whether userID refers to the principal itself
func (p *Principal) Owns(userID string) bool {
	return p != nil && (userID == "" || userID == p.UserID)
}

// CanActFor reports whether the principal may operate on userID's data
func (p *Principal) CanActFor(userID string) bool {
	return p.Owns(userID) || p.IsAdmin()
}

type principalKey struct{}

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal, if any
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
