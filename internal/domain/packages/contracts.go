package packages

import "context"

// Repository persists packages and reads subscription counts
type Repository interface {
	Create(ctx context.Context, p *Package) error
	// ListWithSubscribers returns every package, newest first, with its active subscriber count.
	ListWithSubscribers(ctx context.Context) ([]*Summary, error)
}

// Service is the admin package API
type Service interface {
	List(ctx context.Context) ([]*Summary, error)
	Create(ctx context.Context, input *CreateInput) (*Package, error)
}
