package user

import "context"

// UserRepository reads the user list maintained by the portal.
type UserRepository interface {
	// List returns active users ordered by full name.
	List(ctx context.Context) ([]User, error)
	// ListByIDs returns the requested active users ordered by full name.
	ListByIDs(ctx context.Context, ids []string) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
}
