package ports

import (
	"context"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

// UserRepository defines the persistence interface for users.
type UserRepository interface {
	// Insert stores a new user. Returns domain.ErrUserExists when the
	// username is already taken (case-sensitive exact match).
	Insert(ctx context.Context, user *domain.User) error
	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateRole overwrites the user's role.
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	// CountByRole returns the number of users holding the given role.
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)
}
