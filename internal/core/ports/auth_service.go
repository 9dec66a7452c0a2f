package ports

import (
	"context"

	"github.com/peoplehub/hr-records/internal/core/domain"
)

// AuthResult bundles a freshly issued token with the user it identifies.
type AuthResult struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

type AuthService interface {
	// HasAdmin reports whether any user holds the admin role.
	HasAdmin(ctx context.Context) (bool, error)
	// BootstrapAdmin creates the first admin account. Succeeds exactly once
	// globally; every later call fails with domain.ErrAdminExists.
	BootstrapAdmin(ctx context.Context, username, password string) (*AuthResult, error)
	// Register creates a staff account. The role is never settable by the
	// caller.
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	// Login issues a token carrying the user's current stored role. Tokens
	// issued earlier keep their role until expiry.
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	// Promote overwrites the user's role to manager, unconditionally.
	Promote(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]domain.PublicUser, error)
}
