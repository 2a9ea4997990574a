package ports

import (
	"context"

	"github.com/aishop/storefront/internal/core/domain"
)

// SessionService owns the client's authentication state. Operations that can
// fail return false and record a message in the session's Error field.
type SessionService interface {
	Initialize(ctx context.Context)
	Login(ctx context.Context, email, password string) bool
	Register(ctx context.Context, in domain.RegisterInput) bool
	Logout()
	ResetPassword(ctx context.Context, email string) bool
	UpdateProfile(ctx context.Context, in domain.ProfileInput) bool
	Snapshot() domain.Session
}

// AuthState is the read-only view of the session other components depend on.
type AuthState interface {
	IsAuthenticated() bool
}
